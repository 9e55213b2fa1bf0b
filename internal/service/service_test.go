package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"voterroll/internal/domain"
	"voterroll/internal/repository/memory"
)

const rollHeader = "Voter ID Number,Last Name,First Name,Street Number,Street Name,Apartment Number,Zip Code,Date of Birth,Date of Registration,Party Affiliation,Precinct Number,v20state,v21town,v21primary,v22general,v23town,voter_score\n"

func newVoter(id, last, party string, birthYear, score int, state2020 bool) domain.Voter {
	return domain.Voter{
		ID:                 id,
		FirstName:          "Pat",
		LastName:           last,
		Address:            domain.Address{StreetNumber: "1", StreetName: "Main St", ZipCode: "02459"},
		DateOfBirth:        time.Date(birthYear, time.June, 1, 0, 0, 0, 0, time.UTC),
		DateOfRegistration: time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC),
		Party:              party,
		Precinct:           "1",
		Voted:              domain.Participation{State2020: state2020},
		Score:              score,
	}
}

func newTestService(t *testing.T, voters ...domain.Voter) (*VoterService, *EventBus) {
	t.Helper()
	repo := memory.New()
	if err := repo.ReplaceAll(context.Background(), voters); err != nil {
		t.Fatalf("seed repository: %v", err)
	}
	bus := NewEventBus()
	return NewVoterService(repo, bus), bus
}

func scenario() []domain.Voter {
	return []domain.Voter{
		newVoter("1", "Adams", "D", 1980, 3, true),
		newVoter("2", "Baker", "R", 1990, 1, false),
		newVoter("3", "Clark", "", 1980, 3, true),
	}
}

func TestVoterServiceAnalyze(t *testing.T) {
	svc, _ := newTestService(t, scenario()...)
	ctx := context.Background()

	t.Run("unfiltered", func(t *testing.T) {
		analysis, err := svc.Analyze(ctx, domain.FilterSpec{})
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		if analysis.Total != 3 {
			t.Errorf("expected total 3, got %d", analysis.Total)
		}
		if want := map[int]int{1980: 2, 1990: 1}; !reflect.DeepEqual(analysis.Result.BirthYears, want) {
			t.Errorf("expected birth years %v, got %v", want, analysis.Result.BirthYears)
		}
		if want := map[string]int{"D": 1, "R": 1, domain.PartyNone: 1}; !reflect.DeepEqual(analysis.Result.Parties, want) {
			t.Errorf("expected parties %v, got %v", want, analysis.Result.Parties)
		}
		if got := analysis.Result.Participation[domain.ElectionState2020]; got != 2 {
			t.Errorf("expected 2 state 2020 voters, got %d", got)
		}
		if analysis.Charts.Party == nil || analysis.Charts.BirthYear == nil || analysis.Charts.Participation == nil {
			t.Error("expected all three charts")
		}
	})

	t.Run("filtered by score", func(t *testing.T) {
		analysis, err := svc.Analyze(ctx, domain.FilterSpec{Score: domain.Some(3)})
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		if analysis.Total != 2 {
			t.Errorf("expected total 2, got %d", analysis.Total)
		}
		if _, ok := analysis.Result.Parties["R"]; ok {
			t.Errorf("expected no R voters, got %v", analysis.Result.Parties)
		}
	})

	t.Run("empty roll", func(t *testing.T) {
		empty, _ := newTestService(t)
		analysis, err := empty.Analyze(ctx, domain.FilterSpec{})
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		if analysis.Total != 0 || len(analysis.Result.Parties) != 0 {
			t.Errorf("expected empty analysis, got %+v", analysis)
		}
		if !analysis.Charts.Party.NoData {
			t.Error("expected party chart to have no data")
		}
	})
}

func TestVoterServiceFilterVoters(t *testing.T) {
	svc, _ := newTestService(t, scenario()...)

	voters, err := svc.FilterVoters(context.Background(), domain.FilterSpec{Party: domain.Some("d")})
	if err != nil {
		t.Fatalf("FilterVoters: %v", err)
	}
	if len(voters) != 1 || voters[0].ID != "1" {
		t.Errorf("expected voter 1, got %v", voters)
	}
}

func TestVoterServiceGetVoter(t *testing.T) {
	svc, _ := newTestService(t, scenario()...)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		v, err := svc.GetVoter(ctx, "2")
		if err != nil {
			t.Fatalf("GetVoter: %v", err)
		}
		if v.LastName != "Baker" {
			t.Errorf("expected Baker, got %s", v.LastName)
		}
	})

	t.Run("missing", func(t *testing.T) {
		_, err := svc.GetVoter(ctx, "nope")
		if !errors.Is(err, domain.ErrVoterNotFound) {
			t.Errorf("expected ErrVoterNotFound, got %v", err)
		}
	})
}

func TestVoterServiceListPage(t *testing.T) {
	svc, _ := newTestService(t, scenario()...)

	page, err := svc.ListPage(context.Background(), domain.FilterSpec{}, 2, 2)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if page.TotalItems != 3 || page.TotalPages != 2 {
		t.Errorf("expected 3 items over 2 pages, got %d over %d", page.TotalItems, page.TotalPages)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "3" {
		t.Errorf("expected Clark on page 2, got %v", page.Items)
	}
}

func TestVoterServicePartyChoices(t *testing.T) {
	svc, _ := newTestService(t, scenario()...)

	parties, err := svc.PartyChoices(context.Background())
	if err != nil {
		t.Fatalf("PartyChoices: %v", err)
	}
	if want := []string{"D", "R"}; !reflect.DeepEqual(parties, want) {
		t.Errorf("expected %v, got %v", want, parties)
	}
}

func writeRoll(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roll.csv")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write roll: %v", err)
	}
	return path
}

func TestVoterServiceReload(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces roll and publishes event", func(t *testing.T) {
		svc, bus := newTestService(t, scenario()...)
		events := make(chan Event, 1)
		bus.Subscribe(events)

		path := writeRoll(t, rollHeader+
			"9,Young,Kim,7,Pine St,,02461,1975-02-02,2000-05-05,U,3,1,1,1,1,1,5\n"+
			"bad,row\n")

		report, err := svc.Reload(ctx, path)
		if err != nil {
			t.Fatalf("Reload: %v", err)
		}
		if report.Created != 1 || report.SkippedCount() != 1 {
			t.Errorf("expected 1 created and 1 skipped, got %d and %d", report.Created, report.SkippedCount())
		}

		n, err := svc.Count(ctx)
		if err != nil {
			t.Fatalf("Count: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 voter after reload, got %d", n)
		}

		select {
		case ev := <-events:
			if ev.Type != EventVotersReloaded {
				t.Errorf("expected %s, got %s", EventVotersReloaded, ev.Type)
			}
		default:
			t.Error("expected a reload event")
		}
	})

	t.Run("missing file keeps roll", func(t *testing.T) {
		svc, bus := newTestService(t, scenario()...)
		events := make(chan Event, 1)
		bus.Subscribe(events)

		if _, err := svc.Reload(ctx, filepath.Join(t.TempDir(), "missing.csv")); err == nil {
			t.Fatal("expected error for missing file")
		}
		if n, _ := svc.Count(ctx); n != 3 {
			t.Errorf("expected roll untouched, got %d voters", n)
		}
		select {
		case ev := <-events:
			if ev.Type != EventReloadFailed {
				t.Errorf("expected %s, got %s", EventReloadFailed, ev.Type)
			}
		default:
			t.Error("expected a failure event")
		}
	})

	t.Run("concurrent reload is rejected", func(t *testing.T) {
		svc, _ := newTestService(t)
		svc.reloadMu.Lock()
		defer svc.reloadMu.Unlock()

		if _, err := svc.Reload(ctx, "ignored.csv"); !errors.Is(err, ErrReloadInProgress) {
			t.Errorf("expected ErrReloadInProgress, got %v", err)
		}
	})
}

func TestEventBusDropsForSlowSubscriber(t *testing.T) {
	bus := NewEventBus()
	ch := make(chan Event)
	bus.Subscribe(ch)

	done := make(chan struct{})
	go func() {
		bus.Publish(Event{Type: EventVotersReloaded})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on an unbuffered subscriber")
	}
}
