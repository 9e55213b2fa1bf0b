package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"voterroll/internal/domain"
	"voterroll/internal/ingest"
	"voterroll/internal/metrics"
	"voterroll/internal/present"
	"voterroll/internal/repository"
)

// ErrReloadInProgress is returned when a reload is requested while another runs
var ErrReloadInProgress = errors.New("reload already in progress")

// Analysis is a filtered roll with its aggregations
type Analysis struct {
	Total  int                      `json:"total"`
	Result domain.AggregationResult `json:"result"`
	Charts present.Charts           `json:"charts"`
}

// VoterService provides business logic for voter queries
type VoterService struct {
	repo     repository.Repository
	eventBus *EventBus
	opts     ingest.Options

	reloadMu sync.Mutex
}

// NewVoterService creates a new voter service
func NewVoterService(repo repository.Repository, eventBus *EventBus) *VoterService {
	return &VoterService{
		repo:     repo,
		eventBus: eventBus,
		opts:     ingest.DefaultOptions(),
	}
}

// SetIngestOptions overrides how reloads parse the roll file
func (s *VoterService) SetIngestOptions(opts ingest.Options) {
	s.opts = opts
}

// FilterVoters returns the voters matching filter in default order
func (s *VoterService) FilterVoters(ctx context.Context, filter domain.FilterSpec) ([]domain.Voter, error) {
	defer observe("filter", time.Now())
	return s.repo.Query(ctx, filter)
}

// Aggregate computes the frequency tables for voters
func (s *VoterService) Aggregate(voters []domain.Voter) domain.AggregationResult {
	defer observe("aggregate", time.Now())
	return domain.Aggregate(voters)
}

// Analyze filters the roll and aggregates the result
func (s *VoterService) Analyze(ctx context.Context, filter domain.FilterSpec) (*Analysis, error) {
	voters, err := s.FilterVoters(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := s.Aggregate(voters)
	return &Analysis{
		Total:  len(voters),
		Result: result,
		Charts: present.BuildCharts(result),
	}, nil
}

// ListPage returns one page of the filtered roll
func (s *VoterService) ListPage(ctx context.Context, filter domain.FilterSpec, number, size int) (present.Page, error) {
	voters, err := s.FilterVoters(ctx, filter)
	if err != nil {
		return present.Page{}, err
	}
	return present.Paginate(voters, number, size), nil
}

// GetVoter retrieves a single voter by ID
func (s *VoterService) GetVoter(ctx context.Context, id string) (*domain.Voter, error) {
	v, err := s.repo.GetVoter(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("voter %s: %w", id, domain.ErrVoterNotFound)
	}
	return v, nil
}

// PartyChoices returns the distinct party codes present in the roll
func (s *VoterService) PartyChoices(ctx context.Context) ([]string, error) {
	return s.repo.Parties(ctx)
}

// Count returns the size of the roll
func (s *VoterService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Reload replaces the roll with the contents of the file at path
func (s *VoterService) Reload(ctx context.Context, path string) (*ingest.Report, error) {
	if !s.reloadMu.TryLock() {
		return nil, ErrReloadInProgress
	}
	defer s.reloadMu.Unlock()

	report, err := ingest.LoadFile(ctx, path, s.repo, s.opts)
	if err != nil {
		metrics.Reloads.WithLabelValues("error").Inc()
		s.publish(Event{
			Type:    EventReloadFailed,
			Payload: map[string]string{"source": path, "error": err.Error()},
		})
		return report, err
	}

	metrics.Reloads.WithLabelValues("ok").Inc()
	metrics.VotersLoaded.Set(float64(report.Created))
	s.publish(Event{Type: EventVotersReloaded, Payload: report})
	return report, nil
}

func (s *VoterService) publish(event Event) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(event)
}

func observe(operation string, start time.Time) {
	metrics.QueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// LogEvents logs every event received on ch until it is closed
func LogEvents(ch <-chan Event) {
	for event := range ch {
		switch event.Type {
		case EventVotersReloaded:
			if report, ok := event.Payload.(*ingest.Report); ok {
				log.Printf("Roll reloaded from %s: %d voters, %d rows skipped",
					report.Source, report.Created, report.SkippedCount())
				continue
			}
		case EventReloadFailed:
			log.Printf("Roll reload failed: %v", event.Payload)
			continue
		}
		log.Printf("Event: %s", event.Type)
	}
}
