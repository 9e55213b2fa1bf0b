package present

import (
	"reflect"
	"testing"

	"voterroll/internal/domain"
)

func TestBirthYearChart(t *testing.T) {
	chart := BirthYearChart(map[int]int{1990: 1, 1980: 2, 1955: 7})

	if chart.ChartType != ChartBar {
		t.Errorf("expected bar chart, got %s", chart.ChartType)
	}
	if !reflect.DeepEqual([]string{"1955", "1980", "1990"}, chart.Labels) {
		t.Errorf("expected ascending years, got %v", chart.Labels)
	}
	if !reflect.DeepEqual([]int{7, 2, 1}, chart.Values) {
		t.Errorf("unexpected values %v", chart.Values)
	}
	if chart.NoData {
		t.Error("chart with data flagged as empty")
	}
}

func TestBirthYearChartEmpty(t *testing.T) {
	chart := BirthYearChart(map[int]int{})
	if !chart.NoData {
		t.Error("expected empty histogram to be flagged")
	}
	if len(chart.Labels) != 0 || len(chart.Values) != 0 {
		t.Errorf("expected no points, got %v %v", chart.Labels, chart.Values)
	}
}

func TestPartyChart(t *testing.T) {
	chart := PartyChart(map[string]int{"R": 1, "D": 1, domain.PartyNone: 4, "U": 9})

	if chart.ChartType != ChartPie {
		t.Errorf("expected pie chart, got %s", chart.ChartType)
	}
	if !reflect.DeepEqual([]string{"U", "None", "D", "R"}, chart.Labels) {
		t.Errorf("expected labels by count then name, got %v", chart.Labels)
	}
	if !reflect.DeepEqual([]int{9, 4, 1, 1}, chart.Values) {
		t.Errorf("unexpected values %v", chart.Values)
	}
	if len(chart.Colors) != 4 {
		t.Errorf("expected one color per slice, got %d", len(chart.Colors))
	}
	if !PartyChart(nil).NoData {
		t.Error("expected empty party chart to be flagged")
	}
}

func TestParticipationChart(t *testing.T) {
	counts := map[domain.Election]int{
		domain.ElectionState2020:   5,
		domain.ElectionTown2021:    0,
		domain.ElectionPrimary2021: 2,
		domain.ElectionGeneral2022: 8,
		domain.ElectionTown2023:    1,
	}
	chart := ParticipationChart(counts)

	want := []string{"2020 State", "2021 Town", "2021 Primary", "2022 General", "2023 Town"}
	if !reflect.DeepEqual(want, chart.Labels) {
		t.Errorf("expected %v, got %v", want, chart.Labels)
	}
	if !reflect.DeepEqual([]int{5, 0, 2, 8, 1}, chart.Values) {
		t.Errorf("unexpected values %v", chart.Values)
	}
	if chart.NoData {
		t.Error("chart with data flagged as empty")
	}
}

func TestParticipationChartAllZero(t *testing.T) {
	chart := ParticipationChart(domain.ParticipationCounts(nil))
	if !chart.NoData {
		t.Error("expected all-zero participation to be flagged")
	}
	if len(chart.Values) != len(domain.Elections) {
		t.Errorf("expected a bar per election, got %d", len(chart.Values))
	}
}

func TestBuildCharts(t *testing.T) {
	charts := BuildCharts(domain.AggregationResult{
		BirthYears:    map[int]int{1980: 2},
		Parties:       map[string]int{"D": 2},
		Participation: map[domain.Election]int{domain.ElectionState2020: 2},
	})
	if charts.BirthYear == nil || charts.Party == nil || charts.Participation == nil {
		t.Fatal("expected all three charts")
	}
	if charts.BirthYear.ID == charts.Party.ID || charts.Party.ID == charts.Participation.ID {
		t.Error("chart ids must be distinct")
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1234, "1,234"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		if got := FormatCount(tt.n); got != tt.want {
			t.Errorf("FormatCount(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
