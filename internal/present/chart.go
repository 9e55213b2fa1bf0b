// Package present turns query results into display-ready structures:
// chart configurations for the three aggregations and pages of voters.
package present

import (
	"sort"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"voterroll/internal/domain"
)

// ============================================================================
// CHART TYPES
// ============================================================================

// Chart types understood by the page renderer
const (
	ChartBar = "bar"
	ChartPie = "pie"
)

// NoDataMessage is shown in place of a chart with nothing to plot
const NoDataMessage = "No data available."

// ChartConfig describes one chart as (type, labels, values).
type ChartConfig struct {
	ID         string   `json:"id"`
	ChartType  string   `json:"chartType"`
	Title      string   `json:"title"`
	XAxis      string   `json:"xAxis,omitempty"`
	YAxis      string   `json:"yAxis,omitempty"`
	Labels     []string `json:"labels"`
	Values     []int    `json:"values"`
	Colors     []string `json:"colors,omitempty"`
	ShowLegend bool     `json:"showLegend"`
	// NoData is set when the chart should be replaced by NoDataMessage
	NoData bool `json:"noData"`
}

// Charts bundles the three analytics charts
type Charts struct {
	BirthYear     *ChartConfig `json:"birth_year"`
	Party         *ChartConfig `json:"party"`
	Participation *ChartConfig `json:"participation"`
}

// List returns the charts in page order
func (c Charts) List() []*ChartConfig {
	return []*ChartConfig{c.BirthYear, c.Party, c.Participation}
}

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// BuildCharts renders all three aggregations
func BuildCharts(result domain.AggregationResult) Charts {
	return Charts{
		BirthYear:     BirthYearChart(result.BirthYears),
		Party:         PartyChart(result.Parties),
		Participation: ParticipationChart(result.Participation),
	}
}

// BirthYearChart plots the birth year histogram in ascending year order
func BirthYearChart(hist map[int]int) *ChartConfig {
	years := make([]int, 0, len(hist))
	for y := range hist {
		years = append(years, y)
	}
	sort.Ints(years)

	chart := &ChartConfig{
		ID:        "birth-year",
		ChartType: ChartBar,
		Title:     "Voter Birth Year Distribution",
		XAxis:     "Year of Birth",
		YAxis:     "Voters",
		Labels:    make([]string, 0, len(years)),
		Values:    make([]int, 0, len(years)),
		NoData:    len(years) == 0,
	}
	for _, y := range years {
		chart.Labels = append(chart.Labels, strconv.Itoa(y))
		chart.Values = append(chart.Values, hist[y])
	}
	chart.Colors = assignColors(1)
	return chart
}

// PartyChart plots the party histogram, largest share first
func PartyChart(hist map[string]int) *ChartConfig {
	parties := make([]string, 0, len(hist))
	for p := range hist {
		parties = append(parties, p)
	}
	sort.Slice(parties, func(i, j int) bool {
		if hist[parties[i]] != hist[parties[j]] {
			return hist[parties[i]] > hist[parties[j]]
		}
		return parties[i] < parties[j]
	})

	chart := &ChartConfig{
		ID:         "party",
		ChartType:  ChartPie,
		Title:      "Voters by Party Affiliation",
		Labels:     parties,
		Values:     make([]int, 0, len(parties)),
		ShowLegend: true,
		NoData:     len(parties) == 0,
	}
	for _, p := range parties {
		chart.Values = append(chart.Values, hist[p])
	}
	chart.Colors = assignColors(len(parties))
	return chart
}

// ParticipationChart plots one bar per tracked election in display order.
// It reports NoData when nobody in the set voted in any of them.
func ParticipationChart(counts map[domain.Election]int) *ChartConfig {
	chart := &ChartConfig{
		ID:        "participation",
		ChartType: ChartBar,
		Title:     "Voter Participation by Election",
		XAxis:     "Election",
		YAxis:     "Voters",
		Labels:    make([]string, 0, len(domain.Elections)),
		Values:    make([]int, 0, len(domain.Elections)),
		NoData:    true,
	}
	for _, e := range domain.Elections {
		chart.Labels = append(chart.Labels, e.Label())
		chart.Values = append(chart.Values, counts[e])
		if counts[e] > 0 {
			chart.NoData = false
		}
	}
	chart.Colors = assignColors(1)
	return chart
}

func assignColors(n int) []string {
	colors := make([]string, n)
	for i := range colors {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}

// ============================================================================
// FORMATTING
// ============================================================================

// FormatCount formats n with locale digit grouping ("12,345")
func FormatCount(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}
