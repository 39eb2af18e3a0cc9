package viewmodel

import (
	"fmt"
	"sort"
	"time"

	"github.com/triagem/triage-console/internal/domain"
)

type OverallCards struct {
	Total              int    `json:"total"`
	AveragePerDay      string `json:"average_per_day"`
	SuccessRate        string `json:"success_rate"`
	MostCommonCategory string `json:"most_common_category"`
}

type PriorityCount struct {
	Badge PriorityBadge `json:"badge"`
	Count int           `json:"count"`
}

type DayRow struct {
	Date                string          `json:"date"`
	TotalTriages        int             `json:"total_triages"`
	TriagesWithSolution int             `json:"triages_with_solution"`
	AverageProcessing   string          `json:"average_processing"`
	Priorities          []PriorityCount `json:"priorities"`
	TopCategories       []string        `json:"top_categories"`
}

type HistoryRow struct {
	ID                 string        `json:"id"`
	Date               string        `json:"date"`
	Modulo             string        `json:"modulo"`
	TotalPatterns      int           `json:"total_patterns"`
	SolutionsGenerated int           `json:"solutions_generated"`
	Badge              PriorityBadge `json:"badge"`
	HadFeedback        bool          `json:"had_feedback"`
}

// DashboardViewModel is the presentation of one dashboard load.
type DashboardViewModel struct {
	PeriodDays   int          `json:"period_days"`
	PeriodLabel  string       `json:"period_label"`
	Overall      OverallCards `json:"overall"`
	Days         []DayRow     `json:"days"`
	History      []HistoryRow `json:"history"`
	HistoryTotal int          `json:"history_total"`
	LoadedAt     time.Time    `json:"loaded_at"`
}

const (
	historyDateLayout = "02/01/2006 15:04"
	noModuloLabel     = "-"
)

// BuildDashboard formats server-computed figures without recomputing them.
// The success rate arrives as a fraction and is shown as a percentage.
func BuildDashboard(d domain.DashboardData) DashboardViewModel {
	overall := d.Statistics.Overall
	vm := DashboardViewModel{
		PeriodDays:  d.PeriodDays,
		PeriodLabel: d.Statistics.Period,
		Overall: OverallCards{
			Total:              overall.TotalInPeriod,
			AveragePerDay:      fmt.Sprintf("%.1f", overall.AveragePerDay),
			SuccessRate:        fmt.Sprintf("%.1f%%", overall.SuccessRate*100),
			MostCommonCategory: overall.MostCommonCategory,
		},
		Days:         make([]DayRow, 0, len(d.Statistics.Daily)),
		History:      make([]HistoryRow, 0, len(d.History.Entries)),
		HistoryTotal: d.History.Total,
		LoadedAt:     d.LoadedAt,
	}
	if vm.PeriodLabel == "" {
		vm.PeriodLabel = fmt.Sprintf("%d dias", d.PeriodDays)
	}

	for _, day := range d.Statistics.Daily {
		row := DayRow{
			Date:                day.Date,
			TotalTriages:        day.TotalTriages,
			TriagesWithSolution: day.TriagesWithSolution,
			AverageProcessing:   fmt.Sprintf("%.0fms", day.AverageProcessingTimeMs),
			Priorities:          priorityCounts(day.PriorityCounts),
			TopCategories:       make([]string, 0, len(day.CommonCategories)),
		}
		for _, c := range day.CommonCategories {
			row.TopCategories = append(row.TopCategories, c.Category)
		}
		vm.Days = append(vm.Days, row)
	}

	for _, e := range d.History.Entries {
		row := HistoryRow{
			ID:                 e.ID,
			Modulo:             noModuloLabel,
			TotalPatterns:      e.TotalPatterns,
			SolutionsGenerated: e.SolutionsGenerated,
			Badge:              badgeOf(e.OverallPriority),
			HadFeedback:        e.HadFeedback,
		}
		if !e.Date.IsZero() {
			row.Date = e.Date.Format(historyDateLayout)
		}
		if e.Modulo != nil {
			row.Modulo = *e.Modulo
		}
		vm.History = append(vm.History, row)
	}
	return vm
}

var priorityOrder = map[domain.Priority]int{
	domain.PriorityAlta:  0,
	domain.PriorityMedia: 1,
	domain.PriorityBaixa: 2,
}

// priorityCounts folds raw priority keys onto the enum, ordered alta, media, baixa.
func priorityCounts(raw map[string]int) []PriorityCount {
	folded := map[domain.Priority]int{}
	for k, v := range raw {
		folded[domain.ClassifyPriority(k)] += v
	}
	out := make([]PriorityCount, 0, len(folded))
	for p, n := range folded {
		out = append(out, PriorityCount{Badge: badgeOf(p), Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return priorityOrder[out[i].Badge.Priority] < priorityOrder[out[j].Badge.Priority]
	})
	return out
}
