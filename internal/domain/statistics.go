package domain

import "time"

// CategoryCount pairs a problem category with its occurrence count.
type CategoryCount struct {
	Category string
	Count    int
}

// DayStat aggregates the triages of one day.
type DayStat struct {
	Date                    string
	TotalTriages            int
	TriagesWithSolution     int
	AverageProcessingTimeMs float64
	PriorityCounts          map[string]int
	CommonCategories        []CategoryCount
	ProblemTypes            map[string]int
}

// OverallSummary holds period totals computed by the analysis service.
type OverallSummary struct {
	TotalInPeriod      int
	AveragePerDay      float64
	SuccessRate        float64
	MostCommonCategory string
}

// StatisticsReport is the statistics view for a period.
type StatisticsReport struct {
	Period  string
	Overall OverallSummary
	Daily   []DayStat
}

// HistoryEntry is one past triage.
type HistoryEntry struct {
	ID                 string
	Date               time.Time
	Modulo             *string
	TotalPatterns      int
	SolutionsGenerated int
	OverallPriority    Priority
	HadFeedback        bool
}

// HistoryPage is one page of the triage history.
type HistoryPage struct {
	Total    int
	Page     int
	PageSize int
	Entries  []HistoryEntry
}

// DashboardData is a consistent pair of statistics and history for one period.
type DashboardData struct {
	PeriodDays int
	Statistics StatisticsReport
	History    HistoryPage
	LoadedAt   time.Time
}
