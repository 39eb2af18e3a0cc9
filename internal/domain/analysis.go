package domain

// Pattern is a textual pattern the analysis service matched in a chamado.
type Pattern struct {
	Type       string
	Keyword    string
	PatternID  string
	Confidence float64
}

// AiAnalysis carries the automated diagnosis. Every field is optional.
type AiAnalysis struct {
	ProblemType       *string
	DetailedCategory  *string
	Diagnosis         *string
	EstimatedTime     *string
	RequiredResources []string
	Notes             *string
	// Error is set when the automated analysis step failed on the service side.
	Error *string
}

// Failed reports whether the analysis step itself reported an error.
func (a *AiAnalysis) Failed() bool {
	return a != nil && a.Error != nil && *a.Error != ""
}

// Solution is one suggested fix. Code, SQL and additional scripts may coexist.
type Solution struct {
	Kind                 string
	Category             string
	Priority             Priority
	Confidence           float64
	SolutionText         string
	SuggestedCode        *string
	SuggestedSQLScript   *string
	AdditionalSQLScripts []string
}

// Summary is the service's overall verdict for a triage.
type Summary struct {
	SummaryText        *string
	OverallPriority    Priority
	TotalPatterns      int
	HasAiAnalysis      bool
	AffectedCategories []string
}

// Integration describes where a ticket-mode chamado came from.
type Integration struct {
	TicketNumero       string
	OriginalAnalysisID string
	SourceSystem       string
	OriginalDate       *string
	OriginalUser       *string
	OriginalClient     *string
}

// AnalysisResult is the outcome of one successful triage call. It is never
// mutated after the gateway decodes it.
type AnalysisResult struct {
	TriagemID        *string
	Status           string
	Message          string
	TicketNumero     *string
	ChamadoOriginal  *string
	Patterns         []Pattern
	AiAnalysis       *AiAnalysis
	Solutions        []Solution
	Summary          Summary
	MockMode         bool
	ProcessingTimeMs int64
	Integration      *Integration
}

// HasTriagemID reports whether feedback can be attached to the result.
func (r *AnalysisResult) HasTriagemID() bool {
	return r != nil && r.TriagemID != nil && *r.TriagemID != ""
}
