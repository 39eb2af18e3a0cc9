// Package viewmodel turns decoded analysis results and dashboard data into
// presentation structures. Every builder here is pure.
package viewmodel

import (
	"fmt"
	"math"
	"strings"

	"github.com/triagem/triage-console/internal/domain"
)

// PriorityBadge is the visual treatment of a priority.
type PriorityBadge struct {
	Priority domain.Priority `json:"priority"`
	Class    string          `json:"class"`
	Icon     string          `json:"icon"`
	Color    string          `json:"color"`
	Label    string          `json:"label"`
}

var badges = map[domain.Priority]PriorityBadge{
	domain.PriorityAlta:  {Priority: domain.PriorityAlta, Class: "prioridade-alta", Icon: "alert-triangle", Color: "#ef4444", Label: "ALTA"},
	domain.PriorityMedia: {Priority: domain.PriorityMedia, Class: "prioridade-media", Icon: "info", Color: "#f59e0b", Label: "MEDIA"},
	domain.PriorityBaixa: {Priority: domain.PriorityBaixa, Class: "prioridade-baixa", Icon: "check-circle", Color: "#10b981", Label: "BAIXA"},
}

// BadgeFor returns the badge for a raw priority. Anything outside
// alta/media/baixa gets the media badge.
func BadgeFor(raw string) PriorityBadge {
	return badges[domain.ClassifyPriority(raw)]
}

func badgeOf(p domain.Priority) PriorityBadge {
	return BadgeFor(string(p))
}

// FormatConfidence renders a [0,1] confidence as an integer percentage,
// rounding half away from zero.
func FormatConfidence(c float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(c*100)))
}

// HumanizePatternType turns "erro_sistema" into "ERRO SISTEMA".
func HumanizePatternType(t string) string {
	return strings.ToUpper(strings.ReplaceAll(t, "_", " "))
}

type PatternRow struct {
	PatternID       string `json:"pattern_id"`
	TypeLabel       string `json:"type_label"`
	Keyword         string `json:"keyword"`
	ConfidenceLabel string `json:"confidence_label"`
}

type AiSection struct {
	ProblemType       string   `json:"problem_type,omitempty"`
	DetailedCategory  string   `json:"detailed_category,omitempty"`
	Diagnosis         string   `json:"diagnosis,omitempty"`
	EstimatedTime     string   `json:"estimated_time,omitempty"`
	RequiredResources []string `json:"required_resources"`
	Notes             string   `json:"notes,omitempty"`
}

// CodeBlock is a copy-ready snippet.
type CodeBlock struct {
	Language string `json:"language"`
	Content  string `json:"content"`
}

type SolutionRow struct {
	Kind              string        `json:"kind"`
	Category          string        `json:"category"`
	Badge             PriorityBadge `json:"badge"`
	ConfidenceLabel   string        `json:"confidence_label"`
	Text              string        `json:"text"`
	Code              *CodeBlock    `json:"code,omitempty"`
	SQL               *CodeBlock    `json:"sql,omitempty"`
	AdditionalScripts []CodeBlock   `json:"additional_scripts"`
}

type SummarySection struct {
	Text               string        `json:"text,omitempty"`
	Badge              PriorityBadge `json:"badge"`
	TotalPatterns      int           `json:"total_patterns"`
	HasAiAnalysis      bool          `json:"has_ai_analysis"`
	AffectedCategories []string      `json:"affected_categories"`
}

type IntegrationSection struct {
	TicketNumero       string `json:"ticket_numero"`
	OriginalAnalysisID string `json:"original_analysis_id,omitempty"`
	SourceSystem       string `json:"source_system,omitempty"`
	OriginalDate       string `json:"original_date,omitempty"`
	OriginalUser       string `json:"original_user,omitempty"`
	OriginalClient     string `json:"original_client,omitempty"`
}

// MockBadge marks results produced by the service's demonstration path.
type MockBadge struct {
	Label string `json:"label"`
}

// FeedbackSection is the per-result feedback sub-state.
type FeedbackSection struct {
	Available bool                 `json:"available"`
	State     domain.FeedbackState `json:"state"`
}

// ResultViewModel is the presentation of one AnalysisResult.
type ResultViewModel struct {
	TriagemID        string              `json:"triagem_id,omitempty"`
	TicketNumero     string              `json:"ticket_numero,omitempty"`
	ChamadoOriginal  string              `json:"chamado_original,omitempty"`
	Message          string              `json:"message,omitempty"`
	Patterns         []PatternRow        `json:"patterns"`
	Ai               *AiSection          `json:"ai,omitempty"`
	Solutions        []SolutionRow       `json:"solutions"`
	Summary          SummarySection      `json:"summary"`
	Integration      *IntegrationSection `json:"integration,omitempty"`
	Mock             *MockBadge          `json:"mock,omitempty"`
	ProcessingTimeMs int64               `json:"processing_time_ms"`
	ProcessingLabel  string              `json:"processing_label"`
	Feedback         FeedbackSection     `json:"feedback"`
}

const mockBadgeLabel = "MODO DEMONSTRAÇÃO"

// Build produces the view model of a result. It does not modify r and
// returns equal output for equal input.
func Build(r domain.AnalysisResult) ResultViewModel {
	vm := ResultViewModel{
		TriagemID:        deref(r.TriagemID),
		TicketNumero:     deref(r.TicketNumero),
		ChamadoOriginal:  deref(r.ChamadoOriginal),
		Message:          r.Message,
		Patterns:         make([]PatternRow, 0, len(r.Patterns)),
		Solutions:        make([]SolutionRow, 0, len(r.Solutions)),
		ProcessingTimeMs: max(r.ProcessingTimeMs, 0),
		Feedback: FeedbackSection{
			Available: r.HasTriagemID(),
			State:     domain.FeedbackNotSubmitted,
		},
	}
	vm.ProcessingLabel = fmt.Sprintf("%dms", vm.ProcessingTimeMs)

	for _, p := range r.Patterns {
		vm.Patterns = append(vm.Patterns, PatternRow{
			PatternID:       p.PatternID,
			TypeLabel:       HumanizePatternType(p.Type),
			Keyword:         p.Keyword,
			ConfidenceLabel: FormatConfidence(p.Confidence),
		})
	}

	if ai := r.AiAnalysis; ai != nil && !ai.Failed() {
		vm.Ai = &AiSection{
			ProblemType:       deref(ai.ProblemType),
			DetailedCategory:  deref(ai.DetailedCategory),
			Diagnosis:         deref(ai.Diagnosis),
			EstimatedTime:     deref(ai.EstimatedTime),
			RequiredResources: append([]string{}, ai.RequiredResources...),
			Notes:             deref(ai.Notes),
		}
	}

	for _, s := range r.Solutions {
		row := SolutionRow{
			Kind:              s.Kind,
			Category:          s.Category,
			Badge:             badgeOf(s.Priority),
			ConfidenceLabel:   FormatConfidence(s.Confidence),
			Text:              s.SolutionText,
			AdditionalScripts: make([]CodeBlock, 0, len(s.AdditionalSQLScripts)),
		}
		if s.SuggestedCode != nil {
			row.Code = &CodeBlock{Language: "code", Content: *s.SuggestedCode}
		}
		if s.SuggestedSQLScript != nil {
			row.SQL = &CodeBlock{Language: "sql", Content: *s.SuggestedSQLScript}
		}
		for _, script := range s.AdditionalSQLScripts {
			row.AdditionalScripts = append(row.AdditionalScripts, CodeBlock{Language: "sql", Content: script})
		}
		vm.Solutions = append(vm.Solutions, row)
	}

	vm.Summary = SummarySection{
		Text:               deref(r.Summary.SummaryText),
		Badge:              badgeOf(r.Summary.OverallPriority),
		TotalPatterns:      r.Summary.TotalPatterns,
		HasAiAnalysis:      r.Summary.HasAiAnalysis,
		AffectedCategories: append([]string{}, r.Summary.AffectedCategories...),
	}

	if in := r.Integration; in != nil {
		vm.Integration = &IntegrationSection{
			TicketNumero:       in.TicketNumero,
			OriginalAnalysisID: in.OriginalAnalysisID,
			SourceSystem:       in.SourceSystem,
			OriginalDate:       deref(in.OriginalDate),
			OriginalUser:       deref(in.OriginalUser),
			OriginalClient:     deref(in.OriginalClient),
		}
	}

	if r.MockMode {
		vm.Mock = &MockBadge{Label: mockBadgeLabel}
	}
	return vm
}

// WithFeedback returns a copy of vm carrying the given feedback state.
func (vm ResultViewModel) WithFeedback(state domain.FeedbackState) ResultViewModel {
	vm.Feedback.State = state
	return vm
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
