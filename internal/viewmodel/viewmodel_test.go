package viewmodel

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/triagem/triage-console/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestFormatConfidence(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.873, "87%"},
		{1.0, "100%"},
		{0, "0%"},
		{0.5, "50%"},
		{0.125, "13%"},
	}
	for _, tt := range tests {
		if got := FormatConfidence(tt.in); got != tt.want {
			t.Errorf("FormatConfidence(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHumanizePatternType(t *testing.T) {
	if got := HumanizePatternType("erro_de_sistema"); got != "ERRO DE SISTEMA" {
		t.Errorf("HumanizePatternType() = %q", got)
	}
	if got := HumanizePatternType("lentidao"); got != "LENTIDAO" {
		t.Errorf("HumanizePatternType() = %q", got)
	}
}

func TestBadgeFor(t *testing.T) {
	tests := []struct {
		raw       string
		wantClass string
	}{
		{"alta", "prioridade-alta"},
		{"ALTA", "prioridade-alta"},
		{"Media", "prioridade-media"},
		{"baixa", "prioridade-baixa"},
		{"URGENTE", "prioridade-media"},
		{"", "prioridade-media"},
	}
	for _, tt := range tests {
		if got := BadgeFor(tt.raw).Class; got != tt.wantClass {
			t.Errorf("BadgeFor(%q).Class = %q, want %q", tt.raw, got, tt.wantClass)
		}
	}
	if BadgeFor("URGENTE") != BadgeFor("media") {
		t.Errorf("unknown priority must share the media icon and color")
	}
}

func sampleResult() domain.AnalysisResult {
	return domain.AnalysisResult{
		TriagemID: strPtr("42"),
		Status:    "ok",
		Patterns: []domain.Pattern{
			{Type: "erro_sistema", Keyword: "erro", PatternID: "P1", Confidence: 0.873},
		},
		AiAnalysis: &domain.AiAnalysis{Diagnosis: strPtr("falha"), RequiredResources: []string{"dev"}},
		Solutions: []domain.Solution{
			{Kind: "sql", Priority: domain.PriorityBaixa, Confidence: 0.2, SolutionText: "primeira", SuggestedSQLScript: strPtr("SELECT 1")},
			{Kind: "codigo", Priority: domain.PriorityAlta, Confidence: 0.9, SolutionText: "segunda",
				SuggestedCode: strPtr("x := 1"), SuggestedSQLScript: strPtr("SELECT 2"), AdditionalSQLScripts: []string{"SELECT 3", "SELECT 4"}},
		},
		Summary:          domain.Summary{OverallPriority: domain.PriorityAlta, TotalPatterns: 1, AffectedCategories: []string{"CADASTROS"}},
		ProcessingTimeMs: 120,
	}
}

func TestBuildKeepsSolutionOrder(t *testing.T) {
	vm := Build(sampleResult())

	var texts []string
	for _, s := range vm.Solutions {
		texts = append(texts, s.Text)
	}
	if diff := cmp.Diff([]string{"primeira", "segunda"}, texts); diff != "" {
		t.Errorf("solution order mismatch (-want +got):\n%s", diff)
	}

	second := vm.Solutions[1]
	if second.Code == nil || second.SQL == nil || len(second.AdditionalScripts) != 2 {
		t.Errorf("code, sql and additional scripts must coexist: %+v", second)
	}
	if vm.Solutions[0].Code != nil {
		t.Errorf("first solution has no code block")
	}
	if vm.Patterns[0].ConfidenceLabel != "87%" || vm.Patterns[0].TypeLabel != "ERRO SISTEMA" {
		t.Errorf("pattern row = %+v", vm.Patterns[0])
	}
	if !vm.Feedback.Available || vm.Feedback.State != domain.FeedbackNotSubmitted {
		t.Errorf("feedback = %+v", vm.Feedback)
	}
	if vm.Ai == nil || vm.Ai.Diagnosis != "falha" {
		t.Errorf("ai section = %+v", vm.Ai)
	}
}

func TestBuildOmitsFailedAiAnalysis(t *testing.T) {
	r := sampleResult()
	r.AiAnalysis = &domain.AiAnalysis{Error: strPtr("quota exceeded")}
	if vm := Build(r); vm.Ai != nil {
		t.Errorf("failed AI analysis should be omitted, got %+v", vm.Ai)
	}
	r.AiAnalysis = nil
	if vm := Build(r); vm.Ai != nil {
		t.Errorf("absent AI analysis should be omitted")
	}
}

func TestMockBadgeDoesNotAlterOtherFields(t *testing.T) {
	live := sampleResult()
	mock := sampleResult()
	mock.MockMode = true

	liveVM := Build(live)
	mockVM := Build(mock)
	if mockVM.Mock == nil || liveVM.Mock != nil {
		t.Fatalf("mock badge: live=%v mock=%v", liveVM.Mock, mockVM.Mock)
	}
	mockVM.Mock = nil
	if diff := cmp.Diff(liveVM, mockVM); diff != "" {
		t.Errorf("mock mode changed computed fields (-live +mock):\n%s", diff)
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	r := sampleResult()
	if diff := cmp.Diff(Build(r), Build(r)); diff != "" {
		t.Errorf("Build not idempotent:\n%s", diff)
	}
	if r.Solutions[1].AdditionalSQLScripts[0] != "SELECT 3" {
		t.Errorf("Build mutated its input")
	}
}

func TestBuildWithoutTriagemID(t *testing.T) {
	r := sampleResult()
	r.TriagemID = nil
	if Build(r).Feedback.Available {
		t.Errorf("feedback must be unavailable without a triagem id")
	}
}

func TestBuildDashboard(t *testing.T) {
	data := domain.DashboardData{
		PeriodDays: 7,
		Statistics: domain.StatisticsReport{
			Period: "7 dias",
			Overall: domain.OverallSummary{
				TotalInPeriod:      12,
				AveragePerDay:      1.7142857,
				SuccessRate:        0.8333,
				MostCommonCategory: "FINANCEIRO",
			},
			Daily: []domain.DayStat{{
				Date:                    "2024-05-01",
				TotalTriages:            3,
				AverageProcessingTimeMs: 1520.6,
				PriorityCounts:          map[string]int{"baixa": 1, "ALTA": 2, "urgente": 1},
				CommonCategories:        []domain.CategoryCount{{Category: "FINANCEIRO", Count: 2}},
			}},
		},
		History: domain.HistoryPage{
			Total: 1,
			Entries: []domain.HistoryEntry{{
				ID:              "9",
				Date:            time.Date(2024, 5, 1, 9, 5, 0, 0, time.UTC),
				OverallPriority: domain.PriorityAlta,
			}},
		},
	}

	vm := BuildDashboard(data)
	want := OverallCards{Total: 12, AveragePerDay: "1.7", SuccessRate: "83.3%", MostCommonCategory: "FINANCEIRO"}
	if diff := cmp.Diff(want, vm.Overall); diff != "" {
		t.Errorf("overall cards mismatch (-want +got):\n%s", diff)
	}

	day := vm.Days[0]
	if day.AverageProcessing != "1521ms" {
		t.Errorf("AverageProcessing = %q", day.AverageProcessing)
	}
	var got []string
	for _, p := range day.Priorities {
		got = append(got, string(p.Badge.Priority))
	}
	if diff := cmp.Diff([]string{"alta", "media", "baixa"}, got); diff != "" {
		t.Errorf("priority order mismatch:\n%s", diff)
	}

	row := vm.History[0]
	if row.Date != "01/05/2024 09:05" || row.Modulo != "-" || row.Badge.Class != "prioridade-alta" {
		t.Errorf("history row = %+v", row)
	}
}
