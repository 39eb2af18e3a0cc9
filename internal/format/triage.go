package format

import (
	"fmt"
	"strings"

	"github.com/triagem/triage-console/internal/domain"
	"github.com/triagem/triage-console/internal/viewmodel"
)

const textColumnWidth = 60

// Result renders a triage result as a summary block followed by the pattern
// and solution tables.
func Result(vm viewmodel.ResultViewModel, style Style) string {
	var b strings.Builder

	if vm.Mock != nil {
		fmt.Fprintf(&b, "[%s]\n", vm.Mock.Label)
	}
	if vm.TriagemID != "" {
		fmt.Fprintf(&b, "Triagem:    #%s\n", vm.TriagemID)
	}
	if vm.TicketNumero != "" {
		fmt.Fprintf(&b, "Chamado:    %s\n", vm.TicketNumero)
	}
	fmt.Fprintf(&b, "Prioridade: %s\n", vm.Summary.Badge.Label)
	fmt.Fprintf(&b, "Padrões:    %d\n", vm.Summary.TotalPatterns)
	if len(vm.Summary.AffectedCategories) > 0 {
		fmt.Fprintf(&b, "Categorias: %s\n", strings.Join(vm.Summary.AffectedCategories, ", "))
	}
	fmt.Fprintf(&b, "Tempo:      %s\n", vm.ProcessingLabel)
	if vm.Summary.Text != "" {
		fmt.Fprintf(&b, "\n%s\n", vm.Summary.Text)
	}

	if len(vm.Patterns) > 0 {
		t := NewTable(style)
		t.Title("Padrões identificados")
		t.Header("Padrão", "Tipo", "Palavra-chave", "Confiança")
		t.RightAlign(4)
		for _, p := range vm.Patterns {
			t.Row(p.PatternID, p.TypeLabel, p.Keyword, p.ConfidenceLabel)
		}
		b.WriteString("\n" + t.String() + "\n")
	}

	if vm.Ai != nil {
		fmt.Fprintf(&b, "\nAnálise IA: %s", vm.Ai.Diagnosis)
		if vm.Ai.EstimatedTime != "" {
			fmt.Fprintf(&b, " (estimativa: %s)", vm.Ai.EstimatedTime)
		}
		b.WriteString("\n")
	}

	if len(vm.Solutions) > 0 {
		t := NewTable(style)
		t.Title("Soluções")
		t.Header("Tipo", "Categoria", "Prioridade", "Confiança", "Solução", "Scripts")
		t.WrapColumn(5, textColumnWidth)
		for _, s := range vm.Solutions {
			t.Row(s.Kind, s.Category, s.Badge.Label, s.ConfidenceLabel, s.Text, scriptCount(s))
		}
		b.WriteString("\n" + t.String() + "\n")
	}

	if vm.Message != "" {
		fmt.Fprintf(&b, "\n%s\n", vm.Message)
	}
	return b.String()
}

func scriptCount(s viewmodel.SolutionRow) int {
	n := len(s.AdditionalScripts)
	if s.Code != nil {
		n++
	}
	if s.SQL != nil {
		n++
	}
	return n
}

// Dashboard renders the overview cards, the per-day table and the first
// history page.
func Dashboard(vm viewmodel.DashboardViewModel, style Style) string {
	var b strings.Builder

	cards := NewTable(style)
	cards.Title("Resumo: " + vm.PeriodLabel)
	cards.Header("Total", "Média/dia", "Taxa de sucesso", "Categoria mais comum")
	cards.Row(vm.Overall.Total, vm.Overall.AveragePerDay, vm.Overall.SuccessRate, vm.Overall.MostCommonCategory)
	b.WriteString(cards.String() + "\n")

	if len(vm.Days) > 0 {
		days := NewTable(style)
		days.Title("Por dia")
		days.Header("Data", "Triagens", "Com solução", "Tempo médio", "Prioridades", "Categorias")
		days.RightAlign(2, 3, 4)
		for _, d := range vm.Days {
			days.Row(d.Date, d.TotalTriages, d.TriagesWithSolution, d.AverageProcessing, priorityCounts(d.Priorities), strings.Join(d.TopCategories, ", "))
		}
		b.WriteString("\n" + days.String() + "\n")
	}

	history := NewTable(style)
	history.Title(fmt.Sprintf("Histórico (%d)", vm.HistoryTotal))
	history.Header("ID", "Data", "Módulo", "Padrões", "Soluções", "Prioridade", "Feedback")
	history.RightAlign(4, 5)
	for _, h := range vm.History {
		history.Row(h.ID, h.Date, h.Modulo, h.TotalPatterns, h.SolutionsGenerated, h.Badge.Label, Mark(h.HadFeedback))
	}
	b.WriteString("\n" + history.String() + "\n")
	return b.String()
}

func priorityCounts(counts []viewmodel.PriorityCount) string {
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s:%d", c.Badge.Label, c.Count))
	}
	return strings.Join(parts, " ")
}

// Patterns renders the pattern catalog.
func Patterns(defs []domain.PatternDefinition, style Style) string {
	t := NewTable(style)
	t.Header("ID", "Tipo", "Categoria", "Prioridade", "Palavras-chave")
	t.WrapColumn(5, textColumnWidth)
	for _, d := range defs {
		t.Row(d.ID, viewmodel.HumanizePatternType(d.Type), d.Category, viewmodel.BadgeFor(string(d.Priority)).Label, Truncate(strings.Join(d.Keywords, ", "), 2*textColumnWidth))
	}
	t.Footer("", "", "", "Total", len(defs))
	return t.String()
}

// Health renders the analysis service health report.
func Health(h domain.HealthStatus, style Style) string {
	t := NewTable(style)
	t.Header("Campo", "Valor")
	t.Row("status", h.Status)
	t.Row("serviço", h.Service)
	t.Row("versão", h.Version)
	t.Row("modo demonstração", Mark(h.MockMode))
	t.Row("IA configurada", Mark(h.GeminiConfigured))
	if h.Timestamp != "" {
		t.Row("timestamp", h.Timestamp)
	}
	return t.String()
}
