package format

import (
	"strings"
	"testing"

	"github.com/triagem/triage-console/internal/domain"
	"github.com/triagem/triage-console/internal/viewmodel"
)

func TestTableStyles(t *testing.T) {
	box := NewTable(Box)
	box.Header("ID", "Nome")
	box.Row("P1", "erro sistema")
	out := box.String()
	if !strings.Contains(out, "erro sistema") || !strings.Contains(out, "─") {
		t.Errorf("box output:\n%s", out)
	}

	md := NewTable(Markdown)
	md.Header("ID", "Nome")
	md.Row("P1", "erro sistema")
	out = md.String()
	if !strings.Contains(out, "| ID") || !strings.Contains(out, "---") {
		t.Errorf("markdown output:\n%s", out)
	}
	if md.Len() != 1 {
		t.Errorf("Len() = %d", md.Len())
	}
}

func TestParseStyle(t *testing.T) {
	for raw, want := range map[string]Style{"": Box, "table": Box, "md": Markdown, "markdown": Markdown} {
		got, err := ParseStyle(raw)
		if err != nil || got != want {
			t.Errorf("ParseStyle(%q) = %v, %v", raw, got, err)
		}
	}
	if _, err := ParseStyle("html"); err == nil {
		t.Error("unknown style accepted")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"curto", 10, "curto"},
		{"relatório financeiro", 10, "relatór..."},
		{"abcdef", 3, "abc"},
	}
	for _, tc := range tests {
		if got := Truncate(tc.in, tc.max); got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}

func TestResultRendering(t *testing.T) {
	id := "42"
	vm := viewmodel.Build(domain.AnalysisResult{
		TriagemID: &id,
		Status:    "ok",
		MockMode:  true,
		Patterns:  []domain.Pattern{{Type: "erro_sistema", PatternID: "P7", Keyword: "erro", Confidence: 0.873}},
		Solutions: []domain.Solution{{Kind: "padrao", Category: "FINANCEIRO", Priority: domain.PriorityAlta, Confidence: 0.9, SolutionText: "Reprocessar boleto"}},
		Summary:   domain.Summary{OverallPriority: domain.PriorityAlta, TotalPatterns: 1, AffectedCategories: []string{"FINANCEIRO"}},
	})

	out := Result(vm, Box)
	for _, want := range []string{"#42", "ALTA", "ERRO SISTEMA", "87%", "Reprocessar boleto", "MODO DEMONSTRAÇÃO"} {
		if !strings.Contains(out, want) {
			t.Errorf("result output missing %q:\n%s", want, out)
		}
	}
}

func TestPatternsFooter(t *testing.T) {
	out := Patterns([]domain.PatternDefinition{
		{ID: "P1", Type: "lentidao", Category: "RELATÓRIOS", Priority: domain.PriorityBaixa, Keywords: []string{"lento", "demora"}},
		{ID: "P2", Type: "acesso_negado", Category: "CADASTROS", Priority: "urgente"},
	}, Markdown)
	if !strings.Contains(out, "LENTIDAO") || !strings.Contains(out, "MEDIA") || !strings.Contains(out, "Total") {
		t.Errorf("patterns output:\n%s", out)
	}
}
