package gateway

import (
	"math"
	"strings"
	"time"

	"github.com/triagem/triage-console/internal/domain"
)

// Conversions from wire shapes to domain types. Absent collections become
// empty, confidences are clamped to [0,1] and priorities are normalized here
// so nothing downstream has to guess at optional fields.

func clampConfidence(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func optionalID(id flexID) *string {
	if id == "" {
		return nil
	}
	s := string(id)
	return &s
}

func nonBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

func priorityOf(raw *string) domain.Priority {
	if raw == nil {
		return domain.PriorityMedia
	}
	return domain.ClassifyPriority(*raw)
}

func stringsOrEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func toAnalysisResult(w analysisResponse) *domain.AnalysisResult {
	result := &domain.AnalysisResult{
		TriagemID:       optionalID(w.TriagemID),
		Status:          "ok",
		Message:         w.Mensagem,
		TicketNumero:    nonBlank(w.TicketNumero),
		ChamadoOriginal: nonBlank(w.ChamadoOriginal),
		Patterns:        make([]domain.Pattern, 0, len(w.PadroesEncontrados)),
		Solutions:       make([]domain.Solution, 0, len(w.SolucoesSugeridas)),
		MockMode:        w.ModoMock,
	}
	if w.Sucesso != nil && !*w.Sucesso {
		result.Status = "error"
	}
	if w.TempoProcessamentoMs != nil && *w.TempoProcessamentoMs > 0 {
		result.ProcessingTimeMs = int64(math.Round(*w.TempoProcessamentoMs))
	}

	for _, p := range w.PadroesEncontrados {
		result.Patterns = append(result.Patterns, domain.Pattern{
			Type:       p.Tipo,
			Keyword:    p.PalavraChave,
			PatternID:  p.PadraoID,
			Confidence: clampConfidence(p.Confianca),
		})
	}

	if w.AnaliseIA != nil {
		result.AiAnalysis = &domain.AiAnalysis{
			ProblemType:       nonBlank(w.AnaliseIA.TipoProblema),
			DetailedCategory:  nonBlank(w.AnaliseIA.CategoriaDetalhada),
			Diagnosis:         nonBlank(w.AnaliseIA.Diagnostico),
			EstimatedTime:     nonBlank(w.AnaliseIA.TempoEstimado),
			RequiredResources: stringsOrEmpty(w.AnaliseIA.RecursosNecessarios),
			Notes:             nonBlank(w.AnaliseIA.Observacoes),
			Error:             nonBlank(w.AnaliseIA.Erro),
		}
	}

	for _, s := range w.SolucoesSugeridas {
		result.Solutions = append(result.Solutions, domain.Solution{
			Kind:                 s.Tipo,
			Category:             s.Categoria,
			Priority:             priorityOf(s.Prioridade),
			Confidence:           clampConfidence(s.Confianca),
			SolutionText:         s.Solucao,
			SuggestedCode:        nonBlank(s.CodigoSugerido),
			SuggestedSQLScript:   nonBlank(s.ScriptSQLSugerido),
			AdditionalSQLScripts: stringsOrEmpty(s.ScriptsSugeridos),
		})
	}

	result.Summary = domain.Summary{OverallPriority: domain.PriorityMedia, AffectedCategories: []string{}}
	if w.Resumo != nil {
		result.Summary = domain.Summary{
			SummaryText:        nonBlank(w.Resumo.Resumo),
			OverallPriority:    priorityOf(w.Resumo.PrioridadeGeral),
			TotalPatterns:      w.Resumo.TotalPadroesDetectados,
			HasAiAnalysis:      w.Resumo.TemAnaliseIA,
			AffectedCategories: stringsOrEmpty(w.Resumo.CategoriasAfetadas),
		}
	}

	if w.Integracao != nil {
		result.Integration = &domain.Integration{
			TicketNumero:       w.Integracao.TicketNumero,
			OriginalAnalysisID: string(w.Integracao.AnaliseIDOriginal),
			SourceSystem:       w.Integracao.SistemaOrigem,
			OriginalDate:       nonBlank(w.Integracao.DataChamadoOriginal),
			OriginalUser:       nonBlank(w.Integracao.UsuarioOriginal),
			OriginalClient:     nonBlank(w.Integracao.ClienteOriginal),
		}
		if result.TicketNumero == nil && w.Integracao.TicketNumero != "" {
			tn := w.Integracao.TicketNumero
			result.TicketNumero = &tn
		}
	}
	return result
}

func toStatisticsReport(w statisticsResponse) *domain.StatisticsReport {
	report := &domain.StatisticsReport{
		Period: w.Periodo,
		Overall: domain.OverallSummary{
			TotalInPeriod:      w.ResumoGeral.TotalTriagensPeriodo,
			AveragePerDay:      w.ResumoGeral.MediaTriagensDia,
			SuccessRate:        w.ResumoGeral.TaxaSucesso,
			MostCommonCategory: w.ResumoGeral.CategoriaMaisComum,
		},
		Daily: make([]domain.DayStat, 0, len(w.Estatisticas)),
	}
	for _, d := range w.Estatisticas {
		day := domain.DayStat{
			Date:                    d.Data,
			TotalTriages:            d.TotalTriagens,
			TriagesWithSolution:     d.TriagensComSolucao,
			AverageProcessingTimeMs: d.TempoMedioProcessamento,
			PriorityCounts:          copyCounts(d.Prioridades),
			ProblemTypes:            copyCounts(d.TiposProblema),
			CommonCategories:        make([]domain.CategoryCount, 0, len(d.CategoriasMaisComuns)),
		}
		for _, c := range d.CategoriasMaisComuns {
			day.CommonCategories = append(day.CommonCategories, domain.CategoryCount{Category: c.Categoria, Count: c.Count})
		}
		report.Daily = append(report.Daily, day)
	}
	return report
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

var historyDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseServiceTime accepts the service's ISO timestamps, which may lack a
// zone. Unparseable values yield the zero time.
func parseServiceTime(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range historyDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

func toHistoryPage(w historyResponse) *domain.HistoryPage {
	page := &domain.HistoryPage{
		Total:    w.Total,
		Page:     w.Pagina,
		PageSize: w.PorPagina,
		Entries:  make([]domain.HistoryEntry, 0, len(w.Triagens)),
	}
	for _, e := range w.Triagens {
		page.Entries = append(page.Entries, domain.HistoryEntry{
			ID:                 string(e.ID),
			Date:               parseServiceTime(e.DataTriagem),
			Modulo:             nonBlank(e.Modulo),
			TotalPatterns:      e.TotalPadroes,
			SolutionsGenerated: e.SolucoesGeradas,
			OverallPriority:    priorityOf(e.PrioridadeGeral),
			HadFeedback:        e.TeveFeedback,
		})
	}
	return page
}

func toPatternCatalog(w patternCatalogResponse) []domain.PatternDefinition {
	out := make([]domain.PatternDefinition, 0, len(w.Padroes))
	for _, p := range w.Padroes {
		out = append(out, domain.PatternDefinition{
			Type:     p.Tipo,
			ID:       p.ID,
			Category: p.Categoria,
			Priority: domain.ClassifyPriority(p.Prioridade),
			Keywords: stringsOrEmpty(p.PalavrasChave),
		})
	}
	return out
}
