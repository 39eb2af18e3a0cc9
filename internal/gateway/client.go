package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/triagem/triage-console/internal/config"
	"github.com/triagem/triage-console/internal/domain"
	"github.com/triagem/triage-console/internal/observability"
	apperrors "github.com/triagem/triage-console/pkg/errorutil"
)

// Operation names used in logs, metrics and classified errors.
const (
	OpAnalyzeText       = "analyze-by-text"
	OpAnalyzeTicket     = "analyze-by-ticket"
	OpSubmitFeedback    = "submit-feedback"
	OpStatistics        = "fetch-statistics"
	OpHistory           = "fetch-history"
	OpPatternCatalog    = "fetch-pattern-catalog"
	OpKnowledgeBase     = "fetch-knowledge-base"
	OpHealth            = "health-check"
	OpLookupTicket      = "lookup-external-ticket"
	OpExternalStatus    = "external-system-status"
	OpRecentAnalyses    = "recent-external-analyses"
	defaultHTTPTimeout  = 30 * time.Second
	maxErrorBodyBytes   = 64 << 10
	maxSuccessBodyBytes = 16 << 20
)

// HistoryQuery selects one page of the triage history.
type HistoryQuery struct {
	Page     int
	PageSize int
	Modulo   string
}

// Client talks to the remote triage analysis service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewClient builds a Client. metrics may be nil.
func NewClient(cfg config.GatewayConfig, logger *zap.Logger, metrics *observability.Metrics) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("gateway"),
		metrics:    metrics,
	}
}

// Timeout returns the transport timeout applied to every call.
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// BaseURL returns the analysis service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type call struct {
	op           string
	method       string
	path         string
	query        url.Values
	body         any
	ticketScoped bool
}

// do performs one round trip and decodes a 2xx body into out. Failures are
// always *apperrors.TransportError.
func (c *Client) do(ctx context.Context, req call, out any) error {
	start := time.Now()
	status, err := c.roundTrip(ctx, req, out)
	duration := time.Since(start)

	outcome := "ok"
	if err != nil {
		outcome = string(apperrors.Classify(err))
	}
	c.metrics.RecordGatewayCall(req.op, outcome, duration)

	fields := []zap.Field{
		zap.String("op", req.op),
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.Int("status", status),
		zap.Int64("duration_ms", duration.Milliseconds()),
		zap.String("outcome", outcome),
	}
	if err != nil {
		c.logger.Warn("analysis service call failed", append(fields, zap.Error(err))...)
		return err
	}
	c.logger.Debug("analysis service call", fields...)
	return nil
}

func (c *Client) roundTrip(ctx context.Context, req call, out any) (int, error) {
	fail := func(status int, cause error) *apperrors.TransportError {
		return &apperrors.TransportError{
			Op:           req.op,
			Method:       req.method,
			Path:         req.path,
			StatusCode:   status,
			TicketScoped: req.ticketScoped,
			Err:          cause,
		}
	}

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return 0, fail(0, fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return 0, fail(0, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, fail(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		te := fail(resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status))
		var eb errorBody
		if len(raw) > 0 && json.Unmarshal(raw, &eb) == nil {
			te.Detail = eb.detailText()
			te.Message = strings.TrimSpace(eb.Message)
		}
		return resp.StatusCode, te
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxSuccessBodyBytes)).Decode(out); err != nil {
		// a 2xx status keeps undecodable bodies out of the connection bucket
		return resp.StatusCode, fail(resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return resp.StatusCode, nil
}

// AnalyzeByText submits raw chamado text for analysis.
func (c *Client) AnalyzeByText(ctx context.Context, req domain.TextRequest) (*domain.AnalysisResult, error) {
	var out analysisResponse
	err := c.do(ctx, call{
		op:     OpAnalyzeText,
		method: http.MethodPost,
		path:   "/api/triagem/analisar",
		body:   analyzeTextRequest{ChamadoTexto: req.ChamadoTexto, Modulo: string(req.Modulo)},
	}, &out)
	if err != nil {
		return nil, err
	}
	return toAnalysisResult(out), nil
}

// AnalyzeByTicket asks the service to analyze a ticket held by the external
// ticketing system.
func (c *Client) AnalyzeByTicket(ctx context.Context, ticketNumero string) (*domain.AnalysisResult, error) {
	var out analysisResponse
	err := c.do(ctx, call{
		op:           OpAnalyzeTicket,
		method:       http.MethodPost,
		path:         "/api/triagem/ticket/" + url.PathEscape(ticketNumero),
		ticketScoped: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	result := toAnalysisResult(out)
	if result.TicketNumero == nil {
		tn := ticketNumero
		result.TicketNumero = &tn
	}
	return result, nil
}

// Analyze dispatches on the request variant.
func (c *Client) Analyze(ctx context.Context, req domain.TriageRequest) (*domain.AnalysisResult, error) {
	switch r := req.(type) {
	case domain.TextRequest:
		return c.AnalyzeByText(ctx, r)
	case domain.TicketRequest:
		return c.AnalyzeByTicket(ctx, r.TicketNumero)
	default:
		return nil, fmt.Errorf("unsupported triage request %T", req)
	}
}

// SubmitFeedback records an operator's vote. Errors are returned to the caller.
func (c *Client) SubmitFeedback(ctx context.Context, fb domain.Feedback) error {
	var ack feedbackAck
	return c.do(ctx, call{
		op:     OpSubmitFeedback,
		method: http.MethodPost,
		path:   "/api/triagem/feedback",
		body: feedbackRequest{
			TriagemID:      idValue(fb.TriagemID),
			SolucaoUtil:    fb.Useful,
			Comentario:     fb.Comment,
			Nota:           fb.Rating,
			SolucaoUsada:   fb.SolutionUsed,
			TempoResolucao: fb.ResolutionTime,
		},
	}, &ack)
}

// FetchStatistics loads per-day statistics for the last periodDays days.
// categoria narrows the report when not empty.
func (c *Client) FetchStatistics(ctx context.Context, periodDays int, categoria string) (*domain.StatisticsReport, error) {
	q := url.Values{}
	q.Set("dias", strconv.Itoa(periodDays))
	if categoria != "" {
		q.Set("categoria", categoria)
	}
	var out statisticsResponse
	if err := c.do(ctx, call{op: OpStatistics, method: http.MethodGet, path: "/api/triagem/estatisticas", query: q}, &out); err != nil {
		return nil, err
	}
	return toStatisticsReport(out), nil
}

// FetchHistory loads one page of past triages.
func (c *Client) FetchHistory(ctx context.Context, hq HistoryQuery) (*domain.HistoryPage, error) {
	q := url.Values{}
	q.Set("pagina", strconv.Itoa(max(hq.Page, 1)))
	q.Set("por_pagina", strconv.Itoa(max(hq.PageSize, 1)))
	if hq.Modulo != "" {
		q.Set("modulo", hq.Modulo)
	}
	var out historyResponse
	if err := c.do(ctx, call{op: OpHistory, method: http.MethodGet, path: "/api/triagem/historico", query: q}, &out); err != nil {
		return nil, err
	}
	return toHistoryPage(out), nil
}

// FetchPatternCatalog lists the patterns the service knows about.
func (c *Client) FetchPatternCatalog(ctx context.Context) ([]domain.PatternDefinition, error) {
	var out patternCatalogResponse
	if err := c.do(ctx, call{op: OpPatternCatalog, method: http.MethodGet, path: "/api/triagem/padroes"}, &out); err != nil {
		return nil, err
	}
	return toPatternCatalog(out), nil
}

// FetchKnowledgeBase returns the service's knowledge base as-is.
func (c *Client) FetchKnowledgeBase(ctx context.Context) (*domain.KnowledgeBase, error) {
	var out knowledgeBaseResponse
	if err := c.do(ctx, call{op: OpKnowledgeBase, method: http.MethodGet, path: "/api/triagem/base-conhecimento"}, &out); err != nil {
		return nil, err
	}
	kb := &domain.KnowledgeBase{TotalPatterns: out.TotalPadroes, Raw: out.BaseConhecimento}
	if kb.Raw == nil {
		kb.Raw = map[string]any{}
	}
	return kb, nil
}

// HealthCheck probes the service's liveness endpoint.
func (c *Client) HealthCheck(ctx context.Context) (*domain.HealthStatus, error) {
	var out domain.HealthStatus
	if err := c.do(ctx, call{op: OpHealth, method: http.MethodGet, path: "/health"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LookupExternalTicket fetches the raw chamado held by the external ticketing system.
func (c *Client) LookupExternalTicket(ctx context.Context, ticketNumero string) (*domain.ExternalTicket, error) {
	var out externalTicketResponse
	err := c.do(ctx, call{
		op:           OpLookupTicket,
		method:       http.MethodGet,
		path:         "/api/triagem/buscar-chamado/" + url.PathEscape(ticketNumero),
		ticketScoped: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	ticket := &domain.ExternalTicket{TicketNumero: out.TicketNumero, Data: out.DadosChamado}
	if ticket.TicketNumero == "" {
		ticket.TicketNumero = ticketNumero
	}
	if ticket.Data == nil {
		ticket.Data = map[string]any{}
	}
	return ticket, nil
}

// ExternalSystemStatus reports whether the external ticketing system is reachable
// from the analysis service.
func (c *Client) ExternalSystemStatus(ctx context.Context) (*domain.ExternalSystemStatus, error) {
	var out externalStatusResponse
	if err := c.do(ctx, call{op: OpExternalStatus, method: http.MethodGet, path: "/api/triagem/sistema-principal/status"}, &out); err != nil {
		return nil, err
	}
	return &domain.ExternalSystemStatus{
		Online:  out.SistemaPrincipalOnline,
		URL:     out.URLSistemaPrincipal,
		Message: out.Mensagem,
	}, nil
}

// RecentExternalAnalyses lists the latest analyses from the external ticketing system.
func (c *Client) RecentExternalAnalyses(ctx context.Context, limite int) (*domain.RecentAnalyses, error) {
	q := url.Values{}
	if limite > 0 {
		q.Set("limite", strconv.Itoa(limite))
	}
	var out recentAnalysesResponse
	err := c.do(ctx, call{
		op:     OpRecentAnalyses,
		method: http.MethodGet,
		path:   "/api/triagem/sistema-principal/analises-recentes",
		query:  q,
	}, &out)
	if err != nil {
		return nil, err
	}
	items := out.Analises
	if items == nil {
		items = []map[string]any{}
	}
	return &domain.RecentAnalyses{Total: out.TotalAnalises, Items: items}, nil
}
