package gateway

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Wire types mirror the analysis service's JSON field names exactly.

// flexID accepts identifiers sent either as JSON numbers or strings.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// idValue encodes an identifier as a JSON number when it is numeric, which is
// what the service's schema declares.
func idValue(id string) json.RawMessage {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return json.RawMessage(strconv.FormatInt(n, 10))
	}
	encoded, _ := json.Marshal(id)
	return encoded
}

type analyzeTextRequest struct {
	ChamadoTexto string `json:"chamado_texto"`
	Modulo       string `json:"modulo"`
}

type feedbackRequest struct {
	TriagemID      json.RawMessage `json:"triagem_id"`
	SolucaoUtil    bool            `json:"solucao_util"`
	Comentario     string          `json:"comentario"`
	Nota           int             `json:"nota"`
	SolucaoUsada   *string         `json:"solucao_usada,omitempty"`
	TempoResolucao *string         `json:"tempo_resolucao,omitempty"`
}

type feedbackAck struct {
	Sucesso    bool   `json:"sucesso"`
	FeedbackID flexID `json:"feedback_id"`
	Mensagem   string `json:"mensagem"`
}

type patternWire struct {
	Tipo         string  `json:"tipo"`
	PadraoID     string  `json:"padrao_id"`
	PalavraChave string  `json:"palavra_chave"`
	Confianca    float64 `json:"confianca"`
}

type aiAnalysisWire struct {
	TipoProblema        *string  `json:"tipo_problema"`
	CategoriaDetalhada  *string  `json:"categoria_detalhada"`
	Diagnostico         *string  `json:"diagnostico"`
	TempoEstimado       *string  `json:"tempo_estimado"`
	RecursosNecessarios []string `json:"recursos_necessarios"`
	Observacoes         *string  `json:"observacoes"`
	Erro                *string  `json:"erro"`
}

type solutionWire struct {
	Tipo              string   `json:"tipo"`
	Categoria         string   `json:"categoria"`
	Prioridade        *string  `json:"prioridade"`
	Solucao           string   `json:"solucao"`
	CodigoSugerido    *string  `json:"codigo_sugerido"`
	ScriptSQLSugerido *string  `json:"script_sql_sugerido"`
	ScriptsSugeridos  []string `json:"scripts_sugeridos"`
	Confianca         float64  `json:"confianca"`
}

type summaryWire struct {
	TotalPadroesDetectados int      `json:"total_padroes_detectados"`
	TemAnaliseIA           bool     `json:"tem_analise_ia"`
	CategoriasAfetadas     []string `json:"categorias_afetadas"`
	PrioridadeGeral        *string  `json:"prioridade_geral"`
	Resumo                 *string  `json:"resumo"`
}

type integrationWire struct {
	TicketNumero        string  `json:"ticket_numero"`
	AnaliseIDOriginal   flexID  `json:"analise_id_original"`
	SistemaOrigem       string  `json:"sistema_origem"`
	DataChamadoOriginal *string `json:"data_chamado_original"`
	UsuarioOriginal     *string `json:"usuario_original"`
	ClienteOriginal     *string `json:"cliente_original"`
}

type analysisResponse struct {
	Sucesso              *bool            `json:"sucesso"`
	TriagemID            flexID           `json:"triagem_id"`
	TicketNumero         *string          `json:"ticket_numero"`
	ChamadoOriginal      *string          `json:"chamado_original"`
	PadroesEncontrados   []patternWire    `json:"padroes_encontrados"`
	AnaliseIA            *aiAnalysisWire  `json:"analise_ia"`
	SolucoesSugeridas    []solutionWire   `json:"solucoes_sugeridas"`
	Resumo               *summaryWire     `json:"resumo"`
	ModoMock             bool             `json:"modo_mock"`
	TempoProcessamentoMs *float64         `json:"tempo_processamento_ms"`
	Integracao           *integrationWire `json:"integracao"`
	Mensagem             string           `json:"mensagem"`
}

type categoryCountWire struct {
	Categoria string `json:"categoria"`
	Count     int    `json:"count"`
}

type dayStatWire struct {
	Data                    string              `json:"data"`
	TotalTriagens           int                 `json:"total_triagens"`
	TriagensComSolucao      int                 `json:"triagens_com_solucao"`
	TiposProblema           map[string]int      `json:"tipos_problema"`
	CategoriasMaisComuns    []categoryCountWire `json:"categorias_mais_comuns"`
	Prioridades             map[string]int      `json:"prioridades"`
	TempoMedioProcessamento float64             `json:"tempo_medio_processamento"`
}

type overallWire struct {
	TotalTriagensPeriodo int     `json:"total_triagens_periodo"`
	MediaTriagensDia     float64 `json:"media_triagens_dia"`
	TaxaSucesso          float64 `json:"taxa_sucesso"`
	CategoriaMaisComum   string  `json:"categoria_mais_comum"`
}

type statisticsResponse struct {
	Periodo      string        `json:"periodo"`
	Estatisticas []dayStatWire `json:"estatisticas"`
	ResumoGeral  overallWire   `json:"resumo_geral"`
}

type historyEntryWire struct {
	ID              flexID  `json:"id"`
	DataTriagem     string  `json:"data_triagem"`
	Modulo          *string `json:"modulo"`
	TotalPadroes    int     `json:"total_padroes"`
	PrioridadeGeral *string `json:"prioridade_geral"`
	SolucoesGeradas int     `json:"solucoes_geradas"`
	TeveFeedback    bool    `json:"teve_feedback"`
}

type historyResponse struct {
	Triagens  []historyEntryWire `json:"triagens"`
	Total     int                `json:"total"`
	Pagina    int                `json:"pagina"`
	PorPagina int                `json:"por_pagina"`
}

type patternDefinitionWire struct {
	Tipo          string   `json:"tipo"`
	ID            string   `json:"id"`
	Categoria     string   `json:"categoria"`
	Prioridade    string   `json:"prioridade"`
	PalavrasChave []string `json:"palavras_chave"`
}

type patternCatalogResponse struct {
	TotalPadroes int                     `json:"total_padroes"`
	Padroes      []patternDefinitionWire `json:"padroes"`
}

type knowledgeBaseResponse struct {
	BaseConhecimento map[string]any `json:"base_conhecimento"`
	TotalPadroes     int            `json:"total_padroes"`
}

type externalTicketResponse struct {
	TicketNumero string         `json:"ticket_numero"`
	DadosChamado map[string]any `json:"dados_chamado"`
}

type externalStatusResponse struct {
	SistemaPrincipalOnline bool   `json:"sistema_principal_online"`
	URLSistemaPrincipal    string `json:"url_sistema_principal"`
	Mensagem               string `json:"mensagem"`
}

type recentAnalysesResponse struct {
	TotalAnalises int              `json:"total_analises"`
	Analises      []map[string]any `json:"analises"`
}

// errorBody is the shape of non-2xx responses. detail is a string for
// handled errors and a list for request validation failures.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

func (b errorBody) detailText() string {
	raw := bytes.TrimSpace(b.Detail)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return string(raw)
}
