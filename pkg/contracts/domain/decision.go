package domain

// Column names of the CADE decision export.
const (
	ColumnID            = "id"
	ColumnDocumentType  = "descricao_tipo_documento"
	ColumnCourtDecision = "decisao_tribunal"
	ColumnBody          = "corpo_texto"
	ColumnConviction    = "condenacao"
	ColumnFinePercent   = "percent_faturamento_multa"
	ColumnFineAmount    = "valor_multa_reais"
)

// RequiredColumns lists the input columns every export must carry.
var RequiredColumns = []string{
	ColumnID,
	ColumnDocumentType,
	ColumnCourtDecision,
	ColumnBody,
}

// SpreadsheetColumns is the column order of the analyzed spreadsheet.
var SpreadsheetColumns = []string{
	ColumnID,
	ColumnDocumentType,
	ColumnConviction,
	ColumnFinePercent,
	ColumnFineAmount,
	ColumnBody,
}

// Decision represents one row of a CADE decision export.
// An empty string means the cell was absent in the source.
type Decision struct {
	Row           int    `json:"row"`
	ID            string `json:"id"`
	DocumentType  string `json:"descricao_tipo_documento"`
	CourtDecision string `json:"decisao_tribunal,omitempty"`
	Body          string `json:"corpo_texto,omitempty"`
}

// DecisionSet is the in-memory table read from one input file.
type DecisionSet struct {
	Source      string     `json:"source"`
	Fingerprint string     `json:"fingerprint"`
	Columns     []string   `json:"columns"`
	Decisions   []Decision `json:"decisions"`
}

// AnalyzedDecision is a retained Decision with its derived fields.
// FinePercent and FineAmount are nil when nothing could be extracted.
type AnalyzedDecision struct {
	Decision
	Conviction  bool     `json:"condenacao"`
	FinePercent *float64 `json:"percent_faturamento_multa"`
	FineAmount  *float64 `json:"valor_multa_reais"`
}
