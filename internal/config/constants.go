package config

import "cadestats/pkg/contracts"

// Application constants
const (
	AppName    = "cade-report"
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable (CADE_INPUT_FILE, ...).
	EnvPrefix = "CADE"

	DefaultConfigFile = "cade-report.yaml"

	// Output artifacts
	DefaultSpreadsheetFile = "output.xlsx"
	DefaultReportFile      = "relatorio.csv"
	DefaultHistogramFile   = "histograma_percentual_multa.png"
	DefaultSheetName       = "Sheet1"

	// Analysis heuristics
	DefaultConvictionKeyword = "condena"
	DefaultHistogramBins     = 20

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogFile   = "logs/cade-report.log"
)

// DefaultDocumentTypes are the document-type labels retained by the filter.
var DefaultDocumentTypes = []string{
	"Voto",
	"Voto Processo Administrativo",
	"Voto Embargos de Declaração",
}
