package dataprocessing

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"cadestats/internal/errors"
	"cadestats/pkg/contracts/domain"
)

// missingMarkers are cell values read as absent, the usual NA spellings of
// spreadsheet and dataframe exports.
var missingMarkers = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// LoaderOptions configures how an export is decoded.
type LoaderOptions struct {
	Delimiter rune
	Encoding  string
	// Sheet selects the worksheet of an .xlsx input; empty means the first one.
	Sheet string
}

// Loader reads a CADE decision export into a DecisionSet.
type Loader struct {
	logger *slog.Logger
	opts   LoaderOptions
}

// NewLoader creates a loader. Zero options mean comma separated UTF-8.
func NewLoader(logger *slog.Logger, opts LoaderOptions) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if opts.Encoding == "" {
		opts.Encoding = "utf-8"
	}
	return &Loader{logger: logger, opts: opts}
}

// LoadFile reads the export at path. Files ending in .xlsx are read as
// workbooks, anything else as delimited text.
func (l *Loader) LoadFile(ctx context.Context, path string) (*domain.DecisionSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError(fmt.Sprintf("input file %s", path), err)
		}
		return nil, errors.NewInputError("failed to read input file", err).WithContext("path", path)
	}

	sum := blake2b.Sum256(data)
	fingerprint := hex.EncodeToString(sum[:])

	var rows [][]string
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		rows, err = l.readWorkbook(data)
	} else {
		rows, err = l.readDelimited(data)
	}
	if err != nil {
		return nil, err
	}

	set, err := buildDecisionSet(rows)
	if err != nil {
		return nil, err
	}
	set.Source = path
	set.Fingerprint = fingerprint

	l.logger.InfoContext(ctx, "Input loaded",
		slog.String("path", path),
		slog.Int("rows", len(set.Decisions)),
		slog.Int("columns", len(set.Columns)),
		slog.String("blake2b", fingerprint))

	return set, nil
}

func (l *Loader) readDelimited(data []byte) ([][]string, error) {
	dec, err := decoderFor(l.opts.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(transform.NewReader(bytes.NewReader(data), dec))
	reader.Comma = l.opts.Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError("malformed delimited input", err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func (l *Loader) readWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewParsingError("failed to open workbook", err)
	}
	defer f.Close()

	sheet := l.opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.NewAppValidationError("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheet), err)
	}
	l.logger.Debug("Reading workbook sheet", slog.String("sheet_name", sheet), slog.Int("total_rows", len(rows)))
	return rows, nil
}

// decoderFor maps an encoding name to a decoder. A UTF-8 byte order mark is
// stripped whatever the configured encoding.
func decoderFor(name string) (transform.Transformer, error) {
	var fallback encoding.Encoding
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		fallback = unicode.UTF8
	case "latin1", "iso-8859-1":
		fallback = charmap.ISO8859_1
	case "windows-1252":
		fallback = charmap.Windows1252
	default:
		return nil, errors.NewConfigError(fmt.Sprintf("unsupported encoding %q", name), nil)
	}
	return unicode.BOMOverride(fallback.NewDecoder()), nil
}

// buildDecisionSet maps the header row to column positions and converts the
// data rows. Rows wider than the header are rejected; short rows leave the
// trailing columns absent.
func buildDecisionSet(rows [][]string) (*domain.DecisionSet, error) {
	if len(rows) == 0 {
		return nil, errors.NewParsingError("input has no header row", nil)
	}

	header := rows[0]
	columnMap := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := columnMap[name]; !dup {
			columnMap[name] = i
		}
	}

	var missing []string
	for _, col := range domain.RequiredColumns {
		if _, ok := columnMap[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewAppValidationError("input is missing required columns").
			WithContext("missing", strings.Join(missing, ","))
	}

	set := &domain.DecisionSet{
		Columns:   append([]string(nil), header...),
		Decisions: make([]domain.Decision, 0, len(rows)-1),
	}

	cell := func(record []string, col string) string {
		idx := columnMap[col]
		if idx >= len(record) {
			return ""
		}
		v := record[idx]
		if _, na := missingMarkers[v]; na {
			return ""
		}
		return v
	}

	for i, record := range rows[1:] {
		if len(record) > len(header) {
			return nil, errors.NewParsingError(
				fmt.Sprintf("row %d has %d fields, header has %d", i+1, len(record), len(header)), nil)
		}
		set.Decisions = append(set.Decisions, domain.Decision{
			Row:           i + 1,
			ID:            cell(record, domain.ColumnID),
			DocumentType:  cell(record, domain.ColumnDocumentType),
			CourtDecision: cell(record, domain.ColumnCourtDecision),
			Body:          cell(record, domain.ColumnBody),
		})
	}

	return set, nil
}
