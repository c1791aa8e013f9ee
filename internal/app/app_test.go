package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"cadestats/internal/config"
	"cadestats/internal/errors"
	"cadestats/internal/infrastructure"
	"cadestats/internal/shared/testutil"
	"cadestats/pkg/contracts/domain"
)

const sampleCSV = testutil.SampleDecisionsCSV

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func setupRun(t *testing.T, content string) *config.Config {
	t.Helper()
	input := testutil.WriteInput(t, "decisoes.csv", []byte(content))

	cfg := config.Default()
	cfg.Input.File = input
	cfg.Output.Dir = filepath.Join(filepath.Dir(input), "out")
	return cfg
}

func TestRun_EndToEnd(t *testing.T) {
	cfg := setupRun(t, sampleCSV)
	cfg.Output.Manifest = "run.json"

	result, err := Run(context.Background(), cfg, quietLogger())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 3, result.RetainedCount())
	assert.Equal(t, 5, result.Summary.TotalRows)
	assert.Equal(t, 2, result.Summary.Convictions)
	assert.InDelta(t, 200.0/3, result.Summary.ConvictionRate, 1e-9)
	assert.InDelta(t, 1234.56, result.Summary.MeanFineAmount, 1e-9)
	assert.InDelta(t, 15.0, result.Summary.MeanFinePercent, 1e-9)

	outDir := cfg.Output.Dir
	assert.Equal(t, filepath.Join(outDir, "output.xlsx"), result.Outputs.Spreadsheet)
	assert.Equal(t, filepath.Join(outDir, "relatorio.csv"), result.Outputs.Report)
	assert.Equal(t, filepath.Join(outDir, "histograma_percentual_multa.png"), result.Outputs.Histogram)
	assert.Equal(t, filepath.Join(outDir, "run.json"), result.Outputs.Manifest)

	report, err := os.ReadFile(result.Outputs.Report)
	require.NoError(t, err)
	assert.Equal(t, "porcentagem_condenacao,media_valor_reais,media_percentual_faturamento\n66.67,1234.56,15.00\n", string(report))

	f, err := excelize.OpenFile(result.Outputs.Spreadsheet)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"1", "3", "5"}, []string{rows[1][0], rows[2][0], rows[3][0]})

	info, err := os.Stat(result.Outputs.Histogram)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	data, err := os.ReadFile(result.Outputs.Manifest)
	require.NoError(t, err)
	var manifest domain.RunManifest
	require.NoError(t, json.Unmarshal(data, &manifest))
	assert.Equal(t, result.RunID, manifest.RunID)
	assert.Equal(t, "v1", manifest.FormatVersion)
	assert.Equal(t, 20, manifest.HistogramBins)
	assert.Len(t, manifest.InputFingerprint, 64)
	assert.Equal(t, 3, manifest.Statistics.Retained)
	require.NotNil(t, manifest.Statistics.MeanFinePercent)
	assert.InDelta(t, 15.0, *manifest.Statistics.MeanFinePercent, 1e-9)
}

func TestRun_NoRelevantDocuments(t *testing.T) {
	cfg := setupRun(t, "id,descricao_tipo_documento,decisao_tribunal,corpo_texto\n1,Despacho,condena,10%\n")

	result, err := Run(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, 0, result.RetainedCount())

	report, err := os.ReadFile(result.Outputs.Report)
	require.NoError(t, err)
	assert.Equal(t, "porcentagem_condenacao,media_valor_reais,media_percentual_faturamento\n0.00,nan,nan\n", string(report))

	_, err = os.Stat(result.Outputs.Histogram)
	assert.NoError(t, err, "histogram is written even without values")
}

func TestRun_UsesTraceIDFromContext(t *testing.T) {
	cfg := setupRun(t, sampleCSV)
	ctx := infrastructure.WithTraceID(context.Background(), "fixed-run-id")

	result, err := Run(ctx, cfg, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, "fixed-run-id", result.RunID)
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(t *testing.T, cfg *config.Config)
		content  string
		wantExit int
	}{
		{
			name: "missing input",
			mutate: func(t *testing.T, cfg *config.Config) {
				cfg.Input.File = filepath.Join(t.TempDir(), "missing.csv")
			},
			content:  sampleCSV,
			wantExit: errors.ExitInput,
		},
		{
			name:     "missing column",
			content:  "id,descricao_tipo_documento\n1,Voto\n",
			wantExit: errors.ExitInput,
		},
		{
			name:     "row wider than header",
			content:  "id,descricao_tipo_documento,decisao_tribunal,corpo_texto\n1,Voto,condena,x,y\n",
			wantExit: errors.ExitInput,
		},
		{
			name: "invalid configuration",
			mutate: func(t *testing.T, cfg *config.Config) {
				cfg.Analysis.DocumentTypes = nil
			},
			content:  sampleCSV,
			wantExit: errors.ExitConfig,
		},
		{
			name: "output directory is a file",
			mutate: func(t *testing.T, cfg *config.Config) {
				blocker := filepath.Join(t.TempDir(), "blocker")
				require.NoError(t, os.WriteFile(blocker, nil, 0644))
				cfg.Output.Dir = blocker
			},
			content:  sampleCSV,
			wantExit: errors.ExitOutput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := setupRun(t, tt.content)
			if tt.mutate != nil {
				tt.mutate(t, cfg)
			}

			_, err := Run(context.Background(), cfg, quietLogger())
			require.Error(t, err)
			assert.Equal(t, tt.wantExit, errors.ExitCode(err))
		})
	}
}

func TestApplication_RunWithTelemetry(t *testing.T) {
	cfg := setupRun(t, sampleCSV)
	metricsFile := filepath.Join(t.TempDir(), "cade.prom")
	ctx := context.Background()

	tel, err := infrastructure.InitializeTelemetry(ctx, config.TelemetryConfig{MetricsFile: metricsFile}, "run-telemetry", quietLogger())
	require.NoError(t, err)

	a, err := NewApplication(cfg, quietLogger(), tel)
	require.NoError(t, err)
	a.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	_, err = a.Run(ctx)
	require.NoError(t, err)
	require.NoError(t, tel.Shutdown(ctx))

	content, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "cade_rows_read")
	assert.Contains(t, string(content), `stage="emit"`)
}

func TestPrintSummary(t *testing.T) {
	result := &domain.AnalysisResult{
		Summary: domain.Summary{
			ConvictionRate:  200.0 / 3,
			MeanFineAmount:  1234.56,
			MeanFinePercent: 15,
		},
		Outputs: domain.OutputFiles{
			Spreadsheet: filepath.Join("out", "output.xlsx"),
			Report:      filepath.Join("out", "relatorio.csv"),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, PrintSummary(&buf, result))

	expected := "Porcentagem de condenação: 66.67%\n" +
		"Média valor condenação (R$): 1234.56\n" +
		"Média percentual do faturamento usado como multa: 15.00%\n" +
		"Arquivos output.xlsx e relatorio.csv gerados!\n"
	assert.Equal(t, expected, buf.String())
}

func TestOpenViewer_NoViewerAvailable(t *testing.T) {
	t.Setenv("DISPLAY", ":0")
	orig := lookPath
	lookPath = func(string) (string, error) { return "", os.ErrNotExist }
	defer func() { lookPath = orig }()

	err := OpenViewer(context.Background(), quietLogger(), "histograma.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open viewer")
}
