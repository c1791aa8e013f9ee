package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadestats/internal/config"
	"cadestats/internal/errors"
	"cadestats/internal/infrastructure"
	"cadestats/internal/shared/testutil"
	"cadestats/pkg/contracts"
)

func writeSample(t *testing.T) (input, outDir string) {
	t.Helper()
	input = testutil.WriteInput(t, "decisoes.csv", []byte(testutil.SampleDecisionsCSV))
	return input, filepath.Join(filepath.Dir(input), "out")
}

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	var out, errOut bytes.Buffer
	code = execute(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestExecute_Success(t *testing.T) {
	input, outDir := writeSample(t)

	code, stdout, stderr := runCLI(t, "-i", input, "--out-dir", outDir, "--log-level", "error")
	require.Equal(t, errors.ExitOK, code, stderr)

	expected := "Porcentagem de condenação: 66.67%\n" +
		"Média valor condenação (R$): 1234.56\n" +
		"Média percentual do faturamento usado como multa: 15.00%\n" +
		"Arquivos output.xlsx e relatorio.csv gerados!\n"
	assert.Equal(t, expected, stdout)

	for _, name := range []string{"output.xlsx", "relatorio.csv", "histograma_percentual_multa.png"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}
}

func TestExecute_PositionalInputAndRenamedOutputs(t *testing.T) {
	input, outDir := writeSample(t)
	metrics := filepath.Join(outDir, "metrics", "cade.prom")

	code, stdout, stderr := runCLI(t, input,
		"--out-dir", outDir,
		"--spreadsheet", "decisoes.xlsx",
		"--report", "stats.csv",
		"--manifest", "run.json",
		"--metrics-file", metrics,
		"--log-level", "error")
	require.Equal(t, errors.ExitOK, code, stderr)
	assert.Contains(t, stdout, "Arquivos decisoes.xlsx e stats.csv gerados!")

	for _, name := range []string{"decisoes.xlsx", "stats.csv", "run.json"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}
	_, err := os.Stat(metrics)
	assert.NoError(t, err)
}

func TestExecute_ConfigFile(t *testing.T) {
	input, outDir := writeSample(t)
	cfgFile := filepath.Join(t.TempDir(), "cade-report.yaml")
	yaml := "input:\n  path: " + input + "\n" +
		"output:\n  dir: " + outDir + "\n" +
		"analysis:\n  document_types:\n    - Despacho\n" +
		"logging:\n  level: error\n"
	require.NoError(t, os.WriteFile(cfgFile, []byte(yaml), 0644))

	code, stdout, stderr := runCLI(t, "--config", cfgFile)
	require.Equal(t, errors.ExitOK, code, stderr)
	assert.Contains(t, stdout, "Porcentagem de condenação: 100.00%")
	assert.Contains(t, stdout, "Média valor condenação (R$): nan")
	assert.Contains(t, stdout, "Média percentual do faturamento usado como multa: 50.00%")
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     func(t *testing.T) []string
		wantCode int
	}{
		{
			name: "missing input file",
			args: func(t *testing.T) []string {
				return []string{"-i", filepath.Join(t.TempDir(), "missing.csv"), "--out-dir", t.TempDir()}
			},
			wantCode: errors.ExitInput,
		},
		{
			name: "no input configured",
			args: func(t *testing.T) []string {
				return []string{"--out-dir", t.TempDir()}
			},
			wantCode: errors.ExitConfig,
		},
		{
			name: "unknown flag",
			args: func(t *testing.T) []string {
				return []string{"--nope"}
			},
			wantCode: errors.ExitConfig,
		},
		{
			name: "too many arguments",
			args: func(t *testing.T) []string {
				return []string{"a.csv", "b.csv"}
			},
			wantCode: errors.ExitConfig,
		},
		{
			name: "missing config file",
			args: func(t *testing.T) []string {
				return []string{"--config", filepath.Join(t.TempDir(), "none.yaml")}
			},
			wantCode: errors.ExitConfig,
		},
		{
			name: "quote delimiter",
			args: func(t *testing.T) []string {
				input, outDir := writeSample(t)
				return []string{"-i", input, "--out-dir", outDir, "--delimiter", `"`}
			},
			wantCode: errors.ExitConfig,
		},
		{
			name: "invalid bins",
			args: func(t *testing.T) []string {
				input, outDir := writeSample(t)
				return []string{"-i", input, "--out-dir", outDir, "--bins", "0"}
			},
			wantCode: errors.ExitConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.args(t)...)
			assert.Equal(t, tt.wantCode, code, stderr)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, "Error:")
		})
	}
}

func TestExecute_ConfigErrorsPointToHelp(t *testing.T) {
	code, _, stderr := runCLI(t, "--nope")
	assert.Equal(t, errors.ExitConfig, code)
	assert.Contains(t, stderr, "Run 'cade-report --help' for usage.")

	code, _, stderr = runCLI(t, "-i", filepath.Join(t.TempDir(), "missing.csv"), "--out-dir", t.TempDir())
	assert.Equal(t, errors.ExitInput, code)
	assert.NotContains(t, stderr, "--help")
}

func TestApplyFlags_OnlyChangedFlags(t *testing.T) {
	opts := &options{}
	cmd := buildRootCmd(opts)
	require.NoError(t, cmd.ParseFlags([]string{"--keyword", "multa", "--document-type", "Voto", "--document-type", "Acórdão", "--trace-file", "trace.json"}))

	cfg := config.Default()
	cfg.Output.Dir = "from-file"
	applyFlags(cmd, opts, cfg)

	assert.Equal(t, "multa", cfg.Analysis.ConvictionKeyword)
	assert.Equal(t, []string{"Voto", "Acórdão"}, cfg.Analysis.DocumentTypes)
	assert.Equal(t, "from-file", cfg.Output.Dir, "unset flags keep the configured value")
	assert.Equal(t, config.DefaultHistogramBins, cfg.Analysis.HistogramBins)
	assert.True(t, cfg.Telemetry.Tracing)
	assert.Equal(t, "trace.json", cfg.Telemetry.TraceFile)
}

func TestApplyFlags_DocumentTypeKeepsCommas(t *testing.T) {
	opts := &options{}
	cmd := buildRootCmd(opts)
	require.NoError(t, cmd.ParseFlags([]string{"--document-type", "Voto, Relator", "--document-type", "Despacho"}))

	cfg := config.Default()
	applyFlags(cmd, opts, cfg)

	assert.Equal(t, []string{"Voto, Relator", "Despacho"}, cfg.Analysis.DocumentTypes)
}

func TestExecute_Version(t *testing.T) {
	code, stdout, _ := runCLI(t, "--version")
	assert.Equal(t, errors.ExitOK, code)
	assert.Contains(t, stdout, contracts.Version)
}
