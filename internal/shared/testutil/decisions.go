package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// DecisionHeader is the header row of a minimal decision export.
const DecisionHeader = "id,descricao_tipo_documento,decisao_tribunal,corpo_texto\n"

// SampleDecisionsCSV has five decisions: three votes, two of them convictions,
// one fine amount (1234.56) and two fine percentages (12.5 and 17.5).
const SampleDecisionsCSV = DecisionHeader +
	`1,Voto,O Tribunal condena a representada,"multa de 12,5% do faturamento, R$ 1.234,56"` + "\n" +
	`2,Despacho,condena,multa de 50%` + "\n" +
	`3,Voto Processo Administrativo,Arquivamento,sem multa` + "\n" +
	`4,Nota Técnica,,` + "\n" +
	`5,Voto Embargos de Declaração,CONDENAÇÃO mantida,"percentual de 17,5 %"` + "\n"

// WriteInput writes content to name inside a fresh temporary directory and
// returns the file path.
func WriteInput(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
