package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cadestats/pkg/contracts/domain"
)

func TestMatcher(t *testing.T) {
	labels := NewMatcher("Voto", "Voto Processo Administrativo", "Voto Embargos de Declaração")

	tests := []struct {
		text string
		want bool
	}{
		{"Voto", true},
		{"VOTO VOGAL", true},
		{"voto embargos de declaração", true},
		{"Devoto", true},
		{"Despacho", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, labels.Match(tt.text))
		})
	}
}

func TestMatcher_LiteralTerms(t *testing.T) {
	m := NewMatcher("a.b", "(x)")
	assert.True(t, m.Match("A.B"))
	assert.False(t, m.Match("axb"))
	assert.True(t, m.Match("caso (x) julgado"))
	assert.Equal(t, []string{"a.b", "(x)"}, m.Terms())
}

func TestMatcher_NoTerms(t *testing.T) {
	assert.False(t, NewMatcher().Match("qualquer"))
	assert.False(t, NewMatcher("").Match("qualquer"))

	var m *Matcher
	assert.False(t, m.Match("qualquer"))
}

func TestFilterByDocumentType(t *testing.T) {
	decisions := []domain.Decision{
		{Row: 1, DocumentType: "Voto"},
		{Row: 2, DocumentType: "Despacho"},
		{Row: 3, DocumentType: ""},
		{Row: 4, DocumentType: "Voto Processo Administrativo"},
	}

	kept := FilterByDocumentType(decisions, NewMatcher("voto"))
	if assert.Len(t, kept, 2) {
		assert.Equal(t, 1, kept[0].Row)
		assert.Equal(t, 4, kept[1].Row)
	}
	assert.Empty(t, FilterByDocumentType(nil, NewMatcher("voto")))
}

func TestDetectConviction(t *testing.T) {
	keyword := NewMatcher("condena")

	assert.True(t, DetectConviction("O Tribunal CONDENA a representada", keyword))
	assert.True(t, DetectConviction("pela condenação", keyword))
	assert.False(t, DetectConviction("arquivamento", keyword))
	assert.False(t, DetectConviction("", keyword))
}
