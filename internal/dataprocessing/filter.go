package dataprocessing

import (
	"regexp"
	"strings"

	"cadestats/pkg/contracts/domain"
)

// Matcher tests whether a text contains any of a set of terms, ignoring case.
// Terms are literal: regex metacharacters in them carry no meaning.
type Matcher struct {
	terms []string
	re    *regexp.Regexp
}

// NewMatcher builds a matcher for terms. Empty terms are ignored; a matcher
// without terms matches nothing.
func NewMatcher(terms ...string) *Matcher {
	m := &Matcher{}
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		if t == "" {
			continue
		}
		m.terms = append(m.terms, t)
		quoted = append(quoted, regexp.QuoteMeta(t))
	}
	if len(quoted) > 0 {
		m.re = regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)`)
	}
	return m
}

// Match reports whether text contains one of the terms. Absent text never matches.
func (m *Matcher) Match(text string) bool {
	if m == nil || m.re == nil || text == "" {
		return false
	}
	return m.re.MatchString(text)
}

// Terms returns the terms the matcher was built from.
func (m *Matcher) Terms() []string {
	return append([]string(nil), m.terms...)
}

// FilterByDocumentType returns the decisions whose document type contains one
// of the labels, in input order.
func FilterByDocumentType(decisions []domain.Decision, labels *Matcher) []domain.Decision {
	kept := make([]domain.Decision, 0, len(decisions))
	for _, d := range decisions {
		if labels.Match(d.DocumentType) {
			kept = append(kept, d)
		}
	}
	return kept
}

// DetectConviction reports whether the court decision text contains the
// conviction keyword.
func DetectConviction(text string, keyword *Matcher) bool {
	return keyword.Match(text)
}
