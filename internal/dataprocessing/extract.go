package dataprocessing

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ws is the whitespace class used by the extraction patterns. It covers the
// Unicode separators and the ASCII control spaces that legal texts carry
// (non-breaking spaces in particular), not just \s.
const ws = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`

var (
	// finePercentPattern matches the first "NN%" or "N,N %" in a text.
	// There is no left digit boundary: "100%" matches as "00%".
	finePercentPattern = regexp.MustCompile(`(\d{1,2}(?:[.,]\d+)?)` + ws + `*%`)

	// fineAmountPattern matches the first "R$ 1.234,56" style amount.
	fineAmountPattern = regexp.MustCompile(`R\$` + ws + `?([\d.]+,\d{2})`)
)

// ExtractFinePercent returns the first percentage found in text.
// The decimal comma is accepted. ok is false when text has no percentage.
func ExtractFinePercent(text string) (value float64, ok bool) {
	if text == "" {
		return 0, false
	}
	m := finePercentPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	return parseDecimal(strings.Replace(m[1], ",", ".", 1))
}

// ExtractFineAmount returns the first Brazilian currency amount found in
// text, with thousands separators removed.
func ExtractFineAmount(text string) (value float64, ok bool) {
	if text == "" {
		return 0, false
	}
	m := fineAmountPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	digits := strings.ReplaceAll(m[1], ".", "")
	return parseDecimal(strings.Replace(digits, ",", ".", 1))
}

// parseDecimal parses s, keeping out-of-range values as ±Inf or 0.
func parseDecimal(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return v, true
		}
		return 0, false
	}
	return v, true
}
