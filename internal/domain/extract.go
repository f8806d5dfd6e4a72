package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// zeroMisreads rewrites characters OCR confuses with the digit 0.
var zeroMisreads = strings.NewReplacer(
	"Q", "0",
	"O", "0",
	"o", "0",
	"@", "0",
	"Ø", "0",
	"D", "0",
	"theta", "0",
)

// pwatLeadingSevenRe matches a PWAT reading whose leading 1 was read as 7.
var pwatLeadingSevenRe = regexp.MustCompile(`^7\.\d+$`)

// NormalizeOCRText applies the zero-misread corrections to the whole text.
func NormalizeOCRText(text string) string {
	return zeroMisreads.Replace(text)
}

// Extract reads every parameter field from raw OCR text. It never fails: a
// field whose labels do not match is left as "". The raw text is kept verbatim
// under FieldRaw.
func Extract(text string) ExtractedFields {
	normalized := NormalizeOCRText(text)

	fields := NewExtractedFields()
	for _, rule := range FieldRules {
		fields[rule.Field] = rule.Match(normalized)
	}
	fields[FieldPWAT] = repairPWAT(fields[FieldPWAT])
	fields[FieldRaw] = text
	return fields
}

// repairPWAT corrects recurring PWAT misreads. Values that do not parse are
// returned unchanged, including digit runs too long for a float64.
func repairPWAT(raw string) string {
	if raw == "" {
		return raw
	}
	if pwatLeadingSevenRe.MatchString(raw) {
		raw = "1" + raw[1:]
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	v = roundTenth(v)
	if v > 4.0 {
		switch {
		case v == 7.0:
			v = 1.0
		case v >= 10:
			v /= 10
		default:
			v = 1.5
		}
	}
	return formatDecimal(v)
}

// roundTenth rounds half-to-even on the exact binary value, the same rounding
// the decimal formatter uses.
func roundTenth(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// formatDecimal prints the shortest round-trip form of v and always keeps a
// fractional part: 1 → "1.0", 1.2 → "1.2".
func formatDecimal(v float64) string {
	if math.Abs(v) >= 1e16 {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
