package domain

import (
	"regexp"
	"strings"
)

// Field names a sounding parameter read from a capture.
type Field string

const (
	FieldTemp  Field = "temp"
	FieldDew   Field = "dew"
	Field3CAPE Field = "3cape"
	FieldCAPE  Field = "cape"
	FieldLapse Field = "lapse"
	FieldSRH   Field = "srh"
	FieldRH    Field = "rh"
	FieldMidRH Field = "mid_rh"
	FieldPWAT  Field = "pwat"
	FieldSTP   Field = "stp"
	FieldVTP   Field = "vtp"
	FieldRaw   Field = "raw"
	FieldSpeed Field = "speed"
)

// ParameterFields lists the numeric fields the extractor searches for, in
// review order.
var ParameterFields = []Field{
	FieldTemp, FieldDew, FieldCAPE, Field3CAPE, FieldSRH, FieldLapse,
	FieldRH, FieldMidRH, FieldPWAT, FieldSTP, FieldVTP,
}

// ParseField maps a field name to a Field. Unknown names report false.
func ParseField(name string) (Field, bool) {
	f := Field(strings.ToLower(strings.TrimSpace(name)))
	switch f {
	case FieldTemp, FieldDew, Field3CAPE, FieldCAPE, FieldLapse, FieldSRH,
		FieldRH, FieldMidRH, FieldPWAT, FieldSTP, FieldVTP, FieldRaw, FieldSpeed:
		return f, true
	default:
		return "", false
	}
}

// FieldRule is the ordered list of label patterns tried for one field.
type FieldRule struct {
	Field  Field
	Labels []string

	patterns []*regexp.Regexp
}

// Match returns the numeric token following the first label that matches,
// with any trailing dot removed, or "" if no label matches.
func (r FieldRule) Match(text string) string {
	for _, re := range r.patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimRight(m[1], ".")
		}
	}
	return ""
}

// FieldRules is the label table, most specific labels first. 3CAPE has its own
// rule and the CAPE label refuses a leading 3; RE2 has no look-behind, so the
// exclusion is spelled as a non-3 prefix character.
var FieldRules = compileRules([]FieldRule{
	{Field: FieldTemp, Labels: []string{`TEMPERATURE`, `TEMP`}},
	{Field: FieldDew, Labels: []string{`DEW\s*P[O0Q@ØoD]INT`, `P[O0Q@ØoD]INT`, `DEWPOINT`, `DEW`}},
	{Field: Field3CAPE, Labels: []string{`3\s*CAPE`, `3CAPE`}},
	{Field: FieldCAPE, Labels: []string{`(?:^|[^3])CAPE`}},
	{Field: FieldLapse, Labels: []string{`0-3\s*[Kk]?[Mm]?\s*LAPSE`, `0-3\s*LAPSE`, `0-3`}},
	{Field: FieldSRH, Labels: []string{`SRH`}},
	{Field: FieldRH, Labels: []string{`SURFACE\s*RH`, `SFC\s*RH`}},
	{Field: FieldMidRH, Labels: []string{`MB\s*RH`, `500\s*MB`, `MID\s*RH`}},
	{Field: FieldPWAT, Labels: []string{`PWAT`}},
	{Field: FieldSTP, Labels: []string{`STP`, `SIP`, `S\.T\.P`, `3TP`, `3\s*T\s*P`}},
	{Field: FieldVTP, Labels: []string{`VTP`, `VIP`, `V\.T\.P`, `3TP`, `3\s*T\s*P`}},
})

func compileRules(rules []FieldRule) []FieldRule {
	for i := range rules {
		rules[i].patterns = make([]*regexp.Regexp, len(rules[i].Labels))
		for j, label := range rules[i].Labels {
			rules[i].patterns[j] = regexp.MustCompile(`(?i)` + label + `.*?(\d[\d.]*)`)
		}
	}
	return rules
}

// Rule returns the label rule for a field.
func Rule(f Field) (FieldRule, bool) {
	for _, r := range FieldRules {
		if r.Field == f {
			return r, true
		}
	}
	return FieldRule{}, false
}

// ExtractedFields maps each field to the string read for it, "" when absent.
type ExtractedFields map[Field]string

// NewExtractedFields returns a record with every parameter and raw set to "".
func NewExtractedFields() ExtractedFields {
	fields := make(ExtractedFields, len(ParameterFields)+1)
	for _, f := range ParameterFields {
		fields[f] = ""
	}
	fields[FieldRaw] = ""
	return fields
}

// Get returns the value for f, "" when missing.
func (e ExtractedFields) Get(f Field) string {
	return e[f]
}

// WithOverrides returns a copy with reviewer corrections applied. The raw text
// cannot be overridden.
func (e ExtractedFields) WithOverrides(overrides map[Field]string) ExtractedFields {
	out := make(ExtractedFields, len(e)+len(overrides))
	for k, v := range e {
		out[k] = v
	}
	for k, v := range overrides {
		if k == FieldRaw {
			continue
		}
		out[k] = v
	}
	return out
}
