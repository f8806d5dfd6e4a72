package domain

import (
	"strconv"
	"strings"
)

// DefaultSpeed is the storm motion assumed when the reviewer leaves speed blank.
const DefaultSpeed = 60.0

// Inputs are the numeric values the scorer works from. Values are not checked
// for physical plausibility; individual formulas clamp what they need.
type Inputs struct {
	Temp  float64 `json:"temp"`
	Dew   float64 `json:"dew"`
	CAPE3 float64 `json:"3cape"`
	CAPE  float64 `json:"cape"`
	Lapse float64 `json:"lapse"`
	SRH   float64 `json:"srh"`
	RH    float64 `json:"rh"`
	MidRH float64 `json:"mid_rh"`
	PWAT  float64 `json:"pwat"`
	STP   float64 `json:"stp"`
	VTP   float64 `json:"vtp"`
	Speed float64 `json:"speed"`
}

// ParseNumber coerces a reviewed field value to a number. Commas count as
// decimal points and every character other than a digit or dot is dropped, so
// signs and units disappear. Empty or unparsable input yields 0.
func ParseNumber(s string) float64 {
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// CoerceInputs converts (possibly reviewer-edited) field strings to Inputs.
// A missing or blank speed falls back to DefaultSpeed.
func CoerceInputs(fields ExtractedFields) Inputs {
	in := Inputs{
		Temp:  ParseNumber(fields.Get(FieldTemp)),
		Dew:   ParseNumber(fields.Get(FieldDew)),
		CAPE3: ParseNumber(fields.Get(Field3CAPE)),
		CAPE:  ParseNumber(fields.Get(FieldCAPE)),
		Lapse: ParseNumber(fields.Get(FieldLapse)),
		SRH:   ParseNumber(fields.Get(FieldSRH)),
		RH:    ParseNumber(fields.Get(FieldRH)),
		MidRH: ParseNumber(fields.Get(FieldMidRH)),
		PWAT:  ParseNumber(fields.Get(FieldPWAT)),
		STP:   ParseNumber(fields.Get(FieldSTP)),
		VTP:   ParseNumber(fields.Get(FieldVTP)),
		Speed: DefaultSpeed,
	}
	if s := strings.TrimSpace(fields.Get(FieldSpeed)); s != "" {
		in.Speed = ParseNumber(s)
	}
	return in
}
