// Package domain turns OCR text from weather-model screenshots into named
// sounding parameters and scores them into a tornado intensity estimate.
//
// # Data Source
//
// A capture is two screenshots of a model sounding display: the
// thermodynamics panel and the composites panel. Each is run through an OCR
// engine and the two texts are joined with a newline before extraction.
//
// # OCR Conventions
//
// Zero misreads:
//
//	The digit 0 is routinely read as Q, O, o, @, Ø, D or the word "theta".
//	All of these are rewritten to "0" across the whole text before any label
//	search. Labels that contain an O (e.g. "DEW POINT") are matched with a
//	character class that accepts every misread, see [FieldRules].
//
// Label search:
//
//	Each field has an ordered list of label patterns. The first pattern that
//	matches consumes the label, skips anything on the same line, and captures
//	the nearest numeric token (digits and dots). A trailing dot is dropped:
//	"2.4." → "2.4". More specific labels come first so "3CAPE 450" never
//	bleeds into CAPE.
//
// PWAT repair:
//
//	Precipitable water is physically small (roughly 0–3 inches) and its OCR
//	failures are otherwise unbounded, so it is the only field with a numeric
//	repair:
//	  - "7.<digits>" is a misread leading 1: "7.2" → "1.2"
//	  - after rounding to one decimal, values above 4.0 become
//	    1.0 when exactly 7.0, value/10 when ≥ 10, otherwise 1.5
//
// # Scoring
//
// The scorer is a hand-tuned heuristic. Every sub-score is built from
// [Scaled], a clamped linear ramp. Shape adjustments run in a fixed order
// because later steps read values computed earlier, see [Score].
//
//	EF label from power = cape*srh/250000 + 0.7*stp + 1.5*constriction:
//	  ≤1.5 EF0 | >1.5 EF1 | >3 EF2 | >5 EF3 | >8 EF4 | >13 EF5
package domain
