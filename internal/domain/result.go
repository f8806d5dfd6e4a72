package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Shape is a tornado shape category.
type Shape int

const (
	Wedge Shape = iota
	Stovepipe
	Drillbit
	Sidewinder
	Cone
	Rope

	shapeCount
)

// Shapes lists every category in its fixed encounter order.
var Shapes = [shapeCount]Shape{Wedge, Stovepipe, Drillbit, Sidewinder, Cone, Rope}

var shapeNames = [shapeCount]string{"Wedge", "Stovepipe", "Drillbit", "Sidewinder", "Cone", "Rope"}

func (s Shape) String() string {
	if s < 0 || s >= shapeCount {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return shapeNames[s]
}

// MarshalText encodes the shape by name.
func (s Shape) MarshalText() ([]byte, error) {
	if s < 0 || s >= shapeCount {
		return nil, fmt.Errorf("unknown shape %d", int(s))
	}
	return []byte(shapeNames[s]), nil
}

// UnmarshalText decodes a shape name.
func (s *Shape) UnmarshalText(b []byte) error {
	for i, name := range shapeNames {
		if name == string(b) {
			*s = Shape(i)
			return nil
		}
	}
	return fmt.Errorf("unknown shape %q", b)
}

// ShapeScores holds the raw, unnormalized score of each shape.
type ShapeScores [shapeCount]float64

// Get returns the score for one shape.
func (s ShapeScores) Get(shape Shape) float64 {
	return s[shape]
}

// MarshalJSON encodes the scores as an object keyed by shape name.
func (s ShapeScores) MarshalJSON() ([]byte, error) {
	m := make(map[string]float64, shapeCount)
	for _, shape := range Shapes {
		m[shape.String()] = s[shape]
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes an object keyed by shape name.
func (s *ShapeScores) UnmarshalJSON(b []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	var out ShapeScores
	for name, v := range m {
		var shape Shape
		if err := shape.UnmarshalText([]byte(name)); err != nil {
			return err
		}
		out[shape] = v
	}
	*s = out
	return nil
}

// ShapeShare is one shape's percentage of the total shape score.
type ShapeShare struct {
	Shape   Shape   `json:"shape"`
	Percent float64 `json:"percent"`
}

// Distribution converts the shape scores to percentages of their sum, sorted
// descending. Equal percentages keep the fixed category order.
func (s ShapeScores) Distribution() []ShapeShare {
	var total float64
	for _, v := range s {
		total += v
	}

	shares := make([]ShapeShare, 0, shapeCount)
	for _, shape := range Shapes {
		var pct float64
		if total != 0 {
			pct = s[shape] / total * 100
		}
		shares = append(shares, ShapeShare{Shape: shape, Percent: pct})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Percent > shares[j].Percent
	})
	return shares
}

// EFRating is an Enhanced Fujita scale category.
type EFRating int

const (
	EF0 EFRating = iota
	EF1
	EF2
	EF3
	EF4
	EF5
)

// efThresholds are the power levels a score must exceed to reach EF1..EF5.
var efThresholds = [...]float64{1.5, 3.0, 5.0, 8.0, 13.0}

// RatingForPower maps a power value onto the EF scale. Each threshold must be
// strictly exceeded.
func RatingForPower(power float64) EFRating {
	rating := EF0
	for i, t := range efThresholds {
		if power > t {
			rating = EFRating(i + 1)
		}
	}
	return rating
}

func (r EFRating) String() string {
	return fmt.Sprintf("EF%d", int(r))
}

// MarshalText encodes the rating as "EF0".."EF5".
func (r EFRating) MarshalText() ([]byte, error) {
	if r < EF0 || r > EF5 {
		return nil, fmt.Errorf("rating out of range: %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes "EF0".."EF5".
func (r *EFRating) UnmarshalText(b []byte) error {
	var n int
	if _, err := fmt.Sscanf(string(b), "EF%d", &n); err != nil || n < int(EF0) || n > int(EF5) {
		return fmt.Errorf("invalid EF rating %q", b)
	}
	*r = EFRating(n)
	return nil
}

// ScoreResult is the outcome of one scoring call.
type ScoreResult struct {
	Shapes      ShapeScores `json:"shapes"`
	MultiVortex float64     `json:"multi_vortex"`
	RainWrapped float64     `json:"rain_wrapped"`
	Power       float64     `json:"power"`
	Intensity   EFRating    `json:"intensity"`
}

// Distribution is the presentation form of the shape scores.
func (r ScoreResult) Distribution() []ShapeShare {
	return r.Shapes.Distribution()
}
