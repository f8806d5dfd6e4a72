package domain

import "math"

// Scaled is a clamped linear ramp: 0 at or below lo, maxPoints at or above hi,
// linear in between.
func Scaled(value, lo, hi, maxPoints float64) float64 {
	switch {
	case value <= lo:
		return 0
	case value >= hi:
		return maxPoints
	default:
		return (value - lo) / (hi - lo) * maxPoints
	}
}

// baseShapeScores are the shape scores before any adjustment.
var baseShapeScores = ShapeScores{
	Wedge:      10,
	Stovepipe:  10,
	Drillbit:   3,
	Sidewinder: 5,
	Cone:       10,
	Rope:       10,
}

// minWedgeScore keeps Wedge in the distribution however large its penalty.
const minWedgeScore = 5

// scoreState accumulates one scoring call.
type scoreState struct {
	in           Inputs
	shapes       ShapeScores
	constriction float64
	wedgePenalty float64
}

// adjustment is one named step of the shape scoring sequence.
type adjustment struct {
	name  string
	apply func(*scoreState)
}

// adjustments run in this order. Later steps read constriction, and the wedge
// floor must follow every wedge bonus and the penalty.
var adjustments = []adjustment{
	{"constriction", func(s *scoreState) {
		s.constriction = Scaled(s.in.Lapse, 7.0, 10.0, 1.0)
	}},
	{"drillbit_dry_steep", func(s *scoreState) {
		if s.in.RH < 45 && s.in.Lapse > 10.5 {
			dryness := Scaled(45-s.in.RH, 0, 25, 40)
			steepness := Scaled(s.in.Lapse, 10.5, 12.5, 40)
			s.shapes[Drillbit] += dryness + steepness
		}
	}},
	{"wedge_moisture", func(s *scoreState) {
		s.shapes[Wedge] += Scaled(15-(s.in.Temp-s.in.Dew), 0, 10, 50) + Scaled(s.in.RH, 60, 100, 60)
	}},
	{"wedge_mid_rh", func(s *scoreState) {
		if s.in.MidRH > 60 {
			s.shapes[Wedge] += Scaled(s.in.MidRH, 60, 95, 30)
		}
	}},
	{"wedge_penalty", func(s *scoreState) {
		s.wedgePenalty = Scaled(s.in.Lapse, 8.5, 10.0, 15)
		if s.in.CAPE > 5000 {
			s.wedgePenalty = 0
			s.shapes[Wedge] += 20
		}
	}},
	{"wedge_floor", func(s *scoreState) {
		s.shapes[Wedge] = math.Max(minWedgeScore, s.shapes[Wedge]-s.wedgePenalty)
	}},
	{"stovepipe_band", func(s *scoreState) {
		band := Scaled(s.in.Lapse, 6.5, 8.0, 30) - Scaled(s.in.Lapse, 9.2, 11.0, 30)
		s.shapes[Stovepipe] += band + Scaled(s.in.RH, 50, 85, 40)
	}},
	{"sidewinder", func(s *scoreState) {
		s.shapes[Sidewinder] += Scaled(s.in.VTP, 1, 6, 50) + s.constriction*25
	}},
	{"stp_boost", func(s *scoreState) {
		if s.in.STP <= 5 {
			return
		}
		boost := Scaled(s.in.STP, 5, 25, 40)
		if s.constriction > 0.7 {
			if s.shapes[Drillbit] > 0 {
				s.shapes[Drillbit] += boost * 0.8
			}
			s.shapes[Stovepipe] += boost * 0.4
			return
		}
		s.shapes[Wedge] += boost * 0.9
		s.shapes[Stovepipe] += boost * 0.4
	}},
}

// Score computes the shape scores, auxiliary likelihoods and EF label for one
// set of inputs. It is pure: identical inputs give identical results.
func Score(in Inputs) ScoreResult {
	s := &scoreState{in: in, shapes: baseShapeScores}
	for _, adj := range adjustments {
		adj.apply(s)
	}

	multiVortex := math.Min(95, 5+Scaled(in.SRH, 200, 800, 80)+Scaled(in.STP, 5, 25, 20))
	rainWrapped := math.Min(100, 10+Scaled(in.PWAT, 1.0, 2.5, 70)+Scaled(in.RH, 60, 100, 20))
	power := (in.CAPE*in.SRH)/250000 + in.STP*0.7 + s.constriction*1.5

	return ScoreResult{
		Shapes:      s.shapes,
		MultiVortex: multiVortex,
		RainWrapped: rainWrapped,
		Power:       power,
		Intensity:   RatingForPower(power),
	}
}
