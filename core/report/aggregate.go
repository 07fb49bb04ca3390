package report

import (
	"fmt"
	"math"

	"github.com/shuletech/shule/core"
)

// weightTolerance absorbs rounding noise in configured percentages:
// a set summing to 99.9 is accepted, 95 is not.
const weightTolerance = 0.1

// WeightedScore pairs one exam's score with its configured weight.
type WeightedScore struct {
	Score  float64
	Weight float64
}

// ValidateWeights rejects weight sets that do not sum to 100 within
// tolerance, or carry out-of-range entries. Aggregation itself assumes a
// valid set and never re-checks.
func ValidateWeights(weights []ExamWeight) error {
	var sum float64
	for _, w := range weights {
		if w.Weight < 0 || w.Weight > 100 {
			return core.NewValidationError(nil, core.FieldError{
				Field: "weights",
				Error: fmt.Sprintf("weight %v for exam %s is out of the 0-100 range", w.Weight, w.ExamID),
			})
		}
		sum += w.Weight
	}
	if math.Abs(sum-100) > weightTolerance {
		return core.NewValidationError(nil, core.FieldError{
			Field: "weights",
			Error: fmt.Sprintf("weights must sum to 100, got %g", sum),
		})
	}
	return nil
}

// WeightedFinal combines exam scores into one final mark:
// Σ(score_i * weight_i / 100).
func WeightedFinal(scores []WeightedScore) float64 {
	var final float64
	for _, s := range scores {
		final += s.Score * s.Weight / 100
	}
	return final
}

// LetterGrade maps a final mark to the school's fixed grade bands.
func LetterGrade(mark float64) string {
	switch {
	case mark >= 80:
		return "A"
	case mark >= 70:
		return "B"
	case mark >= 60:
		return "C"
	case mark >= 50:
		return "D"
	default:
		return "F"
	}
}
