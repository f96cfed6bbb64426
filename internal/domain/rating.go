package domain

import (
	"fmt"
	"math"
)

// ValidateRating bounds a submitted vote to the 1..5 scale.
func ValidateRating(vote int) error {
	if vote < 1 || vote > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	return nil
}

// FoldRating folds one vote into a running average without storing the
// individual submissions: (avg*count + vote) / (count+1), rounded to one
// decimal with ties going up (4.25 -> 4.3). The stored column keeps two
// decimals of scale but the recomputation deliberately stays at one.
func FoldRating(avg float64, count int, vote int) (newAvg float64, newCount int) {
	total := avg*float64(count) + float64(vote)
	newCount = count + 1
	newAvg = math.Round(total/float64(newCount)*10) / 10
	return newAvg, newCount
}
