package srs

import (
	"math"
	"time"
)

// ReviewState is the scheduling state computed for one review event. It
// carries no card identity so the same state can be applied to any card.
type ReviewState struct {
	IntervalDays int
	Repetitions  int
	EaseFactor   float64
	DueAt        time.Time
}

// calculateNewEaseFactor applies the SM-2 ease adjustment for a quality
// rating in [0,5] and clamps the result to the configured floor.
//
// The adjustment is ease + (0.1 - (5-q)*(0.08 + (5-q)*0.02)): quality 5
// raises ease by 0.1, quality 4 leaves it nearly unchanged, and lower
// ratings progressively reduce it. There is no ceiling; easy cards keep
// growing their intervals.
func calculateNewEaseFactor(currentEF float64, quality int, params *Params) float64 {
	delta := 0.1 - float64(5-quality)*(0.08+float64(5-quality)*0.02)
	newEF := currentEF + delta

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}

	return newEF
}

// calculateNewInterval determines the next interval in days.
//
// Successful recalls (quality >= PassThreshold) walk the SM-2 ladder:
// a fresh card waits FirstInterval, a card on its second streak waits
// SecondInterval, and established cards multiply their prior interval by
// the prior ease factor. A lapse drops the card back to LapseInterval
// regardless of its history.
func calculateNewInterval(quality, priorInterval, priorRepetitions int, priorEase float64, params *Params) int {
	if quality < params.PassThreshold {
		return params.LapseInterval
	}

	switch priorRepetitions {
	case 0:
		return params.FirstInterval
	case 1:
		return params.SecondInterval
	default:
		interval := int(math.Round(float64(priorInterval) * priorEase))
		if interval < 1 {
			interval = 1
		}
		return interval
	}
}

// calculateNextState computes the full successor state for a review event.
// It is pure: identical inputs always produce identical schedules.
func calculateNextState(
	quality, priorInterval, priorRepetitions int,
	priorEase float64,
	now time.Time,
	params *Params,
) ReviewState {
	repetitions := 0
	if quality >= params.PassThreshold {
		repetitions = priorRepetitions + 1
	}

	interval := calculateNewInterval(quality, priorInterval, priorRepetitions, priorEase, params)

	return ReviewState{
		IntervalDays: interval,
		Repetitions:  repetitions,
		EaseFactor:   calculateNewEaseFactor(priorEase, quality, params),
		DueAt:        now.AddDate(0, 0, interval),
	}
}
