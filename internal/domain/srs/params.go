package srs

// Params defines all configurable parameters for the spaced repetition
// algorithm. The ease adjustment curve itself is fixed (see algorithm.go);
// these values control the interval ladder and the quality threshold.
type Params struct {
	// MinEaseFactor is the floor applied after every ease adjustment.
	MinEaseFactor float64

	// PassThreshold is the lowest quality rating counted as a successful
	// recall. Ratings below it are lapses.
	PassThreshold int

	// FirstInterval is the interval in days after the first successful
	// recall of a fresh card.
	FirstInterval int

	// SecondInterval is the interval in days after the second consecutive
	// successful recall.
	SecondInterval int

	// LapseInterval is the interval in days a card falls back to after a
	// failed recall, regardless of its history.
	LapseInterval int
}

// NewDefaultParams creates a new Params instance with the standard SM-2
// values: quality 3 passes, intervals run 1 then 6 then interval*ease, and
// ease never drops below 1.3.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:  1.3,
		PassThreshold:  3,
		FirstInterval:  1,
		SecondInterval: 6,
		LapseInterval:  1,
	}
}
