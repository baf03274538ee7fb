package layout

// Config holds the empirically tuned constants of the packing heuristic.
type Config struct {
	// PhotoScore is added to the word count of contributions with a visual.
	PhotoScore int
	// PhotoWeight, LongTextWeight and ShortTextWeight are fractions of a
	// page occupied by one contribution in the two column grid.
	PhotoWeight     float64
	LongTextWeight  float64
	ShortTextWeight float64
	// LongTextWords is the word count above which a note counts as long.
	LongTextWords int
	// PageCapacity is the fill ceiling of a content page. It stays below 1
	// so caption overflow and margins do not clip content.
	PageCapacity float64
}

func DefaultConfig() Config {
	return Config{
		PhotoScore:      100,
		PhotoWeight:     0.5,
		LongTextWeight:  0.45,
		ShortTextWeight: 0.28,
		LongTextWords:   120,
		PageCapacity:    0.92,
	}
}
