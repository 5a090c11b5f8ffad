package dxt1

import (
	"fmt"
	"strings"
)

// Quality trades endpoint search effort for speed. Every level runs the
// search of the level below it and then continues from its result.
type Quality uint8

const (
	// QualitySuperFast scores the seeds and runs a short fast-evaluator climb.
	QualitySuperFast Quality = iota
	// QualityFast adds an exhaustive-evaluator climb.
	QualityFast
	// QualityNormal adds least-squares refits and a wider climb.
	QualityNormal
	// QualityBetter adds alternate block mode and alpha-as-black trials.
	QualityBetter
	// QualityUber adds the combinatorial joint endpoint search.
	QualityUber

	numQualities = int(QualityUber) + 1
)

// QualityDefault is used when no options are given.
const QualityDefault = QualityNormal

var qualityNames = [numQualities]string{"superfast", "fast", "normal", "better", "uber"}

func (q Quality) String() string {
	if int(q) < numQualities {
		return qualityNames[q]
	}
	return fmt.Sprintf("Quality(%d)", uint8(q))
}

// Valid reports whether q is a known level.
func (q Quality) Valid() bool {
	return int(q) < numQualities
}

// ParseQuality returns the level named s (case-insensitive).
func ParseQuality(s string) (Quality, error) {
	for i, name := range qualityNames {
		if strings.EqualFold(s, name) {
			return Quality(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadQuality, s)
}
