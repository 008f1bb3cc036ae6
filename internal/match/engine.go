package match

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/lumeon/visage/internal/domain"
)

// ErrNoCandidates reports a caller bug: the orchestrator must skip
// identities with zero enrollments instead of invoking the engine.
var ErrNoCandidates = errors.New("compare requires at least one candidate encoding")

// Compare computes the Euclidean distance from the probe to every candidate,
// selects the minimum-distance candidate (first occurrence wins ties) and
// applies the threshold to that one candidate. Best-match selection and the
// match flag come from the same distance pass so they can never disagree.
func Compare(candidates [][]float64, probe []float64, threshold float64) (domain.MatchResult, error) {
	if len(candidates) == 0 {
		return domain.MatchResult{BestIndex: -1}, ErrNoCandidates
	}
	if len(probe) != domain.EncodingDimensions {
		return domain.MatchResult{BestIndex: -1}, domain.ErrInvalidEncoding
	}

	bestIndex := 0
	bestDistance := 0.0
	for i, candidate := range candidates {
		if len(candidate) != len(probe) {
			return domain.MatchResult{BestIndex: -1},
				fmt.Errorf("candidate %d: %w", i, domain.ErrInvalidEncoding)
		}
		d := floats.Distance(candidate, probe, 2)
		if i == 0 || d < bestDistance {
			bestIndex = i
			bestDistance = d
		}
	}

	confidence := 1.0 - bestDistance
	if confidence < 0 {
		confidence = 0
	}

	return domain.MatchResult{
		MatchFound: bestDistance <= threshold,
		BestIndex:  bestIndex,
		Distance:   bestDistance,
		Confidence: confidence,
	}, nil
}
