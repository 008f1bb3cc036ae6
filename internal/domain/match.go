package domain

// MatchResult is the transient outcome of comparing one probe encoding
// against a candidate list. Not persisted; produced fresh per attempt.
type MatchResult struct {
	// MatchFound reports whether the best candidate cleared the threshold.
	MatchFound bool `json:"match_found"`
	// BestIndex is the index of the minimum-distance candidate, -1 only
	// when the engine was never run.
	BestIndex int `json:"best_index"`
	// Distance is the best candidate's Euclidean distance to the probe.
	Distance float64 `json:"distance"`
	// Confidence is max(0, 1-Distance), reported even when no match was
	// declared so callers can tune thresholds against real traffic.
	Confidence float64 `json:"confidence"`
}

// AuthResult is the orchestrator's final decision over the whole identity
// population.
type AuthResult struct {
	Success    bool      `json:"success"`
	Identity   *Identity `json:"identity,omitempty"`
	Confidence float64   `json:"confidence"`
}
