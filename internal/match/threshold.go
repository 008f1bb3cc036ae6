package match

import (
	"math"
	"sync/atomic"

	"github.com/lumeon/visage/internal/domain"
)

// Threshold is the process-wide accept/reject boundary. Reads are lock-free;
// each authentication call reads it exactly once so a concurrent Set never
// splits one scan across two values.
type Threshold struct {
	bits atomic.Uint64
}

// NewThreshold creates a holder with the given initial value. The value is
// assumed pre-validated by config loading.
func NewThreshold(value float64) *Threshold {
	t := &Threshold{}
	t.bits.Store(math.Float64bits(value))
	return t
}

// Get returns the current threshold.
func (t *Threshold) Get() float64 {
	return math.Float64frombits(t.bits.Load())
}

// Set updates the threshold. Values outside [0,1] are rejected; lower values
// are stricter.
func (t *Threshold) Set(value float64) error {
	if value < 0 || value > 1 || math.IsNaN(value) {
		return domain.ErrInvalidThreshold
	}
	t.bits.Store(math.Float64bits(value))
	return nil
}
