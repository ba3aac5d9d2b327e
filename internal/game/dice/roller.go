package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged bounded draws.
// All draws are logged at debug level with their range and value.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs each draw to logger.
//
// Precondition: src must be non-nil. A nil logger is replaced with a no-op logger.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// RandInt draws a value in [lo, hi] and logs it.
//
// Precondition: lo <= hi.
// Postcondition: lo <= result <= hi; the draw is logged.
func (r *Roller) RandInt(lo, hi int) int {
	d := Draw{Low: lo, High: hi, Value: RandInt(r.src, lo, hi)}
	r.logger.Debug("random draw",
		zap.Int("low", d.Low),
		zap.Int("high", d.High),
		zap.Int("value", d.Value),
	)
	return d.Value
}

// Intn satisfies Source so a Roller can stand in wherever a raw Source is accepted.
func (r *Roller) Intn(n int) int {
	return r.src.Intn(n)
}
