package chain

import "time"

// Clock supplies the current time and block height to the engine. The
// original contracts read block.timestamp and block.number; here both are
// injected so transitions stay deterministic under test.
type Clock interface {
	Now() time.Time
	BlockNumber() uint64
}

// SystemClock derives a pseudo block height from wall time: one block per
// BlockInterval since Genesis. Heights are informational only, never used in
// guards.
type SystemClock struct {
	Genesis       time.Time
	BlockInterval time.Duration
}

func (c SystemClock) Now() time.Time {
	return time.Now().UTC()
}

func (c SystemClock) BlockNumber() uint64 {
	interval := c.BlockInterval
	if interval <= 0 {
		interval = 12 * time.Second
	}
	now := time.Now().UTC()
	if !now.After(c.Genesis) {
		return 0
	}
	return uint64(now.Sub(c.Genesis) / interval)
}
