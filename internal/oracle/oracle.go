package oracle

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Reading is one ETH/USD observation: a price quoted to 8 decimal places and
// the feed's own update timestamp (the Chainlink aggregator answer/updatedAt
// pair the original frontend displayed).
type Reading struct {
	Price     decimal.Decimal `json:"price"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PriceFeed supplies the settlement price. Settlement logic treats a zero
// price or a stale UpdatedAt as a reportable failure; that policy lives in
// the caller so feeds stay dumb.
type PriceFeed interface {
	LatestRound(ctx context.Context) (Reading, error)
}

// Static is a fixed-sequence feed for tests: each LatestRound call pops the
// next reading, repeating the last one once the sequence is exhausted.
type Static struct {
	Readings []Reading
	Err      error

	idx int
}

func (s *Static) LatestRound(ctx context.Context) (Reading, error) {
	if s.Err != nil {
		return Reading{}, s.Err
	}
	if len(s.Readings) == 0 {
		return Reading{}, nil
	}
	r := s.Readings[s.idx]
	if s.idx < len(s.Readings)-1 {
		s.idx++
	}
	return r, nil
}
