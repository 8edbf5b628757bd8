package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// HTTPFeed polls a REST price endpoint. It understands two shapes:
//
//   - ticker style: {"symbol":"ETHUSDT","price":"3021.45000000"}
//   - aggregator-proxy style: {"answer":"302145000000","updatedAt":1699999999}
//     where answer is the raw 8-decimal fixed-point integer
//
// Ticker responses carry no timestamp, so the fetch time is used.
type HTTPFeed struct {
	HTTP     *http.Client
	Endpoint string
}

var priceScale = decimal.New(1, 8)

func (f *HTTPFeed) LatestRound(ctx context.Context) (Reading, error) {
	if f == nil || strings.TrimSpace(f.Endpoint) == "" {
		return Reading{}, fmt.Errorf("oracle endpoint not configured")
	}
	client := f.HTTP
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.Endpoint, nil)
	if err != nil {
		return Reading{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return Reading{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Reading{}, fmt.Errorf("oracle endpoint returned %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Reading{}, err
	}
	return parseReading(body, time.Now().UTC())
}

func parseReading(body []byte, fetchedAt time.Time) (Reading, error) {
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		return Reading{}, err
	}

	if raw, ok := obj["answer"]; ok {
		answer, err := decimalFromAny(raw)
		if err != nil {
			return Reading{}, fmt.Errorf("parse answer: %w", err)
		}
		updatedAt := fetchedAt
		if ts, ok := obj["updatedAt"]; ok {
			if sec, err := decimalFromAny(ts); err == nil {
				updatedAt = time.Unix(sec.IntPart(), 0).UTC()
			}
		}
		return Reading{Price: answer.Div(priceScale), UpdatedAt: updatedAt}, nil
	}

	if raw, ok := obj["price"]; ok {
		price, err := decimalFromAny(raw)
		if err != nil {
			return Reading{}, fmt.Errorf("parse price: %w", err)
		}
		return Reading{Price: price.Round(8), UpdatedAt: fetchedAt}, nil
	}

	return Reading{}, fmt.Errorf("no price field in oracle response")
}

func decimalFromAny(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case float64:
		return decimal.NewFromFloat(x), nil
	case string:
		return decimal.NewFromString(strings.TrimSpace(x))
	case json.Number:
		return decimal.NewFromString(x.String())
	default:
		return decimal.Zero, fmt.Errorf("unsupported value %T", v)
	}
}
