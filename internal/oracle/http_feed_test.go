package oracle

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseReading_TickerStyle(t *testing.T) {
	fetched := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r, err := parseReading([]byte(`{"symbol":"ETHUSDT","price":"3021.45000000"}`), fetched)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !r.Price.Equal(decimal.RequireFromString("3021.45")) {
		t.Fatalf("price=%s want=3021.45", r.Price.String())
	}
	if !r.UpdatedAt.Equal(fetched) {
		t.Fatalf("updatedAt=%v want fetch time", r.UpdatedAt)
	}
}

func TestParseReading_AggregatorStyle(t *testing.T) {
	fetched := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r, err := parseReading([]byte(`{"answer":"302145000000","updatedAt":1764590400}`), fetched)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !r.Price.Equal(decimal.RequireFromString("3021.45")) {
		t.Fatalf("price=%s want=3021.45", r.Price.String())
	}
	if r.UpdatedAt.Unix() != 1764590400 {
		t.Fatalf("updatedAt=%v want feed timestamp", r.UpdatedAt)
	}
}

func TestParseReading_Errors(t *testing.T) {
	fetched := time.Now().UTC()
	if _, err := parseReading([]byte(`{"foo":1}`), fetched); err == nil {
		t.Fatal("want error for missing price field")
	}
	if _, err := parseReading([]byte(`not json`), fetched); err == nil {
		t.Fatal("want error for bad json")
	}
	if _, err := parseReading([]byte(`{"price":"abc"}`), fetched); err == nil {
		t.Fatal("want error for bad price")
	}
}

func TestStaticFeed_RepeatsLast(t *testing.T) {
	feed := &Static{Readings: []Reading{
		{Price: decimal.NewFromInt(3000)},
		{Price: decimal.NewFromInt(3100)},
	}}
	ctx := context.Background()

	for _, want := range []int64{3000, 3100, 3100} {
		r, err := feed.LatestRound(ctx)
		if err != nil {
			t.Fatalf("round: %v", err)
		}
		if !r.Price.Equal(decimal.NewFromInt(want)) {
			t.Fatalf("price=%s want=%d", r.Price.String(), want)
		}
	}
}
