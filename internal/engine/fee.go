package engine

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// SettlementIncentive computes the settler's fee in wei:
//
//	min(entryFee * feePercent * 2 / 100, feeMax)
//
// The doubling expresses the fee as a percentage of the whole pot
// (2 * entryFee) relative to one party's stake. Division floors, and the
// remainder stays in escrow for the winner, so payouts always conserve the
// total staked.
func SettlementIncentive(feePercent int64, feeMax, entryFee decimal.Decimal) decimal.Decimal {
	raw := entryFee.
		Mul(decimal.NewFromInt(feePercent * 2)).
		Div(hundred).
		Floor()
	if raw.GreaterThan(feeMax) {
		return feeMax
	}
	return raw
}
