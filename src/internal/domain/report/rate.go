package report

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// RedemptionRate 兌換率（百分比，四捨五入到小數第 2 位）
//
// 沒有發放任何點數時返回 0。
func RedemptionRate(given, used int) decimal.Decimal {
	if given <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(used)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(given))).
		Round(2)
}
