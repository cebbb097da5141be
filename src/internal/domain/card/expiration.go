package card

import (
	"time"
)

// ===========================
// ExpirationPolicy 值對象
// ===========================

// ExpirationUnit 到期時間單位
type ExpirationUnit string

const (
	UnitDay   ExpirationUnit = "day"
	UnitMonth ExpirationUnit = "month"
	UnitYear  ExpirationUnit = "year"
)

// IsValid 檢查單位是否為支援的枚舉值
func (u ExpirationUnit) IsValid() bool {
	switch u {
	case UnitDay, UnitMonth, UnitYear:
		return true
	}
	return false
}

// ExpirationPolicy 點數到期規則（相對期間）
//
// 例如 {amount: 6, unit: month} 代表點數自發放起 6 個日曆月後到期。
type ExpirationPolicy struct {
	amount int
	unit   ExpirationUnit
}

// NewExpirationPolicy 建構函數（checked 版本，用於外部輸入）
func NewExpirationPolicy(amount int, unit ExpirationUnit) (ExpirationPolicy, error) {
	if amount <= 0 {
		return ExpirationPolicy{}, ErrInvalidExpirationPolicy.WithContext(
			"amount", amount,
			"reason", "amount must be positive",
		)
	}
	if !unit.IsValid() {
		return ExpirationPolicy{}, ErrInvalidExpirationPolicy.WithContext(
			"unit", string(unit),
			"reason", "unit must be day, month or year",
		)
	}
	return ExpirationPolicy{amount: amount, unit: unit}, nil
}

// ReconstructExpirationPolicy 從持久化資料重建（不驗證）
//
// 損壞的規則會在 ComputeExpiration 時以 ErrUnsupportedExpirationUnit 浮現。
func ReconstructExpirationPolicy(amount int, unit ExpirationUnit) ExpirationPolicy {
	return ExpirationPolicy{amount: amount, unit: unit}
}

// Amount 獲取期間數量
func (p ExpirationPolicy) Amount() int {
	return p.amount
}

// Unit 獲取期間單位
func (p ExpirationPolicy) Unit() ExpirationUnit {
	return p.unit
}

// ===========================
// 到期日計算
// ===========================

// ComputeExpiration 計算絕對到期時間
//
// 規則：
//   - day: 加上日曆天（AddDate，跨夏令時間仍保持牆上時間）
//   - month/year: 日曆加法，目標月份沒有該日時落在該月最後一天
//     （1/31 + 1 month → 2/28 或 2/29；2/29 + 1 year → 2/28）
//
// 純函數，唯一的錯誤是不支援的單位或非正數量（ErrUnsupportedExpirationUnit）。
func ComputeExpiration(issuedAt time.Time, policy ExpirationPolicy) (time.Time, error) {
	if policy.amount <= 0 {
		return time.Time{}, ErrUnsupportedExpirationUnit.WithContext(
			"amount", policy.amount,
			"unit", string(policy.unit),
		)
	}

	switch policy.unit {
	case UnitDay:
		return issuedAt.AddDate(0, 0, policy.amount), nil
	case UnitMonth:
		return addMonthsClamped(issuedAt, policy.amount), nil
	case UnitYear:
		return addMonthsClamped(issuedAt, policy.amount*12), nil
	default:
		return time.Time{}, ErrUnsupportedExpirationUnit.WithContext(
			"unit", string(policy.unit),
		)
	}
}

// ExpiresAt 以此規則計算到期時間
func (p ExpirationPolicy) ExpiresAt(issuedAt time.Time) (time.Time, error) {
	return ComputeExpiration(issuedAt, p)
}

// addMonthsClamped 日曆月加法，日期溢位時夾到月底
//
// time.AddDate 會把 1/31 + 1 month 正規化成 3/3，這裡不採用。
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()

	total := int(month) - 1 + months
	targetYear := year + total/12
	targetMonth := total % 12
	if targetMonth < 0 {
		targetMonth += 12
		targetYear--
	}

	last := daysIn(targetYear, time.Month(targetMonth+1), t.Location())
	if day > last {
		day = last
	}

	return time.Date(targetYear, time.Month(targetMonth+1), day, hour, minute, sec, t.Nanosecond(), t.Location())
}

// daysIn 返回指定月份的天數
func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
