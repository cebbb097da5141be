package shared

import "time"

// Clock 時間來源
//
// 到期判斷與到期日計算都依賴「現在」，注入 Clock 讓用例在測試中可重現。
type Clock interface {
	Now() time.Time
}

// SystemClock 使用系統時間
type SystemClock struct{}

// Now 返回目前時間（UTC）
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock 固定時間（測試與批次重放用）
type FixedClock struct {
	At time.Time
}

// Now 返回固定時間
func (c FixedClock) Now() time.Time {
	return c.At
}
