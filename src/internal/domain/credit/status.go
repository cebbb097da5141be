package credit

// Status 點數狀態
//
// 狀態機：
//
//	pending ──approve──▶ available ──redeem──▶ used
//	   │
//	   └────reject────▶ rejected
//
// used 與 rejected 為終止狀態。軟刪除（excluded）與狀態正交。
type Status string

const (
	StatusPending   Status = "pending"
	StatusAvailable Status = "available"
	StatusUsed      Status = "used"
	StatusRejected  Status = "rejected"
)

// IsValid 檢查狀態是否為支援的枚舉值
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAvailable, StatusUsed, StatusRejected:
		return true
	}
	return false
}

// CanTransitionTo 判斷狀態轉換是否合法
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusAvailable || next == StatusRejected
	case StatusAvailable:
		return next == StatusUsed
	}
	return false
}
