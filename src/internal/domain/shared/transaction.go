package shared

// TransactionContext 事務上下文介面
//
// 行為約定：
// - ctx != nil: 在呼叫者的事務中執行
// - ctx == nil: auto-commit（僅適用於單一讀操作）
//
// Repository 方法約束：
// - 寫操作（SaveAll、MarkUsed、TransitionStatus、Update）必須在事務中
// - 讀操作（FindByID、Find）可選擇是否參與事務
//
// 兌換流程的「讀取 → 檢查 → 條件更新」必須共用同一個 ctx，
// 條件更新影響筆數不符時由 TransactionManager 回滾。
//
// 這是標記介面；具體實作（GORM、MongoDB session）在 Infrastructure Layer。
type TransactionContext interface {
	// 標記介面：僅用於傳遞上下文，不暴露方法
}

// TransactionManager 事務管理器介面
//
// fn 返回錯誤或 panic 時回滾，否則提交。
type TransactionManager interface {
	InTransaction(fn func(ctx TransactionContext) error) error
}
