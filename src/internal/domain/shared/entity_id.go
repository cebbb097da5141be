package shared

import (
	"github.com/google/uuid"
)

// ===========================
// EntityID[T] 泛型實體 ID
// ===========================

// EntityID 泛型實體 ID 值對象
//
// 設計原則：
// 1. 標記類型 T 讓 CardID、CreditID、UserID 成為互不相容的類型
// 2. 不可變（unexported field）
// 3. 零值代表「未設定」，以 IsEmpty 判斷
//
// 使用範例：
//
//	type CardMarker struct{}
//	type CardID = shared.EntityID[CardMarker]
type EntityID[T any] struct {
	value uuid.UUID
}

// NewEntityID 生成新的實體 ID（UUID v4）
func NewEntityID[T any]() EntityID[T] {
	return EntityID[T]{value: uuid.New()}
}

// EntityIDFromString 從字串解析實體 ID
//
// 參數：
//
//	s - UUID 字串
//	errTemplate - 解析失敗時返回的錯誤（由各 bounded context 提供）
//
// 空字串與 uuid.Nil 都視為無效，避免「空 ID」流入領域層。
func EntityIDFromString[T any](s string, errTemplate *DomainError) (EntityID[T], error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return EntityID[T]{}, errTemplate.WithContext(
			"input", s,
			"parse_error", err.Error(),
		)
	}
	if id == uuid.Nil {
		return EntityID[T]{}, errTemplate.WithContext(
			"input", s,
			"reason", "nil uuid",
		)
	}
	return EntityID[T]{value: id}, nil
}

// String 返回小寫 UUID 字串
func (e EntityID[T]) String() string {
	return e.value.String()
}

// Equals 比較兩個相同類型的 ID
func (e EntityID[T]) Equals(other EntityID[T]) bool {
	return e.value == other.value
}

// IsEmpty 判斷是否為零值 ID
func (e EntityID[T]) IsEmpty() bool {
	return e.value == uuid.Nil
}

// Less 依 UUID 字串排序，用於決定性的 tie-break
func (e EntityID[T]) Less(other EntityID[T]) bool {
	return e.value.String() < other.value.String()
}
