package report

import "time"

// ===========================
// 週統計
// ===========================

const (
	// WeeksInWindow 統計視窗固定為 4 週
	WeeksInWindow = 4
	daysPerWeek   = 7
	labelLayout   = "02/01"
)

// Record 帶時間戳記的統計資料
//
// Attributes 供唯一值計數使用（例如 "user_id"）。
type Record struct {
	At         time.Time
	Attributes map[string]string
}

// WeekBucket 一週的統計結果
type WeekBucket struct {
	Week  string // 週起始日 DD/MM
	Count int
}

// Window 統計視窗中單一週的範圍 [Start, End)
type Window struct {
	Start time.Time
	End   time.Time
}

// Windows 計算 4 個週視窗（由舊到新）
//
// 第 i 週起點為 now - (4-i)*7 天所在日的零時，終點為下一週起點。
// 最新一週延伸到 now 隔日零時（不含），今天的資料計入最新一週；標籤不受影響。
// 所有邊界對齊 now 所在時區的日界線。
func Windows(now time.Time) [WeeksInWindow]Window {
	today := startOfDay(now)

	var windows [WeeksInWindow]Window
	for i := 0; i < WeeksInWindow; i++ {
		windows[i].Start = today.AddDate(0, 0, -(WeeksInWindow-i)*daysPerWeek)
		if i > 0 {
			windows[i-1].End = windows[i].Start
		}
	}
	windows[WeeksInWindow-1].End = today.AddDate(0, 0, 1)
	return windows
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Span 整個統計視窗的範圍 [Start, End)
func Span(now time.Time) Window {
	w := Windows(now)
	return Window{Start: w[0].Start, End: w[WeeksInWindow-1].End}
}

// Contains 判斷時間是否落在視窗內
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// WeeklyStats 將記錄分配到 4 個週桶
//
// uniqueKey 為空時計算記錄數；否則計算每週 Attributes[uniqueKey] 的不重複值數量。
// 輸入為空或格式不正確（時間為零值、缺少 uniqueKey）時返回 4 個計數為 0 的桶，
// 呼叫端永遠拿到長度 4 的結果。
func WeeklyStats(now time.Time, records []Record, uniqueKey string) []WeekBucket {
	windows := Windows(now)
	buckets := emptyBuckets(windows)

	if !wellFormed(records, uniqueKey) {
		return buckets
	}

	seen := make([]map[string]struct{}, WeeksInWindow)
	for _, r := range records {
		i := bucketIndex(windows, r.At)
		if i < 0 {
			continue
		}
		if uniqueKey == "" {
			buckets[i].Count++
			continue
		}
		if seen[i] == nil {
			seen[i] = make(map[string]struct{})
		}
		value := r.Attributes[uniqueKey]
		if _, ok := seen[i][value]; !ok {
			seen[i][value] = struct{}{}
			buckets[i].Count++
		}
	}
	return buckets
}

// Total 加總所有週桶
func Total(buckets []WeekBucket) int {
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	return total
}

func emptyBuckets(windows [WeeksInWindow]Window) []WeekBucket {
	buckets := make([]WeekBucket, WeeksInWindow)
	for i, w := range windows {
		buckets[i] = WeekBucket{Week: w.Start.Format(labelLayout)}
	}
	return buckets
}

func wellFormed(records []Record, uniqueKey string) bool {
	for _, r := range records {
		if r.At.IsZero() {
			return false
		}
		if uniqueKey != "" {
			if _, ok := r.Attributes[uniqueKey]; !ok {
				return false
			}
		}
	}
	return true
}

func bucketIndex(windows [WeeksInWindow]Window, t time.Time) int {
	for i, w := range windows {
		if w.Contains(t) {
			return i
		}
	}
	return -1
}
