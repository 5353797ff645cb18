package shelf

import (
	"strings"
	"time"

	"github.com/xiebiao/readtrack/internal/domain/book"
)

// Status 阅读状态
type Status string

const (
	StatusWantToRead Status = "WANT_TO_READ"
	StatusReading    Status = "READING"
	StatusRead       Status = "READ"
)

// 旧版阅读清单使用的状态值
var legacyStatuses = map[string]Status{
	"wantToRead":       StatusWantToRead,
	"currentlyReading": StatusReading,
	"finished":         StatusRead,
}

// Statuses 全部合法状态(展示顺序)
func Statuses() []Status {
	return []Status{StatusWantToRead, StatusReading, StatusRead}
}

// IsValid 是否为规范状态值
func (s Status) IsValid() bool {
	switch s {
	case StatusWantToRead, StatusReading, StatusRead:
		return true
	}
	return false
}

// ParseStatus 解析请求中的状态,接受规范值(大小写不敏感)与旧版别名
func ParseStatus(raw string) (Status, error) {
	raw = strings.TrimSpace(raw)
	if s := Status(strings.ToUpper(raw)); s.IsValid() {
		return s, nil
	}
	if s, ok := legacyStatuses[raw]; ok {
		return s, nil
	}
	return "", ErrInvalidStatus
}

// Entry 书架记录(结构化形式)
// 设计说明:
// 1. 每个(UserID, BookID)至多一条,由唯一索引与原子upsert保证
// 2. Book在读取时关联填充
// 3. AddedAt为首次加入书架的时间,后续更新不改变
type Entry struct {
	ID          uint
	UserID      uint
	BookID      uint
	Book        *book.Book
	Status      Status
	CurrentPage int
	AddedAt     time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecordKind 持久化记录的形态
type RecordKind string

const (
	// RecordStructured 规范记录
	RecordStructured RecordKind = "structured"
	// RecordMissingAddedAt 状态规范但缺少加入时间
	RecordMissingAddedAt RecordKind = "missing_added_at"
	// RecordLegacyRef 旧版裸图书引用(无状态)
	RecordLegacyRef RecordKind = "legacy_ref"
	// RecordLegacyStatus 旧版状态枚举
	RecordLegacyStatus RecordKind = "legacy_status"
)

// Record 书架表中的一行,可能是旧版格式
type Record struct {
	ID          uint
	UserID      uint
	BookID      uint
	RawStatus   string
	CurrentPage int
	AddedAt     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Kind 判断记录形态,无法识别的状态按裸引用处理
func (r Record) Kind() RecordKind {
	if Status(r.RawStatus).IsValid() {
		if r.AddedAt == nil {
			return RecordMissingAddedAt
		}
		return RecordStructured
	}
	if _, ok := legacyStatuses[r.RawStatus]; ok {
		return RecordLegacyStatus
	}
	return RecordLegacyRef
}

// Normalize 升级为结构化记录,changed表示是否需要回写
// 裸引用升级为WANT_TO_READ,加入时间缺失时取now。对结构化记录重复调用无变化。
func (r Record) Normalize(now time.Time) (Entry, bool) {
	e := Entry{
		ID:          r.ID,
		UserID:      r.UserID,
		BookID:      r.BookID,
		CurrentPage: r.CurrentPage,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.AddedAt != nil {
		e.AddedAt = *r.AddedAt
	} else {
		e.AddedAt = now
	}
	if e.CurrentPage < 0 {
		e.CurrentPage = 0
	}

	e.Status = statusOf(r.RawStatus)
	switch r.Kind() {
	case RecordStructured:
		return e, e.CurrentPage != r.CurrentPage
	case RecordLegacyRef:
		e.AddedAt = now
	}
	return e, true
}

// statusOf 原始状态值对应的规范状态
func statusOf(raw string) Status {
	if s := Status(raw); s.IsValid() {
		return s
	}
	if s, ok := legacyStatuses[raw]; ok {
		return s
	}
	return StatusWantToRead
}

// Breakdown 各状态的记录数
type Breakdown struct {
	WantToRead int64 `json:"wantToRead"`
	Reading    int64 `json:"reading"`
	Read       int64 `json:"read"`
	Total      int64 `json:"total"`
}

// Add 计入一组记录,旧版状态按升级后的状态归类
func (b *Breakdown) Add(rawStatus string, n int64) {
	switch statusOf(rawStatus) {
	case StatusReading:
		b.Reading += n
	case StatusRead:
		b.Read += n
	default:
		b.WantToRead += n
	}
	b.Total += n
}
