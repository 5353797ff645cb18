package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/readtrack/internal/domain/book"
	"github.com/xiebiao/readtrack/internal/domain/shelf"
	apperrors "github.com/xiebiao/readtrack/pkg/errors"
)

// shelfRepository 书架仓储实现(MySQL,同样运行于SQLite)
// 设计说明:
// 1. Upsert依赖uk_shelf_user_book唯一索引,并发首次写入由数据库合并为一行
// 2. added_at只在首次插入时写入(COALESCE保留已有值)
// 3. 读取时批量加载图书,图书已不存在的记录不返回
type shelfRepository struct {
	db *gorm.DB
}

// NewShelfRepository 创建书架仓储
func NewShelfRepository(db *gorm.DB) shelf.Repository {
	return &shelfRepository{db: db}
}

func (r *shelfRepository) Upsert(ctx context.Context, userID, bookID uint, status shelf.Status, currentPage *int, now time.Time) error {
	model := &ShelfEntryModel{
		UserID:    userID,
		BookID:    bookID,
		Status:    string(status),
		AddedAt:   &now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	assignments := map[string]interface{}{
		"status":     string(status),
		"updated_at": now,
		"added_at":   gorm.Expr("COALESCE(added_at, ?)", now),
	}
	if currentPage != nil {
		model.CurrentPage = *currentPage
		assignments["current_page"] = *currentPage
	}

	err := dbFrom(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(model).Error
	if err != nil {
		if isDuplicateError(err) {
			return shelf.ErrDuplicateEntry
		}
		return apperrors.WrapDB(err, "保存书架记录失败")
	}
	return nil
}

func (r *shelfRepository) Find(ctx context.Context, userID, bookID uint) (*shelf.Entry, error) {
	var model ShelfEntryModel
	err := dbFrom(ctx, r.db).Where("user_id = ? AND book_id = ?", userID, bookID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shelf.ErrEntryNotFound
		}
		return nil, apperrors.WrapDB(err, "查询书架记录失败")
	}

	entries, err := r.withBooks(ctx, []ShelfEntryModel{model})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, book.ErrBookNotFound
	}
	return entries[0], nil
}

func (r *shelfRepository) ListByUser(ctx context.Context, userID uint) ([]*shelf.Entry, error) {
	var models []ShelfEntryModel
	err := dbFrom(ctx, r.db).
		Where("user_id = ?", userID).
		Order("updated_at DESC, id DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "查询书架失败")
	}
	return r.withBooks(ctx, models)
}

func (r *shelfRepository) ListLegacyRecords(ctx context.Context, userID uint) ([]shelf.Record, error) {
	canonical := make([]string, 0, 3)
	for _, s := range shelf.Statuses() {
		canonical = append(canonical, string(s))
	}

	var models []ShelfEntryModel
	err := dbFrom(ctx, r.db).
		Where("user_id = ?", userID).
		Where("status NOT IN ? OR added_at IS NULL OR current_page < 0", canonical).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "查询旧版书架记录失败")
	}

	records := make([]shelf.Record, len(models))
	for i, m := range models {
		records[i] = shelf.Record{
			ID:          m.ID,
			UserID:      m.UserID,
			BookID:      m.BookID,
			RawStatus:   m.Status,
			CurrentPage: m.CurrentPage,
			AddedAt:     m.AddedAt,
			CreatedAt:   m.CreatedAt,
			UpdatedAt:   m.UpdatedAt,
		}
	}
	return records, nil
}

func (r *shelfRepository) SaveNormalized(ctx context.Context, e shelf.Entry) error {
	addedAt := e.AddedAt
	err := dbFrom(ctx, r.db).Model(&ShelfEntryModel{}).
		Where("id = ?", e.ID).
		UpdateColumns(map[string]interface{}{
			"status":       string(e.Status),
			"current_page": e.CurrentPage,
			"added_at":     &addedAt,
		}).Error
	if err != nil {
		return apperrors.WrapDB(err, "升级书架记录失败")
	}
	return nil
}

func (r *shelfRepository) Delete(ctx context.Context, userID, bookID uint) (bool, error) {
	result := dbFrom(ctx, r.db).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&ShelfEntryModel{})
	if result.Error != nil {
		return false, apperrors.WrapDB(result.Error, "删除书架记录失败")
	}
	return result.RowsAffected > 0, nil
}

func (r *shelfRepository) DeleteByUser(ctx context.Context, userID uint) error {
	if err := dbFrom(ctx, r.db).Where("user_id = ?", userID).Delete(&ShelfEntryModel{}).Error; err != nil {
		return apperrors.WrapDB(err, "删除用户书架失败")
	}
	return nil
}

func (r *shelfRepository) DeleteByBook(ctx context.Context, bookID uint) error {
	if err := dbFrom(ctx, r.db).Where("book_id = ?", bookID).Delete(&ShelfEntryModel{}).Error; err != nil {
		return apperrors.WrapDB(err, "删除图书书架记录失败")
	}
	return nil
}

func (r *shelfRepository) CountByRawStatus(ctx context.Context, userID uint) (map[string]int64, error) {
	var rows []struct {
		Status string
		Cnt    int64
	}
	query := dbFrom(ctx, r.db).Model(&ShelfEntryModel{}).Select("status, COUNT(*) AS cnt")
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}
	if err := query.Group("status").Scan(&rows).Error; err != nil {
		return nil, apperrors.WrapDB(err, "统计书架失败")
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] += row.Cnt
	}
	return counts, nil
}

func (r *shelfRepository) ListBookIDsByUser(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	err := dbFrom(ctx, r.db).Model(&ShelfEntryModel{}).
		Where("user_id = ?", userID).
		Order("book_id ASC").
		Pluck("book_id", &ids).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "查询书架图书失败")
	}
	return ids, nil
}

// withBooks 批量加载图书并转换,保持models顺序
func (r *shelfRepository) withBooks(ctx context.Context, models []ShelfEntryModel) ([]*shelf.Entry, error) {
	entries := make([]*shelf.Entry, 0, len(models))
	if len(models) == 0 {
		return entries, nil
	}

	ids := make([]uint, len(models))
	for i, m := range models {
		ids[i] = m.BookID
	}
	var books []BookModel
	if err := dbFrom(ctx, r.db).Preload("Genres").Where("id IN ?", ids).Find(&books).Error; err != nil {
		return nil, apperrors.WrapDB(err, "查询书架图书失败")
	}
	byID := make(map[uint]*book.Book, len(books))
	for i := range books {
		byID[books[i].ID] = toBookEntity(&books[i])
	}

	for _, m := range models {
		b, ok := byID[m.BookID]
		if !ok {
			continue
		}
		e := &shelf.Entry{
			ID:          m.ID,
			UserID:      m.UserID,
			BookID:      m.BookID,
			Book:        b,
			Status:      shelf.Status(m.Status),
			CurrentPage: m.CurrentPage,
			CreatedAt:   m.CreatedAt,
			UpdatedAt:   m.UpdatedAt,
		}
		if m.AddedAt != nil {
			e.AddedAt = *m.AddedAt
		}
		entries = append(entries, e)
	}
	return entries, nil
}
