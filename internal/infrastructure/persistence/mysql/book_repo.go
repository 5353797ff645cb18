package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/readtrack/internal/domain/book"
	apperrors "github.com/xiebiao/readtrack/pkg/errors"
)

// 按评分排序(平均分降序,评分人数降序,ID升序)
const orderByRating = "average_rating DESC, rating_count DESC, id ASC"

// bookRepository 图书仓储实现(MySQL,同样运行于SQLite)
// 设计说明:
// 1. 负责domain实体与GORM模型之间的转换
// 2. 所有方法通过dbFrom(ctx)参与调用方事务
// 3. 评分字段只在UpdateRating中写入
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书(连同类型)
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	model.AverageRating, model.RatingCount = 0, 0

	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.WrapDB(err, "创建图书失败")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := dbFrom(ctx, r.db).Preload("Genres").First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.WrapDB(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// FindByIDs 批量查找
func (r *bookRepository) FindByIDs(ctx context.Context, ids []uint) ([]*book.Book, error) {
	if len(ids) == 0 {
		return []*book.Book{}, nil
	}
	var models []BookModel
	if err := dbFrom(ctx, r.db).Preload("Genres").Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, apperrors.WrapDB(err, "批量查询图书失败")
	}
	return toBookEntities(models), nil
}

// Update 更新图书基本信息并替换类型
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	db := dbFrom(ctx, r.db)
	result := db.Model(&BookModel{ID: b.ID}).Updates(map[string]interface{}{
		"title":            b.Title,
		"author":           b.Author,
		"description":      b.Description,
		"cover_image_url":  b.CoverImageURL,
		"publication_year": b.PublicationYear,
		"pages":            b.Pages,
	})
	if result.Error != nil {
		return apperrors.WrapDB(result.Error, "更新图书失败")
	}

	if err := db.Where("book_id = ?", b.ID).Delete(&BookGenreModel{}).Error; err != nil {
		return apperrors.WrapDB(err, "更新图书类型失败")
	}
	if genres := toGenreModels(b.ID, b.Genres); len(genres) > 0 {
		if err := db.Create(&genres).Error; err != nil {
			return apperrors.WrapDB(err, "更新图书类型失败")
		}
	}
	return nil
}

// Delete 删除图书及其类型
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	db := dbFrom(ctx, r.db)
	if err := db.Where("book_id = ?", id).Delete(&BookGenreModel{}).Error; err != nil {
		return apperrors.WrapDB(err, "删除图书类型失败")
	}

	result := db.Delete(&BookModel{}, id)
	if result.Error != nil {
		return apperrors.WrapDB(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// List 分页查询图书列表
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var (
		models []BookModel
		total  int64
	)

	query := dbFrom(ctx, r.db).Model(&BookModel{})
	if params.Search != "" {
		keyword := "%" + params.Search + "%"
		query = query.Where("title LIKE ? OR author LIKE ?", keyword, keyword)
	}
	if params.Genre != "" {
		query = query.Where("id IN (?)", r.genreSubquery(ctx, []string{params.Genre}))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询图书总数失败")
	}

	switch params.SortBy {
	case book.SortTitle:
		query = query.Order("title ASC, id ASC")
	case book.SortRating:
		query = query.Order(orderByRating)
	default:
		query = query.Order("created_at DESC, id DESC")
	}

	limit, offset := paginate(params.Page, params.PageSize)
	if err := query.Preload("Genres").Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询图书列表失败")
	}
	return toBookEntities(models), total, nil
}

// ListGenres 全部类型(去重、升序)
func (r *bookRepository) ListGenres(ctx context.Context) ([]string, error) {
	genres := []string{}
	err := dbFrom(ctx, r.db).Model(&BookGenreModel{}).
		Distinct("genre").
		Order("genre ASC").
		Pluck("genre", &genres).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "查询图书类型失败")
	}
	return genres, nil
}

// FindSimilar 同作者或类型有交集的其他图书
func (r *bookRepository) FindSimilar(ctx context.Context, b *book.Book, limit int) ([]*book.Book, error) {
	query := dbFrom(ctx, r.db).Where("id <> ?", b.ID)
	if len(b.Genres) > 0 {
		query = query.Where("author = ? OR id IN (?)", b.Author, r.genreSubquery(ctx, b.Genres))
	} else {
		query = query.Where("author = ?", b.Author)
	}

	var models []BookModel
	if err := query.Preload("Genres").Order(orderByRating).Limit(limit).Find(&models).Error; err != nil {
		return nil, apperrors.WrapDB(err, "查询相似图书失败")
	}
	return toBookEntities(models), nil
}

// FindByGenres 属于任一类型且不在excludeIDs中的图书
func (r *bookRepository) FindByGenres(ctx context.Context, genres []string, excludeIDs []uint, limit int) ([]*book.Book, error) {
	if len(genres) == 0 {
		return []*book.Book{}, nil
	}
	query := dbFrom(ctx, r.db).Where("id IN (?)", r.genreSubquery(ctx, genres))
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}

	var models []BookModel
	if err := query.Preload("Genres").Order(orderByRating).Limit(limit).Find(&models).Error; err != nil {
		return nil, apperrors.WrapDB(err, "按类型查询图书失败")
	}
	return toBookEntities(models), nil
}

// LockByID 悲观锁查询图书(SELECT ... FOR UPDATE)
// 必须在事务内调用,锁在事务结束时释放
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := dbFrom(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.WrapDB(err, "锁定图书失败")
	}
	return toBookEntity(&model), nil
}

// UpdateRating 写入评分汇总
// 使用UpdateColumns,不改变updated_at
func (r *bookRepository) UpdateRating(ctx context.Context, id uint, average float64, count int64) error {
	err := dbFrom(ctx, r.db).Model(&BookModel{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"average_rating": average,
			"rating_count":   count,
		}).Error
	if err != nil {
		return apperrors.WrapDB(err, "更新图书评分失败")
	}
	return nil
}

// Count 图书总数
func (r *bookRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := dbFrom(ctx, r.db).Model(&BookModel{}).Count(&total).Error; err != nil {
		return 0, apperrors.WrapDB(err, "统计图书失败")
	}
	return total, nil
}

// genreSubquery SELECT book_id FROM book_genres WHERE genre IN (...)
func (r *bookRepository) genreSubquery(ctx context.Context, genres []string) *gorm.DB {
	return dbFrom(ctx, r.db).Model(&BookGenreModel{}).Select("book_id").Where("genre IN ?", genres)
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		Description:     b.Description,
		CoverImageURL:   b.CoverImageURL,
		PublicationYear: b.PublicationYear,
		Pages:           b.Pages,
		AverageRating:   b.AverageRating,
		RatingCount:     b.RatingCount,
		CreatedBy:       b.CreatedBy,
		Genres:          toGenreModels(b.ID, b.Genres),
	}
}

func toGenreModels(bookID uint, genres []string) []BookGenreModel {
	models := make([]BookGenreModel, 0, len(genres))
	for _, g := range genres {
		models = append(models, BookGenreModel{BookID: bookID, Genre: g})
	}
	return models
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	genres := make([]string, 0, len(model.Genres))
	for _, g := range model.Genres {
		genres = append(genres, g.Genre)
	}
	return &book.Book{
		ID:              model.ID,
		Title:           model.Title,
		Author:          model.Author,
		Description:     model.Description,
		CoverImageURL:   model.CoverImageURL,
		Genres:          genres,
		PublicationYear: model.PublicationYear,
		Pages:           model.Pages,
		AverageRating:   model.AverageRating,
		RatingCount:     model.RatingCount,
		CreatedBy:       model.CreatedBy,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func toBookEntities(models []BookModel) []*book.Book {
	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books
}
