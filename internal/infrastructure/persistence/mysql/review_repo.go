package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/readtrack/internal/domain/review"
	apperrors "github.com/xiebiao/readtrack/pkg/errors"
)

// reviewRepository 书评仓储实现(MySQL,同样运行于SQLite)
// 设计说明:
// 1. Upsert依赖uk_reviews_book_user唯一索引,使用INSERT ... ON DUPLICATE KEY UPDATE
// 2. 读取时关联users表填充作者昵称,并批量加载点赞
// 3. 点赞使用review_likes复合主键,切换操作不需要先查后写
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建书评仓储
func NewReviewRepository(db *gorm.DB) review.Repository {
	return &reviewRepository{db: db}
}

// reviewRow 书评行 + 作者昵称
type reviewRow struct {
	ReviewModel
	UserName string
}

func (r *reviewRepository) Upsert(ctx context.Context, p review.UpsertParams) error {
	model := &ReviewModel{
		BookID: p.BookID,
		UserID: p.UserID,
		Rating: p.Rating,
	}
	columns := []string{"rating", "updated_at"}
	if p.Comment != nil {
		model.Comment = *p.Comment
		columns = append(columns, "comment")
	}

	err := dbFrom(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "book_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(model).Error
	if err != nil {
		if isDuplicateError(err) {
			return review.ErrDuplicateReview
		}
		return apperrors.WrapDB(err, "保存书评失败")
	}
	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uint) (*review.Review, error) {
	return r.findOne(ctx, "reviews.id = ?", id)
}

func (r *reviewRepository) FindByBookAndUser(ctx context.Context, bookID, userID uint) (*review.Review, error) {
	return r.findOne(ctx, "reviews.book_id = ? AND reviews.user_id = ?", bookID, userID)
}

func (r *reviewRepository) ListByBook(ctx context.Context, bookID uint) ([]*review.Review, error) {
	var rows []reviewRow
	err := r.withAuthor(ctx).
		Where("reviews.book_id = ?", bookID).
		Order("reviews.created_at DESC, reviews.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "查询书评列表失败")
	}
	return r.toEntities(ctx, rows)
}

func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	db := dbFrom(ctx, r.db)
	result := db.Delete(&ReviewModel{}, id)
	if result.Error != nil {
		return apperrors.WrapDB(result.Error, "删除书评失败")
	}
	if result.RowsAffected == 0 {
		return review.ErrReviewNotFound
	}
	if err := db.Where("review_id = ?", id).Delete(&ReviewLikeModel{}).Error; err != nil {
		return apperrors.WrapDB(err, "删除书评点赞失败")
	}
	return nil
}

func (r *reviewRepository) ToggleLike(ctx context.Context, reviewID, userID uint) (bool, error) {
	db := dbFrom(ctx, r.db)

	result := db.Where("review_id = ? AND user_id = ?", reviewID, userID).Delete(&ReviewLikeModel{})
	if result.Error != nil {
		return false, apperrors.WrapDB(result.Error, "取消点赞失败")
	}
	if result.RowsAffected > 0 {
		return false, nil
	}

	like := &ReviewLikeModel{ReviewID: reviewID, UserID: userID, CreatedAt: time.Now()}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error; err != nil {
		return false, apperrors.WrapDB(err, "点赞失败")
	}
	return true, nil
}

func (r *reviewRepository) RatingStats(ctx context.Context, bookID uint) (int64, int64, error) {
	var row struct {
		Cnt   int64
		Total int64
	}
	err := dbFrom(ctx, r.db).Model(&ReviewModel{}).
		Select("COUNT(*) AS cnt, COALESCE(SUM(rating), 0) AS total").
		Where("book_id = ?", bookID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, apperrors.WrapDB(err, "统计书评评分失败")
	}
	return row.Cnt, row.Total, nil
}

// LockByID SELECT ... FOR UPDATE锁定书评行,必须在事务内调用
func (r *reviewRepository) LockByID(ctx context.Context, id uint) error {
	var model ReviewModel
	err := dbFrom(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return review.ErrReviewNotFound
		}
		return apperrors.WrapDB(err, "锁定书评失败")
	}
	return nil
}

// LockBookIDsByUser 锁定用户的全部书评行并返回其图书ID
// user_id索引上的next-key锁同时阻止该用户在事务结束前写入新书评
func (r *reviewRepository) LockBookIDsByUser(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	err := dbFrom(ctx, r.db).Model(&ReviewModel{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Order("book_id ASC").
		Pluck("book_id", &ids).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "查询用户书评失败")
	}
	return ids, nil
}

func (r *reviewRepository) DeleteByUser(ctx context.Context, userID uint) error {
	db := dbFrom(ctx, r.db)
	ownReviews := db.Model(&ReviewModel{}).Select("id").Where("user_id = ?", userID)

	if err := db.Where("review_id IN (?) OR user_id = ?", ownReviews, userID).Delete(&ReviewLikeModel{}).Error; err != nil {
		return apperrors.WrapDB(err, "删除用户点赞失败")
	}
	if err := db.Where("user_id = ?", userID).Delete(&ReviewModel{}).Error; err != nil {
		return apperrors.WrapDB(err, "删除用户书评失败")
	}
	return nil
}

func (r *reviewRepository) DeleteByBook(ctx context.Context, bookID uint) error {
	db := dbFrom(ctx, r.db)
	bookReviews := db.Model(&ReviewModel{}).Select("id").Where("book_id = ?", bookID)

	if err := db.Where("review_id IN (?)", bookReviews).Delete(&ReviewLikeModel{}).Error; err != nil {
		return apperrors.WrapDB(err, "删除图书书评点赞失败")
	}
	if err := db.Where("book_id = ?", bookID).Delete(&ReviewModel{}).Error; err != nil {
		return apperrors.WrapDB(err, "删除图书书评失败")
	}
	return nil
}

func (r *reviewRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := dbFrom(ctx, r.db).Model(&ReviewModel{}).Count(&total).Error; err != nil {
		return 0, apperrors.WrapDB(err, "统计书评失败")
	}
	return total, nil
}

// withAuthor 书评LEFT JOIN用户
func (r *reviewRepository) withAuthor(ctx context.Context) *gorm.DB {
	return dbFrom(ctx, r.db).
		Table("reviews").
		Select("reviews.*, users.name AS user_name").
		Joins("LEFT JOIN users ON users.id = reviews.user_id")
}

func (r *reviewRepository) findOne(ctx context.Context, query string, args ...interface{}) (*review.Review, error) {
	var rows []reviewRow
	if err := r.withAuthor(ctx).Where(query, args...).Limit(1).Scan(&rows).Error; err != nil {
		return nil, apperrors.WrapDB(err, "查询书评失败")
	}
	if len(rows) == 0 {
		return nil, review.ErrReviewNotFound
	}
	reviews, err := r.toEntities(ctx, rows)
	if err != nil {
		return nil, err
	}
	return reviews[0], nil
}

// toEntities 转换并批量填充点赞
func (r *reviewRepository) toEntities(ctx context.Context, rows []reviewRow) ([]*review.Review, error) {
	reviews := make([]*review.Review, len(rows))
	if len(rows) == 0 {
		return reviews, nil
	}

	ids := make([]uint, len(rows))
	byID := make(map[uint]*review.Review, len(rows))
	for i, row := range rows {
		reviews[i] = &review.Review{
			ID:        row.ID,
			BookID:    row.BookID,
			UserID:    row.UserID,
			UserName:  row.UserName,
			Rating:    row.Rating,
			Comment:   row.Comment,
			Likes:     []uint{},
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		}
		ids[i] = row.ID
		byID[row.ID] = reviews[i]
	}

	var likes []ReviewLikeModel
	err := dbFrom(ctx, r.db).
		Where("review_id IN ?", ids).
		Order("created_at ASC, user_id ASC").
		Find(&likes).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapDB(err, "查询书评点赞失败")
	}
	for _, l := range likes {
		if rv, ok := byID[l.ReviewID]; ok {
			rv.Likes = append(rv.Likes, l.UserID)
		}
	}
	return reviews, nil
}
