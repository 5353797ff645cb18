package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/readtrack/internal/domain/user"
	apperrors "github.com/xiebiao/readtrack/pkg/errors"
)

// userRepository 用户仓储实现(MySQL,同样运行于SQLite)
// 邮箱唯一性由UNIQUE索引保证,冲突转换为ErrEmailDuplicate
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := &UserModel{
		Email:           u.Email,
		Password:        u.Password,
		Name:            u.Name,
		IsAdmin:         u.IsAdmin,
		IsVerified:      u.IsVerified,
		FavouriteGenres: u.FavouriteGenres,
	}

	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrEmailDuplicate
		}
		return apperrors.WrapDB(err, "创建用户失败")
	}

	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var model UserModel
	if err := dbFrom(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapDB(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserModel
	if err := dbFrom(ctx, r.db).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapDB(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	err := dbFrom(ctx, r.db).Model(&UserModel{ID: u.ID}).
		Select("name", "is_admin", "is_verified", "favourite_genres", "updated_at").
		Updates(&UserModel{
			Name:            u.Name,
			IsAdmin:         u.IsAdmin,
			IsVerified:      u.IsVerified,
			FavouriteGenres: u.FavouriteGenres,
			UpdatedAt:       u.UpdatedAt,
		}).Error
	if err != nil {
		return apperrors.WrapDB(err, "更新用户失败")
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, page, pageSize int) ([]*user.User, int64, error) {
	var (
		models []UserModel
		total  int64
	)
	query := dbFrom(ctx, r.db).Model(&UserModel{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询用户总数失败")
	}

	limit, offset := paginate(page, pageSize)
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询用户列表失败")
	}

	users := make([]*user.User, len(models))
	for i := range models {
		users[i] = toUserEntity(&models[i])
	}
	return users, total, nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	result := dbFrom(ctx, r.db).Delete(&UserModel{}, id)
	if result.Error != nil {
		return apperrors.WrapDB(result.Error, "删除用户失败")
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := dbFrom(ctx, r.db).Model(&UserModel{}).Count(&total).Error; err != nil {
		return 0, apperrors.WrapDB(err, "统计用户失败")
	}
	return total, nil
}

// toUserEntity GORM模型 → 领域实体
func toUserEntity(model *UserModel) *user.User {
	return &user.User{
		ID:              model.ID,
		Email:           model.Email,
		Password:        model.Password,
		Name:            model.Name,
		IsAdmin:         model.IsAdmin,
		IsVerified:      model.IsVerified,
		FavouriteGenres: model.FavouriteGenres,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}
