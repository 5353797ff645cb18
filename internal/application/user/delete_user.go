package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/xiebiao/readtrack/internal/domain/book"
	"github.com/xiebiao/readtrack/internal/domain/shared"
	"github.com/xiebiao/readtrack/internal/domain/user"
	apperrors "github.com/xiebiao/readtrack/pkg/errors"
	"github.com/xiebiao/readtrack/pkg/mq"
)

// RoutingKeyUserDeleted 用户删除事件的路由键
const RoutingKeyUserDeleted = "user.deleted"

// ReviewCleaner 删除用户书评并重算受影响图书
type ReviewCleaner interface {
	RemoveUserReviews(ctx context.Context, userID uint) ([]uint, error)
}

// ShelfCleaner 删除用户书架
type ShelfCleaner interface {
	RemoveUserShelves(ctx context.Context, userID uint) error
}

// UserCleanupUseCase 用户级联清理
// 设计说明:
// 1. 书评(含点赞)、书架、用户本身在同一事务内删除,受影响图书在事务内重算评分
// 2. 用户已不存在时视为成功(消息重复投递时幂等)
// 3. 事务提交后删除受影响图书的详情缓存
type UserCleanupUseCase struct {
	tx      shared.Transactor
	users   user.Repository
	reviews ReviewCleaner
	shelves ShelfCleaner
	cache   book.Cache
}

// NewUserCleanupUseCase 创建清理用例
func NewUserCleanupUseCase(
	tx shared.Transactor,
	users user.Repository,
	reviews ReviewCleaner,
	shelves ShelfCleaner,
	cache book.Cache,
) *UserCleanupUseCase {
	return &UserCleanupUseCase{
		tx:      tx,
		users:   users,
		reviews: reviews,
		shelves: shelves,
		cache:   cache,
	}
}

// Execute 执行清理,返回评分被重算的图书
func (uc *UserCleanupUseCase) Execute(ctx context.Context, userID uint) ([]uint, error) {
	var affected []uint
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		if affected, err = uc.reviews.RemoveUserReviews(ctx, userID); err != nil {
			return err
		}
		if err := uc.shelves.RemoveUserShelves(ctx, userID); err != nil {
			return err
		}
		err = uc.users.Delete(ctx, userID)
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	for _, id := range affected {
		if err := uc.cache.Invalidate(ctx, id); err != nil {
			zap.L().Warn("删除图书缓存失败", zap.Uint("book_id", id), zap.Error(err))
		}
	}
	zap.L().Info("用户数据已清理",
		zap.Uint("user_id", userID),
		zap.Int("books_recomputed", len(affected)),
	)
	return affected, nil
}

// UserDeletedEvent user.deleted事件体
type UserDeletedEvent struct {
	UserID uint `json:"userId"`
}

// HandleMessage 消费user.deleted事件
// 消息体无法解析时返回mq.ErrPermanent,消息被丢弃
func (uc *UserCleanupUseCase) HandleMessage(ctx context.Context, routingKey string, body []byte) error {
	if routingKey != RoutingKeyUserDeleted {
		return fmt.Errorf("%w: 未知的路由键 %s", mq.ErrPermanent, routingKey)
	}
	var event UserDeletedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: %v", mq.ErrPermanent, err)
	}
	if event.UserID == 0 {
		return fmt.Errorf("%w: 缺少userId", mq.ErrPermanent)
	}
	_, err := uc.Execute(ctx, event.UserID)
	return err
}

// DeleteUserUseCase 删除用户(管理员)
type DeleteUserUseCase struct {
	userService  user.Service
	cleanup      *UserCleanupUseCase
	sessionStore SessionStore
}

// NewDeleteUserUseCase 创建删除用例
func NewDeleteUserUseCase(userService user.Service, cleanup *UserCleanupUseCase, sessionStore SessionStore) *DeleteUserUseCase {
	return &DeleteUserUseCase{
		userService:  userService,
		cleanup:      cleanup,
		sessionStore: sessionStore,
	}
}

// Execute 管理员账号不可删除
func (uc *DeleteUserUseCase) Execute(ctx context.Context, userID uint) error {
	u, err := uc.userService.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := u.CheckDeletable(); err != nil {
		return err
	}

	if _, err := uc.cleanup.Execute(ctx, userID); err != nil {
		return err
	}
	if err := uc.sessionStore.DeleteSession(ctx, userID); err != nil {
		zap.L().Warn("删除会话失败", zap.Uint("user_id", userID), zap.Error(err))
	}
	return nil
}
