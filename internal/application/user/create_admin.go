package user

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/readtrack/internal/domain/user"
)

// CreateAdminUseCase 初始化管理员账号(cmd/create-admin使用)
// 重复执行是幂等的:管理员已存在时不做修改
type CreateAdminUseCase struct {
	userService user.Service
	logger      *zap.Logger
}

// NewCreateAdminUseCase 创建用例
func NewCreateAdminUseCase(userService user.Service, logger *zap.Logger) *CreateAdminUseCase {
	return &CreateAdminUseCase{userService: userService, logger: logger}
}

// Execute 返回管理员信息,created表示本次是否新建了账号
func (uc *CreateAdminUseCase) Execute(ctx context.Context, email, password, name string) (*UserInfo, bool, error) {
	u, created, err := uc.userService.EnsureAdmin(ctx, email, password, name)
	if err != nil {
		return nil, false, err
	}

	if created {
		uc.logger.Info("管理员账号已创建", zap.Uint("user_id", u.ID), zap.String("email", u.Email))
	} else {
		uc.logger.Info("管理员账号已存在", zap.Uint("user_id", u.ID), zap.String("email", u.Email))
	}
	info := ToUserInfo(u)
	return &info, created, nil
}
