package user

import (
	"context"

	"github.com/xiebiao/readtrack/internal/domain/user"
)

// RegisterUseCase 用户注册用例
// 设计说明:
// 1. 校验与密码加密由领域服务负责
// 2. 返回DTO,不暴露密码哈希
type RegisterUseCase struct {
	userService user.Service
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email           string
	Password        string
	Name            string
	FavouriteGenres []string
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*UserInfo, error) {
	u, err := uc.userService.Register(ctx, req.Email, req.Password, req.Name, req.FavouriteGenres)
	if err != nil {
		return nil, err
	}
	info := ToUserInfo(u)
	return &info, nil
}
