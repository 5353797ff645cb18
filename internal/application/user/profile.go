package user

import (
	"context"

	"github.com/xiebiao/readtrack/internal/domain/user"
)

// GetProfileUseCase 当前用户信息
type GetProfileUseCase struct {
	userService user.Service
}

// NewGetProfileUseCase 创建用例
func NewGetProfileUseCase(userService user.Service) *GetProfileUseCase {
	return &GetProfileUseCase{userService: userService}
}

// Execute 查询用户
func (uc *GetProfileUseCase) Execute(ctx context.Context, userID uint) (*UserInfo, error) {
	u, err := uc.userService.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := ToUserInfo(u)
	return &info, nil
}

// UpdateProfileUseCase 修改当前用户的昵称与偏好类型
type UpdateProfileUseCase struct {
	userService user.Service
}

// NewUpdateProfileUseCase 创建用例
func NewUpdateProfileUseCase(userService user.Service) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{userService: userService}
}

// UpdateProfileRequest 未提供的字段保持不变
type UpdateProfileRequest struct {
	Name            *string
	FavouriteGenres []string
}

// Execute 更新并返回最新的用户信息
func (uc *UpdateProfileUseCase) Execute(ctx context.Context, userID uint, req UpdateProfileRequest) (*UserInfo, error) {
	u, err := uc.userService.UpdateProfile(ctx, userID, req.Name, req.FavouriteGenres)
	if err != nil {
		return nil, err
	}
	info := ToUserInfo(u)
	return &info, nil
}

// ListUsersUseCase 用户列表(管理员)
type ListUsersUseCase struct {
	userService user.Service
}

// NewListUsersUseCase 创建用例
func NewListUsersUseCase(userService user.Service) *ListUsersUseCase {
	return &ListUsersUseCase{userService: userService}
}

// ListUsersResponse 用户分页结果
type ListUsersResponse struct {
	List     []UserInfo
	Total    int64
	Page     int
	PageSize int
}

// Execute 分页查询
func (uc *ListUsersUseCase) Execute(ctx context.Context, page, pageSize int) (*ListUsersResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	users, total, err := uc.userService.ListUsers(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	list := make([]UserInfo, len(users))
	for i, u := range users {
		list[i] = ToUserInfo(u)
	}
	return &ListUsersResponse{List: list, Total: total, Page: page, PageSize: pageSize}, nil
}
