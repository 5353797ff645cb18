package user

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/readtrack/internal/domain/book"
	apperrors "github.com/xiebiao/readtrack/pkg/errors"
)

// DefaultBcryptCost 密码哈希强度
const DefaultBcryptCost = 12

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	hasLetter    = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit     = regexp.MustCompile(`[0-9]`)
)

// Service 用户领域服务
// 设计说明:
// 1. 负责密码加密与校验、注册信息校验
// 2. 邮箱唯一性由数据库UNIQUE索引保证,Repository转换为ErrEmailDuplicate
type Service interface {
	// Register 用户注册
	Register(ctx context.Context, email, password, name string, favouriteGenres []string) (*User, error)

	// Login 用户登录
	Login(ctx context.Context, email, password string) (*User, error)

	// ValidatePassword 验证密码
	ValidatePassword(hashedPassword, plainPassword string) error

	// GetUser 根据ID获取用户
	GetUser(ctx context.Context, id uint) (*User, error)

	// ListUsers 分页查询用户
	ListUsers(ctx context.Context, page, pageSize int) ([]*User, int64, error)

	// UpdateProfile 修改昵称和偏好类型
	// name为nil时保持原昵称;favouriteGenres为nil时保持原值,空切片表示清空
	UpdateProfile(ctx context.Context, id uint, name *string, favouriteGenres []string) (*User, error)

	// EnsureAdmin 确保邮箱对应的账号是管理员
	// 账号不存在时创建(created=true);已存在的普通账号提升为管理员,密码不变
	EnsureAdmin(ctx context.Context, email, password, name string) (u *User, created bool, err error)
}

// Option 服务选项
type Option func(*service)

// WithBcryptCost 设置bcrypt强度(测试中使用bcrypt.MinCost)
func WithBcryptCost(cost int) Option {
	return func(s *service) { s.cost = cost }
}

type service struct {
	repo Repository
	cost int
}

// NewService 创建用户服务
func NewService(repo Repository, opts ...Option) Service {
	s := &service{repo: repo, cost: DefaultBcryptCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register 用户注册
// 业务规则:
// 1. 邮箱格式校验
// 2. 密码8-20位,包含字母和数字
// 3. 昵称2-50个字符
func (s *service) Register(ctx context.Context, email, password, name string, favouriteGenres []string) (*User, error) {
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	u := NewUser(email, string(hashed), name, book.NormalizeGenres(favouriteGenres))
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login 用户登录
// 邮箱不存在与密码错误返回同一错误,避免枚举账号
func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, err
	}

	if err := s.ValidatePassword(u.Password, password); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return apperrors.ErrInvalidPassword
		}
		return apperrors.Wrap(err, "密码验证失败")
	}
	return nil
}

func (s *service) GetUser(ctx context.Context, id uint) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListUsers(ctx context.Context, page, pageSize int) ([]*User, int64, error) {
	return s.repo.List(ctx, page, pageSize)
}

func (s *service) UpdateProfile(ctx context.Context, id uint, name *string, favouriteGenres []string) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if err := validateName(trimmed); err != nil {
			return nil, err
		}
		u.Name = trimmed
	}
	if favouriteGenres != nil {
		u.FavouriteGenres = book.NormalizeGenres(favouriteGenres)
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) EnsureAdmin(ctx context.Context, email, password, name string) (*User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, false, ErrInvalidEmail
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.IsAdmin {
			return existing, false, nil
		}
		existing.IsAdmin = true
		existing.IsVerified = true
		existing.UpdatedAt = time.Now()
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	case !errors.Is(err, apperrors.ErrUserNotFound):
		return nil, false, err
	}

	if err := validatePasswordStrength(password); err != nil {
		return nil, false, err
	}
	if err := validateName(name); err != nil {
		return nil, false, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, false, apperrors.Wrap(err, "密码加密失败")
	}

	u := NewUser(email, string(hashed), name, nil)
	u.IsAdmin = true
	u.IsVerified = true
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, false, err
	}
	return u, true, nil
}

// validateName 昵称2-50个字符
func validateName(name string) error {
	if n := utf8.RuneCountInString(name); n < 2 || n > 50 {
		return ErrInvalidName
	}
	return nil
}

// validatePasswordStrength 8-20位,必须包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return apperrors.ErrWeakPassword
	}
	if !hasLetter.MatchString(password) || !hasDigit.MatchString(password) {
		return apperrors.ErrWeakPassword
	}
	return nil
}
