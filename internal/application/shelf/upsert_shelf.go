package shelf

import (
	"context"

	"github.com/xiebiao/readtrack/internal/domain/shelf"
)

// UpsertShelfUseCase 设置阅读状态与进度
// 设计说明:
// 1. 状态接受规范值与旧版别名
// 2. 同一用户同一本书只有一条记录,并发写入由唯一索引合并
type UpsertShelfUseCase struct {
	shelfService shelf.Service
}

// NewUpsertShelfUseCase 创建书架写入用例
func NewUpsertShelfUseCase(shelfService shelf.Service) *UpsertShelfUseCase {
	return &UpsertShelfUseCase{shelfService: shelfService}
}

// UpsertShelfRequest 书架写入请求
type UpsertShelfRequest struct {
	UserID      uint
	BookID      uint
	Status      string
	CurrentPage *int // nil表示不修改进度
}

// Execute 返回保存后的记录(含图书)
func (uc *UpsertShelfUseCase) Execute(ctx context.Context, req UpsertShelfRequest) (*EntryDTO, error) {
	e, err := uc.shelfService.UpsertShelf(ctx, req.UserID, req.BookID, req.Status, req.CurrentPage)
	if err != nil {
		return nil, err
	}
	return ToDTO(e), nil
}

// RemoveShelfUseCase 从书架移除
type RemoveShelfUseCase struct {
	shelfService shelf.Service
}

// NewRemoveShelfUseCase 创建移除用例
func NewRemoveShelfUseCase(shelfService shelf.Service) *RemoveShelfUseCase {
	return &RemoveShelfUseCase{shelfService: shelfService}
}

// Execute 记录不存在时也返回成功
func (uc *RemoveShelfUseCase) Execute(ctx context.Context, userID, bookID uint) error {
	return uc.shelfService.RemoveShelf(ctx, userID, bookID)
}
