package shelf

import (
	"context"

	"github.com/xiebiao/readtrack/internal/domain/shelf"
)

// ListMyShelvesUseCase 我的书架
type ListMyShelvesUseCase struct {
	shelfService shelf.Service
}

// NewListMyShelvesUseCase 创建书架列表用例
func NewListMyShelvesUseCase(shelfService shelf.Service) *ListMyShelvesUseCase {
	return &ListMyShelvesUseCase{shelfService: shelfService}
}

// Execute 旧版记录先升级,最近更新的在前
func (uc *ListMyShelvesUseCase) Execute(ctx context.Context, userID uint) ([]*EntryDTO, error) {
	entries, err := uc.shelfService.ListMyShelves(ctx, userID)
	if err != nil {
		return nil, err
	}
	list := make([]*EntryDTO, len(entries))
	for i, e := range entries {
		list[i] = ToDTO(e)
	}
	return list, nil
}

// ShelfStatsUseCase 我的书架统计
type ShelfStatsUseCase struct {
	shelfService shelf.Service
}

// NewShelfStatsUseCase 创建统计用例
func NewShelfStatsUseCase(shelfService shelf.Service) *ShelfStatsUseCase {
	return &ShelfStatsUseCase{shelfService: shelfService}
}

// Execute 各状态记录数
func (uc *ShelfStatsUseCase) Execute(ctx context.Context, userID uint) (shelf.Breakdown, error) {
	return uc.shelfService.Stats(ctx, userID)
}
