package handler

import (
	"github.com/gin-gonic/gin"

	appshelf "github.com/xiebiao/readtrack/internal/application/shelf"
	"github.com/xiebiao/readtrack/internal/interface/http/dto"
	"github.com/xiebiao/readtrack/internal/interface/http/middleware"
	"github.com/xiebiao/readtrack/pkg/response"
)

// ShelfHandler 书架HTTP处理器
type ShelfHandler struct {
	upsertShelf   *appshelf.UpsertShelfUseCase
	removeShelf   *appshelf.RemoveShelfUseCase
	listMyShelves *appshelf.ListMyShelvesUseCase
	stats         *appshelf.ShelfStatsUseCase
}

// NewShelfHandler 创建书架处理器
func NewShelfHandler(
	upsertShelf *appshelf.UpsertShelfUseCase,
	removeShelf *appshelf.RemoveShelfUseCase,
	listMyShelves *appshelf.ListMyShelvesUseCase,
	stats *appshelf.ShelfStatsUseCase,
) *ShelfHandler {
	return &ShelfHandler{
		upsertShelf:   upsertShelf,
		removeShelf:   removeShelf,
		listMyShelves: listMyShelves,
		stats:         stats,
	}
}

// UpsertShelf 设置阅读状态
// @Summary      设置阅读状态
// @Description  status取WANT_TO_READ/READING/READ(兼容wantToRead/currentlyReading/finished);省略currentPage时保留原进度
// @Tags         书架
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        bookId path int true "图书ID"
// @Param        request body dto.UpsertShelfRequest true "状态与进度"
// @Success      200 {object} response.Response{data=appshelf.EntryDTO}
// @Failure      400 {object} response.Response "状态或进度非法"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/shelves/{bookId} [post]
func (h *ShelfHandler) UpsertShelf(c *gin.Context) {
	bookID, ok := pathID(c, "bookId")
	if !ok {
		return
	}
	var req dto.UpsertShelfRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.upsertShelf.Execute(c.Request.Context(), appshelf.UpsertShelfRequest{
		UserID:      middleware.MustGetUserID(c),
		BookID:      bookID,
		Status:      req.Status,
		CurrentPage: req.CurrentPage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// RemoveShelf 从书架移除
// @Summary      移除图书
// @Tags         书架
// @Produce      json
// @Security     BearerAuth
// @Param        bookId path int true "图书ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/shelves/{bookId} [delete]
func (h *ShelfHandler) RemoveShelf(c *gin.Context) {
	bookID, ok := pathID(c, "bookId")
	if !ok {
		return
	}
	if err := h.removeShelf.Execute(c.Request.Context(), middleware.MustGetUserID(c), bookID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "已从书架移除")
}

// ListMyShelves 我的书架
// @Summary      我的书架
// @Tags         书架
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]appshelf.EntryDTO}
// @Router       /api/v1/shelves/my [get]
func (h *ShelfHandler) ListMyShelves(c *gin.Context) {
	list, err := h.listMyShelves.Execute(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// Stats 我的书架统计
// @Summary      书架统计
// @Tags         书架
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=shelf.Breakdown}
// @Router       /api/v1/shelves/stats [get]
func (h *ShelfHandler) Stats(c *gin.Context) {
	result, err := h.stats.Execute(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
