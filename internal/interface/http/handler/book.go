package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/readtrack/internal/application/book"
	"github.com/xiebiao/readtrack/internal/domain/book"
	"github.com/xiebiao/readtrack/internal/interface/http/dto"
	"github.com/xiebiao/readtrack/internal/interface/http/middleware"
	"github.com/xiebiao/readtrack/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	publishBook  *appbook.PublishBookUseCase
	updateBook   *appbook.UpdateBookUseCase
	deleteBook   *appbook.DeleteBookUseCase
	getBook      *appbook.GetBookUseCase
	listBooks    *appbook.ListBooksUseCase
	listGenres   *appbook.ListGenresUseCase
	similarBooks *appbook.SimilarBooksUseCase
	recommend    *appbook.RecommendBooksUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	publishBook *appbook.PublishBookUseCase,
	updateBook *appbook.UpdateBookUseCase,
	deleteBook *appbook.DeleteBookUseCase,
	getBook *appbook.GetBookUseCase,
	listBooks *appbook.ListBooksUseCase,
	listGenres *appbook.ListGenresUseCase,
	similarBooks *appbook.SimilarBooksUseCase,
	recommend *appbook.RecommendBooksUseCase,
) *BookHandler {
	return &BookHandler{
		publishBook:  publishBook,
		updateBook:   updateBook,
		deleteBook:   deleteBook,
		getBook:      getBook,
		listBooks:    listBooks,
		listGenres:   listGenres,
		similarBooks: similarBooks,
		recommend:    recommend,
	}
}

// CreateBook 录入图书
// @Summary      录入图书
// @Description  管理员录入图书,评分字段初始为0
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      201 {object} response.Response{data=appbook.BookDTO}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "未登录"
// @Failure      403 {object} response.Response "非管理员"
// @Router       /api/v1/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.publishBook.Execute(c.Request.Context(), appbook.PublishBookRequest{
		Title:           req.Title,
		Author:          req.Author,
		Description:     req.Description,
		CoverImageURL:   req.CoverImageURL,
		Genres:          req.Genres,
		PublicationYear: req.PublicationYear,
		Pages:           req.Pages,
		CreatedBy:       middleware.MustGetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateBook 更新图书
// @Summary      更新图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Param        request body dto.UpdateBookRequest true "需要修改的字段"
// @Success      200 {object} response.Response{data=appbook.BookDTO}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateBookRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.updateBook.Execute(c.Request.Context(), id, book.UpdateParams{
		Title:           req.Title,
		Author:          req.Author,
		Description:     req.Description,
		CoverImageURL:   req.CoverImageURL,
		Genres:          req.Genres,
		PublicationYear: req.PublicationYear,
		Pages:           req.Pages,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteBook 删除图书(级联删除书评与书架记录)
// @Summary      删除图书
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.deleteBook.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "图书已删除")
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookDTO}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.getBook.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListBooks 图书列表
// @Summary      图书列表
// @Tags         图书
// @Produce      json
// @Param        page query int false "页码"
// @Param        pageSize query int false "每页数量"
// @Param        search query string false "书名或作者"
// @Param        genre query string false "类型"
// @Param        sort query string false "排序" Enums(title, rating, recent)
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.listBooks.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:     req.Page,
		PageSize: req.PageSize,
		Search:   req.Search,
		Genre:    req.Genre,
		SortBy:   req.Sort,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// ListGenres 全部图书类型
// @Summary      图书类型
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=[]string}
// @Router       /api/v1/books/genres [get]
func (h *BookHandler) ListGenres(c *gin.Context) {
	genres, err := h.listGenres.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, genres)
}

// SimilarBooks 相似图书
// @Summary      相似图书
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=[]appbook.BookDTO}
// @Router       /api/v1/books/{id}/similar [get]
func (h *BookHandler) SimilarBooks(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	books, err := h.similarBooks.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, books)
}

// Recommended 为当前用户推荐
// @Summary      个性化推荐
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]appbook.BookDTO}
// @Router       /api/v1/books/me/recommended [get]
func (h *BookHandler) Recommended(c *gin.Context) {
	books, err := h.recommend.Execute(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, books)
}
