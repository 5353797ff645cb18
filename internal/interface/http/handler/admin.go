package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/readtrack/internal/application/stats"
	appuser "github.com/xiebiao/readtrack/internal/application/user"
	"github.com/xiebiao/readtrack/internal/interface/http/dto"
	"github.com/xiebiao/readtrack/pkg/response"
)

// AdminHandler 管理后台HTTP处理器
type AdminHandler struct {
	listUsers  *appuser.ListUsersUseCase
	deleteUser *appuser.DeleteUserUseCase
	stats      *stats.AdminStatsUseCase
}

// NewAdminHandler 创建管理处理器
func NewAdminHandler(
	listUsers *appuser.ListUsersUseCase,
	deleteUser *appuser.DeleteUserUseCase,
	adminStats *stats.AdminStatsUseCase,
) *AdminHandler {
	return &AdminHandler{
		listUsers:  listUsers,
		deleteUser: deleteUser,
		stats:      adminStats,
	}
}

// ListUsers 用户列表
// @Summary      用户列表
// @Tags         管理
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码"
// @Param        pageSize query int false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData}
// @Failure      403 {object} response.Response "非管理员"
// @Router       /api/v1/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var req dto.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}
	result, err := h.listUsers.Execute(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// DeleteUser 删除用户
// @Summary      删除用户
// @Description  级联删除书评、点赞与书架,并重算受影响图书的评分;管理员不可删除
// @Tags         管理
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "用户ID"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "管理员不可删除"
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /api/v1/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.deleteUser.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "用户已删除")
}

// Stats 全站统计
// @Summary      全站统计
// @Tags         管理
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=stats.AdminStats}
// @Router       /api/v1/admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	result, err := h.stats.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
