package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/readtrack/pkg/errors"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestError_MapsHTTPStatus(t *testing.T) {
	c, w := newTestContext()
	Error(c, apperrors.ErrForbidden)

	assert.Equal(t, http.StatusForbidden, w.Code)
	resp := decode(t, w)
	assert.Equal(t, apperrors.ErrCodeForbidden, resp.Code)
	assert.Equal(t, "无权限访问", resp.Message)
}

func TestError_HidesInternalError(t *testing.T) {
	c, w := newTestContext()
	Error(c, errors.New("dial tcp 10.0.0.1:3306: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.Equal(t, apperrors.ErrCodeInternal, resp.Code)
	assert.NotContains(t, resp.Message, "10.0.0.1")
}

func TestCreatedAndMessage(t *testing.T) {
	c, w := newTestContext()
	Created(c, gin.H{"id": 1})
	assert.Equal(t, http.StatusCreated, w.Code)

	c, w = newTestContext()
	Message(c, "已删除")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "已删除", decode(t, w).Message)
}

func TestNewPageData(t *testing.T) {
	p := NewPageData([]int{1, 2}, 21, 1, 10)
	assert.Equal(t, 3, p.TotalPages)

	p = NewPageData(nil, 0, 1, 0)
	assert.Equal(t, 0, p.TotalPages)
}
