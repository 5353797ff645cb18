package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		code int
		want int
	}{
		{0, http.StatusOK},
		{ErrCodeInvalidRating, http.StatusBadRequest},
		{ErrCodeInvalidParams, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeBookNotFound, http.StatusNotFound},
		{ErrCodeReviewNotFound, http.StatusNotFound},
		{ErrCodeDuplicateEntry, http.StatusConflict},
		{ErrCodeEmailDuplicate, http.StatusConflict},
		{ErrCodeDatabaseError, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("code_%d", tc.code), func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.code))
		})
	}
}

func TestGetAppError(t *testing.T) {
	t.Run("AppError原样返回", func(t *testing.T) {
		appErr := GetAppError(fmt.Errorf("外层: %w", ErrForbidden))
		assert.Equal(t, ErrCodeForbidden, appErr.Code)
	})

	t.Run("普通错误包装为内部错误", func(t *testing.T) {
		appErr := GetAppError(errors.New("boom"))
		assert.Equal(t, ErrCodeInternal, appErr.Code)
		assert.EqualError(t, appErr.Unwrap(), "boom")
	})
}

func TestHasCode(t *testing.T) {
	err := WrapDB(errors.New("connection refused"), "查询失败")
	assert.True(t, HasCode(err, ErrCodeDatabaseError))
	assert.False(t, HasCode(err, ErrCodeInternal))
	assert.False(t, HasCode(errors.New("plain"), ErrCodeInternal))
}
