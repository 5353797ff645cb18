package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/xiebiao/readtrack/internal/domain/shelf"
)

// RegisterValidators 在gin的校验引擎上注册自定义规则
// shelf_status: 规范状态(大小写不敏感)或旧版别名
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("shelf_status", func(fl validator.FieldLevel) bool {
		_, err := shelf.ParseStatus(fl.Field().String())
		return err == nil
	})
}
