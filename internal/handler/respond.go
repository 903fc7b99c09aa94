// Package handler 提供HTTP请求处理器
package handler

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/shiftplan/shiftplan/pkg/errors"
)

// respondJSON 返回JSON响应
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError 返回错误响应
func respondError(w http.ResponseWriter, err error) {
	var ve *apperrors.ValidationErrors
	if stderrors.As(err, &ve) {
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   true,
			"code":    apperrors.CodeInvalidInput,
			"message": "输入校验失败",
			"details": ve.Errors,
		})
		return
	}

	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		respondJSON(w, apperrors.HTTPStatus(appErr), map[string]interface{}{
			"error":   true,
			"code":    appErr.Code,
			"message": appErr.Message,
		})
		return
	}

	respondJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"error":   true,
		"code":    apperrors.CodeInternal,
		"message": err.Error(),
	})
}

// translateValidation 将结构体校验错误转换为字段错误集合
func translateValidation(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return apperrors.Wrap(err, apperrors.CodeInvalidInput, "请求校验失败")
	}

	ve := &apperrors.ValidationErrors{}
	for _, fe := range verrs {
		ve.Add(fe.Field(), fieldErrorMessage(fe))
	}
	return ve
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "不能为空"
	case "datetime":
		return "格式无效，应为 " + fe.Param()
	case "uuid":
		return "不是合法的UUID"
	case "min":
		return "数量不足，至少 " + fe.Param()
	case "oneof":
		return "取值必须是其中之一: " + fe.Param()
	default:
		return "不满足约束 " + fe.Tag()
	}
}
