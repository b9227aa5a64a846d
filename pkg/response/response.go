package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/sociograph/internal/core"
)

// Response 统一响应壳
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: 0, Msg: "ok", Data: data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Code: 0, Msg: "ok", Data: data})
}

func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Code: http.StatusBadRequest, Msg: msg})
}

func Unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Code: http.StatusUnauthorized, Msg: msg})
}

func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Response{Code: http.StatusNotFound, Msg: msg})
}

func InternalError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, Response{Code: http.StatusInternalServerError, Msg: err.Error()})
}

// ValidationFailed 校验失败按稳定契约输出 {"error": ..., "code": ...}
func ValidationFailed(c *gin.Context, ve *core.ValidationError) {
	c.JSON(http.StatusBadRequest, ve)
}

// Error 业务错误统一出口：校验失败走 400 契约，其余算存储/内部故障
func Error(c *gin.Context, err error) {
	if ve, ok := core.AsValidation(err); ok {
		ValidationFailed(c, ve)
		return
	}
	InternalError(c, err)
}
