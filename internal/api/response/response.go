package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bili-live-ctl/internal/bili"
	"bili-live-ctl/internal/fail"
)

// Response 是通用的 API 响应结构体
type Response struct {
	Code    int         `json:"code"`    // 业务状态码，0 代表成功
	Data    interface{} `json:"data"`    // 响应数据主体
	Message string      `json:"message"` // 状态信息或错误信息
	Reason  string      `json:"reason,omitempty"`
}

// CodeSuccess 通用成功响应的业务状态码
const CodeSuccess = 0

func Success(c *gin.Context, data interface{}, msg string) {
	if msg == "" {
		msg = "操作成功"
	}
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: msg,
		Data:    data,
	})
}

func Fail(c *gin.Context, code int, msg string, reason fail.Reason) {
	if code == CodeSuccess {
		code = 500 // 避免业务错误码和成功码冲突
	}
	if msg == "" {
		msg = "failed"
	}
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: msg,
		Reason:  reason.String(),
	})
}

// ----------------------------------------------------

// Ok 快捷成功响应，不带数据
func Ok(c *gin.Context) {
	Success(c, nil, "success")
}

func OkWithMsg(c *gin.Context, msg string) {
	Success(c, nil, msg)
}

// OkWithData 快捷成功响应，带数据
func OkWithData(c *gin.Context, data interface{}) {
	Success(c, data, "success")
}

// Error 快捷失败响应，多用于参数不合法
func Error(c *gin.Context, msg string) {
	Fail(c, 500, msg, fail.ArgError)
}

// FromError 按统一错误类型回包，携带失败原因
func FromError(c *gin.Context, err error) {
	Fail(c, 500, err.Error(), fail.ReasonOf(err))
}

// FromResult 把上游调用结果原样转成响应，保留业务状态码
func FromResult(c *gin.Context, result *bili.Result) {
	if result.OK() {
		OkWithData(c, result.Data)
		return
	}
	code := result.Code
	if code == 0 {
		code = 500
	}
	Fail(c, code, result.Msg, result.Reason)
}
