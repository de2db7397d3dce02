package fail

import (
	"errors"
	"fmt"
)

// Reason 失败原因的封闭枚举，所有网络/业务/本地失败都归入其中一项
type Reason int

const (
	NotFail Reason = iota
	ArgError
	TransportError
	TooManyRequests
	HTTPStatusError
	UpstreamBusinessError
	NeedFaceAuth
	NeedIDAuth
	AreaNotFound
	OnlyBiliLiveClient
	CannotLiveFromWeb
	FileNotFound
	ReadFailed
	WriteFailed
	EmptyConfig
	InvalidCookies
	NoPermission
	NoResult
)

var reasonNames = map[Reason]string{
	NotFail:               "NotFail",
	ArgError:              "ArgError",
	TransportError:        "TransportError",
	TooManyRequests:       "TooManyRequests",
	HTTPStatusError:       "HTTPStatusError",
	UpstreamBusinessError: "UpstreamBusinessError",
	NeedFaceAuth:          "NeedFaceAuth",
	NeedIDAuth:            "NeedIDAuth",
	AreaNotFound:          "AreaNotFound",
	OnlyBiliLiveClient:    "OnlyBiliLiveClient",
	CannotLiveFromWeb:     "CannotLiveFromWeb",
	FileNotFound:          "FileNotFound",
	ReadFailed:            "ReadFailed",
	WriteFailed:           "WriteFailed",
	EmptyConfig:           "EmptyConfig",
	InvalidCookies:        "InvalidCookies",
	NoPermission:          "NoPermission",
	NoResult:              "NoResult",
}

func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// Error 携带 Reason 的类型化错误，分类可编程判断，Msg 仅供人读
type Error struct {
	Reason Reason
	Msg    string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Reason.String()
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Msg)
}

// New 创建类型化错误
func New(reason Reason, format string, args ...interface{}) *Error {
	return &Error{Reason: reason, Msg: fmt.Sprintf(format, args...)}
}

// ReasonOf 从 error 中提取 Reason (包括被包装过的)，普通 error 归为 TransportError
func ReasonOf(err error) Reason {
	if err == nil {
		return NotFail
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Reason
	}
	return TransportError
}

// BiliCodeReason B站业务错误码 -> 本地失败原因
var BiliCodeReason = map[int]Reason{
	60009: AreaNotFound,
	60013: NeedIDAuth,
	60024: NeedFaceAuth,
	60034: OnlyBiliLiveClient,
	60037: CannotLiveFromWeb,
}

// StatusMessage B站特有的状态码语义 (取 HTTP 状态码的负值为键)，
// 同样的负值也会以业务码形式出现在 200 响应体的 code 字段里
var StatusMessage = map[int]string{
	-1:    "应用程序不存在或已被封禁",
	-2:    "Access Key 错误",
	-3:    "API 校验密匙错误",
	-4:    "调用方对该 Method 没有权限",
	-101:  "账号未登录",
	-102:  "账号被封停",
	-103:  "积分不足",
	-104:  "硬币不足",
	-105:  "验证码错误",
	-106:  "账号非正式会员或在适应期",
	-107:  "应用不存在或者被封禁",
	-108:  "未绑定手机",
	-110:  "未绑定手机",
	-111:  "csrf 校验失败",
	-112:  "系统升级中",
	-113:  "账号尚未实名认证",
	-114:  "请先绑定手机",
	-115:  "请先完成实名认证",
	-304:  "木有改动",
	-307:  "撞车跳转",
	-352:  "风控校验失败 (UA 或 wbi 参数不合法)",
	-400:  "请求错误",
	-401:  "未认证 (或非法请求)",
	-403:  "访问权限不足",
	-404:  "啥都木有",
	-405:  "不支持该方法",
	-409:  "冲突",
	-412:  "请求被拦截 (客户端 ip 被服务端风控)",
	-500:  "服务器错误",
	-503:  "过载保护,服务暂不可用",
	-504:  "服务调用超时",
	-509:  "超出限制",
	-616:  "上传文件不存在",
	-617:  "上传文件太大",
	-625:  "登录失败次数太多",
	-626:  "用户不存在",
	-628:  "密码太弱",
	-629:  "用户名或密码错误",
	-632:  "操作对象数量限制",
	-643:  "被锁定",
	-650:  "用户等级太低",
	-652:  "重复的用户",
	-658:  "Token 过期",
	-662:  "密码时间戳过期",
	-688:  "地理区域限制",
	-689:  "版权限制",
	-701:  "扣节操失败",
	-799:  "请求过于频繁，请稍后再试",
	-8888: "对不起，服务器开小差了~ (ಥ﹏ಥ)",
}
