// Package bili 是对 B站私有接口的薄网关:
// 解析端点表、发请求、把传输/状态码/业务三类失败统一收敛成 Result。
// 不包含任何业务逻辑，重试策略由调用方决定。
package bili

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	"bili-live-ctl/internal/fail"
)

// Status 请求的总体结果
type Status int

const (
	StatusOK Status = iota
	StatusFail
)

// Result 每次网络调用的统一返回。Status 为 OK 时 Reason 必为 NotFail，
// Data 是解包后的上游 data 字段。
type Result struct {
	Status  Status
	Code    int
	Msg     string
	Data    json.RawMessage
	Cookies map[string]string
	Reason  fail.Reason
	Raw     []byte
}

// OK 请求与业务是否都成功
func (r *Result) OK() bool {
	return r.Status == StatusOK
}

// DecodeData 将 data 字段解到具体结构体
func (r *Result) DecodeData(v interface{}) error {
	if len(r.Data) == 0 {
		return fail.New(fail.NoResult, "响应没有 data 字段")
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fail.New(fail.ReadFailed, "data 解析失败: %v", err)
	}
	return nil
}

// Err 失败时返回类型化错误，成功返回 nil
func (r *Result) Err() error {
	if r.OK() {
		return nil
	}
	return fail.New(r.Reason, "%s (%d)", r.Msg, r.Code)
}

// Client HTTP 请求网关
type Client struct {
	http *http.Client
}

func NewClient(hc *http.Client) *Client {
	return &Client{http: hc}
}

// Get 请求指定端点，params 拼到 query 上
func (c *Client) Get(endpoint string, params url.Values, cookies map[string]string) *Result {
	return c.Do(http.MethodGet, endpoint, params, nil, cookies)
}

// Post 请求指定端点，form 作为 x-www-form-urlencoded 请求体
func (c *Client) Post(endpoint string, form url.Values, cookies map[string]string) *Result {
	return c.Do(http.MethodPost, endpoint, nil, form, cookies)
}

// Do 唯一入口: 端点 key 不在表里直接按 ArgError 失败，不发请求
func (c *Client) Do(method, endpoint string, params url.Values, form url.Values, cookies map[string]string) *Result {
	rawURL, ok := endpointURLs[endpoint]
	if !ok {
		return &Result{
			Status: StatusFail,
			Reason: fail.ArgError,
			Msg:    fmt.Sprintf("未知的端点: %s", endpoint),
		}
	}
	return c.fetch(method, rawURL, params, form, cookies)
}

func (c *Client) fetch(method, rawURL string, params url.Values, form url.Values, cookies map[string]string) *Result {
	if len(params) > 0 {
		rawURL = rawURL + "?" + params.Encode()
	}

	var body io.Reader
	if len(form) > 0 {
		body = strings.NewReader(form.Encode())
	}
	request, err := http.NewRequest(method, rawURL, body)
	if err != nil {
		return &Result{Status: StatusFail, Reason: fail.ArgError, Msg: err.Error()}
	}
	for key, value := range baseHeaders {
		request.Header.Set(key, value)
	}
	for name, value := range cookies {
		request.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	response, err := c.http.Do(request)
	if err != nil {
		// 连接被重置通常意味着请求过于频繁
		if isConnReset(err) {
			log.Warn().Str("url", rawURL).Msg("连接被重置，请求可能过多")
			return &Result{Status: StatusFail, Reason: fail.TooManyRequests, Msg: err.Error()}
		}
		return &Result{Status: StatusFail, Reason: fail.TransportError, Msg: err.Error()}
	}
	defer response.Body.Close()

	result := &Result{Cookies: collectCookies(response)}

	if response.StatusCode != http.StatusOK {
		msg, ok := fail.StatusMessage[-response.StatusCode]
		if !ok {
			msg = fmt.Sprintf("状态码为%d", response.StatusCode)
		}
		result.Status = StatusFail
		result.Reason = fail.HTTPStatusError
		result.Code = -response.StatusCode
		result.Msg = msg
		return result
	}

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		result.Status = StatusFail
		result.Reason = fail.TransportError
		result.Msg = fmt.Sprintf("读取响应体失败: %v", err)
		return result
	}
	result.Raw = raw

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Err(err).Str("url", rawURL).Msg("API 响应 JSON 解析失败")
		result.Status = StatusFail
		result.Reason = fail.TransportError
		result.Msg = fmt.Sprintf("JSON 解析失败: %v", err)
		return result
	}

	result.Code = env.Code
	result.Msg = env.Msg
	if result.Msg == "" {
		result.Msg = env.Message
	}
	result.Data = env.Data

	switch {
	case fail.BiliCodeReason[env.Code] != fail.NotFail:
		result.Status = StatusFail
		result.Reason = fail.BiliCodeReason[env.Code]
	case env.Code != 0:
		result.Status = StatusFail
		result.Reason = fail.UpstreamBusinessError
		if msg, ok := fail.StatusMessage[env.Code]; ok && result.Msg == "" {
			result.Msg = msg
		}
	}

	// 200 响应体里出现 qr 字段是人脸验证挑战，无论 code 是多少都按需要人脸验证处理
	if hasQRChallenge(env.Data) {
		result.Status = StatusFail
		result.Reason = fail.NeedFaceAuth
	}
	return result
}

func collectCookies(response *http.Response) map[string]string {
	cookies := response.Cookies()
	if len(cookies) == 0 {
		return nil
	}
	m := make(map[string]string, len(cookies))
	for _, ck := range cookies {
		m[ck.Name] = ck.Value
	}
	return m
}

func hasQRChallenge(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return false
	}
	_, ok := fields["qr"]
	return ok
}

func isConnReset(err error) bool {
	return errors.Is(err, syscall.ECONNRESET) ||
		strings.Contains(err.Error(), "connection reset")
}
