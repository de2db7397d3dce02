// Package session 持有一次会话的登录态与直播间状态，
// 并负责在发请求前构造(校验)各操作的参数表。
package session

import (
	"encoding/json"
	"net/url"
	"strconv"

	"bili-live-ctl/internal/fail"
)

// Platform 开播平台标识，B站按它区分网页/客户端开播
const Platform = "pc_link"

// DefaultTitleMaxChars 直播标题的最大字符数 (按字符计，不是字节)
const DefaultTitleMaxChars = 40

// 直播间状态，只有刷新直播间信息后才是权威值
const (
	LiveUnknown   = -1
	LiveNotLive   = 0
	LiveStreaming = 1
	LiveRotation  = 2
)

// Credentials 登录凭证，只被登录流程和 cookie 轮换写入
type Credentials struct {
	UserID       int64             `json:"user_id"`
	CSRF         string            `json:"csrf"`
	Cookies      map[string]string `json:"cookies"`
	RefreshToken string            `json:"refresh_token"`
}

// MergeCookies 合并响应里轮换下来的 cookie，并同步派生字段
func (c *Credentials) MergeCookies(cookies map[string]string) {
	if len(cookies) == 0 {
		return
	}
	if c.Cookies == nil {
		c.Cookies = make(map[string]string, len(cookies))
	}
	for name, value := range cookies {
		c.Cookies[name] = value
	}
	if jct, ok := cookies["bili_jct"]; ok {
		c.CSRF = jct
	}
	if uid, ok := cookies["DedeUserID"]; ok {
		if parsed, err := strconv.ParseInt(uid, 10, 64); err == nil {
			c.UserID = parsed
		}
	}
}

// Invalidate 登录态失效 (nav/stat 返回未登录) 时清空缓存的 cookie
func (c *Credentials) Invalidate() {
	c.Cookies = nil
	c.CSRF = ""
	c.RefreshToken = ""
}

// CookiesJSON 将 cookie 序列化成持久化用的字符串
func (c *Credentials) CookiesJSON() (string, error) {
	raw, err := json.Marshal(c.Cookies)
	if err != nil {
		return "", fail.New(fail.WriteFailed, "cookie 序列化失败: %v", err)
	}
	return string(raw), nil
}

// SetCookiesJSON 从持久化字符串恢复 cookie，解不开按 InvalidCookies 处理
func (c *Credentials) SetCookiesJSON(raw string) error {
	var cookies map[string]string
	if err := json.Unmarshal([]byte(raw), &cookies); err != nil {
		return fail.New(fail.InvalidCookies, "cookie 反序列化失败: %v", err)
	}
	c.Cookies = cookies
	if jct, ok := cookies["bili_jct"]; ok && c.CSRF == "" {
		c.CSRF = jct
	}
	return nil
}

// RoomState 直播间状态。AreaID/Title/LiveStatus/Rtmp* 只在刷新后权威，
// 任何写操作成功后都应视为过期，直到下一次刷新。
type RoomState struct {
	RoomID     int                        `json:"room_id"`
	AreaID     int                        `json:"area_id"`
	Title      string                     `json:"title"`
	LiveStatus int                        `json:"live_status"`
	RtmpAddr   string                     `json:"rtmp_addr"`
	RtmpCode   string                     `json:"rtmp_code"`
	Snapshot   map[string]json.RawMessage `json:"room_data"` // 上游返回的原始快照，仅供展示
}

// MarkStale 写操作之后调用，直到刷新前 live_status 不再可信
func (r *RoomState) MarkStale() {
	r.LiveStatus = LiveUnknown
}

// Session 一次会话的聚合: 凭证 + 直播间状态。
// 不使用进程级单例，由调用链显式持有传递。
type Session struct {
	Credentials   Credentials
	Room          RoomState
	TitleMaxChars int
}

func New() *Session {
	return &Session{
		Room:          RoomState{RoomID: 0, AreaID: 0, LiveStatus: LiveUnknown},
		TitleMaxChars: DefaultTitleMaxChars,
	}
}

// requireBase 所有写操作的公共前置: 房间号与 csrf 必须就绪
func (s *Session) requireBase() *fail.Error {
	if s.Room.RoomID <= 0 {
		return fail.New(fail.ArgError, "room_id 未就绪 (当前 %d)", s.Room.RoomID)
	}
	if s.Credentials.CSRF == "" {
		return fail.New(fail.ArgError, "csrf 为空，请先登录")
	}
	return nil
}

// BuildStartLiveParams 构造开播参数 (签名前)
func (s *Session) BuildStartLiveParams() (url.Values, error) {
	if ferr := s.requireBase(); ferr != nil {
		return nil, ferr
	}
	if s.Room.AreaID <= 0 {
		return nil, fail.New(fail.ArgError, "area_id 未设置 (当前 %d)", s.Room.AreaID)
	}
	params := url.Values{}
	params.Set("room_id", strconv.Itoa(s.Room.RoomID))
	params.Set("platform", Platform)
	params.Set("area_v2", strconv.Itoa(s.Room.AreaID))
	params.Set("csrf_token", s.Credentials.CSRF)
	params.Set("csrf", s.Credentials.CSRF)
	params.Set("type", "2")
	return params, nil
}

// BuildStopLiveParams 构造下播参数
func (s *Session) BuildStopLiveParams() (url.Values, error) {
	if ferr := s.requireBase(); ferr != nil {
		return nil, ferr
	}
	params := url.Values{}
	params.Set("room_id", strconv.Itoa(s.Room.RoomID))
	params.Set("platform", Platform)
	params.Set("csrf_token", s.Credentials.CSRF)
	params.Set("csrf", s.Credentials.CSRF)
	return params, nil
}

// ValidTitle 标题合法性: 非空且不超过 TitleMaxChars 个字符
func (s *Session) ValidTitle(title string) bool {
	length := len([]rune(title))
	return length >= 1 && length <= s.TitleMaxChars
}

// BuildUpdateTitleParams 构造改标题参数，标题和分区同一次调用只能改一个
func (s *Session) BuildUpdateTitleParams(title string) (url.Values, error) {
	if ferr := s.requireBase(); ferr != nil {
		return nil, ferr
	}
	if !s.ValidTitle(title) {
		return nil, fail.New(fail.ArgError, "标题为空或超过 %d 字: %q", s.TitleMaxChars, title)
	}
	params := url.Values{}
	params.Set("room_id", strconv.Itoa(s.Room.RoomID))
	params.Set("platform", Platform)
	params.Set("title", title)
	params.Set("csrf_token", s.Credentials.CSRF)
	params.Set("csrf", s.Credentials.CSRF)
	return params, nil
}

// BuildUpdateAreaParams 构造改分区参数 (分区必须已通过分区目录校验)
func (s *Session) BuildUpdateAreaParams(areaID int) (url.Values, error) {
	if ferr := s.requireBase(); ferr != nil {
		return nil, ferr
	}
	if areaID <= 0 {
		return nil, fail.New(fail.ArgError, "area_id 非法 (当前 %d)", areaID)
	}
	params := url.Values{}
	params.Set("room_id", strconv.Itoa(s.Room.RoomID))
	params.Set("area_id", strconv.Itoa(areaID))
	params.Set("activity_id", "0")
	params.Set("platform", Platform)
	params.Set("csrf_token", s.Credentials.CSRF)
	params.Set("csrf", s.Credentials.CSRF)
	return params, nil
}

// BuildFaceAuthParams 构造人脸验证查询参数
func (s *Session) BuildFaceAuthParams() (url.Values, error) {
	if ferr := s.requireBase(); ferr != nil {
		return nil, ferr
	}
	params := url.Values{}
	params.Set("room_id", strconv.Itoa(s.Room.RoomID))
	params.Set("face_auth_code", "60024")
	params.Set("csrf_token", s.Credentials.CSRF)
	params.Set("csrf", s.Credentials.CSRF)
	params.Set("visit_id", "")
	return params, nil
}
