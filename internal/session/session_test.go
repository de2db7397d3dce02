package session

import (
	"strings"
	"testing"

	"bili-live-ctl/internal/fail"
)

func readySession() *Session {
	s := New()
	s.Room.RoomID = 123
	s.Room.AreaID = 35
	s.Credentials.CSRF = "csrf-token"
	return s
}

func TestBuildStartLiveParams(t *testing.T) {
	params, err := readySession().BuildStartLiveParams()
	if err != nil {
		t.Fatalf("构造开播参数失败: %v", err)
	}
	want := map[string]string{
		"room_id":    "123",
		"platform":   "pc_link",
		"area_v2":    "35",
		"csrf_token": "csrf-token",
		"csrf":       "csrf-token",
		"type":       "2",
	}
	if len(params) != len(want) {
		t.Errorf("参数个数 = %d, 期望 %d: %v", len(params), len(want), params)
	}
	for key, value := range want {
		if params.Get(key) != value {
			t.Errorf("%s = %q, 期望 %q", key, params.Get(key), value)
		}
	}
}

func TestBuildStartLiveParamsValidation(t *testing.T) {
	s := readySession()
	s.Room.RoomID = 0
	if _, err := s.BuildStartLiveParams(); fail.ReasonOf(err) != fail.ArgError {
		t.Errorf("room_id=0 应返回 ArgError, got %v", err)
	}

	s = readySession()
	s.Credentials.CSRF = ""
	if _, err := s.BuildStopLiveParams(); fail.ReasonOf(err) != fail.ArgError {
		t.Errorf("csrf 为空应返回 ArgError, got %v", err)
	}

	s = readySession()
	s.Room.AreaID = 0
	if _, err := s.BuildStartLiveParams(); fail.ReasonOf(err) != fail.ArgError {
		t.Errorf("area_id=0 应返回 ArgError, got %v", err)
	}
}

func TestTitleValidation(t *testing.T) {
	s := readySession()

	if _, err := s.BuildUpdateTitleParams(""); fail.ReasonOf(err) != fail.ArgError {
		t.Error("空标题应返回 ArgError")
	}
	// 40 个汉字恰好合法，41 个超限 (按字符数不是字节数)
	if _, err := s.BuildUpdateTitleParams(strings.Repeat("直", 40)); err != nil {
		t.Errorf("40 字标题应合法: %v", err)
	}
	if _, err := s.BuildUpdateTitleParams(strings.Repeat("直", 41)); fail.ReasonOf(err) != fail.ArgError {
		t.Error("41 字标题应返回 ArgError")
	}
}

func TestMergeCookies(t *testing.T) {
	c := Credentials{}
	c.MergeCookies(map[string]string{
		"DedeUserID": "110854973",
		"bili_jct":   "new-csrf",
		"SESSDATA":   "xxx",
	})
	if c.UserID != 110854973 {
		t.Errorf("UserID = %d", c.UserID)
	}
	if c.CSRF != "new-csrf" {
		t.Errorf("CSRF = %s", c.CSRF)
	}
	if c.Cookies["SESSDATA"] != "xxx" {
		t.Errorf("cookie 未合并: %v", c.Cookies)
	}
}

func TestCookiesJSONRoundTrip(t *testing.T) {
	c := Credentials{Cookies: map[string]string{"bili_jct": "abc"}}
	raw, err := c.CookiesJSON()
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}

	restored := Credentials{}
	if err := restored.SetCookiesJSON(raw); err != nil {
		t.Fatalf("反序列化失败: %v", err)
	}
	if restored.CSRF != "abc" {
		t.Errorf("csrf 未从 bili_jct 派生: %s", restored.CSRF)
	}

	if err := restored.SetCookiesJSON("{broken"); fail.ReasonOf(err) != fail.InvalidCookies {
		t.Errorf("坏 cookie 串应返回 InvalidCookies, got %v", err)
	}
}

func TestMarkStale(t *testing.T) {
	s := readySession()
	s.Room.LiveStatus = LiveStreaming
	s.Room.MarkStale()
	if s.Room.LiveStatus != LiveUnknown {
		t.Errorf("MarkStale 后 live_status = %d, 期望 %d", s.Room.LiveStatus, LiveUnknown)
	}
}
