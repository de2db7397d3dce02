package service

import (
	"encoding/json"
	"strconv"

	"github.com/rs/zerolog/log"

	"bili-live-ctl/internal/area"
	"bili-live-ctl/internal/fail"
)

// LoadSession 从会话库恢复上次的登录态与直播间状态。
// 必要字段缺失按 EmptyConfig 处理，cookie 解不开按 InvalidCookies 处理，
// 两者都应引导调用方走一次全新登录。
func (l *Live) LoadSession() error {
	fields, err := l.repo.Map()
	if err != nil {
		return fail.New(fail.ReadFailed, "读取会话库失败: %v", err)
	}
	if len(fields) == 0 {
		return fail.New(fail.EmptyConfig, "会话库为空")
	}
	cookiesStr, hasCookies := fields["cookies_str"]
	userIDStr, hasUser := fields["user_id"]
	if !hasCookies || !hasUser || cookiesStr == "" || userIDStr == "" {
		return fail.New(fail.EmptyConfig, "会话缺少 user_id 或 cookies_str")
	}

	if err := l.Session.Credentials.SetCookiesJSON(cookiesStr); err != nil {
		return err
	}
	if uid, err := strconv.ParseInt(userIDStr, 10, 64); err == nil {
		l.Session.Credentials.UserID = uid
	}
	if csrf, ok := fields["csrf"]; ok && csrf != "" {
		l.Session.Credentials.CSRF = csrf
	}
	l.Session.Credentials.RefreshToken = fields["refresh_token"]

	room := &l.Session.Room
	room.RoomID = atoiOr(fields["room_id"], 0)
	room.AreaID = atoiOr(fields["area_id"], 0)
	room.Title = fields["title"]
	room.RtmpAddr = fields["rtmp_addr"]
	room.RtmpCode = fields["rtmp_code"]
	room.MarkStale() // 持久化的 live_status 不可信，等刷新

	if raw := fields["room_data"]; raw != "" {
		var snapshot map[string]json.RawMessage
		if err := json.Unmarshal([]byte(raw), &snapshot); err == nil {
			room.Snapshot = snapshot
		}
	}
	if raw := fields["area"]; raw != "" {
		var payload []area.RootPayload
		if err := json.Unmarshal([]byte(raw), &payload); err == nil && len(payload) > 0 {
			l.rawAreas = payload
			l.Areas = area.Build(payload)
		}
	}

	log.Debug().Int64("user_id", l.Session.Credentials.UserID).
		Int("room_id", room.RoomID).Msg("会话已恢复")
	return nil
}

// SaveSession 把当前会话写回会话库
func (l *Live) SaveSession() error {
	cookiesStr, err := l.Session.Credentials.CookiesJSON()
	if err != nil {
		return err
	}
	fields := map[string]string{
		"user_id":       strconv.FormatInt(l.Session.Credentials.UserID, 10),
		"csrf":          l.Session.Credentials.CSRF,
		"refresh_token": l.Session.Credentials.RefreshToken,
		"cookies_str":   cookiesStr,
		"room_id":       strconv.Itoa(l.Session.Room.RoomID),
		"area_id":       strconv.Itoa(l.Session.Room.AreaID),
		"title":         l.Session.Room.Title,
		"rtmp_addr":     l.Session.Room.RtmpAddr,
		"rtmp_code":     l.Session.Room.RtmpCode,
	}
	if l.Session.Room.Snapshot != nil {
		if raw, err := json.Marshal(l.Session.Room.Snapshot); err == nil {
			fields["room_data"] = string(raw)
		}
	}
	if len(l.rawAreas) > 0 {
		if raw, err := json.Marshal(l.rawAreas); err == nil {
			fields["area"] = string(raw)
		}
	}
	if err := l.repo.SetAll(fields); err != nil {
		return fail.New(fail.WriteFailed, "写入会话库失败: %v", err)
	}
	return nil
}

// ResetSession 清空会话库，下次启动走全新登录
func (l *Live) ResetSession() error {
	if err := l.repo.Clear(); err != nil {
		return fail.New(fail.WriteFailed, "清空会话库失败: %v", err)
	}
	return nil
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
