package service

import (
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"bili-live-ctl/internal/bili"
	"bili-live-ctl/internal/domain/model"
	"bili-live-ctl/internal/fail"
	"bili-live-ctl/internal/repository"
)

func testLive(t *testing.T) *Live {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "session.db")
	gdb, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		t.Fatalf("打开测试库失败: %v", err)
	}
	if err := gdb.AutoMigrate(&model.SessionEntry{}); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}
	client := bili.NewClient(&http.Client{Timeout: 5 * time.Second})
	return NewLive(client, repository.NewSessionRepository(gdb))
}

func TestLoadSessionEmpty(t *testing.T) {
	l := testLive(t)
	if err := l.LoadSession(); fail.ReasonOf(err) != fail.EmptyConfig {
		t.Errorf("空会话库应返回 EmptyConfig, got %v", err)
	}
}

func TestSessionSaveLoadRoundTrip(t *testing.T) {
	l := testLive(t)
	l.Session.Credentials.MergeCookies(map[string]string{
		"DedeUserID": "110854973",
		"bili_jct":   "csrf-token",
		"SESSDATA":   "sess",
	})
	l.Session.Credentials.RefreshToken = "rt"
	l.Session.Room.RoomID = 22109408
	l.Session.Room.AreaID = 35
	l.Session.Room.Title = "测试标题"

	if err := l.SaveSession(); err != nil {
		t.Fatalf("保存会话失败: %v", err)
	}

	restored := NewLive(l.client, l.repo)
	if err := restored.LoadSession(); err != nil {
		t.Fatalf("恢复会话失败: %v", err)
	}
	if restored.Session.Credentials.UserID != 110854973 {
		t.Errorf("user_id = %d", restored.Session.Credentials.UserID)
	}
	if restored.Session.Credentials.CSRF != "csrf-token" {
		t.Errorf("csrf = %s", restored.Session.Credentials.CSRF)
	}
	if restored.Session.Room.RoomID != 22109408 || restored.Session.Room.AreaID != 35 {
		t.Errorf("房间状态未恢复: %+v", restored.Session.Room)
	}
	// 持久化的 live_status 不可信，恢复后必须是 unknown
	if restored.Session.Room.LiveStatus != -1 {
		t.Errorf("恢复后 live_status = %d, 期望 -1", restored.Session.Room.LiveStatus)
	}
}

func TestLoadSessionInvalidCookies(t *testing.T) {
	l := testLive(t)
	if err := l.repo.SetAll(map[string]string{
		"user_id":     "123",
		"cookies_str": "{not json",
	}); err != nil {
		t.Fatalf("写入失败: %v", err)
	}
	if err := l.LoadSession(); fail.ReasonOf(err) != fail.InvalidCookies {
		t.Errorf("坏 cookie 应返回 InvalidCookies, got %v", err)
	}
}

func TestExtractWbiKey(t *testing.T) {
	got := extractWbiKey("https://i0.hdslb.com/bfs/wbi/7cd084941338484aae1ad9425b84077c.png")
	if got != "7cd084941338484aae1ad9425b84077c" {
		t.Errorf("extractWbiKey = %s", got)
	}
}

func TestStartLiveArgErrorNoNetwork(t *testing.T) {
	l := testLive(t)
	// room_id 为 0，必须在发请求前就失败
	result := l.StartLive()
	if result.OK() || result.Reason != fail.ArgError {
		t.Errorf("room_id=0 的开播应返回 ArgError, got %v", result.Reason)
	}
}

func TestLiveStatusText(t *testing.T) {
	cases := map[int]string{0: "未开播", 1: "直播中", 2: "轮播中", -1: "未知"}
	for status, want := range cases {
		if got := LiveStatusText(status); got != want {
			t.Errorf("LiveStatusText(%d) = %s, 期望 %s", status, got, want)
		}
	}
}
