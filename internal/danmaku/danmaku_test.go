package danmaku

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"net/url"
	"runtime"
	"strconv"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// 起一个只收鉴权包就断开的弹幕服务端
func testDanmakuServer(t *testing.T) (Host, func()) {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.ReadMessage() // 鉴权包
		conn.Close()
	}))

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("解析测试服务器地址失败: %v", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("解析测试服务器端口失败: %v", err)
	}
	return Host{Host: u.Hostname(), WssPort: port}, srv.Close
}

func TestRunCleansUpAfterDisconnect(t *testing.T) {
	host, closeSrv := testDanmakuServer(t)
	defer closeSrv()

	oldDialer := dialer
	dialer = &websocket.Dialer{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}}
	defer func() { dialer = oldDialer }()

	dl := NewListener(123, 110854973, "token", []Host{host})

	// ctx 一直存活，Run 因服务端断开而返回
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	before := runtime.NumGoroutine()
	if err := dl.Run(ctx); err == nil {
		t.Fatalf("服务端断开后 Run 应返回错误")
	}
	if _, open := <-dl.Messages; open {
		t.Errorf("Run 返回后消息通道应已关闭")
	}

	// 心跳与 ctx 监视协程必须随 Run 一起退出，不能等 ctx 取消
	deadline := time.After(2 * time.Second)
	for runtime.NumGoroutine() > before {
		select {
		case <-deadline:
			t.Fatalf("Run 返回后仍有内部协程未退出 (%d > %d)", runtime.NumGoroutine(), before)
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}
