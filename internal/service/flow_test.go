package service

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"bili-live-ctl/internal/bili"
	"bili-live-ctl/internal/fail"
)

// roundTripFunc 把函数当作 http.RoundTripper，按请求路径脚本化上游返回
type roundTripFunc func(req *http.Request) *http.Response

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func jsonResponse(body string, setCookies ...string) *http.Response {
	header := http.Header{}
	for _, ck := range setCookies {
		header.Add("Set-Cookie", ck)
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func scriptedLive(t *testing.T, rt roundTripFunc) *Live {
	t.Helper()
	l := testLive(t)
	l.client = bili.NewClient(&http.Client{Transport: rt})
	return l
}

// 人脸验证只引导一次、原操作只重试一次，仍失败就原样返回
func TestStartLiveFaceAuthRetriesExactlyOnce(t *testing.T) {
	startCalls := 0
	l := scriptedLive(t, func(req *http.Request) *http.Response {
		switch {
		case strings.Contains(req.URL.Path, "startLive"):
			startCalls++
			return jsonResponse(`{"code":60024,"msg":"需要人脸认证"}`)
		case strings.Contains(req.URL.Path, "IsUserIdentifiedByFaceAuth"):
			return jsonResponse(`{"code":0,"data":{"qr":"https://passport.bilibili.com/h5-app/passport/face"}}`)
		default:
			t.Errorf("多余的上游请求: %s", req.URL.Path)
			return jsonResponse(`{"code":0}`)
		}
	})
	l.Session.Room.RoomID = 22109408
	l.Session.Room.AreaID = 35
	l.Session.Credentials.CSRF = "csrf-token"

	prompted := 0
	result := l.StartLiveWithFaceRetry(func(qrURL string) error {
		prompted++
		if qrURL == "" {
			t.Errorf("引导回调拿到了空二维码")
		}
		return nil
	})

	if result.OK() || result.Reason != fail.NeedFaceAuth {
		t.Errorf("两次都被拒后应返回 NeedFaceAuth, got %v", result.Reason)
	}
	if startCalls != 2 {
		t.Errorf("开播请求应恰好发两次, 实际 %d 次", startCalls)
	}
	if prompted != 1 {
		t.Errorf("人脸验证应只引导一次, 实际 %d 次", prompted)
	}
}

// 未扫码 -> 已扫码 -> 确认成功，凭证要完整落到会话里
func TestLoginQRPollUntilConfirmed(t *testing.T) {
	polls := 0
	l := scriptedLive(t, func(req *http.Request) *http.Response {
		switch {
		case strings.Contains(req.URL.Path, "qrcode/generate"):
			return jsonResponse(`{"code":0,"data":{"url":"https://passport.bilibili.com/qr","qrcode_key":"k"}}`)
		case strings.Contains(req.URL.Path, "qrcode/poll"):
			polls++
			switch polls {
			case 1:
				return jsonResponse(`{"code":0,"data":{"code":86101}}`)
			case 2:
				return jsonResponse(`{"code":0,"data":{"code":86090}}`)
			default:
				return jsonResponse(
					`{"code":0,"data":{"code":0,"refresh_token":"rt","timestamp":1700000000000}}`,
					"DedeUserID=110854973; Path=/",
					"bili_jct=csrf-token; Path=/",
					"SESSDATA=sess; Path=/",
				)
			}
		default:
			t.Errorf("多余的上游请求: %s", req.URL.Path)
			return jsonResponse(`{"code":0}`)
		}
	})

	var shown string
	if err := l.LoginQR(context.Background(), func(qrURL string) error {
		shown = qrURL
		return nil
	}); err != nil {
		t.Fatalf("扫码登录失败: %v", err)
	}

	if shown != "https://passport.bilibili.com/qr" {
		t.Errorf("展示的二维码内容 = %q", shown)
	}
	if polls != 3 {
		t.Errorf("轮询次数 = %d, 期望 3", polls)
	}
	creds := l.Session.Credentials
	if creds.UserID != 110854973 || creds.CSRF != "csrf-token" || creds.RefreshToken != "rt" {
		t.Errorf("登录后凭证不完整: %+v", creds)
	}
	if creds.Cookies["SESSDATA"] != "sess" {
		t.Errorf("cookie 未合并: %+v", creds.Cookies)
	}
}

// 二维码失效是终态，必须立刻停止轮询
func TestLoginQRExpiredStopsImmediately(t *testing.T) {
	polls := 0
	l := scriptedLive(t, func(req *http.Request) *http.Response {
		switch {
		case strings.Contains(req.URL.Path, "qrcode/generate"):
			return jsonResponse(`{"code":0,"data":{"url":"https://passport.bilibili.com/qr","qrcode_key":"k"}}`)
		case strings.Contains(req.URL.Path, "qrcode/poll"):
			polls++
			return jsonResponse(`{"code":0,"data":{"code":86038}}`)
		default:
			t.Errorf("多余的上游请求: %s", req.URL.Path)
			return jsonResponse(`{"code":0}`)
		}
	})

	err := l.LoginQR(context.Background(), nil)
	if err == nil {
		t.Fatalf("二维码失效应返回错误")
	}
	if fail.ReasonOf(err) != fail.NoResult {
		t.Errorf("失效错误的 Reason = %v, 期望 NoResult", fail.ReasonOf(err))
	}
	if polls != 1 {
		t.Errorf("失效后不应继续轮询, 实际 %d 次", polls)
	}
}
