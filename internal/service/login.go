package service

import (
	"context"
	"net/url"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/rs/zerolog/log"

	"bili-live-ctl/internal/bili"
	"bili-live-ctl/internal/fail"
	"bili-live-ctl/pkg/util"
)

// 扫码登录最多等 3 分钟，1 秒一轮询
const (
	qrPollInterval = time.Second
	qrPollAttempts = 180
)

// LoginQR 扫码登录: 生成二维码交给 show 展示，轮询直到登录成功或二维码失效。
// 成功后把下发的 cookie (含 bili_jct/DedeUserID) 与 refresh_token 写入会话凭证。
func (l *Live) LoginQR(ctx context.Context, show func(qrURL string) error) error {
	result := l.client.Get(bili.EndpointQRGenerate, nil, nil)
	if !result.OK() {
		return result.Err()
	}
	var generated bili.QRGenerateData
	if err := result.DecodeData(&generated); err != nil {
		return err
	}
	if show != nil {
		if err := show(generated.URL); err != nil {
			return err
		}
	}
	log.Info().Msg("请使用 B站 手机客户端扫码登录")

	_, err := retry.NewWithData[*bili.Result](
		retry.Attempts(qrPollAttempts),
		retry.Delay(qrPollInterval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	).Do(func() (*bili.Result, error) {
		params := url.Values{}
		params.Set("qrcode_key", generated.QrcodeKey)
		result := l.client.Get(bili.EndpointQRPoll, params, nil)
		if !result.OK() {
			return result, result.Err()
		}
		var status bili.QRPollData
		if err := result.DecodeData(&status); err != nil {
			return result, err
		}
		switch status.Code {
		case bili.QRPollSuccess:
			l.Session.Credentials.MergeCookies(result.Cookies)
			l.Session.Credentials.RefreshToken = status.RefreshToken
			log.Debug().Time("confirmed_at", util.MillisToTime(status.Timestamp)).Msg("扫码确认成功")
			return result, nil
		case bili.QRPollExpired:
			return result, retry.Unrecoverable(fail.New(fail.NoResult, "二维码已失效，请重新登录"))
		case bili.QRPollScanned:
			log.Debug().Msg("已扫码，等待确认")
		case bili.QRPollNotScanned:
			// 继续等
		}
		return result, fail.New(fail.NoResult, "等待扫码 (%d)", status.Code)
	})
	if err != nil {
		return err
	}

	if l.Session.Credentials.CSRF == "" || l.Session.Credentials.UserID <= 0 {
		return fail.New(fail.InvalidCookies, "登录响应缺少必要的 cookie")
	}
	log.Info().Int64("user_id", l.Session.Credentials.UserID).Msg("登录成功")
	return nil
}
