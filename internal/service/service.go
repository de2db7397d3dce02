// Package service 编排网关、签名引擎、分区目录与会话状态，
// 对上层 (CLI / 本地控制接口) 暴露直播控制操作。
package service

import (
	"bili-live-ctl/internal/area"
	"bili-live-ctl/internal/bili"
	"bili-live-ctl/internal/repository"
	"bili-live-ctl/internal/session"
)

// Live 直播控制服务。单线程同步调用模型:
// 所有字段都只被发起调用的控制流读写，不跨线程共享。
type Live struct {
	client  *bili.Client
	repo    *repository.SessionRepository
	Session *session.Session
	Areas   *area.Directory

	rawAreas []area.RootPayload // 分区目录的原始来源，持久化用
	wbi      wbiCache
}

func NewLive(client *bili.Client, repo *repository.SessionRepository) *Live {
	return &Live{
		client:  client,
		repo:    repo,
		Session: session.New(),
	}
}

// absorb 吸收响应里轮换的 cookie 到会话凭证
func (l *Live) absorb(result *bili.Result) *bili.Result {
	if result != nil && len(result.Cookies) > 0 {
		l.Session.Credentials.MergeCookies(result.Cookies)
	}
	return result
}
