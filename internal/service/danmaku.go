package service

import (
	"bili-live-ctl/internal/danmaku"
	"bili-live-ctl/internal/fail"
)

// NewDanmakuListener 用 getDanmuInfo 下发的节点和令牌构造弹幕连接，
// 调用方拿到后自行 Run
func (l *Live) NewDanmakuListener() (*danmaku.Listener, error) {
	roomID := l.Session.Room.RoomID
	if roomID <= 0 {
		return nil, fail.New(fail.ArgError, "room_id 未就绪")
	}
	info, err := l.DanmuInfo(roomID)
	if err != nil {
		return nil, err
	}
	if len(info.HostList) == 0 {
		return nil, fail.New(fail.NoResult, "上游没有返回弹幕节点")
	}
	hosts := make([]danmaku.Host, 0, len(info.HostList))
	for _, h := range info.HostList {
		hosts = append(hosts, danmaku.Host{
			Host:    h.Host,
			Port:    h.Port,
			WssPort: h.WssPort,
			WsPort:  h.WsPort,
		})
	}
	return danmaku.NewListener(roomID, l.Session.Credentials.UserID, info.Token, hosts), nil
}
