// Package danmaku 连接直播间弹幕服务器，把服务器推送的消息解包后送入通道。
package danmaku

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"bili-live-ctl/internal/fail"
)

const heartbeatInterval = 30 * time.Second

// Host 弹幕服务器节点，来自 getDanmuInfo 接口
type Host struct {
	Host    string `json:"host"`
	Port    int    `json:"port"`
	WssPort int    `json:"wss_port"`
	WsPort  int    `json:"ws_port"`
}

// Message 解包后的单条推送
type Message struct {
	Cmd  string          // DANMU_MSG / SEND_GIFT / INTERACT_WORD 等
	User string          // 弹幕发送者，仅 DANMU_MSG 有
	Text string          // 弹幕正文，仅 DANMU_MSG 有
	Raw  json.RawMessage // 原始通知体
}

// Listener 单个直播间的弹幕连接
type Listener struct {
	roomID   int
	uid      int64
	token    string
	hosts    []Host
	conn     *websocket.Conn
	Messages chan Message
	// Popularity 人气值，心跳回包刷新
	Popularity uint32
}

func NewListener(roomID int, uid int64, token string, hosts []Host) *Listener {
	return &Listener{
		roomID:   roomID,
		uid:      uid,
		token:    token,
		hosts:    hosts,
		Messages: make(chan Message, 64),
	}
}

// Run 建连、鉴权、心跳并持续收包，直到 ctx 取消或连接断开。
// 返回时通道已关闭。
func (dl *Listener) Run(ctx context.Context) error {
	defer close(dl.Messages)

	if err := dl.connect(ctx); err != nil {
		return err
	}
	defer dl.conn.Close()

	if err := dl.auth(); err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	go dl.heartbeatLoop(ctx, done)
	go func() {
		select {
		case <-ctx.Done():
			dl.conn.Close()
		case <-done:
			// Run 已经返回，不能留着这个协程等 ctx
		}
	}()

	for {
		_, blob, err := dl.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fail.New(fail.TransportError, "弹幕连接断开: %v", err)
		}
		packets, err := decodePackets(blob)
		if err != nil {
			log.Warn().Err(err).Msg("弹幕拆包失败，丢弃该帧")
			continue
		}
		for _, p := range packets {
			dl.dispatch(ctx, p)
		}
	}
}

var dialer = websocket.DefaultDialer

// connect 逐个节点尝试 wss 建连
func (dl *Listener) connect(ctx context.Context) error {
	var lastErr error
	for _, host := range dl.hosts {
		addr := fmt.Sprintf("wss://%s:%d/sub", host.Host, host.WssPort)
		conn, _, err := dialer.DialContext(ctx, addr, nil)
		if err != nil {
			lastErr = err
			log.Warn().Str("addr", addr).Err(err).Msg("弹幕节点连接失败，尝试下一个")
			continue
		}
		dl.conn = conn
		log.Info().Str("addr", addr).Int("room_id", dl.roomID).Msg("弹幕服务器已连接")
		return nil
	}
	return fail.New(fail.TransportError, "所有弹幕节点均不可达: %v", lastErr)
}

// auth 鉴权包必须是建连后的第一个包
func (dl *Listener) auth() error {
	body, err := json.Marshal(map[string]any{
		"uid":      dl.uid,
		"roomid":   dl.roomID,
		"protover": 3,
		"platform": "web",
		"type":     2,
		"key":      dl.token,
	})
	if err != nil {
		return fail.New(fail.WriteFailed, "鉴权包序列化失败: %v", err)
	}
	if err := dl.conn.WriteMessage(websocket.BinaryMessage, encodePacket(verPlain, opAuth, body)); err != nil {
		return fail.New(fail.TransportError, "发送鉴权包失败: %v", err)
	}
	return nil
}

func (dl *Listener) heartbeatLoop(ctx context.Context, done <-chan struct{}) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
			if err := dl.conn.WriteMessage(websocket.BinaryMessage, encodePacket(verPlain, opHeartbeat, nil)); err != nil {
				log.Warn().Err(err).Msg("心跳发送失败")
				return
			}
		}
	}
}

func (dl *Listener) dispatch(ctx context.Context, p packet) {
	switch p.Operation {
	case opHeartbeatReply:
		if len(p.Body) >= 4 {
			dl.Popularity = binary.BigEndian.Uint32(p.Body[:4])
		}
	case opAuthReply:
		log.Debug().Int("room_id", dl.roomID).Msg("弹幕鉴权通过")
	case opNotification:
		msg, ok := parseNotification(p.Body)
		if !ok {
			return
		}
		select {
		case dl.Messages <- msg:
		case <-ctx.Done():
		default:
			// 消费不过来时丢弃，不能阻塞读循环
		}
	}
}

// parseNotification 通知体是 {"cmd": "...", ...}，
// DANMU_MSG 的正文和用户名藏在 info 数组里: info[1] 正文，info[2][1] 用户名
func parseNotification(body []byte) (Message, bool) {
	var head struct {
		Cmd  string          `json:"cmd"`
		Info json.RawMessage `json:"info"`
	}
	if err := json.Unmarshal(body, &head); err != nil {
		return Message{}, false
	}
	msg := Message{Cmd: head.Cmd, Raw: json.RawMessage(body)}
	if head.Cmd == "DANMU_MSG" && len(head.Info) > 0 {
		var info []json.RawMessage
		if err := json.Unmarshal(head.Info, &info); err == nil && len(info) > 2 {
			_ = json.Unmarshal(info[1], &msg.Text)
			var user []json.RawMessage
			if err := json.Unmarshal(info[2], &user); err == nil && len(user) > 1 {
				_ = json.Unmarshal(user[1], &msg.User)
			}
		}
	}
	return msg, true
}
