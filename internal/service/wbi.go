package service

import (
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"bili-live-ctl/internal/bili"
	"bili-live-ctl/internal/bili/sign"
	"bili-live-ctl/pkg/util"
)

// wbiCache wbi key 当天有效，bili-ticket 按 created_at+ttl 过期。
// 缓存在调用方这一层，签名引擎本身无状态。
type wbiCache struct {
	imgKey       string
	subKey       string
	keysExpire   time.Time
	ticket       string
	ticketExpire time.Time
}

// WbiKeys 返回当前有效的 img_key/sub_key，过了自然日边界自动重取
func (l *Live) WbiKeys() (string, string, error) {
	if l.wbi.imgKey != "" && time.Now().Before(l.wbi.keysExpire) {
		return l.wbi.imgKey, l.wbi.subKey, nil
	}
	result := l.absorb(l.client.Get(bili.EndpointNav, nil, l.Session.Credentials.Cookies))
	if !result.OK() {
		return "", "", result.Err()
	}
	var data bili.NavData
	if err := result.DecodeData(&data); err != nil {
		return "", "", err
	}
	l.wbi.imgKey = extractWbiKey(data.WbiImg.ImgURL)
	l.wbi.subKey = extractWbiKey(data.WbiImg.SubURL)
	l.wbi.keysExpire = util.EndOfDay(time.Now())
	log.Debug().Time("expire", l.wbi.keysExpire).Msg("wbi key 已刷新")
	return l.wbi.imgKey, l.wbi.subKey, nil
}

// Ticket 返回当前有效的 bili-ticket，顺带用响应里的 nav 字段刷新 wbi key
func (l *Live) Ticket() (string, error) {
	if l.wbi.ticket != "" && time.Now().Before(l.wbi.ticketExpire) {
		return l.wbi.ticket, nil
	}
	ts := time.Now().Unix()
	params := url.Values{}
	params.Set("key_id", sign.TicketKeyID)
	params.Set("hexsign", sign.TicketSign(ts))
	params.Set("context[ts]", strconv.FormatInt(ts, 10))
	params.Set("csrf", l.Session.Credentials.CSRF)

	result := l.absorb(l.client.Do(http.MethodPost, bili.EndpointWebTicket, params, nil, l.Session.Credentials.Cookies))
	if !result.OK() {
		return "", result.Err()
	}
	var data bili.TicketData
	if err := result.DecodeData(&data); err != nil {
		return "", err
	}
	l.wbi.ticket = data.Ticket
	l.wbi.ticketExpire = time.Unix(data.CreatedAt+data.TTL, 0)
	if data.Nav.Img != "" && data.Nav.Sub != "" {
		l.wbi.imgKey = extractWbiKey(data.Nav.Img)
		l.wbi.subKey = extractWbiKey(data.Nav.Sub)
		l.wbi.keysExpire = util.EndOfDay(time.Now())
	}
	log.Debug().Time("expire", l.wbi.ticketExpire).Msg("bili-ticket 已刷新")
	return l.wbi.ticket, nil
}

// extractWbiKey wbi key 藏在图片地址的文件名里 (去掉扩展名)
func extractWbiKey(rawURL string) string {
	base := path.Base(rawURL)
	return strings.TrimSuffix(base, path.Ext(base))
}
