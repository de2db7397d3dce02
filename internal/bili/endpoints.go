package bili

// 端点 key，网关只认这张表里的地址
const (
	EndpointStartLive   = "start_live"
	EndpointStopLive    = "stop_live"
	EndpointRoomUpdate  = "room_update"
	EndpointAreaList    = "area_list"
	EndpointRoomInfo    = "room_info"
	EndpointRoomIDByUID = "room_id_by_uid"
	EndpointUserStatus  = "user_status"
	EndpointNav         = "nav"
	EndpointQRGenerate  = "qr_generate"
	EndpointQRPoll      = "qr_poll"
	EndpointFaceAuth    = "face_auth"
	EndpointWebTicket   = "web_ticket"
	EndpointDanmuInfo   = "danmu_info"
)

// endpointURLs 上游地址表，路径必须与客户端实际请求逐字一致
var endpointURLs = map[string]string{
	EndpointStartLive:   "https://api.live.bilibili.com/room/v1/Room/startLive",
	EndpointStopLive:    "https://api.live.bilibili.com/room/v1/Room/stopLive",
	EndpointRoomUpdate:  "https://api.live.bilibili.com/room/v1/Room/update",
	EndpointAreaList:    "https://api.live.bilibili.com/room/v1/Area/getList",
	EndpointRoomInfo:    "https://api.live.bilibili.com/room/v1/Room/get_info",
	EndpointRoomIDByUID: "https://api.live.bilibili.com/room/v2/Room/room_id_by_uid",
	EndpointUserStatus:  "https://api.bilibili.com/x/web-interface/nav/stat",
	EndpointNav:         "https://api.bilibili.com/x/web-interface/nav",
	EndpointQRGenerate:  "https://passport.bilibili.com/x/passport-login/web/qrcode/generate",
	EndpointQRPoll:      "https://passport.bilibili.com/x/passport-login/web/qrcode/poll",
	EndpointFaceAuth:    "https://api.live.bilibili.com/xlive/app-blink/v1/preLive/IsUserIdentifiedByFaceAuth",
	EndpointWebTicket:   "https://api.bilibili.com/bapis/bilibili.api.ticket.v1.Ticket/GenWebTicket",
	EndpointDanmuInfo:   "https://api.live.bilibili.com/xlive/web-room/v1/index/getDanmuInfo",
}

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/137.0.0.0 Safari/537.36 Edg/137.0.0.0"

// baseHeaders 模拟直播中心网页的请求头，缺了容易被风控
var baseHeaders = map[string]string{
	"accept":             "application/json, text/plain, */*",
	"accept-language":    "zh-CN,zh;q=0.9,en;q=0.8,en-GB;q=0.7,en-US;q=0.6",
	"content-type":       "application/x-www-form-urlencoded; charset=UTF-8",
	"origin":             "https://link.bilibili.com",
	"referer":            "https://link.bilibili.com/p/center/index",
	"sec-ch-ua":          `"Microsoft Edge";v="137", "Not=A?Brand";v="8", "Chromium";v="137"`,
	"sec-ch-ua-mobile":   "?0",
	"sec-ch-ua-platform": `"Windows"`,
	"sec-fetch-dest":     "empty",
	"sec-fetch-mode":     "cors",
	"sec-fetch-site":     "same-site",
	"user-agent":         userAgent,
}
