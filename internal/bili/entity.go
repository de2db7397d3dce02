package bili

import "encoding/json"

// --- JSON 结构体定义 (对应 B站 API 返回) ---

// envelope API 顶层的 JSON 通用结构，msg/message 两个字段上游混用
type envelope struct {
	Code    int             `json:"code"`
	Msg     string          `json:"msg"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// RoomInfoData 对应 get_info 接口的数据部分 (只取需要的字段，
// 完整内容由调用方经 Result.Data 以快照形式保留)
type RoomInfoData struct {
	RoomID         int    `json:"room_id"`
	UID            int64  `json:"uid"`
	Title          string `json:"title"`
	LiveStatus     int    `json:"live_status"` // 0: 未直播, 1: 直播中, 2: 轮播
	AreaID         int    `json:"area_id"`
	AreaName       string `json:"area_name"`
	ParentAreaID   int    `json:"parent_area_id"`
	ParentAreaName string `json:"parent_area_name"`
}

// RoomIDData 对应 room_id_by_uid 接口的数据部分
type RoomIDData struct {
	RoomID int `json:"room_id"`
}

// StartLiveData 对应 startLive 接口的数据部分，推流地址在这里返回
type StartLiveData struct {
	Change int `json:"change"`
	Status int `json:"status"`
	Rtmp   struct {
		Addr string `json:"addr"`
		Code string `json:"code"`
	} `json:"rtmp"`
}

// QRGenerateData 对应 qrcode/generate 接口的数据部分
type QRGenerateData struct {
	URL       string `json:"url"`
	QrcodeKey string `json:"qrcode_key"`
}

// QRPollData 对应 qrcode/poll 接口的数据部分。
// code: 0 成功, 86038 二维码失效, 86090 已扫码未确认, 86101 未扫码
type QRPollData struct {
	URL          string `json:"url"`
	RefreshToken string `json:"refresh_token"`
	Timestamp    int64  `json:"timestamp"`
	Code         int    `json:"code"`
	Message      string `json:"message"`
}

// 扫码轮询的终态/中间态
const (
	QRPollSuccess    = 0
	QRPollExpired    = 86038
	QRPollScanned    = 86090
	QRPollNotScanned = 86101
)

// NavData 对应 nav 接口的数据部分，wbi key 藏在图片地址的文件名里
type NavData struct {
	WbiImg struct {
		ImgURL string `json:"img_url"`
		SubURL string `json:"sub_url"`
	} `json:"wbi_img"`
}

// TicketData 对应 GenWebTicket 接口的数据部分
type TicketData struct {
	Ticket    string `json:"ticket"`
	CreatedAt int64  `json:"created_at"`
	TTL       int64  `json:"ttl"`
	Nav       struct {
		Img string `json:"img"`
		Sub string `json:"sub"`
	} `json:"nav"`
}

// DanmuInfoData 对应 getDanmuInfo 接口的数据部分
type DanmuInfoData struct {
	Token    string `json:"token"`
	HostList []struct {
		Host    string `json:"host"`
		Port    int    `json:"port"`
		WssPort int    `json:"wss_port"`
		WsPort  int    `json:"ws_port"`
	} `json:"host_list"`
}
