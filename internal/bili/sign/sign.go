package sign

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// B站开播接口使用的直播姬 (pc_link) 客户端身份
const (
	AppKey          = "aae92bc66f3edfab"
	appSecret       = "af125a0d5279fd576c1b4418a3e8276d"
	LivehimeBuild   = "9343"
	LivehimeVersion = "7.17.0.9343"
)

// bili-ticket 请求签名用的密钥对
const (
	TicketKeyID = "ec02"
	ticketKey   = "XgwSnGZ1p"
)

// mixinKeyEncTab wbi 混淆 key 的字符重排表 (固定公开常量)
var mixinKeyEncTab = [64]int{
	46, 47, 18, 2, 53, 8, 23, 32, 15, 50,
	10, 31, 58, 3, 45, 35, 27, 43, 5, 49,
	33, 9, 42, 19, 29, 28, 14, 39, 12, 38,
	41, 13, 37, 48, 7, 16, 24, 55, 40, 61,
	26, 17, 0, 1, 60, 51, 30, 4, 22, 25,
	54, 21, 56, 59, 6, 63, 57, 62, 11, 36,
	20, 34, 44, 52,
}

// AppSign 对请求参数做 APPKEY/APPSEC 签名 (直播姬登录态接口要求):
//  1. 补充 access_key/ts/build/version/appkey 字段
//  2. 按 key 升序做 urlencode 序列化
//  3. 序列化结果直接拼接 appSecret 后取 md5 (32位小写hex)
//  4. 结果以 sign 字段写回参数
//
// 因为 ts 取当前时间，同一组参数两次签名结果必然不同，签名后的参数不可缓存复用。
func AppSign(params url.Values) url.Values {
	return appSignAt(params, time.Now().Unix())
}

func appSignAt(params url.Values, ts int64) url.Values {
	signed := url.Values{}
	for key := range params {
		signed.Set(key, params.Get(key))
	}
	signed.Set("access_key", "")
	signed.Set("ts", strconv.FormatInt(ts, 10))
	signed.Set("build", LivehimeBuild)
	signed.Set("version", LivehimeVersion)
	signed.Set("appkey", AppKey)

	// url.Values.Encode 本身就按 key 升序输出
	digest := md5.Sum([]byte(signed.Encode() + appSecret))
	signed.Set("sign", hex.EncodeToString(digest[:]))
	return signed
}

// GetMixinKey 将 imgKey+subKey (64字符) 按重排表取前32位，得到 wbi 混淆 key
func GetMixinKey(imgKey, subKey string) string {
	orig := imgKey + subKey
	var b strings.Builder
	b.Grow(32)
	for _, idx := range mixinKeyEncTab[:32] {
		b.WriteByte(orig[idx])
	}
	return b.String()
}

// EncWbi 对请求参数做 wbi 签名:
//  1. 由 imgKey/subKey 派生混淆 key
//  2. 添加 wts 字段并按 key 升序
//  3. 过滤 value 中的 "!'()*" 字符 (key 不动)
//  4. 序列化后拼接混淆 key 取 md5，结果以 w_rid 字段写回
//
// imgKey/subKey 由调用方获取并缓存 (当天有效)，本函数不负责刷新。
func EncWbi(params url.Values, imgKey, subKey string) url.Values {
	return encWbiAt(params, imgKey, subKey, time.Now().Unix())
}

func encWbiAt(params url.Values, imgKey, subKey string, wts int64) url.Values {
	mixinKey := GetMixinKey(imgKey, subKey)

	signed := url.Values{}
	for key := range params {
		signed.Set(key, sanitizeValue(params.Get(key)))
	}
	signed.Set("wts", strconv.FormatInt(wts, 10))

	digest := md5.Sum([]byte(signed.Encode() + mixinKey))
	signed.Set("w_rid", hex.EncodeToString(digest[:]))
	return signed
}

// sanitizeValue 去掉 wbi 签名不允许出现的字符
func sanitizeValue(v string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '!', '\'', '(', ')', '*':
			return -1
		}
		return r
	}, v)
}

// TicketSign 生成 bili-ticket 请求的 hexsign 参数，
// 内容为对 "ts"+时间戳 做 HMAC-SHA256
func TicketSign(ts int64) string {
	return HmacSHA256(ticketKey, "ts"+strconv.FormatInt(ts, 10))
}

// HmacSHA256 计算 HMAC-SHA256 并输出小写 hex
func HmacSHA256(key, message string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}
