package sign

import (
	"net/url"
	"testing"
)

func TestAppSignFixedTime(t *testing.T) {
	params := url.Values{}
	params.Set("room_id", "123")
	params.Set("platform", "pc_link")

	signed := appSignAt(params, 1700000000)

	// 固定 ts 下的已知摘要，算法任何一步变动都会在这里暴露
	if got := signed.Get("sign"); got != "8d71fd86e83eaa0b3308b607946f223b" {
		t.Errorf("sign = %s, 期望 8d71fd86e83eaa0b3308b607946f223b", got)
	}
	for _, key := range []string{"access_key", "ts", "build", "version", "appkey"} {
		if !signed.Has(key) {
			t.Errorf("签名后缺少 %s 字段", key)
		}
	}
	// 原参数不应被修改
	if params.Has("sign") || params.Has("ts") {
		t.Error("AppSign 修改了传入的参数")
	}
}

func TestAppSignOrderIndependent(t *testing.T) {
	a := url.Values{}
	a.Set("room_id", "123")
	a.Set("platform", "pc_link")
	a.Set("area_v2", "35")

	b := url.Values{}
	b.Set("area_v2", "35")
	b.Set("platform", "pc_link")
	b.Set("room_id", "123")

	if appSignAt(a, 1700000000).Get("sign") != appSignAt(b, 1700000000).Get("sign") {
		t.Error("相同参数不同插入顺序，签名应一致")
	}
}

func TestAppSignNotIdempotent(t *testing.T) {
	params := url.Values{}
	params.Set("room_id", "123")

	first := appSignAt(params, 1700000000).Get("sign")
	second := appSignAt(params, 1700000001).Get("sign")
	if first == second {
		t.Error("ts 不同的两次签名不应相同")
	}
}

func TestGetMixinKey(t *testing.T) {
	got := GetMixinKey("7cd084941338484aae1ad9425b84077c", "4932caff0ff746eab6f01bf08b70ac45")
	if got != "ea1db124af3c7062474693fa704f4ff8" {
		t.Errorf("mixin key = %s, 期望 ea1db124af3c7062474693fa704f4ff8", got)
	}
	if len(got) != 32 {
		t.Errorf("mixin key 长度 = %d, 期望 32", len(got))
	}
}

func TestEncWbiFixedTime(t *testing.T) {
	const (
		imgKey = "7cd084941338484aae1ad9425b84077c"
		subKey = "4932caff0ff746eab6f01bf08b70ac45"
	)

	params := url.Values{}
	params.Set("foo", "114")
	params.Set("bar", "514")
	params.Set("zab", "1919810")

	signed := encWbiAt(params, imgKey, subKey, 1702204169)
	if got := signed.Get("w_rid"); got != "8f6f2b5b3d485fe1886cec6a0be8c5d4" {
		t.Errorf("w_rid = %s, 期望 8f6f2b5b3d485fe1886cec6a0be8c5d4", got)
	}
	if got := signed.Get("wts"); got != "1702204169" {
		t.Errorf("wts = %s, 期望 1702204169", got)
	}
}

func TestEncWbiSanitizesValues(t *testing.T) {
	const (
		imgKey = "7cd084941338484aae1ad9425b84077c"
		subKey = "4932caff0ff746eab6f01bf08b70ac45"
	)

	params := url.Values{}
	params.Set("key", "value with spaces")
	params.Set("brackets", "a!b'c(d)e*f")

	signed := encWbiAt(params, imgKey, subKey, 1702204169)
	if got := signed.Get("brackets"); got != "abcdef" {
		t.Errorf("过滤后的 value = %s, 期望 abcdef", got)
	}
	if got := signed.Get("w_rid"); got != "d162926a7f8731e2a3a8d5b1354e1e17" {
		t.Errorf("w_rid = %s, 期望 d162926a7f8731e2a3a8d5b1354e1e17", got)
	}
}

func TestTicketSign(t *testing.T) {
	got := TicketSign(1700000000)
	if got != "bb79f0d980ffbb51597aa1a3e8b55603025cc1322ac766f4c1a98852e6182514" {
		t.Errorf("hexsign = %s 不符合预期", got)
	}
}
