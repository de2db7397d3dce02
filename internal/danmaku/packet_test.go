package danmaku

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"testing"

	"github.com/andybalholm/brotli"
)

func TestEncodePacketHeader(t *testing.T) {
	body := []byte(`{"roomid":123}`)
	blob := encodePacket(verPlain, opAuth, body)

	if len(blob) != headerLen+len(body) {
		t.Fatalf("包长 = %d, 期望 %d", len(blob), headerLen+len(body))
	}
	if got := binary.BigEndian.Uint32(blob[0:4]); got != uint32(headerLen+len(body)) {
		t.Errorf("packLen = %d", got)
	}
	if got := binary.BigEndian.Uint16(blob[4:6]); got != headerLen {
		t.Errorf("headerLen = %d", got)
	}
	if got := binary.BigEndian.Uint16(blob[6:8]); got != verPlain {
		t.Errorf("version = %d", got)
	}
	if got := binary.BigEndian.Uint32(blob[8:12]); got != opAuth {
		t.Errorf("operation = %d", got)
	}
	if !bytes.Equal(blob[headerLen:], body) {
		t.Errorf("包体不一致")
	}
}

func TestDecodePlainPackets(t *testing.T) {
	first := encodePacket(verPlain, opNotification, []byte(`{"cmd":"DANMU_MSG"}`))
	second := encodePacket(verPopularity, opHeartbeatReply, []byte{0, 0, 1, 44})
	packets, err := decodePackets(append(first, second...))
	if err != nil {
		t.Fatalf("拆包失败: %v", err)
	}
	if len(packets) != 2 {
		t.Fatalf("包数 = %d, 期望 2", len(packets))
	}
	if packets[0].Operation != opNotification || string(packets[0].Body) != `{"cmd":"DANMU_MSG"}` {
		t.Errorf("第一个包不对: %+v", packets[0])
	}
	if packets[1].Operation != opHeartbeatReply || binary.BigEndian.Uint32(packets[1].Body) != 300 {
		t.Errorf("第二个包不对: %+v", packets[1])
	}
}

func TestDecodeZlibNested(t *testing.T) {
	inner := encodePacket(verPlain, opNotification, []byte(`{"cmd":"SEND_GIFT"}`))
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(inner); err != nil {
		t.Fatalf("压缩失败: %v", err)
	}
	zw.Close()

	packets, err := decodePackets(encodePacket(verZlib, opNotification, compressed.Bytes()))
	if err != nil {
		t.Fatalf("拆包失败: %v", err)
	}
	if len(packets) != 1 || string(packets[0].Body) != `{"cmd":"SEND_GIFT"}` {
		t.Errorf("zlib 嵌套包解包失败: %+v", packets)
	}
}

func TestDecodeBrotliNested(t *testing.T) {
	inner := encodePacket(verPlain, opNotification, []byte(`{"cmd":"INTERACT_WORD"}`))
	var compressed bytes.Buffer
	bw := brotli.NewWriter(&compressed)
	if _, err := bw.Write(inner); err != nil {
		t.Fatalf("压缩失败: %v", err)
	}
	bw.Close()

	packets, err := decodePackets(encodePacket(verBrotli, opNotification, compressed.Bytes()))
	if err != nil {
		t.Fatalf("拆包失败: %v", err)
	}
	if len(packets) != 1 || string(packets[0].Body) != `{"cmd":"INTERACT_WORD"}` {
		t.Errorf("brotli 嵌套包解包失败: %+v", packets)
	}
}

func TestDecodeBadLength(t *testing.T) {
	blob := encodePacket(verPlain, opNotification, []byte("x"))
	binary.BigEndian.PutUint32(blob[0:4], 4) // 比包头还短
	if _, err := decodePackets(blob); err == nil {
		t.Errorf("非法包长应报错")
	}
}

func TestParseDanmuMessage(t *testing.T) {
	body := []byte(`{"cmd":"DANMU_MSG","info":[[],"你好世界",[110854973,"观众甲",0]]}`)
	msg, ok := parseNotification(body)
	if !ok {
		t.Fatalf("解析失败")
	}
	if msg.Cmd != "DANMU_MSG" || msg.Text != "你好世界" || msg.User != "观众甲" {
		t.Errorf("弹幕解析不对: %+v", msg)
	}
}

func TestParseNonDanmuMessage(t *testing.T) {
	msg, ok := parseNotification([]byte(`{"cmd":"WATCHED_CHANGE","data":{"num":5}}`))
	if !ok || msg.Cmd != "WATCHED_CHANGE" || msg.Text != "" {
		t.Errorf("非弹幕通知应只带 cmd: %+v", msg)
	}
}
