package danmaku

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"io"

	"github.com/andybalholm/brotli"

	"bili-live-ctl/internal/fail"
)

// 弹幕协议: 16 字节大端包头 + 包体，包体可能整体压缩后再嵌套若干子包
const headerLen = 16

// 包头 version 字段
const (
	verPlain      = 0
	verPopularity = 1
	verZlib       = 2
	verBrotli     = 3
)

// 包头 operation 字段
const (
	opHeartbeat      = 2
	opHeartbeatReply = 3
	opNotification   = 5
	opAuth           = 7
	opAuthReply      = 8
)

// packet 解出来的单个协议包
type packet struct {
	Version   int
	Operation int
	Body      []byte
}

// encodePacket 组包: 头 16 字节 + 包体
func encodePacket(version, operation int, body []byte) []byte {
	buf := make([]byte, headerLen+len(body))
	binary.BigEndian.PutUint32(buf[0:4], uint32(headerLen+len(body)))
	binary.BigEndian.PutUint16(buf[4:6], headerLen)
	binary.BigEndian.PutUint16(buf[6:8], uint16(version))
	binary.BigEndian.PutUint32(buf[8:12], uint32(operation))
	binary.BigEndian.PutUint32(buf[12:16], 1)
	copy(buf[headerLen:], body)
	return buf
}

// decodePackets 拆包: 压缩包体解压后递归拆嵌套子包
func decodePackets(blob []byte) ([]packet, error) {
	var packets []packet
	for offset := 0; offset+headerLen <= len(blob); {
		packLen := int(binary.BigEndian.Uint32(blob[offset : offset+4]))
		if packLen < headerLen || offset+packLen > len(blob) {
			return packets, fail.New(fail.ReadFailed, "弹幕包长度非法: %d", packLen)
		}
		version := int(binary.BigEndian.Uint16(blob[offset+6 : offset+8]))
		operation := int(binary.BigEndian.Uint32(blob[offset+8 : offset+12]))
		body := blob[offset+headerLen : offset+packLen]

		switch version {
		case verZlib:
			inflated, err := inflateZlib(body)
			if err != nil {
				return packets, err
			}
			nested, err := decodePackets(inflated)
			if err != nil {
				return packets, err
			}
			packets = append(packets, nested...)
		case verBrotli:
			inflated, err := io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
			if err != nil {
				return packets, fail.New(fail.ReadFailed, "brotli 解压失败: %v", err)
			}
			nested, err := decodePackets(inflated)
			if err != nil {
				return packets, err
			}
			packets = append(packets, nested...)
		default:
			packets = append(packets, packet{Version: version, Operation: operation, Body: body})
		}
		offset += packLen
	}
	return packets, nil
}

func inflateZlib(data []byte) ([]byte, error) {
	reader, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fail.New(fail.ReadFailed, "zlib 解压失败: %v", err)
	}
	defer reader.Close()
	inflated, err := io.ReadAll(reader)
	if err != nil {
		return nil, fail.New(fail.ReadFailed, "zlib 解压失败: %v", err)
	}
	return inflated, nil
}
