package qrterm

import (
	"os"

	qrcode "github.com/skip2/go-qrcode"

	"bili-live-ctl/internal/fail"
)

// Print 将内容编码成二维码输出到终端 (半块字符，扫码用)
func Print(content string) error {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return fail.New(fail.ArgError, "生成二维码失败: %v", err)
	}
	os.Stdout.WriteString(qr.ToSmallString(false))
	return nil
}

// SavePNG 将二维码另存为图片，终端显示不了时的后备手段
func SavePNG(content, file string) error {
	if err := qrcode.WriteFile(content, qrcode.Medium, 256, file); err != nil {
		return fail.New(fail.WriteFailed, "保存二维码图片失败: %v", err)
	}
	return nil
}
