package logger

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger 初始化 zerolog，控制台输出人类可读格式
func InitLogger(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimestampFieldName = "timestamp"
	zerolog.TimeFieldFormat = time.RFC3339Nano

	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02 15:04:05.000",
		// 固定宽度的日志级别，对齐输出
		FormatLevel: func(i interface{}) string {
			return fmt.Sprintf(" %5s ", strings.ToUpper(i.(string)))
		},
		// 只保留文件名:行号，去掉路径前缀
		FormatCaller: func(i interface{}) string {
			callerStr := i.(string)
			if lastSlash := strings.LastIndexByte(callerStr, '/'); lastSlash != -1 {
				callerStr = callerStr[lastSlash+1:]
			}
			return fmt.Sprintf("%-22s", callerStr)
		},
		FormatMessage: func(i interface{}) string {
			return fmt.Sprintf(" : %s", i.(string))
		},
	}

	log.Logger = zerolog.New(consoleWriter).
		Level(level).
		With().
		Timestamp().
		CallerWithSkipFrameCount(2).
		Logger()
}
