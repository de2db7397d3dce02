package main

import (
	"github.com/rs/zerolog/log"

	"bili-live-ctl/cmd/cli"
	"bili-live-ctl/pkg/logger"
)

func main() {
	// 打包命令 go build -ldflags="-s -w" -o "bili-live-ctl" ./cmd/app

	// 1. 设置日志格式/系统 (配置加载后 CLI 会按 debug 开关重新初始化)
	logger.InitLogger(false)

	// 2. 启动 CLI 应用和配置加载 (核心逻辑)
	if err := cli.Execute(); err != nil {
		// 所有的配置加载、CLI 解析错误都在这里捕获
		log.Fatal().Err(err).Msg("应用启动失败")
	}
}
