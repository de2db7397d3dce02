package logger

import (
	"errors"
	"testing"

	"github.com/rs/zerolog/log"
)

func TestLogger(t *testing.T) {
	InitLogger(true)

	testErr := errors.New("模拟一个失败")

	log.Debug().Msg("调试输出")
	log.Info().Msg("开播工具启动")
	log.Warn().Msg("wbi key 即将过期")
	log.Err(testErr).Msg("操作失败")
	log.Error().Msgf("操作失败: %v", testErr)
}
