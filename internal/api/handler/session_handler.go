package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bili-live-ctl/internal/api/response"
	"bili-live-ctl/internal/service"
)

// SessionStatusHandler 返回当前登录态，顺带向上游校验一次 cookie
func SessionStatusHandler(live *service.Live) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := live.CheckLogin()
		if !result.OK() {
			response.FromResult(c, result)
			return
		}
		response.OkWithData(c, gin.H{
			"user_id": live.Session.Credentials.UserID,
			"room_id": live.Session.Room.RoomID,
		})
	}
}

// SessionResetHandler 清空本地会话，下次启动走全新扫码登录
func SessionResetHandler(live *service.Live) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := live.ResetSession(); err != nil {
			log.Err(err).Msg("清空会话失败")
			response.FromError(c, err)
			return
		}
		response.OkWithMsg(c, "会话已清空")
	}
}
