package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"bili-live-ctl/internal/api/response"
	"bili-live-ctl/internal/area"
	"bili-live-ctl/internal/service"
)

// LiveInfoHandler 获取直播间当前状态，先向上游刷新一次
func LiveInfoHandler(live *service.Live) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := live.RefreshRoomInfo(); err != nil {
			log.Err(err).Msg("刷新直播间信息失败")
			response.FromError(c, err)
			return
		}
		room := live.Session.Room
		response.OkWithData(c, gin.H{
			"room_id":     room.RoomID,
			"area_id":     room.AreaID,
			"title":       room.Title,
			"live_status": room.LiveStatus,
			"status_text": service.LiveStatusText(room.LiveStatus),
			"rtmp_addr":   room.RtmpAddr,
			"rtmp_code":   room.RtmpCode,
		})
	}
}

// LiveStartHandler 开播，成功后返回推流地址
func LiveStartHandler(live *service.Live) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := live.StartLive()
		if !result.OK() {
			log.Warn().Str("reason", result.Reason.String()).Str("msg", result.Msg).Msg("开播失败")
			response.FromResult(c, result)
			return
		}
		if err := live.SaveSession(); err != nil {
			log.Err(err).Msg("开播后保存会话失败")
		}
		response.OkWithData(c, gin.H{
			"rtmp_addr": live.Session.Room.RtmpAddr,
			"rtmp_code": live.Session.Room.RtmpCode,
		})
	}
}

// LiveStopHandler 下播
func LiveStopHandler(live *service.Live) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := live.StopLive()
		if !result.OK() {
			response.FromResult(c, result)
			return
		}
		response.OkWithMsg(c, "已下播")
	}
}

// LiveTitleHandler 修改直播标题
func LiveTitleHandler(live *service.Live) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Title string `json:"title" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			var ve validator.ValidationErrors
			if errors.As(err, &ve) {
				response.Error(c, "标题不能为空")
				return
			}
			response.Error(c, "参数错误")
			return
		}
		result := live.UpdateTitle(req.Title)
		if !result.OK() {
			response.FromResult(c, result)
			return
		}
		if err := live.SaveSession(); err != nil {
			log.Err(err).Msg("改标题后保存会话失败")
		}
		response.OkWithMsg(c, "标题已更新")
	}
}

// LiveAreaHandler 修改直播分区，按 id 或名称二选一
func LiveAreaHandler(live *service.Live) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			AreaID   int    `json:"area_id" binding:"omitempty,gt=0"`
			AreaName string `json:"area_name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, "参数错误")
			return
		}
		areaID := req.AreaID
		if areaID == 0 {
			if req.AreaName == "" {
				response.Error(c, "area_id 与 area_name 至少给一个")
				return
			}
			if err := live.EnsureAreas(); err != nil {
				response.FromError(c, err)
				return
			}
			id, ferr := live.Areas.ResolveIDByName(req.AreaName, area.ScopeGlobal)
			if ferr != nil {
				response.FromError(c, ferr)
				return
			}
			areaID = id
		}
		result := live.UpdateArea(areaID)
		if !result.OK() {
			response.FromResult(c, result)
			return
		}
		if err := live.SaveSession(); err != nil {
			log.Err(err).Msg("改分区后保存会话失败")
		}
		response.OkWithData(c, gin.H{"area_id": areaID})
	}
}
