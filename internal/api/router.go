package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"bili-live-ctl/internal/api/handler"
	"bili-live-ctl/internal/service"
	"bili-live-ctl/pkg/config"
)

// NewEngine 构建本地控制面的 HTTP 引擎，只打算监听回环地址
func NewEngine(live *service.Live) *gin.Engine {
	if !config.GlobalConfig.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	// 本地前端面板跨域
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	setupRoutes(r, live)
	return r
}

func setupRoutes(r *gin.Engine, live *service.Live) {
	liveGroup := r.Group("/live")
	{
		liveGroup.GET("/info", handler.LiveInfoHandler(live))
		liveGroup.POST("/start", handler.LiveStartHandler(live))
		liveGroup.POST("/stop", handler.LiveStopHandler(live))
		liveGroup.POST("/title", handler.LiveTitleHandler(live))
		liveGroup.POST("/area", handler.LiveAreaHandler(live))
	}

	areaGroup := r.Group("/area")
	{
		areaGroup.GET("/list", handler.AreaListHandler(live))
		areaGroup.GET("/search", handler.AreaSearchHandler(live))
		areaGroup.POST("/refresh", handler.AreaRefreshHandler(live))
	}

	sessionGroup := r.Group("/session")
	{
		sessionGroup.GET("/status", handler.SessionStatusHandler(live))
		sessionGroup.DELETE("", handler.SessionResetHandler(live))
	}
}
