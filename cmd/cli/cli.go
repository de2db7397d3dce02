package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"bili-live-ctl/internal/api"
	"bili-live-ctl/internal/area"
	"bili-live-ctl/internal/bili"
	"bili-live-ctl/internal/db"
	"bili-live-ctl/internal/fail"
	"bili-live-ctl/internal/repository"
	"bili-live-ctl/internal/service"
	"bili-live-ctl/internal/session"
	"bili-live-ctl/pkg/config"
	"bili-live-ctl/pkg/fetcher"
	"bili-live-ctl/pkg/logger"
	"bili-live-ctl/pkg/qrterm"
)

// CliFlags 用于在 CLI 解析后临时存储 Flag 值
type CliFlags struct {
	ConfigFile string
	DBPath     string
	Port       int
	Debug      bool
}

func Execute() error {
	cliValues := CliFlags{}

	app := &cli.App{
		Name:  "bili-live-ctl",
		Usage: "B站直播开播控制台 (扫码登录、开播/下播、改标题/分区)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config-file",
				Aliases:     []string{"c"},
				Usage:       "配置文件 (JSON) 路径",
				Destination: &cliValues.ConfigFile,
			},
			&cli.StringFlag{
				Name:        "db-path",
				Usage:       "会话库 (sqlite) 路径",
				Destination: &cliValues.DBPath,
			},
			&cli.IntFlag{
				Name:        "port",
				Aliases:     []string{"p"},
				Usage:       "本地控制接口监听端口",
				Destination: &cliValues.Port,
				Value:       0, // 使用 0 表示未设置，让 Viper 默认值生效
			},
			&cli.BoolFlag{
				Name:        "debug",
				Usage:       "输出调试日志",
				Destination: &cliValues.Debug,
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "auto",
				Usage:  "一键开播: 恢复会话 (必要时扫码登录) 后按上次的分区直接开播",
				Action: withLive(&cliValues, runAuto),
			},
			{
				Name:  "manual",
				Usage: "指定分区/标题后开播",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "area", Usage: "分区名 (支持拼音/首字母)"},
					&cli.IntFlag{Name: "area-id", Usage: "分区 id，与 --area 二选一"},
					&cli.StringFlag{Name: "title", Usage: "直播标题"},
				},
				Action: withLive(&cliValues, runManual),
			},
			{
				Name:   "stop",
				Usage:  "下播",
				Action: withLive(&cliValues, runStop),
			},
			{
				Name:      "title",
				Usage:     "修改直播标题",
				ArgsUsage: "<新标题>",
				Action:    withLive(&cliValues, runTitle),
			},
			{
				Name:  "area",
				Usage: "检索/修改直播分区",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "按名称检索并切换到该分区"},
					&cli.IntFlag{Name: "list", Usage: "列出主分区 (0) 或指定主分区下的子分区", Value: -1},
				},
				Action: withLive(&cliValues, runArea),
			},
			{
				Name:   "info",
				Usage:  "查看直播间当前状态",
				Action: withLive(&cliValues, runInfo),
			},
			{
				Name:   "danmaku",
				Usage:  "连接弹幕服务器并打印弹幕，Ctrl+C 退出",
				Action: withLive(&cliValues, runDanmaku),
			},
			{
				Name:   "serve",
				Usage:  "启动本地控制接口",
				Action: withLive(&cliValues, runServe),
			},
			{
				Name:   "logout",
				Usage:  "清空本地会话",
				Action: withLive(&cliValues, runLogout),
			},
		},
		// 不带子命令时等价于 auto
		Action: withLive(&cliValues, runAuto),
	}

	return app.Run(os.Args)
}

// withLive 公共引导: 配置 -> 日志 -> HTTP 客户端 -> 会话库 -> 服务
func withLive(cliValues *CliFlags, run func(c *cli.Context, live *service.Live) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		flagMap := make(map[string]interface{})
		if cliValues.Port != 0 {
			flagMap["port"] = cliValues.Port
		}
		if cliValues.DBPath != "" {
			flagMap["db_path"] = cliValues.DBPath
		}
		if cliValues.Debug {
			flagMap["debug"] = true
		}

		if err := config.InitViper(cliValues.ConfigFile, flagMap); err != nil {
			return err
		}
		logger.InitLogger(config.GlobalConfig.Debug)
		fetcher.Init(&config.GlobalConfig)
		if err := db.InitDB(config.GlobalConfig.DBPath); err != nil {
			return err
		}

		live := service.NewLive(bili.NewClient(fetcher.GlobalClient), repository.NewSessionRepository(db.DB))
		live.Session.TitleMaxChars = config.GlobalConfig.TitleMaxChars
		return run(c, live)
	}
}

// ensureSession 恢复会话，必要时走扫码登录并把会话落库
func ensureSession(c *cli.Context, live *service.Live) error {
	err := live.LoadSession()
	switch fail.ReasonOf(err) {
	case fail.NotFail:
		// 恢复成功，继续校验登录态
	case fail.EmptyConfig, fail.InvalidCookies:
		log.Info().Msg("本地没有可用会话，进入扫码登录")
		if err := loginFlow(c, live); err != nil {
			return err
		}
		return nil
	default:
		return err
	}

	result := live.CheckLogin()
	if result.Reason == fail.InvalidCookies {
		log.Info().Msg("登录态已过期，重新扫码登录")
		return loginFlow(c, live)
	}
	if !result.OK() {
		return result.Err()
	}
	return nil
}

func loginFlow(c *cli.Context, live *service.Live) error {
	if err := live.LoginQR(c.Context, qrterm.Print); err != nil {
		return err
	}
	if err := live.ResolveRoomID(); err != nil {
		return err
	}
	if err := live.FetchAreaList(); err != nil {
		return err
	}
	return live.SaveSession()
}

func runAuto(c *cli.Context, live *service.Live) error {
	if err := ensureSession(c, live); err != nil {
		return err
	}
	if err := live.RefreshRoomInfo(); err != nil {
		return err
	}
	if live.Session.Room.LiveStatus == session.LiveStreaming {
		log.Info().Msg("直播间已在直播中")
		printRtmp(live)
		return nil
	}
	result := live.StartLiveWithFaceRetry(qrterm.Print)
	if !result.OK() {
		return result.Err()
	}
	printRtmp(live)
	return live.SaveSession()
}

func runManual(c *cli.Context, live *service.Live) error {
	if err := ensureSession(c, live); err != nil {
		return err
	}
	if title := c.String("title"); title != "" {
		if result := live.UpdateTitle(title); !result.OK() {
			return result.Err()
		}
	}
	areaID := c.Int("area-id")
	if name := c.String("area"); name != "" {
		if err := live.EnsureAreas(); err != nil {
			return err
		}
		id, ferr := live.Areas.ResolveIDByName(name, area.ScopeGlobal)
		if ferr != nil {
			return ferr
		}
		areaID = id
	}
	if areaID > 0 {
		if result := live.UpdateArea(areaID); !result.OK() {
			return result.Err()
		}
	}
	result := live.StartLiveWithFaceRetry(qrterm.Print)
	if !result.OK() {
		return result.Err()
	}
	printRtmp(live)
	return live.SaveSession()
}

func printRtmp(live *service.Live) {
	room := live.Session.Room
	if room.RtmpAddr != "" {
		fmt.Printf("推流地址: %s\n", room.RtmpAddr)
		fmt.Printf("推流密钥: %s\n", room.RtmpCode)
	}
}

func runStop(c *cli.Context, live *service.Live) error {
	if err := ensureSession(c, live); err != nil {
		return err
	}
	if result := live.StopLive(); !result.OK() {
		return result.Err()
	}
	return live.SaveSession()
}

func runTitle(c *cli.Context, live *service.Live) error {
	title := c.Args().First()
	if title == "" {
		return fail.New(fail.ArgError, "用法: title <新标题>")
	}
	if err := ensureSession(c, live); err != nil {
		return err
	}
	if result := live.UpdateTitle(title); !result.OK() {
		return result.Err()
	}
	log.Info().Str("title", title).Msg("标题已更新")
	return live.SaveSession()
}

func runArea(c *cli.Context, live *service.Live) error {
	if err := ensureSession(c, live); err != nil {
		return err
	}
	if err := live.EnsureAreas(); err != nil {
		return err
	}
	if listID := c.Int("list"); listID >= 0 {
		names, ferr := live.Areas.ListNames(listID)
		if ferr != nil {
			return ferr
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	}
	name := c.String("name")
	if name == "" {
		return fail.New(fail.ArgError, "用法: area --name <分区名> 或 area --list <主分区id>")
	}
	id, ferr := live.Areas.ResolveIDByName(name, area.ScopeGlobal)
	if ferr != nil {
		return ferr
	}
	if result := live.UpdateArea(id); !result.OK() {
		return result.Err()
	}
	return live.SaveSession()
}

func runInfo(c *cli.Context, live *service.Live) error {
	if err := ensureSession(c, live); err != nil {
		return err
	}
	if err := live.RefreshRoomInfo(); err != nil {
		return err
	}
	room := live.Session.Room
	fmt.Printf("房间号: %d\n", room.RoomID)
	fmt.Printf("标题:   %s\n", room.Title)
	fmt.Printf("分区:   %d\n", room.AreaID)
	fmt.Printf("状态:   %s\n", service.LiveStatusText(room.LiveStatus))
	if room.RtmpAddr != "" {
		fmt.Printf("推流地址: %s\n", room.RtmpAddr)
		fmt.Printf("推流密钥: %s\n", room.RtmpCode)
	}
	return nil
}

func runDanmaku(c *cli.Context, live *service.Live) error {
	if err := ensureSession(c, live); err != nil {
		return err
	}
	listener, err := live.NewDanmakuListener()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		for msg := range listener.Messages {
			if msg.Cmd == "DANMU_MSG" {
				fmt.Printf("[%s] %s\n", msg.User, msg.Text)
			}
		}
	}()
	return listener.Run(ctx)
}

func runServe(c *cli.Context, live *service.Live) error {
	if err := ensureSession(c, live); err != nil {
		return err
	}
	engine := api.NewEngine(live)
	addr := fmt.Sprintf("127.0.0.1:%d", config.GlobalConfig.Port)
	log.Info().Str("addr", addr).Msg("本地控制接口已启动")
	return engine.Run(addr)
}

func runLogout(c *cli.Context, live *service.Live) error {
	if err := live.ResetSession(); err != nil {
		return err
	}
	log.Info().Msg("会话已清空")
	return nil
}
