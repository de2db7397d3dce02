package config

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// AppConfig 应用配置，来源优先级: 命令行 > 配置文件 > 默认值
type AppConfig struct {
	Viper *viper.Viper `json:"-" mapstructure:"-"`

	Debug         bool   `json:"debug" mapstructure:"debug"`                     // 是否输出调试日志
	DBPath        string `json:"db_path" mapstructure:"db_path"`                 // 会话库 (sqlite) 路径
	Port          int    `json:"port" mapstructure:"port"`                       // 本地控制接口监听端口
	TitleMaxChars int    `json:"title_max_chars" mapstructure:"title_max_chars"` // 直播标题最大字符数
	Proxy         struct {
		Enabled     bool   `json:"enabled" mapstructure:"enabled"`
		SystemProxy bool   `json:"system_proxy" mapstructure:"system_proxy"`
		Protocol    string `json:"protocol" mapstructure:"protocol"`
		Host        string `json:"host" mapstructure:"host"`
		Port        int    `json:"port" mapstructure:"port"`
		Username    string `json:"username" mapstructure:"username"`
		Password    string `json:"password" mapstructure:"password"`
	} `json:"proxy" mapstructure:"proxy"`
}

// GlobalConfig 加载后的配置实例
var GlobalConfig AppConfig

// MarshalZerologObject 实现 zerolog 接口，打印配置时自动脱敏
func (config *AppConfig) MarshalZerologObject(e *zerolog.Event) {
	e.Bool("debug", config.Debug).
		Str("db_path", config.DBPath).
		Int("port", config.Port).
		Int("title_max_chars", config.TitleMaxChars)

	e.Dict("proxy", zerolog.Dict().
		Bool("enabled", config.Proxy.Enabled).
		Bool("system_proxy", config.Proxy.SystemProxy).
		Str("protocol", config.Proxy.Protocol).
		Str("host", config.Proxy.Host).
		Int("port", config.Proxy.Port).
		Str("username", config.Proxy.Username).
		Str("password", maskSecret(config.Proxy.Password)))
}

// InitViper 负责 Viper 的初始化、加载和反序列化
func InitViper(configFilePath string, cmdFlags map[string]interface{}) error {
	v := viper.New()

	// 1. 默认值 (最低优先级)
	v.SetDefault("debug", false)
	v.SetDefault("db_path", "./bili-live-ctl.db")
	v.SetDefault("port", 8090)
	v.SetDefault("title_max_chars", 40)

	// 2. 配置文件 (次低优先级)
	if configFilePath != "" {
		v.SetConfigFile(configFilePath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("json")
		v.AddConfigPath("./conf/")
		v.AddConfigPath("$HOME/.config/bili-live-ctl/")
	}

	// 3. 配置文件不存在不算错误，用默认值继续
	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return fmt.Errorf("读取配置文件失败: %w", err)
			}
		}
		log.Info().Msg("未找到配置文件，使用[默认值|命令行参数]")
	} else {
		log.Info().Msgf("成功加载配置文件: %s", v.ConfigFileUsed())
	}

	// 4. 命令行 Flag (最高优先级)
	for key, value := range cmdFlags {
		v.Set(key, value)
	}

	if err := v.Unmarshal(&GlobalConfig); err != nil {
		return fmt.Errorf("反序列化配置失败: %w", err)
	}

	log.Debug().Object("config", &GlobalConfig).Msg("[config] 配置加载完成")

	GlobalConfig.Viper = v
	return nil
}

// maskSecret 简单的脱敏辅助函数
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:2] + "******" + s[len(s)-2:]
}
