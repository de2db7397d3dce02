package fetcher

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"bili-live-ctl/pkg/config"
)

// GlobalClient 全局 HTTP 客户端实例，按配置决定是否走代理
var GlobalClient *http.Client

func Init(cfg *config.AppConfig) {
	transport := &http.Transport{}

	if cfg.Proxy.Protocol == "" {
		cfg.Proxy.Protocol = "http"
	}

	switch {
	case cfg.Proxy.Enabled && cfg.Proxy.SystemProxy:
		transport.Proxy = http.ProxyFromEnvironment
		log.Info().Msg("使用系统代理")
	case cfg.Proxy.Enabled && cfg.Proxy.Host != "" && cfg.Proxy.Port >= 1024 && cfg.Proxy.Port <= 65535:
		proxyAddr := fmt.Sprintf("%s://%s:%d", cfg.Proxy.Protocol, cfg.Proxy.Host, cfg.Proxy.Port)
		user := url.QueryEscape(cfg.Proxy.Username)
		pass := url.QueryEscape(cfg.Proxy.Password)
		if user != "" && pass != "" {
			proxyAddr = fmt.Sprintf("%s://%s:%s@%s:%d", cfg.Proxy.Protocol, user, pass, cfg.Proxy.Host, cfg.Proxy.Port)
		}
		proxyURL, err := url.Parse(proxyAddr)
		if err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
			log.Info().Msgf("使用代理: %s://%s:%d", cfg.Proxy.Protocol, cfg.Proxy.Host, cfg.Proxy.Port)
		}
	default:
		log.Debug().Msg("未启用代理")
	}

	GlobalClient = &http.Client{
		Timeout:   15 * time.Second,
		Transport: transport,
	}
}
