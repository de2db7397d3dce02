package config

import "testing"

func TestInitViperDefaults(t *testing.T) {
	if err := InitViper("", nil); err != nil {
		t.Fatalf("InitViper 失败: %v", err)
	}
	if GlobalConfig.Port != 8090 {
		t.Errorf("port 默认值 = %d, 期望 8090", GlobalConfig.Port)
	}
	if GlobalConfig.TitleMaxChars != 40 {
		t.Errorf("title_max_chars 默认值 = %d, 期望 40", GlobalConfig.TitleMaxChars)
	}
}

func TestInitViperFlagOverride(t *testing.T) {
	flags := map[string]interface{}{"port": 9000, "debug": true}
	if err := InitViper("", flags); err != nil {
		t.Fatalf("InitViper 失败: %v", err)
	}
	if GlobalConfig.Port != 9000 {
		t.Errorf("命令行覆盖失败, port = %d", GlobalConfig.Port)
	}
	if !GlobalConfig.Debug {
		t.Error("命令行覆盖失败, debug 应为 true")
	}
}

func TestMaskSecret(t *testing.T) {
	if got := maskSecret(""); got != "" {
		t.Errorf("空串脱敏 = %q", got)
	}
	if got := maskSecret("abc"); got != "******" {
		t.Errorf("短串脱敏 = %q", got)
	}
	if got := maskSecret("supersecret"); got != "su******et" {
		t.Errorf("长串脱敏 = %q", got)
	}
}
