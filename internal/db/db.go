package db

import (
	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"bili-live-ctl/internal/domain/model"
)

var DB *gorm.DB

// InitDB 打开会话库并迁移表结构，库文件不存在时会自动创建
func InitDB(path string) error {
	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Err(err).Str("path", path).Msg("数据库连接失败")
		return err
	}

	if err := DB.AutoMigrate(&model.SessionEntry{}); err != nil {
		log.Err(err).Msg("表迁移失败")
		return err
	}

	log.Debug().Str("path", path).Msg("数据库连接成功并已迁移")
	return nil
}
