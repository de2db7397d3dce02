package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bili-live-ctl/internal/domain/model"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Set 写入或更新一个会话字段
func (r *SessionRepository) Set(key, value string) error {
	entry := model.SessionEntry{Key: key, Value: value}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "update_time"}),
	}).Create(&entry).Error
}

// Get 读取单个会话字段，没有时返回空串且 ok 为 false
func (r *SessionRepository) Get(key string) (string, bool, error) {
	var entry model.SessionEntry
	err := r.db.Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

// Map 读取全部会话字段
func (r *SessionRepository) Map() (map[string]string, error) {
	var entries []model.SessionEntry
	if err := r.db.Find(&entries).Error; err != nil {
		return nil, err
	}
	m := make(map[string]string, len(entries))
	for _, entry := range entries {
		m[entry.Key] = entry.Value
	}
	return m, nil
}

// SetAll 批量写入会话字段
func (r *SessionRepository) SetAll(fields map[string]string) error {
	for key, value := range fields {
		if err := r.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}

// Clear 清空会话 (登录态失效后触发重新登录)
func (r *SessionRepository) Clear() error {
	return r.db.Where("1 = 1").Delete(&model.SessionEntry{}).Error
}
