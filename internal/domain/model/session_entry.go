package model

// SessionEntry 会话持久化条目，按字段名做 key/value 存储。
// 已使用的 key: user_id, room_id, area_id, title, rtmp_addr, rtmp_code,
// cookies_str, csrf, refresh_token, room_data, area
type SessionEntry struct {
	ID         int64  `gorm:"column:id;primaryKey"`
	Key        string `gorm:"column:key;uniqueIndex"`
	Value      string `gorm:"column:value"`
	CreateTime int64  `gorm:"column:create_time;autoCreateTime:milli;type:integer"`
	UpdateTime int64  `gorm:"column:update_time;autoUpdateTime:milli;type:integer"`
}

func (SessionEntry) TableName() string {
	return "t_session"
}
