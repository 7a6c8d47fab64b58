package models

func (CacheEntry) TableName() string {
	return "cl_cache"
}

// CacheEntry is one row of the shared key-value cache table. Expire is an
// epoch-seconds deadline; zero means the entry never expires. Expired rows
// are filtered on read, not deleted eagerly.
type CacheEntry struct {
	Key    string `gorm:"column:k;primaryKey;size:100"`
	Value  string `gorm:"column:v;type:text"`
	Expire int64  `gorm:"column:expire"`
}
