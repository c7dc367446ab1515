package db

import (
	"gorm.io/gorm"
)

// Paginate limits a query to one page. Non-positive values fall back to the
// first page of defaultSize rows.
func Paginate(page, pageSize, defaultSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		if pageSize < 1 {
			pageSize = defaultSize
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}
