package repository

import (
	"math"

	"gorm.io/gorm"
)

// Paginate applies 1-based offset paging.
func Paginate(page, size int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		if size < 1 {
			size = 10
		}
		return db.Offset((page - 1) * size).Limit(size)
	}
}

// TotalPages is ceil(total/size).
func TotalPages(total int64, size int) int {
	if size < 1 {
		size = 10
	}
	return int(math.Ceil(float64(total) / float64(size)))
}
