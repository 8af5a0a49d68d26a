package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check reports liveness and verifies the database connection.
func (h *HealthHandler) Check(ctx *gin.Context) {
	sqlDB, err := h.db.DB()

	if err == nil {
		err = sqlDB.Ping()
	}

	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
