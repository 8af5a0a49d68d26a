package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gamehub-dev/gamehub/internal/models"
	"github.com/gamehub-dev/gamehub/internal/services"
)

type UpdateSettingsRequest struct {
	StorageProvider string `json:"storageProvider" binding:"required"`
	UseBlob         *bool  `json:"useBlob" binding:"required"`
	UseCache        *bool  `json:"useCache" binding:"required"`
	CompressImages  *bool  `json:"compressImages" binding:"required"`
}

type SettingsResponse struct {
	StorageProvider string `json:"storageProvider"`
	UseBlob         bool   `json:"useBlob"`
	UseCache        bool   `json:"useCache"`
	CompressImages  bool   `json:"compressImages"`
}

type SettingsHandler struct {
	settings *services.SettingsService
}

func NewSettingsHandler(settings *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) Get(ctx *gin.Context) {
	settings, err := h.settings.Get()

	if err != nil {
		ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, toSettingsResponse(settings))
}

func (h *SettingsHandler) Update(ctx *gin.Context) {
	var req UpdateSettingsRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.StorageProvider != models.StorageProviderDatabase && req.StorageProvider != models.StorageProviderBlob {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unknown storage provider"})
		return
	}

	settings := &models.AppSettings{
		StorageProvider: req.StorageProvider,
		UseBlob:         *req.UseBlob,
		UseCache:        *req.UseCache,
		CompressImages:  *req.CompressImages,
	}

	if err := h.settings.Upsert(settings); err != nil {
		ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, toSettingsResponse(settings))
}

func toSettingsResponse(settings *models.AppSettings) SettingsResponse {
	return SettingsResponse{
		StorageProvider: settings.StorageProvider,
		UseBlob:         settings.UseBlob,
		UseCache:        settings.UseCache,
		CompressImages:  settings.CompressImages,
	}
}
