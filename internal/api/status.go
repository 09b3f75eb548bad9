package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
	"github.com/Kr-EIVEN/hosting-project/internal/store"
)

// StatusResponse 시스템 상태
type StatusResponse struct {
	Initialized bool                                    `json:"initialized"`
	Datasets    map[model.DatasetKind]store.DatasetInfo `json:"datasets"`
	RecentLogs  []model.ImportLog                       `json:"recentImports"`
	Backend     string                                  `json:"backend"`
}

// Health 헬스 체크
// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Format(time.RFC3339)})
}

// GetStatus 적용된 스냅샷과 최근 업로드
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	ctx := c.Request.Context()
	infos, err := h.store.ListDatasets(ctx)
	if err != nil {
		h.internalError(c, err)
		return
	}
	logs, err := h.store.ListImportLogs(ctx, 10)
	if err != nil {
		h.internalError(c, err)
		return
	}

	backendURL := ""
	if h.client != nil {
		backendURL = h.client.BaseURL()
	}
	c.JSON(http.StatusOK, StatusResponse{
		Initialized: len(infos) > 0,
		Datasets:    lo.KeyBy(infos, func(d store.DatasetInfo) model.DatasetKind { return d.Kind }),
		RecentLogs:  logs,
		Backend:     backendURL,
	})
}
