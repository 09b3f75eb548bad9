package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Kr-EIVEN/hosting-project/internal/pl"
	"github.com/Kr-EIVEN/hosting-project/internal/store"
)

// settingsPayload 화면 선택 상태
type settingsPayload struct {
	Dimension *string `json:"dimension,omitempty"`
	Period    *string `json:"period,omitempty"`
	Month     *string `json:"month,omitempty"`
}

// GetSettings 저장된 선택 상태
// GET /api/settings
func (h *Handler) GetSettings(c *gin.Context) {
	all, err := h.store.AllSettings(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"dimension": all[store.SettingDimension],
		"period":    all[store.SettingPeriod],
		"month":     all[store.SettingMonth],
	})
}

// UpdateSettings 선택 상태 저장 (보낸 필드만)
// PATCH /api/settings
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req settingsPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "요청 형식 오류")
		return
	}

	values := map[string]string{}
	if req.Dimension != nil {
		id := strings.TrimSpace(*req.Dimension)
		if _, ok := pl.FindDimension(h.cfg.PL.Dimensions, id); !ok {
			respondError(c, http.StatusBadRequest, "알 수 없는 분류 기준: "+id)
			return
		}
		values[store.SettingDimension] = id
	}
	if req.Period != nil {
		values[store.SettingPeriod] = strings.TrimSpace(*req.Period)
	}
	if req.Month != nil {
		values[store.SettingMonth] = strings.TrimSpace(*req.Month)
	}
	if len(values) == 0 {
		respondError(c, http.StatusBadRequest, "변경할 항목이 없습니다.")
		return
	}

	if err := h.store.SetSettings(c.Request.Context(), values); err != nil {
		h.internalError(c, err)
		return
	}
	h.GetSettings(c)
}
