package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
	"github.com/Kr-EIVEN/hosting-project/internal/months"
	"github.com/Kr-EIVEN/hosting-project/internal/store"
)

// ListMonths 비용 원장 월 컬럼
// GET /api/cost/months
func (h *Handler) ListMonths(c *gin.Context) {
	ds, err := h.dataset(c.Request.Context(), model.DatasetCostData)
	if err != nil {
		h.internalError(c, err)
		return
	}
	if ds == nil {
		c.JSON(http.StatusOK, gin.H{"items": []model.MonthMeta{}, "default": ""})
		return
	}
	metas := h.costMonths(ds)
	c.JSON(http.StatusOK, gin.H{"items": metas, "default": months.DefaultMonth(metas)})
}

// GetOverview 월별 합계, KPI, 계정군/코스트센터 비중
// GET /api/cost/overview?month=
func (h *Handler) GetOverview(c *gin.Context) {
	ctx := c.Request.Context()
	ds, err := h.dataset(ctx, model.DatasetCostData)
	if err != nil {
		h.internalError(c, err)
		return
	}
	if ds == nil {
		respondError(c, http.StatusNotFound, "비용 데이터가 업로드되지 않았습니다.")
		return
	}

	metas := h.costMonths(ds)
	month := h.settingOr(ctx, strings.TrimSpace(c.Query("month")), store.SettingMonth, months.DefaultMonth(metas))

	ov := h.overviews.Get(overviewKey{datasetID: ds.ID, month: month}, func() *months.Overview {
		return months.BuildOverview(ds.Rows, ds.Columns, metas, month)
	})
	c.JSON(http.StatusOK, ov)
}
