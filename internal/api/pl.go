package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
	"github.com/Kr-EIVEN/hosting-project/internal/pl"
	"github.com/Kr-EIVEN/hosting-project/internal/store"
)

// ListDimensions 분류 기준 목록
// GET /api/pl/dimensions
func (h *Handler) ListDimensions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.cfg.PL.Dimensions})
}

// ListPeriods Back data 의 전기 기간 목록
// GET /api/pl/periods
func (h *Handler) ListPeriods(c *gin.Context) {
	ds, err := h.dataset(c.Request.Context(), model.DatasetBackData)
	if err != nil {
		h.internalError(c, err)
		return
	}
	periods := []string{}
	if ds != nil {
		periods = pl.AvailablePeriods(ds.Rows, h.cfg.PL.PeriodColumn)
	}
	c.JSON(http.StatusOK, gin.H{"periods": periods})
}

// GetReport 분류 기준별 손익 보고서
// GET /api/pl/report?dimension=&period=
// 파라미터가 없으면 저장된 설정, 그것도 없으면 첫 분류 기준 / 전체 기간.
// 저장된 기간이 현재 데이터에 없으면 전체 기간으로 본다.
func (h *Handler) GetReport(c *gin.Context) {
	ctx := c.Request.Context()

	dimID := h.settingOr(ctx, strings.TrimSpace(c.Query("dimension")), store.SettingDimension, "")
	var dim pl.Dimension
	if dimID == "" {
		if len(h.cfg.PL.Dimensions) == 0 {
			respondError(c, http.StatusNotFound, "분류 기준이 설정되지 않았습니다.")
			return
		}
		dim = h.cfg.PL.Dimensions[0]
	} else {
		d, ok := pl.FindDimension(h.cfg.PL.Dimensions, dimID)
		if !ok {
			respondError(c, http.StatusBadRequest, "알 수 없는 분류 기준: "+dimID)
			return
		}
		dim = d
	}
	period := strings.TrimSpace(c.Query("period"))
	periodFromQuery := period != ""
	period = h.settingOr(ctx, period, store.SettingPeriod, pl.PeriodAll)

	ds, err := h.dataset(ctx, model.DatasetBackData)
	if err != nil {
		h.internalError(c, err)
		return
	}
	if ds == nil {
		respondError(c, http.StatusNotFound, "Back data 가 업로드되지 않았습니다.")
		return
	}

	if !periodFromQuery && len(pl.FilterPeriod(ds.Rows, h.cfg.PL.PeriodColumn, period)) == 0 {
		period = pl.PeriodAll
	}

	report := h.reports.Get(reportKey{datasetID: ds.ID, dimension: dim.ID, period: period}, func() *pl.Report {
		return pl.BuildReport(ds.Rows, dim, period, ds.CodeNames, h.cfg.GroupOptions())
	})
	c.JSON(http.StatusOK, report)
}

// settingOr 요청값 > 저장된 설정 > 기본값
func (h *Handler) settingOr(ctx context.Context, value, key, def string) string {
	if value != "" {
		return value
	}
	v, err := h.store.GetSetting(ctx, key)
	if err == nil && v != "" {
		return v
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.logger.Sugar().Warnw("failed to read setting", "key", key, "error", err)
	}
	return def
}
