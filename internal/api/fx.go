package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Kr-EIVEN/hosting-project/internal/backend"
	"github.com/Kr-EIVEN/hosting-project/internal/forecast"
)

// 환율/관세 분석에 전달하는 폼 필드
var fxTariffFields = []string{
	"car", "group", "market", "q",
	"plan_fx", "tariff_pct", "fx_mode", "fx_change_pct",
	"cost_rate_pct", "forecast_months",
	"scenario_best_exp_pct", "scenario_best_tariff_delta_pct",
	"scenario_worst_exp_pct", "scenario_worst_tariff_delta_pct",
}

// GetFXForecast 원/달러 환율 예측
// GET /api/fx/forecast?months=12
func (h *Handler) GetFXForecast(c *gin.Context) {
	if !h.requireBackend(c) {
		return
	}
	months := forecast.ClampMonths(queryInt(c, "months"))
	res, err := h.client.FXForecast(c.Request.Context(), months)
	if err != nil {
		h.backendError(c, err)
		return
	}
	if res.Rates == nil {
		res.Rates = map[string]float64{}
	}
	c.JSON(http.StatusOK, gin.H{"months": months, "rates": res.Rates, "meta": res.Meta})
}

// GetFXTariffOptions 판매계획 파일의 필터 선택지
// POST /api/fx-tariff/options (multipart: file)
func (h *Handler) GetFXTariffOptions(c *gin.Context) {
	if !h.requireBackend(c) {
		return
	}
	upload, closeFn, ok := h.formUpload(c)
	if !ok {
		return
	}
	defer closeFn()

	opts, err := h.client.FXTariffOptions(c.Request.Context(), upload)
	if err != nil {
		h.backendError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"options": opts})
}

// AnalyzeFXTariff 환율/관세 시나리오 분석
// POST /api/fx-tariff/analyze (multipart: file + 분석 조건)
func (h *Handler) AnalyzeFXTariff(c *gin.Context) {
	if !h.requireBackend(c) {
		return
	}
	upload, closeFn, ok := h.formUpload(c)
	if !ok {
		return
	}
	defer closeFn()

	fields := make(map[string]string, len(fxTariffFields))
	for _, key := range fxTariffFields {
		if v, present := c.GetPostForm(key); present {
			fields[key] = strings.TrimSpace(v)
		}
	}
	out, err := h.client.FXTariffAnalyze(c.Request.Context(), upload, fields)
	if err != nil {
		h.backendError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// formUpload multipart 의 file 필드를 연다. 실패 응답을 이미 썼으면 ok=false.
func (h *Handler) formUpload(c *gin.Context) (backend.Upload, func(), bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.Server.MaxUploadMB<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "file 업로드가 필요합니다.")
		return backend.Upload{}, nil, false
	}
	name := filepath.Base(fh.Filename)
	if !allowedExt[strings.ToLower(filepath.Ext(name))] {
		respondError(c, http.StatusBadRequest, "xlsx 파일만 업로드할 수 있습니다.")
		return backend.Upload{}, nil, false
	}
	f, err := fh.Open()
	if err != nil {
		h.internalError(c, err)
		return backend.Upload{}, nil, false
	}
	return backend.Upload{Filename: name, Body: f}, func() { _ = f.Close() }, true
}
