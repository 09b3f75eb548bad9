package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Kr-EIVEN/hosting-project/internal/backend"
	"github.com/Kr-EIVEN/hosting-project/internal/forecast"
)

// forecastRequest 예측 실행 요청
type forecastRequest struct {
	Months   int                      `json:"months"`
	Scenario []forecast.ScenarioInput `json:"scenario"`
}

// forecastResponse 기준/시나리오 예측과 드라이버별 영향도
type forecastResponse struct {
	Months              int                     `json:"months"`
	BasePredictions     []map[string]any        `json:"basePredictions"`
	ScenarioPredictions []map[string]any        `json:"scenarioPredictions"`
	Scenario            map[string]float64      `json:"scenario"`
	DriverImpacts       []forecast.Impact       `json:"driverImpacts"`
	History             []forecast.HistoryPoint `json:"history"`
}

// ListForecastDrivers 시나리오 드라이버와 기간 범위
// GET /api/forecast/drivers
func (h *Handler) ListForecastDrivers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"drivers":       forecast.Drivers,
		"defaultMonths": forecast.DefaultMonths,
		"maxMonths":     forecast.MaxMonths,
	})
}

// GetForecastHistory 최근 결산 실적
// GET /api/forecast/history?months=12&series=
func (h *Handler) GetForecastHistory(c *gin.Context) {
	if !h.requireBackend(c) {
		return
	}
	months := forecast.ClampMonths(queryInt(c, "months"))
	series := strings.TrimSpace(c.Query("series"))

	ctx := c.Request.Context()
	tracker := h.history.For(strconv.Itoa(months) + "|" + series)
	res, stale, err := backend.Fetch(tracker, func() (*backend.HistoryResult, error) {
		return h.client.ClosingHistory(ctx, months, series)
	})
	if err != nil && !stale {
		h.backendError(c, err)
		return
	}
	if err != nil {
		h.logger.Warn("serving stale closing history", zap.Error(err))
	}

	selected := res.SelectedSeries
	if selected == "" {
		selected = res.DefaultSeries
	}
	names := res.SeriesNames
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"rows":           forecast.NormalizeHistory(res.SelectedRows()),
		"seriesNames":    names,
		"selectedSeries": selected,
		"stale":          stale,
		"backendError":   errString(err),
	})
}

// RunForecast 기준 예측, 전체 시나리오 예측, 드라이버별 단독 예측을 함께 돌려
// 마지막 달 영업이익 기준 영향도를 매긴다.
// POST /api/forecast/run
func (h *Handler) RunForecast(c *gin.Context) {
	if !h.requireBackend(c) {
		return
	}
	var req forecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "요청 형식 오류")
		return
	}
	months := forecast.ClampMonths(req.Months)
	scenario, drivers := forecast.BuildScenario(req.Scenario)

	var (
		base, full *backend.ForecastResult
		perDriver  = make([]*backend.ForecastResult, len(drivers))
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		base, err = h.client.Forecast(ctx, months, nil)
		return err
	})
	if len(drivers) > 0 {
		g.Go(func() (err error) {
			full, err = h.client.Forecast(ctx, months, scenario)
			return err
		})
	}
	for i, d := range drivers {
		i, d := i, d
		g.Go(func() (err error) {
			perDriver[i], err = h.client.Forecast(ctx, months, map[string]float64{d.Key: d.Rate})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		h.backendError(c, err)
		return
	}
	if full == nil {
		full = base
	}

	baseLastOp := forecast.LastOperatingIncome(base.Predictions)
	lastOps := make([]float64, len(perDriver))
	for i, r := range perDriver {
		lastOps[i] = forecast.LastOperatingIncome(r.Predictions)
	}

	c.JSON(http.StatusOK, forecastResponse{
		Months:              months,
		BasePredictions:     nonNilRows(base.Predictions),
		ScenarioPredictions: nonNilRows(full.Predictions),
		Scenario:            scenario,
		DriverImpacts:       forecast.RankImpacts(baseLastOp, drivers, lastOps),
		History:             forecast.NormalizeHistory(base.History.SelectedRows()),
	})
}

// StartRetrain 최신 결산 반영 + 예측 모델 재학습 시작
// POST /api/forecast/retrain
func (h *Handler) StartRetrain(c *gin.Context) {
	if !h.requireBackend(c) {
		return
	}
	out, err := h.client.StartRetrain(c.Request.Context())
	if err != nil {
		h.backendError(c, err)
		return
	}
	h.logger.Info("forecast retrain requested")
	c.JSON(http.StatusAccepted, out)
}

// GetRetrainStatus 재학습 진행 상태
// GET /api/forecast/retrain/status
func (h *Handler) GetRetrainStatus(c *gin.Context) {
	if !h.requireBackend(c) {
		return
	}
	out, err := h.client.RetrainStatus(c.Request.Context())
	if err != nil {
		h.backendError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func queryInt(c *gin.Context, key string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	return n
}

func nonNilRows(rows []map[string]any) []map[string]any {
	if rows == nil {
		return []map[string]any{}
	}
	return rows
}
