// Package api 결산 모니터링 HTTP 핸들러
package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kr-EIVEN/hosting-project/internal/backend"
	"github.com/Kr-EIVEN/hosting-project/internal/closing"
	"github.com/Kr-EIVEN/hosting-project/internal/config"
	"github.com/Kr-EIVEN/hosting-project/internal/importer"
	"github.com/Kr-EIVEN/hosting-project/internal/memo"
	"github.com/Kr-EIVEN/hosting-project/internal/model"
	"github.com/Kr-EIVEN/hosting-project/internal/months"
	"github.com/Kr-EIVEN/hosting-project/internal/pl"
	"github.com/Kr-EIVEN/hosting-project/internal/store"
)

const cacheLimit = 64

type reportKey struct {
	datasetID string
	dimension string
	period    string
}

type overviewKey struct {
	datasetID string
	month     string
}

// Handler API 핸들러
type Handler struct {
	cfg         *config.AppConfig
	store       *store.Store
	client      *backend.Client // nil 이면 백엔드 연동 없음
	coordinator *importer.Coordinator
	logger      *zap.Logger
	uploadDir   string

	mu       sync.Mutex
	datasets map[model.DatasetKind]*model.Dataset
	gen      uint64 // invalidate 마다 증가

	reports   *memo.Cache[reportKey, *pl.Report]
	monthMeta *memo.Cache[string, []model.MonthMeta]
	overviews *memo.Cache[overviewKey, *months.Overview]
	checks    *memo.Cache[string, *closing.Result]

	analyze      backend.Latest[*backend.AnalyzeResult]         // 기본 원장
	uploads      backend.Group[string, *backend.AnalyzeResult] // 업로드 원장 (데이터셋 ID)
	causePeriods backend.Latest[[]backend.Period]
	causes       backend.Group[int, *backend.CauseResult]
	history      backend.Group[string, *backend.HistoryResult]

	seedMu      sync.Mutex
	seeded      bool
	seedAttempt time.Time
}

// NewHandler 핸들러 생성
func NewHandler(cfg *config.AppConfig, st *store.Store, client *backend.Client, logger *zap.Logger, uploadDir string) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		cfg:    cfg,
		store:  st,
		client: client,
		coordinator: importer.NewCoordinator(st, importer.Config{
			PeriodColumn:     cfg.PL.PeriodColumn,
			DimensionColumns: dimensionColumns(cfg.PL.Dimensions),
			Months:           cfg.Months,
		}, logger.Named("importer")),
		logger:    logger,
		uploadDir: uploadDir,
		datasets:  make(map[model.DatasetKind]*model.Dataset),
		reports:   memo.New[reportKey, *pl.Report](cacheLimit),
		monthMeta: memo.New[string, []model.MonthMeta](cacheLimit),
		overviews: memo.New[overviewKey, *months.Overview](cacheLimit),
		checks:    memo.New[string, *closing.Result](cacheLimit),
	}
}

// RegisterRoutes /api 하위 라우트 등록
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.Health)
	router.GET("/status", h.GetStatus)

	router.POST("/import/back-data", h.ImportBackData)
	router.POST("/import/cost-data", h.ImportCostData)

	router.GET("/pl/dimensions", h.ListDimensions)
	router.GET("/pl/periods", h.ListPeriods)
	router.GET("/pl/report", h.GetReport)

	router.GET("/cost/months", h.ListMonths)
	router.GET("/cost/overview", h.GetOverview)

	router.GET("/closing/checks", h.GetClosingChecks)

	router.GET("/cause/periods", h.ListCausePeriods)
	router.GET("/cause", h.GetCause)
	router.GET("/cause/children", h.GetCauseChildren)
	router.GET("/cause/trace", h.GetCauseTrace)

	router.GET("/forecast/drivers", h.ListForecastDrivers)
	router.GET("/forecast/history", h.GetForecastHistory)
	router.POST("/forecast/run", h.RunForecast)
	router.POST("/forecast/retrain", h.StartRetrain)
	router.GET("/forecast/retrain/status", h.GetRetrainStatus)

	router.GET("/fx/forecast", h.GetFXForecast)
	router.POST("/fx-tariff/options", h.GetFXTariffOptions)
	router.POST("/fx-tariff/analyze", h.AnalyzeFXTariff)

	router.GET("/settings", h.GetSettings)
	router.PATCH("/settings", h.UpdateSettings)
}

func dimensionColumns(dims []pl.Dimension) []string {
	out := make([]string, 0, len(dims))
	for _, d := range dims {
		out = append(out, d.Column)
	}
	return out
}

// dataset 현재 스냅샷. 메모리에 없으면 store 에서 읽고,
// store 에도 없으면 백엔드 초기 데이터로 한 번 채워 본다.
// 그래도 없으면 nil, nil.
func (h *Handler) dataset(ctx context.Context, kind model.DatasetKind) (*model.Dataset, error) {
	h.mu.Lock()
	ds, ok := h.datasets[kind]
	gen := h.gen
	h.mu.Unlock()
	if ok {
		return ds, nil
	}

	ds, err := h.store.GetDataset(ctx, kind)
	if errors.Is(err, store.ErrNotFound) && h.seedFromBackend(ctx) {
		ds, err = h.store.GetDataset(ctx, kind)
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.datasets[kind]; ok {
		return cur, nil
	}
	// 읽는 사이 새 스냅샷이 적용됐으면 캐시하지 않는다
	if h.gen == gen {
		h.datasets[kind] = ds
	}
	return ds, nil
}

// invalidate 업로드 적용 후 스냅샷과 파생 캐시를 비운다
func (h *Handler) invalidate(kind model.DatasetKind) {
	h.mu.Lock()
	delete(h.datasets, kind)
	h.gen++
	h.mu.Unlock()

	switch kind {
	case model.DatasetBackData:
		h.reports.Reset()
	case model.DatasetCostData:
		h.monthMeta.Reset()
		h.overviews.Reset()
		h.checks.Reset()
	}
}

// costMonths 비용 스냅샷의 월 메타
func (h *Handler) costMonths(ds *model.Dataset) []model.MonthMeta {
	return h.monthMeta.Get(ds.ID, func() []model.MonthMeta {
		return months.ExtractMonthMeta(ds.Rows, ds.Columns, h.cfg.Months)
	})
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func (h *Handler) internalError(c *gin.Context, err error) {
	h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	respondError(c, http.StatusInternalServerError, err.Error())
}
