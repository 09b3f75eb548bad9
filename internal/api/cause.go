package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kr-EIVEN/hosting-project/internal/backend"
	"github.com/Kr-EIVEN/hosting-project/internal/drilldown"
)

// ListCausePeriods 원인 분석 가능 기간
// GET /api/cause/periods
func (h *Handler) ListCausePeriods(c *gin.Context) {
	if !h.requireBackend(c) {
		return
	}
	ctx := c.Request.Context()
	periods, stale, err := backend.Fetch(&h.causePeriods, func() ([]backend.Period, error) {
		return h.client.PLCausePeriods(ctx)
	})
	if err != nil && !stale {
		h.backendError(c, err)
		return
	}
	if periods == nil {
		periods = []backend.Period{}
	}
	c.JSON(http.StatusOK, gin.H{"periods": periods, "stale": stale, "backendError": errString(err)})
}

// GetCause 연/월 원인 분석 원본
// GET /api/cause?year=&month=
func (h *Handler) GetCause(c *gin.Context) {
	res, stale, backendErr, ok := h.fetchCause(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": res, "stale": stale, "backendError": backendErr})
}

// GetCauseChildren 드릴다운 한 단계
// GET /api/cause/children?year=&month=&path=A>B&sort=&q=
func (h *Handler) GetCauseChildren(c *gin.Context) {
	res, stale, backendErr, ok := h.fetchCause(c)
	if !ok {
		return
	}
	parts := drilldown.SplitPath(c.Query("path"))
	if len(parts) == 0 {
		respondError(c, http.StatusBadRequest, "path 쿼리 파라미터가 필요합니다.")
		return
	}
	level := drilldown.BuildLevel(resolverFor(res), parts, c.Query("q"), drilldown.ParseSortMode(c.Query("sort")))
	c.JSON(http.StatusOK, gin.H{"level": level, "stale": stale, "backendError": backendErr})
}

// GetCauseTrace |증감|이 가장 큰 경로 자동 추적
// GET /api/cause/trace?year=&month=&root=&depth=
func (h *Handler) GetCauseTrace(c *gin.Context) {
	res, stale, backendErr, ok := h.fetchCause(c)
	if !ok {
		return
	}
	start := drilldown.SplitPath(c.Query("root"))
	if len(start) == 0 {
		respondError(c, http.StatusBadRequest, "root 쿼리 파라미터가 필요합니다.")
		return
	}
	depth, _ := strconv.Atoi(c.Query("depth"))

	trace := drilldown.AutoTrace(resolverFor(res), start, depth)
	resp := gin.H{"trace": trace, "stale": stale, "backendError": backendErr}
	if leaf, ok := drilldown.Leaf(trace); ok {
		resp["leaf"] = leaf
	}
	c.JSON(http.StatusOK, resp)
}

func resolverFor(res *backend.CauseResult) *drilldown.Resolver {
	return drilldown.NewResolver(res.Drilldowns, drilldown.NormalizeItems(res.PathItems()))
}

// fetchCause year/month 파싱 후 백엔드 조회. 실패 응답을 이미 썼으면 ok=false.
// 캐시로 응답하면 stale=true 와 백엔드 에러 문자열을 함께 돌려준다.
func (h *Handler) fetchCause(c *gin.Context) (res *backend.CauseResult, stale bool, backendErr string, ok bool) {
	if !h.requireBackend(c) {
		return nil, false, "", false
	}
	year, yerr := strconv.Atoi(c.Query("year"))
	month, merr := strconv.Atoi(c.Query("month"))
	if yerr != nil || merr != nil || year <= 0 || month < 1 || month > 12 {
		respondError(c, http.StatusBadRequest, "year, month 쿼리 파라미터가 필요합니다.")
		return nil, false, "", false
	}

	ctx := c.Request.Context()
	tracker := h.causes.For(year*100 + month)
	res, stale, err := backend.Fetch(tracker, func() (*backend.CauseResult, error) {
		return h.client.PLCause(ctx, year, month)
	})
	if err != nil && !stale {
		h.backendError(c, err)
		return nil, false, "", false
	}
	if err != nil {
		h.logger.Warn("serving stale cause analysis", zap.Int("year", year), zap.Int("month", month), zap.Error(err))
	}
	return res, stale, errString(err), true
}

func (h *Handler) requireBackend(c *gin.Context) bool {
	if h.client == nil {
		respondError(c, http.StatusBadGateway, "분석 백엔드가 설정되지 않았습니다.")
		return false
	}
	return true
}

// backendError 백엔드 4xx 는 그대로, 나머지는 502
func (h *Handler) backendError(c *gin.Context, err error) {
	h.logger.Warn("backend request failed", zap.String("path", c.FullPath()), zap.Error(err))
	var se *backend.StatusError
	if errors.As(err, &se) && se.Code >= 400 && se.Code < 500 {
		respondError(c, se.Code, se.Message)
		return
	}
	if errors.Is(err, context.Canceled) {
		c.Status(499)
		return
	}
	respondError(c, http.StatusBadGateway, err.Error())
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
