package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kr-EIVEN/hosting-project/internal/backend"
	"github.com/Kr-EIVEN/hosting-project/internal/closing"
	"github.com/Kr-EIVEN/hosting-project/internal/importer"
	"github.com/Kr-EIVEN/hosting-project/internal/model"
)

type closingResponse struct {
	*closing.Result
	Stale        bool   `json:"stale"`
	BackendError string `json:"backendError,omitempty"`
}

// GetClosingChecks 마감 점검 목록
// GET /api/closing/checks
// 업로드한 원장이 있으면 업로드 때 받은 이상 탐지 결과를, 업로드가 없으면 백엔드 기본 원장
// 결과를 쓴다. 둘 다 없으면 원장 기반 추정.
func (h *Handler) GetClosingChecks(c *gin.Context) {
	ctx := c.Request.Context()
	resp := closingResponse{}

	ds, err := h.dataset(ctx, model.DatasetCostData)
	if err != nil {
		h.internalError(c, err)
		return
	}

	if h.client != nil {
		var res *backend.AnalyzeResult
		if ds != nil && ds.SourceFile != importer.SourceBackend {
			res, _ = h.uploads.For(ds.ID).Last()
		} else {
			var stale bool
			res, stale, err = backend.Fetch(&h.analyze, func() (*backend.AnalyzeResult, error) {
				return h.client.AnalyzeDefault(ctx)
			})
			if err != nil {
				h.logger.Warn("anomaly backend unavailable", zap.Error(err))
				resp.BackendError = err.Error()
			}
			resp.Stale = stale
		}
		if res != nil && len(res.Issues) > 0 {
			resp.Result = closing.FromIssues(res.Issues)
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	resp.Stale = false
	if ds == nil {
		resp.Result = closing.Analyze(nil, nil, nil)
		c.JSON(http.StatusOK, resp)
		return
	}
	resp.Result = h.checks.Get(ds.ID, func() *closing.Result {
		return closing.Analyze(ds.Rows, ds.Columns, h.costMonths(ds))
	})
	c.JSON(http.StatusOK, resp)
}
