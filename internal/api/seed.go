package api

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Kr-EIVEN/hosting-project/internal/backend"
	"github.com/Kr-EIVEN/hosting-project/internal/importer"
	"github.com/Kr-EIVEN/hosting-project/internal/model"
	"github.com/Kr-EIVEN/hosting-project/internal/store"
)

// seedRetryInterval 초기 데이터 요청이 실패한 뒤 다시 시도하기까지
const seedRetryInterval = time.Minute

// seedFromBackend 업로드된 스냅샷이 없을 때 /api/init-data 로 채운다.
// 성공하면 다시 부르지 않고, 실패하면 seedRetryInterval 뒤에 다시 시도한다.
// 새로 적용한 스냅샷이 있으면 true.
func (h *Handler) seedFromBackend(ctx context.Context) bool {
	if h.client == nil {
		return false
	}
	h.seedMu.Lock()
	defer h.seedMu.Unlock()
	if h.seeded || (!h.seedAttempt.IsZero() && time.Since(h.seedAttempt) < seedRetryInterval) {
		return false
	}
	h.seedAttempt = time.Now()

	data, err := h.client.InitData(ctx)
	if err != nil {
		h.logger.Warn("failed to load initial data from backend", zap.Error(err))
		return false
	}
	h.seeded = true

	if len(data.AnomalyData) > 0 {
		h.analyze.Commit(h.analyze.Begin(), &backend.AnalyzeResult{Issues: data.AnomalyData})
	}

	applied := false
	for _, fd := range []importer.FetchedData{
		{Kind: model.DatasetBackData, Rows: data.BackData, CodeNames: model.CodeNameMap(data.CodeNameMap)},
		{Kind: model.DatasetCostData, Rows: data.CostData},
	} {
		if len(fd.Rows) == 0 {
			continue
		}
		// 그 사이 업로드된 스냅샷은 덮어쓰지 않는다
		if _, err := h.store.GetDataset(ctx, fd.Kind); !errors.Is(err, store.ErrNotFound) {
			continue
		}
		res, err := h.coordinator.ApplyFetched(ctx, fd)
		if err != nil {
			h.logger.Warn("failed to apply initial data", zap.String("kind", string(fd.Kind)), zap.Error(err))
			continue
		}
		if res != nil {
			h.invalidate(fd.Kind)
			applied = true
		}
	}
	return applied
}
