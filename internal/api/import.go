package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kr-EIVEN/hosting-project/internal/backend"
	"github.com/Kr-EIVEN/hosting-project/internal/importer"
	"github.com/Kr-EIVEN/hosting-project/internal/model"
	"github.com/Kr-EIVEN/hosting-project/internal/numfmt"
	"github.com/Kr-EIVEN/hosting-project/internal/pl"
	"github.com/Kr-EIVEN/hosting-project/internal/store"
)

var allowedExt = map[string]bool{".xlsx": true, ".xlsm": true}

// ImportBackData 결산 Back data 업로드 (SSE)
// POST /api/import/back-data
func (h *Handler) ImportBackData(c *gin.Context) {
	h.importFile(c, model.DatasetBackData)
}

// ImportCostData 코스트센터 원장 업로드 (SSE)
// POST /api/import/cost-data
func (h *Handler) ImportCostData(c *gin.Context) {
	h.importFile(c, model.DatasetCostData)
}

func (h *Handler) importFile(c *gin.Context, kind model.DatasetKind) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.Server.MaxUploadMB<<20)

	uploaded, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "file 필드가 없습니다.")
		return
	}
	name := filepath.Base(uploaded.Filename)
	if name == "" || name == "." {
		respondError(c, http.StatusBadRequest, "업로드된 파일명이 비어 있습니다.")
		return
	}
	if !allowedExt[strings.ToLower(filepath.Ext(name))] {
		respondError(c, http.StatusBadRequest, "xlsx 파일만 업로드할 수 있습니다.")
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		h.internalError(c, err)
		return
	}
	path := filepath.Join(h.uploadDir, fmt.Sprintf("%s_%s", uuid.NewString(), name))
	if err := c.SaveUploadedFile(uploaded, path); err != nil {
		h.internalError(c, fmt.Errorf("save upload: %w", err))
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		respondError(c, http.StatusInternalServerError, "스트리밍을 지원하지 않습니다.")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	progress := h.coordinator.Import(c.Request.Context(), importer.ImportOptions{
		Kind:     kind,
		FilePath: path,
		Filename: name,
	})

	emit := func(event importer.ProgressEvent) {
		data, err := json.Marshal(event)
		if err != nil {
			h.logger.Warn("failed to encode progress event", zap.Error(err))
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", data)
		flusher.Flush()
	}

	for event := range progress {
		if event.Type == importer.EventDone {
			h.invalidate(kind)
			if res, ok := event.Data.(*importer.Result); ok {
				h.afterApply(c.Request.Context(), res, path, name, emit)
			}
		}
		emit(event)
	}
}

// afterApply 새 스냅샷 적용 직후 처리. done 이벤트 전에 불린다.
// Back data 는 저장된 기간 선택을 전체로 되돌리고,
// 원장은 백엔드 이상 탐지를 돌려 데이터셋 ID 로 보관한다.
func (h *Handler) afterApply(ctx context.Context, res *importer.Result, path, name string, emit func(importer.ProgressEvent)) {
	switch res.Kind {
	case model.DatasetBackData:
		if err := h.store.SetSettings(ctx, map[string]string{store.SettingPeriod: pl.PeriodAll}); err != nil {
			h.logger.Warn("failed to reset period setting", zap.Error(err))
		}
	case model.DatasetCostData:
		if h.client == nil {
			return
		}
		analysis, _, err := backend.Fetch(h.uploads.For(res.DatasetID), func() (*backend.AnalyzeResult, error) {
			f, err := os.Open(path)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			return h.client.Analyze(ctx, backend.Upload{Filename: name, Body: f})
		})
		if err != nil {
			h.logger.Warn("upload anomaly analysis failed", zap.String("dataset_id", res.DatasetID), zap.Error(err))
			emit(progressEvent(importer.EventWarning, "이상 탐지 백엔드 호출 실패, 원장 기반 점검으로 대체합니다: "+err.Error(), nil))
			return
		}
		emit(progressEvent(importer.EventInfo, fmt.Sprintf("이상 탐지 %s건", numfmt.Number(len(analysis.Issues))), map[string]any{
			"issues": len(analysis.Issues),
		}))
	}
}

func progressEvent(typ, msg string, data any) importer.ProgressEvent {
	return importer.ProgressEvent{Type: typ, Message: msg, Data: data, Timestamp: time.Now()}
}
