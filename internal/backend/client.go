// Package backend 이상 탐지, 손익 원인 분석, 예측을 맡는 분석 백엔드의 HTTP 클라이언트
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"go.uber.org/zap"
)

// ErrStatus 백엔드가 2xx 외 응답을 준 경우
var ErrStatus = errors.New("backend returned error status")

// StatusError HTTP 상태 코드와 백엔드 메시지
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend: HTTP %d", e.Code)
	}
	return fmt.Sprintf("backend: HTTP %d: %s", e.Code, e.Message)
}

func (e *StatusError) Unwrap() error { return ErrStatus }

// ErrRejected 2xx 이지만 본문이 {"ok": false} 인 경우
var ErrRejected = errors.New("backend rejected request")

// Upload 백엔드로 전달할 업로드 파일
type Upload struct {
	Filename string
	Body     io.Reader
}

const (
	maxBodyBytes    = 64 << 20
	maxMessageRunes = 200
)

// Client 백엔드 클라이언트
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient baseURL 예: http://localhost:5000
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// BaseURL 설정된 주소
func (c *Client) BaseURL() string { return c.baseURL }

// InitData 원장/백데이터 초기 로드
func (c *Client) InitData(ctx context.Context) (*InitData, error) {
	var out InitData
	if err := c.get(ctx, "/api/init-data", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeDefault 기본 원장 이상 탐지 결과
func (c *Client) AnalyzeDefault(ctx context.Context) (*AnalyzeResult, error) {
	var out AnalyzeResult
	if err := c.get(ctx, "/api/cost-center/analyze-default", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Analyze 업로드한 원장 파일의 이상 탐지
func (c *Client) Analyze(ctx context.Context, file Upload) (*AnalyzeResult, error) {
	var out AnalyzeResult
	if err := c.postForm(ctx, "/api/cost-center/analyze", file, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PLCausePeriods 원인 분석 가능 연/월 (오름차순)
func (c *Client) PLCausePeriods(ctx context.Context) ([]Period, error) {
	var out struct {
		Periods []Period `json:"periods"`
	}
	if err := c.get(ctx, "/api/pl-cause/periods", nil, &out); err != nil {
		return nil, err
	}
	return out.Periods, nil
}

// PLCause 연/월 손익 원인 분석
func (c *Client) PLCause(ctx context.Context, year, month int) (*CauseResult, error) {
	if year <= 0 || month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid period %d-%d", year, month)
	}
	q := url.Values{}
	q.Set("year", strconv.Itoa(year))
	q.Set("month", strconv.Itoa(month))

	var out CauseResult
	if err := c.get(ctx, "/api/pl-cause", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClosingHistory 최근 months 개월 결산 실적. series 가 비면 전체 시리즈.
func (c *Client) ClosingHistory(ctx context.Context, months int, series string) (*HistoryResult, error) {
	q := url.Values{}
	if months > 0 {
		q.Set("months", strconv.Itoa(months))
	}
	if series != "" {
		q.Set("series", series)
	}
	var out HistoryResult
	if err := c.get(ctx, "/api/closing/history", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Forecast months 개월 손익 예측. scenario 는 드라이버별 증감 비율 (2.0 = +200%).
func (c *Client) Forecast(ctx context.Context, months int, scenario map[string]float64) (*ForecastResult, error) {
	if scenario == nil {
		scenario = map[string]float64{}
	}
	body := map[string]any{"months": months, "scenario": scenario}
	var out ForecastResult
	if err := c.postJSON(ctx, "/api/closing/forecast", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartRetrain 최신 결산 반영 후 예측 모델 재학습 시작
func (c *Client) StartRetrain(ctx context.Context) (map[string]any, error) {
	out := map[string]any{}
	if err := c.postJSON(ctx, "/api/closing/sync-and-retrain", map[string]any{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RetrainStatus 재학습 진행 상태
func (c *Client) RetrainStatus(ctx context.Context) (map[string]any, error) {
	out := map[string]any{}
	if err := c.get(ctx, "/api/closing/sync-and-retrain/status", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FXForecast 원/달러 환율 예측
func (c *Client) FXForecast(ctx context.Context, months int) (*FXForecast, error) {
	q := url.Values{}
	q.Set("months", strconv.Itoa(months))
	var out FXForecast
	if err := c.get(ctx, "/api/external/fx/forecast", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FXTariffOptions 판매계획 파일의 차종/그룹/시장/월 선택지
func (c *Client) FXTariffOptions(ctx context.Context, file Upload) (*FXTariffOptions, error) {
	var out struct {
		Options FXTariffOptions `json:"options"`
	}
	if err := c.postForm(ctx, "/api/external/fx-tariff/v2/options", file, nil, &out); err != nil {
		return nil, err
	}
	return &out.Options, nil
}

// FXTariffAnalyze 환율/관세 시나리오 분석. fields 는 폼 값 그대로 전달한다.
func (c *Client) FXTariffAnalyze(ctx context.Context, file Upload, fields map[string]string) (map[string]any, error) {
	out := map[string]any{}
	if err := c.postForm(ctx, "/api/external/fx-tariff/v2/analyze", file, fields, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, path, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, out)
}

// postForm file 필드와 fields 를 multipart 로 보낸다
func (c *Client) postForm(ctx context.Context, path string, file Upload, fields map[string]string, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("write field %s: %w", k, err)
		}
	}
	part, err := mw.CreateFormFile("file", file.Filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file.Body); err != nil {
		return fmt.Errorf("copy upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, path, out)
}

func (c *Client) do(req *http.Request, path string, out any) error {
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	c.logger.Debug("backend response",
		zap.String("method", req.Method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Message: errorMessage(body)}
	}
	if msg, rejected := rejection(body); rejected {
		return fmt.Errorf("%w: %s", ErrRejected, msg)
	}
	return decode(body, out)
}

// rejection {"ok": false, "error": ...} 형태 응답
func rejection(body []byte) (string, bool) {
	var env struct {
		OK    *bool  `json:"ok"`
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &env) != nil || env.OK == nil || *env.OK {
		return "", false
	}
	if env.Error == "" {
		return "ok=false", true
	}
	return env.Error, true
}

// decode 실패 시 한 번 복구(NaN, 후행 쉼표 등) 후 재시도
func decode(body []byte, out any) error {
	err := json.Unmarshal(body, out)
	if err == nil {
		return nil
	}
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return fmt.Errorf("decode response: %w", err)
	}
	repaired, rerr := jsonrepair.RepairJSON(string(body))
	if rerr != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), out); err != nil {
		return fmt.Errorf("decode repaired response: %w", err)
	}
	return nil
}

func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return truncate(strings.TrimSpace(string(body)), maxMessageRunes)
}

// truncate 글자 단위로 자른다
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
