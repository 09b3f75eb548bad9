// Package config config.toml + .env 설정
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/Kr-EIVEN/hosting-project/internal/months"
	"github.com/Kr-EIVEN/hosting-project/internal/pl"
)

// 환경 변수
const (
	EnvBackendURL = "CLOSING_BACKEND_URL"
	EnvDataDir    = "CLOSING_DATA_DIR"
	EnvLogLevel   = "CLOSING_LOG_LEVEL"
)

// AppConfig 애플리케이션 설정
type AppConfig struct {
	Server  ServerConfig   `toml:"server"`
	Data    DataConfig     `toml:"data"`
	Backend BackendConfig  `toml:"backend"`
	Logging LoggingConfig  `toml:"logging"`
	PL      PLConfig       `toml:"pl"`
	Months  months.Options `toml:"months"`
}

// ServerConfig HTTP 서버
type ServerConfig struct {
	Port            int    `toml:"port"`
	DevMode         bool   `toml:"dev_mode"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
	MaxUploadMB     int64  `toml:"max_upload_mb"`
}

// DataConfig 데이터 디렉터리
type DataConfig struct {
	DataDir string `toml:"data_dir"`
	DBFile  string `toml:"db_file"`
}

// BackendConfig 이상 탐지/원인 분석 백엔드
type BackendConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
}

// LoggingConfig 로그
type LoggingConfig struct {
	Level      string `toml:"level"`       // debug/info/warn/error
	Encoding   string `toml:"encoding"`    // json/console
	OutputFile string `toml:"output_file"` // 비어 있으면 stderr
}

// PLConfig 결산 P&L 컬럼 설정
type PLConfig struct {
	PeriodColumn string         `toml:"period_column"`
	Dimensions   []pl.Dimension `toml:"dimensions"`
	Columns      pl.ColumnSets  `toml:"columns"`
}

// LoadConfigInfo 설정 로딩 메타 정보
type LoadConfigInfo struct {
	PortSpecified bool
	ConfigPath    string
	FileFound     bool
}

// DefaultConfig 기본 설정
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:            20262,
			DevMode:         false,
			ShutdownTimeout: "10s",
			MaxUploadMB:     50,
		},
		Data: DataConfig{
			DataDir: "data",
			DBFile:  "closing.db",
		},
		Backend: BackendConfig{
			BaseURL: "http://localhost:8000",
			Timeout: "30s",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "console",
		},
		PL: PLConfig{
			PeriodColumn: pl.DefaultPeriodColumn,
			Dimensions:   pl.DefaultDimensions(),
			Columns:      pl.DefaultColumnSets(),
		},
		Months: months.DefaultOptions(),
	}
}

// GroupOptions P&L 집계 옵션. 비어 있는 항목은 기본값.
func (c *AppConfig) GroupOptions() pl.GroupOptions {
	opts := pl.DefaultGroupOptions()
	if c.PL.PeriodColumn != "" {
		opts.PeriodColumn = c.PL.PeriodColumn
	}
	opts.Sets = c.PL.Columns.WithDefaults()
	return opts
}

// BackendTimeout 잘못된 값이면 30초
func (c *AppConfig) BackendTimeout() time.Duration {
	return parseDuration(c.Backend.Timeout, 30*time.Second)
}

// ShutdownTimeout 잘못된 값이면 10초
func (c *AppConfig) ShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 10*time.Second)
}

func parseDuration(s string, d time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return d
	}
	return v
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}
	serverMap, ok := raw["server"].(map[string]any)
	if !ok {
		return false
	}
	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 실행 파일 디렉터리
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

func baseDir() string {
	exeDir, err := GetExeDir()
	if err != nil {
		return "."
	}
	return exeDir
}

// LoadConfigWithInfo 실행 파일 옆 config.toml 과 .env 를 읽는다.
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	return LoadFrom(baseDir())
}

// LoadFrom dir/config.toml 을 읽고 dir/.env, 환경 변수 순으로 덮어쓴다.
// 파일이 없으면 기본값.
func LoadFrom(dir string) (*AppConfig, LoadConfigInfo, error) {
	cfg := DefaultConfig()
	info := LoadConfigInfo{ConfigPath: filepath.Join(dir, "config.toml")}

	// .env 는 이미 설정된 환경 변수를 덮어쓰지 않는다
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, info, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(info.ConfigPath)
	switch {
	case err == nil:
		info.FileFound = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, info, fmt.Errorf("parse %s: %w", info.ConfigPath, err)
		}
	case !os.IsNotExist(err):
		return nil, info, fmt.Errorf("read %s: %w", info.ConfigPath, err)
	}

	applyEnv(cfg)
	cfg.normalize()
	return cfg, info, nil
}

func applyEnv(cfg *AppConfig) {
	if v := os.Getenv(EnvBackendURL); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.Data.DataDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
}

// 파일에서 비운 값은 기본값으로 되돌린다
func (c *AppConfig) normalize() {
	d := DefaultConfig()
	if c.PL.PeriodColumn == "" {
		c.PL.PeriodColumn = d.PL.PeriodColumn
	}
	if len(c.PL.Dimensions) == 0 {
		c.PL.Dimensions = d.PL.Dimensions
	}
	c.PL.Columns = c.PL.Columns.WithDefaults()
	if c.Data.DBFile == "" {
		c.Data.DBFile = d.Data.DBFile
	}
	if c.Server.MaxUploadMB <= 0 {
		c.Server.MaxUploadMB = d.Server.MaxUploadMB
	}
	c.Backend.BaseURL = strings.TrimRight(c.Backend.BaseURL, "/")
}

// SaveConfig path 에 설정 저장 (임시 파일에 쓴 뒤 rename)
func SaveConfig(cfg *AppConfig, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ResolveDataDir 상대 경로면 실행 파일 디렉터리 기준
func ResolveDataDir(cfg *AppConfig) string {
	if filepath.IsAbs(cfg.Data.DataDir) {
		return cfg.Data.DataDir
	}
	return filepath.Join(baseDir(), cfg.Data.DataDir)
}

// EnsureDataDir 데이터 디렉터리와 uploads 하위 디렉터리 생성
func EnsureDataDir(cfg *AppConfig) (string, error) {
	dataDir := ResolveDataDir(cfg)
	if err := os.MkdirAll(filepath.Join(dataDir, "uploads"), 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// DBPath SQLite 파일 경로
func DBPath(cfg *AppConfig, dataDir string) string {
	return filepath.Join(dataDir, cfg.Data.DBFile)
}
