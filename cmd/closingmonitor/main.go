package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Kr-EIVEN/hosting-project/internal/config"
	"github.com/Kr-EIVEN/hosting-project/internal/logging"
	"github.com/Kr-EIVEN/hosting-project/internal/server"
)

var (
	port       = flag.Int("port", 0, "서비스 포트 (config.toml 에 port 가 없을 때만 적용)")
	devMode    = flag.Bool("dev", false, "개발 모드")
	dataDir    = flag.String("dataDir", "", "데이터 디렉터리 (설정 파일보다 우선)")
	backendURL = flag.String("backend", "", "분석 백엔드 주소 (설정 파일보다 우선)")
	logLevel   = flag.String("log-level", "", "로그 레벨 debug/info/warn/error")
	writeCfg   = flag.String("write-config", "", "현재 설정을 지정한 경로에 TOML 로 저장하고 종료")
)

func main() {
	flag.Parse()

	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		fmt.Fprintf(os.Stderr, "설정 로드 실패, 기본값 사용: %v\n", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}
	if *backendURL != "" {
		cfg.Backend.BaseURL = *backendURL
	}

	if *writeCfg != "" {
		if err := config.SaveConfig(cfg, *writeCfg); err != nil {
			fmt.Fprintf(os.Stderr, "설정 저장 실패: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("설정 저장: %s\n", *writeCfg)
		return
	}

	logger, err := logging.New(cfg.Logging, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "로거 초기화 실패: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("config loaded",
		zap.String("path", info.ConfigPath),
		zap.Bool("file_found", info.FileFound),
		zap.String("data_dir", config.ResolveDataDir(cfg)),
		zap.String("backend", cfg.Backend.BaseURL),
	)

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		logger.Fatal("server init failed", zap.Error(err))
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.Bool("dev", cfg.Server.DevMode))
		errCh <- srv.Run(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server stopped", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
