package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"livestats/internal/api"
	"livestats/internal/config"
	"livestats/internal/format"
	"livestats/internal/importer"
	"livestats/internal/logging"
	"livestats/internal/model"
	"livestats/internal/parser"
	"livestats/internal/server"
	"livestats/internal/store"
	"livestats/internal/util"
)

var (
	port      = flag.Int("port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	devMode   = flag.Bool("dev", false, "开发模式")
	dataDir   = flag.String("dataDir", "", "数据目录 (覆盖配置文件)")
	mode      = flag.String("mode", "", "输出模式 formula / value (覆盖配置文件)")
	outDir    = flag.String("out", "", "批处理输出目录，默认与输入文件同目录")
	noBrowser = flag.Bool("no-browser", false, "启动后不自动打开浏览器")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "用法:\n  livestats [flags]            启动 Web 服务\n  livestats [flags] FILE...    批量处理文件\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	// 加载配置
	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败，使用默认配置: %v\n", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// 命令行参数覆盖配置
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}
	if *mode != "" {
		cfg.Processing.Mode = string(model.ParseOutputMode(*mode))
	}

	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logger := logging.Logger()

	registry := format.NewDefaultRegistry(
		format.WithLogger(logging.Component("format")),
		format.WithProbeRows(cfg.Processing.ProbeRows),
	)
	pipeline := importer.NewPipeline(registry, parser.LoadLocation(cfg.Processing.TimeZone))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if flag.NArg() > 0 {
		coordinator := importer.NewCoordinator(pipeline, nil,
			importer.WithTimeout(cfg.Processing.Timeout.Duration),
			importer.WithLogger(logging.Component("batch")),
		)
		opts := batchOptions{
			Mode:    model.ParseOutputMode(cfg.Processing.Mode),
			OutDir:  *outDir,
			Workers: cfg.Processing.Workers,
		}
		results, err := runBatch(ctx, coordinator, flag.Args(), opts)
		printBatchReport(os.Stdout, results)
		if err != nil {
			logger.Error().Err(err).Msg("batch processing failed")
			os.Exit(1)
		}
		return
	}

	if err := serve(ctx, cfg, pipeline); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func serve(ctx context.Context, cfg *config.AppConfig, pipeline *importer.Pipeline) error {
	logger := logging.Logger()

	// 确保数据目录存在
	dir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return fmt.Errorf("创建数据目录失败: %w", err)
	}
	logger.Info().Str("dir", dir).Msg("data directory ready")

	st, err := store.New(config.DatabasePath(dir))
	if err != nil {
		return fmt.Errorf("初始化数据库失败: %w", err)
	}
	defer st.Close()

	coordinator := importer.NewCoordinator(pipeline, st,
		importer.WithTimeout(cfg.Processing.Timeout.Duration),
		importer.WithLogger(logging.Component("coordinator")),
	)
	handler := api.NewHandler(coordinator, st, api.Options{
		OutputDir:      filepath.Join(dir, "outputs"),
		MaxUploadBytes: cfg.MaxUploadBytes(),
		DefaultMode:    model.ParseOutputMode(cfg.Processing.Mode),
		Logger:         logging.Component("api"),
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	srv := server.NewServer(handler, server.Options{
		Addr:    addr,
		DevMode: cfg.Server.DevMode,
		Logger:  logging.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("server starting")
		errCh <- srv.Run()
	}()

	// 打开浏览器
	if !cfg.Server.DevMode && !*noBrowser {
		if err := util.OpenBrowser(url); err != nil {
			logger.Warn().Err(err).Str("url", url).Msg("无法自动打开浏览器，请手动访问")
		}
	} else {
		logger.Info().Str("url", url).Msg("服务地址")
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("正在关闭服务...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
