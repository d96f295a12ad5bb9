package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"strings"

	"go.uber.org/zap"

	"linkcheck/internal/linkcheck"
	"linkcheck/pkg/cache"
	"linkcheck/pkg/config"
	"linkcheck/pkg/version"
)

func main() {
	logLevel := flag.String("log-level", GetEnv("LOG_LEVEL", "info"), "Log level (debug, info, warn, error).")
	configPath := flag.String("config", GetEnv("CONFIG", "linkcheck.toml"), "Path to the TOML config.")
	bookRoot := flag.String("book-root", GetEnv("BOOK_ROOT", "."), "Book source directory.")
	cachePath := flag.String("cache", GetEnv("CACHE_FILE", ".linkcheck-cache.yaml"), "Path to the result cache.")
	printDefault := flag.Bool("print-default-config", false, "Print the default config and exit.")
	flag.Parse()

	logger := linkcheck.InitLogger(*logLevel)
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	// Panic guard to log stacktrace if app crashes
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic: application crashed",
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			os.Exit(1)
		}
	}()
	logger.Debug("Starting linkcheck", zap.String("version", version.Version.Version))

	if *printDefault {
		if err := config.Default().Write(os.Stdout); err != nil {
			logger.Fatal("can't write default config", zap.Error(err))
		}
		return
	}

	cfg := loadConfig(*configPath, logger)

	store := cache.New(cfg.CacheTimeout)
	loadCache(store, *cachePath, logger)

	checker := linkcheck.New(cfg, *bookRoot, GetEnv("PAT", ""), store, logger)
	filesList, err := checker.GetFiles()
	if err != nil {
		logger.Fatal("Error generating file list", zap.Error(err))
	}

	stats := checker.ProcessFiles(context.Background(), filesList)
	saveCache(store, *cachePath, logger)

	logger.Info("Done",
		zap.Int("files", stats.Files),
		zap.Int("links", stats.TotalLinks),
		zap.Int("notFound", stats.NotFoundLinks),
		zap.Int("skipped", stats.Skipped),
		zap.Int("cacheHits", stats.CacheHits),
		zap.Int("errors", stats.Errors),
	)
	if stats.NotFoundLinks > 0 || stats.Errors > 0 {
		os.Exit(1)
	}
}

func loadConfig(path string, logger *zap.Logger) *config.Config {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("no config file, using defaults", zap.String("path", path))
			return config.Default()
		}
		logger.Fatal("can't open config", zap.String("path", path), zap.Error(err))
	}
	defer func() {
		_ = f.Close()
	}()
	cfg, err := config.Parse(f)
	if err != nil {
		logger.Fatal("can't parse config", zap.String("path", path), zap.Error(err))
	}
	return cfg
}

func loadCache(store *cache.Cache, path string, logger *zap.Logger) {
	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("can't open cache, starting cold", zap.String("path", path), zap.Error(err))
		}
		return
	}
	defer func() {
		_ = f.Close()
	}()
	if err := store.Load(f); err != nil {
		logger.Warn("can't read cache, starting cold", zap.String("path", path), zap.Error(err))
	}
}

func saveCache(store *cache.Cache, path string, logger *zap.Logger) {
	f, err := os.Create(path)
	if err != nil {
		logger.Warn("can't write cache", zap.String("path", path), zap.Error(err))
		return
	}
	defer func() {
		_ = f.Close()
	}()
	if err := store.Save(f); err != nil {
		logger.Warn("can't write cache", zap.String("path", path), zap.Error(err))
	}
}

func GetEnv(key, defaultValue string) string {
	if val, ok := os.LookupEnv(key); ok {
		return strings.ReplaceAll(val, " ", "")
	}
	return defaultValue
}
