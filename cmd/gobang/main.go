package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/chzyer/readline"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gobangfree/gobang-server-go/internal/config"
	"github.com/gobangfree/gobang-server-go/internal/game"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	opts, err := cfg.Engine.Options()
	if err != nil {
		logger.Fatal("invalid engine options", zap.Error(err))
	}

	logger.Info("starting gobang",
		zap.String("version", version),
		zap.String("config", *configPath),
		zap.String("mode", cfg.Engine.Mode),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := game.NewEngine(opts, logger)
	defer engine.Close()

	var (
		lines lineReader
		out   io.Writer = os.Stdout
	)
	if readline.DefaultIsTerminal() {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          "gobang> ",
			EOFPrompt:       "quit",
			InterruptPrompt: "^C",
			AutoComplete:    completer(),
		})
		if err != nil {
			logger.Fatal("failed to initialize terminal", zap.Error(err))
		}
		defer rl.Close()
		lines, out = rl, rl.Stdout()
	} else {
		lines = newScannerLines(os.Stdin)
	}

	sess := newSession(engine, out, logger.Named("session"))
	sess.watch()
	sess.println("gobang", version, "- type help for commands")

	done := make(chan error, 1)
	go func() { done <- sess.run(lines) }()

	select {
	case err := <-done:
		if err != nil {
			logger.Error("session ended with error", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	}
	logger.Info("gobang stopped")
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	// stdout carries the game session
	zapCfg.OutputPaths = []string{"stderr"}

	return zapCfg.Build()
}
