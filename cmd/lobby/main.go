package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xivgo/server/internal/config"
	"github.com/xivgo/server/internal/lobby"
	"github.com/xivgo/server/internal/server"
)

const (
	exitOK          = 0
	exitBindFailure = 1
	exitConfigError = 2
)

func main() {
	configPath := flag.String("config", "", "path to server.toml")
	flag.Parse()

	cfg, err := config.Load(config.Resolve(*configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(exitConfigError)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(exitConfigError)
	}
	defer log.Sync()

	ln, err := server.Listen(cfg.Lobby.BindAddress, log)
	if err != nil {
		log.Error("大廳監聽失敗", zap.String("addr", cfg.Lobby.BindAddress), zap.Error(err))
		os.Exit(exitBindFailure)
	}

	log.Info("大廳伺服器就緒",
		zap.String("addr", ln.Addr().String()),
		zap.String("world", cfg.Lobby.WorldName),
	)

	go ln.Serve(func(conn net.Conn, id uint64) {
		lobby.NewConnection(conn, id, cfg, log).Run()
	})

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-shutdownCh
	log.Info("收到關閉信號", zap.String("signal", sig.String()))
	ln.Shutdown()
	os.Exit(exitOK)
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
