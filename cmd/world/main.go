package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/xivgo/server/internal/chat"
	"github.com/xivgo/server/internal/config"
	"github.com/xivgo/server/internal/data"
	"github.com/xivgo/server/internal/persist"
	"github.com/xivgo/server/internal/scripting"
	"github.com/xivgo/server/internal/server"
	"github.com/xivgo/server/internal/world"
	"github.com/xivgo/server/internal/zone"
)

const (
	exitOK          = 0
	exitBindFailure = 1
	exitConfigError = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to server.toml")
	flag.Parse()

	cfg, err := config.Load(config.Resolve(*configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return exitConfigError
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return exitConfigError
	}
	defer log.Sync()

	// Database + migrations.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := persist.NewDB(ctx, cfg.Database, log)
	cancel()
	if err != nil {
		log.Error("資料庫連線失敗", zap.Error(err))
		return exitBindFailure
	}
	defer db.Close()

	{
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = persist.RunMigrations(ctx, db.Pool)
		cancel()
		if err != nil {
			log.Error("資料庫遷移失敗", zap.Error(err))
			return exitBindFailure
		}
	}
	charRepo := persist.NewCharacterRepo(db)

	// Static game tables.
	tables, err := data.Load(cfg.Game.DataPath)
	if err != nil {
		log.Error("遊戲資料載入失敗", zap.Error(err))
		return exitConfigError
	}
	log.Info("遊戲資料載入完成", zap.Int("zones", tables.ZoneCount()))

	// Lua script host.
	engine, err := scripting.NewEngine(cfg.World.ScriptsPath, log)
	if err != nil {
		log.Error("Lua 引擎初始化失敗", zap.Error(err))
		return exitConfigError
	}
	defer engine.Close()

	// World task.
	worldSrv := world.NewServer(tables, cfg.World.TickRate, log)

	// Listeners.
	zoneLn, err := server.Listen(cfg.World.BindAddress, log)
	if err != nil {
		log.Error("區域監聽失敗", zap.String("addr", cfg.World.BindAddress), zap.Error(err))
		return exitBindFailure
	}
	chatLn, err := server.Listen(cfg.Chat.BindAddress, log)
	if err != nil {
		log.Error("聊天監聽失敗", zap.String("addr", cfg.Chat.BindAddress), zap.Error(err))
		return exitBindFailure
	}

	zoneDeps := zone.Deps{
		Config:   cfg,
		Log:      log,
		GameData: tables,
		DB:       charRepo,
		Engine:   engine,
		World:    worldSrv.Incoming,
	}
	chatDeps := chat.Deps{
		Config:   cfg,
		Log:      log,
		DB:       charRepo,
		Registry: chat.NewRegistry(),
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(rootCtx)
	g.Go(func() error {
		return worldSrv.Run(gctx)
	})
	g.Go(func() error {
		zoneLn.Serve(func(conn net.Conn, id uint64) {
			zone.NewConnection(conn, id, zoneDeps).Run()
		})
		return nil
	})
	g.Go(func() error {
		chatLn.Serve(func(conn net.Conn, id uint64) {
			chat.NewConnection(conn, id, chatDeps).Run()
		})
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zoneLn.Shutdown()
		chatLn.Shutdown()
		return nil
	})

	log.Info("世界伺服器就緒",
		zap.String("zone_addr", zoneLn.Addr().String()),
		zap.String("chat_addr", chatLn.Addr().String()),
		zap.Duration("tick", cfg.World.TickRate),
	)

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Error("伺服器異常停止", zap.Error(err))
		return exitBindFailure
	}
	log.Info("伺服器已停止")
	return exitOK
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
