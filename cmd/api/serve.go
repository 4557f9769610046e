package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/hashicorp/go-multierror"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-venue-booking/internal/api/handler"
	"github.com/sanosuguru/go-venue-booking/internal/api/middleware"
	"github.com/sanosuguru/go-venue-booking/internal/api/router"
	"github.com/sanosuguru/go-venue-booking/internal/application"
	"github.com/sanosuguru/go-venue-booking/internal/config"
	"github.com/sanosuguru/go-venue-booking/internal/domain/timeslot"
	"github.com/sanosuguru/go-venue-booking/internal/domain/venue"
	"github.com/sanosuguru/go-venue-booking/internal/infrastructure/memory"
	"github.com/sanosuguru/go-venue-booking/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-venue-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/metrics"
	"github.com/sanosuguru/go-venue-booking/internal/worker"
)

// スナップショットのファイル名
const (
	venueSnapshotFile    = "venues.json"
	timeslotSnapshotFile = "timeslots.json"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "APIサーバーを起動する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), config.Load())
		},
	}
}

// app は起動済みの依存関係とその後始末をまとめる
type app struct {
	echo    *echo.Echo
	flusher *worker.SnapshotFlusher
	closers []func() error
}

// close は確保したリソースを逆順に解放する
func (a *app) close() error {
	var result *multierror.Error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// repositories はストアのバックエンドごとのリポジトリ
type repositories struct {
	venues    venue.Repository
	timeslots timeslot.Repository
	flushers  []worker.Flusher
	health    []handler.HealthCheck
}

func newApp(cfg *config.Config, m *metrics.Metrics) (a *app, err error) {
	a = &app{}
	defer func() {
		if err != nil {
			if cerr := a.close(); cerr != nil {
				err = multierror.Append(err, cerr)
			}
			a = nil
		}
	}()

	var repos *repositories
	switch cfg.Store.Backend {
	case config.BackendMemory:
		repos, err = newMemoryRepositories(cfg.Store.SnapshotDir, m)
	case config.BackendPostgres:
		repos, err = a.newPostgresRepositories(&cfg.Database)
	default:
		err = fmt.Errorf("未対応のストアバックエンドです: %s", cfg.Store.Backend)
	}
	if err != nil {
		return a, err
	}

	var (
		cache  application.VenueCache
		locker application.VenueLocker
	)
	if cfg.Redis.Enabled {
		client, err := redisinfra.NewClient(&cfg.Redis)
		if err != nil {
			return a, err
		}
		a.closers = append(a.closers, client.Close)
		cache = redisinfra.NewVenueCache(client, cfg.Redis.VenueCacheTTL)
		locker = redisinfra.NewVenueLocker(redisinfra.NewLockManager(client), redisinfra.DefaultVenueLockOptions)
		repos.health = append(repos.health, redisHealthCheck(client))
		logger.Info("Redisを有効化しました", zap.String("addr", cfg.Redis.Addr()))
	}

	if locker == nil {
		locker = application.NewLocalVenueLocker()
	}
	venueService := application.NewVenueService(repos.venues, repos.timeslots, locker, cache, m)
	timeslotService := application.NewTimeslotService(repos.timeslots, repos.venues, locker, m)

	if len(repos.flushers) > 0 {
		a.flusher = worker.NewSnapshotFlusher(cfg.Store.SnapshotInterval, m, repos.flushers...)
	}

	a.echo = router.New(router.Deps{
		VenueService:    venueService,
		TimeslotService: timeslotService,
		HealthChecks:    repos.health,
		Metrics:         m,
		MetricsConfig:   middleware.LoadMetricsConfig(),
	})
	a.echo.Server.ReadTimeout = cfg.Server.ReadTimeout
	a.echo.Server.WriteTimeout = cfg.Server.WriteTimeout
	return a, nil
}

func newMemoryRepositories(dir string, m *metrics.Metrics) (*repositories, error) {
	var (
		venues    *memory.VenueRepository
		timeslots *memory.TimeslotRepository
		flushers  []worker.Flusher
	)
	if dir == "" {
		logger.Warn("SNAPSHOT_DIR が未設定のため、データは永続化されません")
		venues = memory.NewVenueRepository()
		timeslots = memory.NewTimeslotRepository()
	} else {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("スナップショットディレクトリの作成に失敗しました: %w", err)
		}
		var err error
		if venues, err = memory.LoadVenueRepository(filepath.Join(dir, venueSnapshotFile)); err != nil {
			return nil, err
		}
		if timeslots, err = memory.LoadTimeslotRepository(filepath.Join(dir, timeslotSnapshotFile)); err != nil {
			return nil, err
		}
		flushers = []worker.Flusher{venues, timeslots}
		logger.Info("スナップショットを読み込みました",
			zap.String("dir", dir),
			zap.Int("venues", venues.Len()),
			zap.Int("timeslots", timeslots.Len()),
		)
	}

	if err := m.RegisterStoredRecords("venue", venues.Len); err != nil {
		return nil, err
	}
	if err := m.RegisterStoredRecords("timeslot", timeslots.Len); err != nil {
		return nil, err
	}

	return &repositories{venues: venues, timeslots: timeslots, flushers: flushers}, nil
}

func (a *app) newPostgresRepositories(cfg *config.DatabaseConfig) (*repositories, error) {
	db, err := postgres.NewConnection(cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db.Close)

	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(db.DB, cfg.MigrationsPath); err != nil {
			return nil, err
		}
		logger.Info("マイグレーション完了", zap.String("path", cfg.MigrationsPath))
	}

	return &repositories{
		venues:    postgres.NewVenueRepository(db),
		timeslots: postgres.NewTimeslotRepository(db),
		health:    []handler.HealthCheck{postgresHealthCheck(db)},
	}, nil
}

func postgresHealthCheck(db *sqlx.DB) handler.HealthCheck {
	return handler.HealthCheck{
		Name:  "postgres",
		Check: func(ctx context.Context) error { return postgres.Ping(ctx, db) },
	}
}

func redisHealthCheck(client *goredis.Client) handler.HealthCheck {
	return handler.HealthCheck{
		Name:  "redis",
		Check: func(ctx context.Context) error { return redisinfra.Ping(ctx, client) },
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.Named("server")

	a, err := newApp(cfg, metrics.Init())
	if err != nil {
		return err
	}

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()
	if a.flusher != nil {
		go a.flusher.Start(workerCtx)
	}

	serverErr := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Server.Port
		log.Info("サーバーを起動します",
			zap.String("addr", addr),
			zap.String("backend", cfg.Store.Backend),
		)
		if err := a.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var result *multierror.Error
	select {
	case sig := <-quit:
		log.Info("サーバーをシャットダウンしています...", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("サーバー起動エラー: %w", err))
		}
	case <-ctx.Done():
		log.Info("サーバーをシャットダウンしています...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.echo.Shutdown(shutdownCtx); err != nil {
		result = multierror.Append(result, fmt.Errorf("サーバーシャットダウンエラー: %w", err))
	}
	if a.flusher != nil {
		// 停止時に最後のスナップショットを保存する
		if err := a.flusher.Stop(shutdownCtx); err != nil {
			result = multierror.Append(result, fmt.Errorf("スナップショット保存エラー: %w", err))
		}
	}
	if err := a.close(); err != nil {
		result = multierror.Append(result, err)
	}

	if err := result.ErrorOrNil(); err != nil {
		return err
	}
	log.Info("サーバーが正常にシャットダウンしました")
	return nil
}
