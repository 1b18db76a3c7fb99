// Package app wires configuration, storage, locking, publishing and the
// usecases into a runnable engine shared by the API server and lendctl.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	httpadp "microlend-engine/internal/adapter/http"
	"microlend-engine/internal/adapter/middleware"
	"microlend-engine/internal/adapter/repository/mysql"
	"microlend-engine/internal/config"
	"microlend-engine/internal/domain/event"
	"microlend-engine/internal/domain/uow"
	"microlend-engine/internal/infrastructure/cache"
	"microlend-engine/internal/infrastructure/db"
	"microlend-engine/internal/infrastructure/lock"
	"microlend-engine/internal/infrastructure/messaging"
	"microlend-engine/internal/infrastructure/metrics"
	"microlend-engine/internal/usecase"
	"microlend-engine/internal/usecase/compliance"
	"microlend-engine/internal/usecase/disbursement"
	"microlend-engine/internal/usecase/loan"
	"microlend-engine/internal/usecase/payment"
	"microlend-engine/internal/usecase/risk"
	"microlend-engine/internal/usecase/scoring"
)

type App struct {
	Cfg   *config.Config
	Log   *slog.Logger
	DB    *gorm.DB
	Deps  *usecase.Deps
	Store cache.Store

	Loans        *loan.Usecase
	Disbursement *disbursement.Usecase
	Payments     *payment.Usecase
	Risk         *risk.Usecase
	Scoring      *scoring.Usecase
	Compliance   *compliance.Usecase

	closers []func() error
}

// New opens the database (migrating it), redis when configured and the
// event publisher. Close releases them.
func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	gdb, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return NewWithDB(cfg, log, gdb)
}

func NewWithDB(cfg *config.Config, log *slog.Logger, gdb *gorm.DB) (*App, error) {
	a := &App{Cfg: cfg, Log: log, DB: gdb}
	if sqlDB, err := gdb.DB(); err == nil {
		a.closers = append(a.closers, sqlDB.Close)
	}
	if err := mysql.AutoMigrate(gdb); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	var locker uow.Locker
	if cfg.RedisAddr != "" {
		rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.closers = append(a.closers, rdb.Close)
		locker = lock.NewRedisLocker(rdb)
		a.Store = cache.NewRedisStore(rdb)
	} else {
		log.Warn("REDIS_ADDR empty; using in-process locks and idempotency store")
		locker = lock.NewLocalLocker()
		a.Store = cache.NewMemoryStore()
	}

	var pub event.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kp := messaging.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		a.closers = append(a.closers, kp.Close)
		pub = kp
	} else {
		pub = messaging.NewLogPublisher(log)
	}

	a.Deps = &usecase.Deps{
		UoW:          mysql.NewGormUoW(gdb),
		Locker:       locker,
		Publisher:    pub,
		Metrics:      metrics.New(),
		Log:          log,
		LockTTL:      time.Duration(cfg.LoanLockTTLSecs) * time.Second,
		RetryMax:     cfg.PaymentRetryMax,
		MinPrincipal: cfg.MinPrincipalMinor,
	}
	a.Loans = loan.NewUsecase(a.Deps)
	a.Disbursement = disbursement.NewUsecase(a.Deps)
	a.Payments = payment.NewUsecase(a.Deps)
	a.Risk = risk.NewUsecase(a.Deps)
	a.Scoring = scoring.NewUsecase(a.Deps)
	a.Compliance = compliance.NewUsecase(a.Deps)
	return a, nil
}

// Echo builds the HTTP server with every route mounted.
func (a *App) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	httpadp.Register(e, httpadp.Handlers{
		Base:         httpadp.NewHandler(a.Deps.Metrics),
		Loans:        httpadp.NewLoanHandler(a.Loans, a.Log),
		Disbursement: httpadp.NewDisbursementHandler(a.Disbursement, a.Log),
		Payments:     httpadp.NewPaymentHandler(a.Payments, a.Log),
		Risk:         httpadp.NewRiskHandler(a.Risk, a.Scoring, a.Log),
		Compliance:   httpadp.NewComplianceHandler(a.Compliance, a.Log),
	}, middleware.Idempotency(a.Store, time.Duration(a.Cfg.IdempTTLSecs)*time.Second, a.Log))
	return e
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
