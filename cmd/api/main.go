package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/stock-ledger/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/internal/observability"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// stores repositorios y runner transaccional del driver elegido.
type stores struct {
	txRunner  inventory.TxRunner
	items     repository.ItemRepository
	movements repository.MovementRepository
	batches   repository.BatchRepository
	ping      func(ctx context.Context) error
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	// Idempotencia: solo con REDIS_ADDR definido.
	var idem inventory.IdempotencyStore
	if cfg.Redis.Addr != "" {
		client, err := infraredis.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer func(c *goredis.Client) { _ = c.Close() }(client)
		idem = infraredis.NewIdempotencyStore(client, cfg.Redis.IdempotencyTTL)
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.IdempotencyTTL).Msg("idempotencia activa")
	}

	metrics := observability.NewMetrics("stock_ledger")
	ledger := inventory.NewLedger(st.txRunner, idem, metrics, log.Component("ledger"))
	stockUC := inventory.NewStockUseCase(ledger)
	catalogUC := inventory.NewCatalogUseCase(ledger, st.items, infrapdf.NewLowStockReport(cfg.App.Name))
	logUC := inventory.NewLogUseCase(ledger, st.items, st.movements)
	batchUC := inventory.NewBatchUseCase(st.batches, st.items, stockUC)
	overviewUC := inventory.NewOverviewUseCase(st.items, st.movements)

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:         cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}, httpRouter.RouterDeps{
		Catalog:   catalogUC,
		Stock:     stockUC,
		Logs:      logUC,
		Batches:   batchUC,
		Overview:  overviewUC,
		Metrics:   metrics,
		Log:       log.Component("http"),
		Health:    st.ping,
		JWTSecret: cfg.JWT.Secret,
		JWTIssuer: cfg.JWT.Issuer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.App.StoreDriver == config.StoreMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		mem := memory.NewStore()
		return &stores{
			txRunner:  mem,
			items:     mem.Items(),
			movements: mem.Movements(),
			batches:   mem.Batches(),
			ping:      func(context.Context) error { return nil },
			close:     func() {},
		}, nil
	}

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString(), log.Component("migrate")); err != nil {
			return nil, err
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Name)
	if err != nil {
		return nil, err
	}
	return &stores{
		txRunner:  postgres.NewTxRunner(pool, cfg.Ledger.LockTimeout),
		items:     postgres.NewItemRepository(pool),
		movements: postgres.NewMovementRepository(pool),
		batches:   postgres.NewBatchRepository(pool),
		ping:      pool.Ping,
		close:     pool.Close,
	}, nil
}
