package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/simaogato/ledger-backend/internal/adapter/cache"
	grpcadapter "github.com/simaogato/ledger-backend/internal/adapter/grpc"
	"github.com/simaogato/ledger-backend/internal/adapter/repository/memory"
	"github.com/simaogato/ledger-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/ledger-backend/internal/config"
	"github.com/simaogato/ledger-backend/internal/domain"
	"github.com/simaogato/ledger-backend/internal/usecase/bank"
	"github.com/simaogato/ledger-backend/internal/usecase/conversion"
	"github.com/simaogato/ledger-backend/internal/usecase/ledger"
	"github.com/simaogato/ledger-backend/internal/usecase/seeder"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx := context.Background()

	// 1. Setup storage (Postgres when configured, memory otherwise)
	var (
		accountRepo     domain.AccountRepository
		transactionRepo domain.TransactionRepository
		rateRepo        domain.RateRepository
		ledgerStore     domain.LedgerStore
	)
	if cfg.DBConnStr != "" {
		db, err := postgres.NewDB(cfg.DBConnStr)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			logger.Fatal("failed to migrate database", zap.Error(err))
		}

		accountRepo = postgres.NewAccountRepository(db)
		transactionRepo = postgres.NewTransactionRepository(db)
		rateRepo = postgres.NewRateRepository(db)
		ledgerStore = postgres.NewLedgerStore(db)
		logger.Info("using postgres storage")
	} else {
		accounts := memory.NewAccountRepository()
		journal := memory.NewTransactionRepository()
		accountRepo = accounts
		transactionRepo = journal
		rateRepo = memory.NewRateRepository()
		ledgerStore = memory.NewLedgerStore(accounts, journal)
		logger.Warn("DB_CONN_STR not set, using in-memory storage")
	}

	// 2. Optional Redis cache in front of exchange rates
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unreachable, rate cache will fall back to storage", zap.Error(err))
		}
		cancel()

		rateRepo = cache.NewRateCache(rateRepo, redisClient, cfg.RateCacheTTL, logger)
	}

	// 3. Initialize services (use cases)
	converter := conversion.NewRateConverter(rateRepo, logger)
	ledgerService := ledger.NewLedgerService(accountRepo, transactionRepo, ledgerStore, converter, logger)
	bankService := bank.NewBankService(logger)

	if err := seeder.NewRateSeeder(rateRepo, logger).Seed(ctx); err != nil {
		logger.Fatal("failed to seed exchange rates", zap.Error(err))
	}
	if err := bankService.LogConversionRate(ctx, converter); err != nil {
		logger.Warn("startup conversion check failed", zap.Error(err))
	}

	// 4. Start gRPC server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(logger),
			grpcadapter.AuthInterceptor(cfg.APIToken),
		),
	)
	grpcadapter.RegisterLedgerServiceServer(grpcServer, grpcadapter.NewServer(ledgerService, bankService, converter))
	if cfg.Env == "development" {
		reflection.Register(grpcServer)
	}

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Fatal("failed to listen", zap.String("addr", cfg.GRPCAddr), zap.Error(err))
	}

	go func() {
		logger.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr))
		if err := grpcServer.Serve(lis); err != nil {
			logger.Fatal("failed to serve gRPC server", zap.Error(err))
		}
	}()

	waitForShutdown(grpcServer, logger)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(grpcServer *grpclib.Server, logger *zap.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("shutting down gracefully", zap.Stringer("signal", sig))

	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped")
}
