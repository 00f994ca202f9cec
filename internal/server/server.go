package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"zakat-service/internal/config"
	"zakat-service/internal/handler"
	"zakat-service/internal/provider/midtrans"
	"zakat-service/internal/repository"
	"zakat-service/internal/router"
	"zakat-service/internal/service/zakatconfig"
	"zakat-service/internal/usecase/calculation"
	"zakat-service/internal/usecase/payment"
	"zakat-service/internal/usecase/reconcile"
	"zakat-service/internal/usecase/transaction"
)

func NewServer(ctx context.Context, cfg config.AppConfig, log *zap.Logger) (*http.Server, error) {
	db, err := config.ConnectDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       0,
	})

	// --- Repositories ---
	zakatRepo := repository.NewZakatTransactionRepo(db)
	infaqRepo := repository.NewInfaqTransactionRepo(db)
	configRepo := repository.NewZakatConfigRepo(db)
	userRepo := repository.NewUserRepo(db)

	// --- Gateway ---
	snapClient := midtrans.NewClient(cfg.MidtransServerKey, cfg.MidtransProduction)
	gateway := midtrans.NewProvider(snapClient)

	// --- Services & Usecases ---
	cfgSvc := zakatconfig.NewService(configRepo, rdb, log)
	if err := cfgSvc.SeedDefaults(ctx); err != nil {
		log.Warn("seeding zakat config defaults failed", zap.Error(err))
	}

	calcUC := calculation.NewUsecase(cfgSvc)
	paymentUC := payment.NewUsecase(zakatRepo, infaqRepo, userRepo, gateway, log)
	reconciler := reconcile.NewService(zakatRepo, infaqRepo, cfg.MidtransServerKey, log)
	queryUC := transaction.NewUsecase(zakatRepo)

	// --- Handlers ---
	zakatH := handler.NewZakatHandler(calcUC, cfgSvc, log)
	paymentH := handler.NewPaymentHandler(paymentUC, reconciler, log)
	txH := handler.NewTransactionHandler(queryUC, log)

	// --- Router ---
	r := chi.NewRouter()
	router.SetupRoutes(r, zakatH, paymentH, txH)

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}, nil
}
