package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"example.com/threadcart/app/internal/config"
	"example.com/threadcart/app/internal/infra/cache"
	"example.com/threadcart/app/internal/infra/gateway"
	"example.com/threadcart/app/internal/infra/persistence/mysql"
	"example.com/threadcart/app/internal/infra/persistence/postgres"
	"example.com/threadcart/app/internal/infra/security"
	httpapi "example.com/threadcart/app/internal/interface/http"
	"example.com/threadcart/app/internal/pkg/logging"
	authuc "example.com/threadcart/app/internal/usecase/auth"
	cartuc "example.com/threadcart/app/internal/usecase/cart"
	orderuc "example.com/threadcart/app/internal/usecase/order"
	paymentuc "example.com/threadcart/app/internal/usecase/payment"
	productuc "example.com/threadcart/app/internal/usecase/product"
)

func main() {
	cfg := config.Load()
	logger := logging.MustNewLogger("threadcart", cfg.Env)
	defer logger.Sync()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		logger.Fatal("open mysql", zap.Error(err))
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if err := mysql.RunMigrations(db, cfg.MigrationsPath); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}
	logger.Info("database migrations completed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := postgres.NewPaymentEventRepository(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("connect payment event store", zap.Error(err))
	}
	defer events.Close()

	redisClient, err := cache.NewClient(cfg.RedisAddr, cfg.RedisPass)
	if err != nil {
		logger.Fatal("connect redis", zap.Error(err))
	}
	defer redisClient.Close()

	userRepo := mysql.NewUserRepository(db)
	productRepo := mysql.NewProductRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	cartRepo := cache.NewCartRepository(redisClient)

	stripeClient := gateway.NewStripeCheckout(cfg.StripeAPIKey, cfg.Currency)
	razorpayClient := gateway.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	payments := paymentuc.NewRegistry(
		paymentuc.CODAdapter{},
		paymentuc.NewHostedAdapter(stripeClient, cfg.Currency, cfg.DeliveryFee, cfg.VerifyBaseURL),
		paymentuc.NewTwoPhaseAdapter(razorpayClient, cfg.Currency),
	)

	tokenSvc := security.NewJWTService(cfg.JWTSecret, cfg.JWTExpiration)
	authSvc := authuc.NewService(userRepo, security.BcryptHasher{}, tokenSvc)
	productSvc := productuc.NewService(productRepo)
	cartSvc := cartuc.NewService(cartRepo, productRepo)
	orderSvc := orderuc.NewService(orderRepo, productRepo, cartRepo, payments, orderuc.Config{
		Currency:    cfg.Currency,
		DeliveryFee: cfg.DeliveryFee,
	})
	verifySvc := paymentuc.NewVerificationService(orderRepo, cartRepo, razorpayClient, events, logger)

	reconciler := paymentuc.NewReconciler(orderRepo, verifySvc, cfg.ReconcileInterval, cfg.ReconcileMaxAge, logger)
	go reconciler.Run(ctx)

	api := httpapi.NewAPI(httpapi.Dependencies{
		AuthService:         authSvc,
		ProductService:      productSvc,
		CartService:         cartSvc,
		OrderService:        orderSvc,
		VerificationService: verifySvc,
		TokenService:        tokenSvc,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
}
