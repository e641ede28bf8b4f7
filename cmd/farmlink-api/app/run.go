package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ezra-kip/farmlink-api/configs"
	"github.com/ezra-kip/farmlink-api/internal/adapter/cache"
	"github.com/ezra-kip/farmlink-api/internal/adapter/gateway"
	"github.com/ezra-kip/farmlink-api/internal/adapter/http"
	"github.com/ezra-kip/farmlink-api/internal/adapter/http/middleware"
	"github.com/ezra-kip/farmlink-api/internal/adapter/kafka"
	"github.com/ezra-kip/farmlink-api/internal/adapter/queue"
	"github.com/ezra-kip/farmlink-api/internal/adapter/repo"
	"github.com/ezra-kip/farmlink-api/internal/logging"
	"github.com/ezra-kip/farmlink-api/internal/usecase"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logging.Init(cfg.App.Name, cfg.App.LogFile)
	logger := logging.New("app")

	// init database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, nil, fmt.Errorf("mysql ping: %w", err)
	}

	logger.Info("farmlink-api starting up")

	// init redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}

	// init rabbitmq
	conn, err := amqp091.Dial(cfg.Rabbit.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	// repos
	orderRepo := repo.NewMySQLOrderRepo(db)
	productRepo := repo.NewMySQLProductRepo(db)
	categoryRepo := repo.NewMySQLCategoryRepo(db)
	paymentRepo := repo.NewMySQLPaymentRepo(db)
	cartRepo := repo.NewMySQLCartRepo(db)
	reviewRepo := repo.NewMySQLReviewRepo(db)
	userRepo := repo.NewMySQLUserRepo(db)

	// redis-backed stores
	guestCarts := cache.NewRedisCartStore(rdb, cfg.Cart.GuestTTL)
	reconcileLock := cache.NewRedisReconcileLock(rdb, cfg.Reconcile.LockTTL)
	statusCache := cache.NewRedisStatusCache(rdb, cfg.Cache.StatusTTL)

	// rabbitmq producer + consumer
	notifier, err := queue.NewNotifyProducer(ch)
	if err != nil {
		return nil, nil, fmt.Errorf("notify producer: %w", err)
	}
	mailer := queue.NewSMTPMailer(queue.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	if err := setupQueue(ch, mailer); err != nil {
		return nil, nil, err
	}

	// kafka producer + consumer
	syncProducer, err := kafka.NewSyncProducer(cfg.Kafka.Brokers)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	events := kafka.NewEventProducer(syncProducer, cfg.Kafka.PaymentsTopic)
	if err := setupKafkaListener(cfg, orderRepo, statusCache); err != nil {
		return nil, nil, err
	}

	// mpesa gateway
	mpesa := gateway.NewMpesaClient(gateway.Config{
		BaseURL:          cfg.Mpesa.BaseURL,
		ConsumerKey:      cfg.Mpesa.ConsumerKey,
		ConsumerSecret:   cfg.Mpesa.ConsumerSecret,
		Shortcode:        cfg.Mpesa.Shortcode,
		Passkey:          cfg.Mpesa.Passkey,
		CallbackURL:      cfg.Mpesa.CallbackURL,
		AccountReference: cfg.Mpesa.AccountReference,
		TransactionDesc:  cfg.Mpesa.TransactionDesc,
		Timeout:          cfg.Mpesa.Timeout,
	})
	pushAmount, err := decimal.NewFromString(cfg.Mpesa.Amount)
	if err != nil {
		return nil, nil, fmt.Errorf("mpesa.amount: %w", err)
	}

	// use cases
	resolveCart := usecase.NewResolveCart(productRepo)
	createOrder := usecase.NewCreateOrder(orderRepo, productRepo, notifier)
	updateStatus := usecase.NewUpdateOrderStatus(orderRepo)
	initiatePayment := usecase.NewInitiatePayment(mpesa, paymentRepo)
	reconcilePayment := usecase.NewReconcilePayment(paymentRepo, reconcileLock, events)
	salesTrends := usecase.NewSalesTrends(orderRepo)

	// handlers + router
	authz := middleware.NewAuthz(cfg)
	router := http.NewRouter(http.Handlers{
		Token:     http.NewTokenHandler(cfg, userRepo),
		Cart:      http.NewCartHandler(guestCarts, cartRepo, resolveCart),
		Order:     http.NewOrderHandler(createOrder, updateStatus, orderRepo),
		Payment:   http.NewPaymentHandler(initiatePayment, reconcilePayment, paymentRepo, pushAmount),
		Product:   http.NewProductHandler(productRepo, categoryRepo),
		Review:    http.NewReviewHandler(reviewRepo, productRepo),
		Report:    http.NewReportHandler(orderRepo, productRepo),
		Analytics: http.NewAnalyticsHandler(salesTrends, orderRepo),
	}, authz)

	cleanup := func() {
		_ = ch.Close()
		_ = conn.Close()
		_ = syncProducer.Close()
		_ = rdb.Close()
		_ = db.Close()
	}

	return &App{Router: router}, cleanup, nil
}

func setupQueue(ch *amqp091.Channel, mailer queue.Mailer) error {
	h := queue.NewOrderConfirmationHandler(mailer)

	router := queue.NewRouter(ch, queue.WithPrefetch(20))
	router.Register(queue.QueueName, queue.JSONHandler[usecase.OrderConfirmationMsg]{HandleFunc: h.HandleConfirmation})

	if err := router.Start(); err != nil {
		return fmt.Errorf("queue router: %w", err)
	}
	return nil
}

func setupKafkaListener(cfg configs.Config, orders usecase.OrderRepo, statusCache usecase.StatusCache) error {
	grp, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	if err != nil {
		return fmt.Errorf("kafka group: %w", err)
	}

	h := kafka.NewPaymentStatusChangedHandler(orders, statusCache)
	consumer := kafka.NewConsumer(grp, []string{cfg.Kafka.PaymentsTopic}, h.Handle)

	go func() {
		if err := consumer.Start(context.Background()); err != nil {
			logging.New("kafka").Error("consumer stopped", "err", err)
		}
	}()
	return nil
}
