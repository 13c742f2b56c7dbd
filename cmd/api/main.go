package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Haroldke13/geniusbabycosmetics/internal/cache"
	"github.com/Haroldke13/geniusbabycosmetics/internal/config"
	"github.com/Haroldke13/geniusbabycosmetics/internal/database"
	"github.com/Haroldke13/geniusbabycosmetics/internal/handler"
	"github.com/Haroldke13/geniusbabycosmetics/internal/middleware"
	"github.com/Haroldke13/geniusbabycosmetics/internal/repository"
	"github.com/Haroldke13/geniusbabycosmetics/internal/service"
	"github.com/Haroldke13/geniusbabycosmetics/internal/sse"
	"github.com/Haroldke13/geniusbabycosmetics/internal/worker"
	"github.com/Haroldke13/geniusbabycosmetics/pkg/daraja"
	"github.com/Haroldke13/geniusbabycosmetics/pkg/pdflog"
)

// main is the application entrypoint for the GeniusBaby Cosmetics API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting geniusbaby api")

	// 3. Connect MongoDB
	db, err := database.Connect(&cfg.Mongo)
	if err != nil {
		log.Error().Err(err).Msg("mongodb connection failed")
		fmt.Fprintf(os.Stderr, "mongodb connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Client().Disconnect(context.Background())

	// 3a. Ensure indexes. The server still works without them, queries are
	// just slower and duplicate guards fall back to application checks.
	indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureIndexes(indexCtx, db); err != nil {
		log.Warn().Err(err).Msg("index creation failed")
	}
	indexCancel()

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Initialize STK session cache
	stkCache := cache.NewStkCache(redisClient, cfg.Mpesa.SessionTTL)

	// 4. Initialize the Daraja client when credentials are present. The
	// interface stays nil otherwise so payment endpoints answer 503.
	var darajaAPI service.DarajaAPI
	if cfg.Mpesa.Enabled() {
		darajaAPI = daraja.NewClient(daraja.Config{
			BaseURL:        cfg.Mpesa.BaseURL,
			ConsumerKey:    cfg.Mpesa.ConsumerKey,
			ConsumerSecret: cfg.Mpesa.ConsumerSecret,
			ShortCode:      cfg.Mpesa.ShortCode,
			Passkey:        cfg.Mpesa.Passkey,
			CallbackURL:    cfg.Mpesa.CallbackURL,
		})
		log.Info().Str("short_code", cfg.Mpesa.ShortCode).Msg("M-Pesa STK push enabled")
	} else {
		log.Warn().Msg("M-Pesa credentials missing - payments disabled")
	}

	// 4a. PDF audit log writer for payment events
	var pdfWriter *pdflog.Writer
	if cfg.Mpesa.Enabled() {
		pdfWriter, err = pdflog.NewWriter(cfg.Mpesa.LogDir)
		if err != nil {
			log.Warn().Err(err).Str("dir", cfg.Mpesa.LogDir).Msg("PDF audit log disabled")
		}
	}

	// 4b. SMTP mail
	mailSvc, err := service.NewMailService(cfg.Mail)
	if err != nil {
		log.Warn().Err(err).Msg("mail client initialization failed - email disabled")
		mailSvc = &service.MailService{}
	}
	if !mailSvc.Enabled() {
		log.Warn().Msg("SMTP credentials missing - confirmation emails disabled")
	}

	// 5. Initialize repositories
	productRepo := repository.NewProductRepository(db)
	subscriberRepo := repository.NewSubscriberRepository(db)
	contactRepo := repository.NewContactRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// 6. Initialize services
	hub := sse.NewHub()
	catalogSvc := service.NewCatalogService(productRepo, cfg.PerPage)
	productMgmtSvc := service.NewProductManagementService(productRepo)
	newsletterSvc := service.NewNewsletterService(subscriberRepo, mailSvc, cfg.SecretKey, cfg.PublicBaseURL)
	contactSvc := service.NewContactService(contactRepo, mailSvc)
	adminAuthSvc := service.NewAdminAuthService(cfg.AdminToken, cfg.SecretKey)
	paymentSvc := service.NewPaymentService(
		paymentRepo, darajaAPI, stkCache, pdfWriter, sse.NewHubNotifier(hub),
		cfg.Worker.PaymentStaleAfter,
		cfg.Worker.PaymentMaxAge,
	)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:            handler.NewHealthHandler(db, redisClient),
		Product:           handler.NewProductHandler(catalogSvc),
		Newsletter:        handler.NewNewsletterHandler(newsletterSvc),
		Contact:           handler.NewContactHandler(contactSvc),
		Mpesa:             handler.NewMpesaHandler(paymentSvc),
		SSE:               handler.NewSSEHandler(hub, paymentSvc),
		Auth:              handler.NewAuthHandler(adminAuthSvc),
		ProductManagement: handler.NewProductManagementHandler(productMgmtSvc),
	}

	// 8. Initialize middleware
	adminMw := middleware.NewAdminMiddleware(adminAuthSvc)
	formLimiter := middleware.NewIPRateLimiter(10, time.Minute)

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins...))
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, adminMw, formLimiter)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start the payment sweep worker. Pointless without a Daraja client
	// since there would be nothing to query.
	if paymentSvc.Enabled() {
		go worker.NewPaymentSweepWorker(paymentSvc, cfg.Worker.PaymentSweepInterval).Start(ctx)
	}

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health            *handler.HealthHandler
	Product           *handler.ProductHandler
	Newsletter        *handler.NewsletterHandler
	Contact           *handler.ContactHandler
	Mpesa             *handler.MpesaHandler
	SSE               *handler.SSEHandler
	Auth              *handler.AuthHandler
	ProductManagement *handler.ProductManagementHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, adminMiddleware *middleware.AdminMiddleware, formLimiter *middleware.IPRateLimiter) {
	router.GET("/healthz", handlers.Health.GetHealth)

	v1 := router.Group("/v1")
	{
		// Storefront catalog
		v1.GET("/products", handlers.Product.ListProducts)
		v1.GET("/products/:key", handlers.Product.GetProduct)
		v1.GET("/home", handlers.Product.GetHome)

		// Newsletter and contact forms, throttled per IP
		v1.POST("/subscribe", middleware.Throttle(formLimiter), handlers.Newsletter.Subscribe)
		v1.GET("/unsubscribe", handlers.Newsletter.Unsubscribe)
		v1.POST("/contact", middleware.Throttle(formLimiter), handlers.Contact.SubmitMessage)

		// M-Pesa payments
		v1.POST("/mpesa/stkpush", handlers.Mpesa.InitiateSTKPush)
		v1.POST("/mpesa/callback", handlers.Mpesa.HandleCallback)
		v1.GET("/mpesa/payments/:checkoutRequestId", handlers.Mpesa.GetStatus)
		v1.GET("/mpesa/stream", handlers.SSE.Stream)

		// Admin console. Login stays outside the auth group, everything
		// else requires the shared token or a login JWT.
		v1.POST("/admin/login", handlers.Auth.Login)

		admin := v1.Group("/admin")
		admin.Use(adminMiddleware.Handle())
		{
			admin.POST("/products", handlers.ProductManagement.CreateProduct)
			admin.PUT("/products/:id", handlers.ProductManagement.UpdateProduct)
			admin.DELETE("/products/:id", handlers.ProductManagement.DeleteProduct)
			admin.GET("/messages", handlers.Contact.ListMessages)
			admin.GET("/subscribers", handlers.Newsletter.ListSubscribers)
		}
	}
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
