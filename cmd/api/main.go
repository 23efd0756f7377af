package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "mishtee/api/swagger" // swagger docs
	"mishtee/internal/assets"
	"mishtee/internal/config"
	"mishtee/internal/database"
	"mishtee/internal/handler"
	"mishtee/internal/logger"
	"mishtee/internal/metrics"
	"mishtee/internal/middleware"
	"mishtee/internal/repository"
	"mishtee/internal/service"
	"mishtee/internal/supabase"
	"mishtee/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type repositories struct {
	customers repository.CustomerRepository
	orders    repository.OrderRepository
	products  repository.ProductRepository
	txManager repository.TransactionManager
}

func newRepositories(conf config.Config, httpClient *http.Client) (repositories, error) {
	if conf.DataBackend == config.BackendSupabase {
		client, err := supabase.New(supabase.Config{
			URL:        conf.Supabase.URL,
			APIKey:     conf.Supabase.Key,
			HTTPClient: httpClient,
		})
		if err != nil {
			return repositories{}, err
		}
		log.WithField("url", conf.Supabase.URL).Info("using Supabase PostgREST backend")
		return repositories{
			customers: repository.NewRESTCustomerRepository(client),
			orders:    repository.NewRESTOrderRepository(client),
			products:  repository.NewRESTProductRepository(client),
			txManager: repository.NewPassthroughTransactionManager(),
		}, nil
	}

	db, err := database.NewConnection(conf.DSN(), conf.Database.AutoMigrate)
	if err != nil {
		return repositories{}, err
	}
	log.Info("Connected to PostgreSQL successfully.")
	return repositories{
		customers: repository.NewCustomerRepository(db),
		orders:    repository.NewOrderRepository(db),
		products:  repository.NewProductRepository(db),
		txManager: repository.NewTransactionManager(db),
	}, nil
}

// @title           MishTee Storefront API
// @version         1.0
// @description     Customer dashboard: greeting, order history and trending sweets.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	conf, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if err := logger.Setup(logger.Options{
		Level:   conf.Logging.Level,
		Format:  conf.Logging.Format,
		LogPath: conf.Logging.LogPath,
	}); err != nil {
		log.Fatalf("Logging setup failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{Timeout: conf.HTTPTimeout}

	repos, err := newRepositories(conf, httpClient)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}

	log.Info("Initializing MishTee-Magic App...")
	fetcher := assets.NewFetcher(assets.Config{
		CSSURL:     conf.Assets.CSSURL,
		LogoURL:    conf.Assets.LogoURL,
		LogoPath:   conf.Assets.LogoPath,
		TTL:        conf.Assets.CacheTTL,
		HTTPClient: httpClient,
	})
	fetcher.Stylesheet(ctx)
	fetcher.Logo(ctx)
	if conf.Assets.RefreshCron != "" {
		scheduler, err := fetcher.ScheduleRefresh(conf.Assets.RefreshCron)
		if err != nil {
			log.WithError(err).Warn("asset refresh schedule disabled")
		} else {
			defer scheduler.Stop()
		}
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run(ctx)

	storefrontService := service.NewStorefrontService(
		repos.customers, repos.orders, repos.products, repos.txManager, wsHub, conf.Trending.TopK)

	sessions := middleware.NewSessions(conf.Session.Secret, conf.Session.TTL)
	limiter := middleware.NewRateLimiter(conf.Server.RateLimit, conf.Server.RateBurst)
	limiterStop := make(chan struct{})
	defer close(limiterStop)
	limiter.StartCleanup(10*time.Minute, limiterStop)

	storefrontHandler := handler.NewStorefrontHandler(storefrontService, fetcher, sessions, limiter)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())
	router.SetHTMLTemplate(handler.Templates())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = conf.Server.AllowOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/ws/trending", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c)
	})

	storefrontHandler.RegisterRoutes(router.Group(""))

	srv := &http.Server{
		Addr:              ":" + conf.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Infof("Server listening on :%s", conf.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
