package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/yonggyo1125/delivery-6h/internal/auth"
	"github.com/yonggyo1125/delivery-6h/internal/cache"
	"github.com/yonggyo1125/delivery-6h/internal/category"
	"github.com/yonggyo1125/delivery-6h/internal/config"
	"github.com/yonggyo1125/delivery-6h/internal/db"
	"github.com/yonggyo1125/delivery-6h/internal/event"
	"github.com/yonggyo1125/delivery-6h/internal/geo"
	deliveryHttp "github.com/yonggyo1125/delivery-6h/internal/handler/http"
	"github.com/yonggyo1125/delivery-6h/internal/order"
	"github.com/yonggyo1125/delivery-6h/internal/store"
	"github.com/yonggyo1125/delivery-6h/internal/user"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Info().Msg("Starting delivery service...")

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	dbPool, err := db.New(cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	redisCache := cache.NewRedisCache(cfg.Redis, "delivery")
	geocoder := geo.NewKakaoClient(cfg.Kakao.APIKey)

	dispatcher := event.NewDispatcher()
	dispatcher.Subscribe(event.KindOrderAccepted, func(ctx context.Context, e event.Event) error {
		accepted := e.(event.OrderAccepted)
		log.Info().Stringer("order_id", accepted.OrderID).Msg("Sending order confirmation mail")
		return nil
	})
	dispatcher.Subscribe(event.KindOrderRefundRequested, func(ctx context.Context, e event.Event) error {
		refund := e.(event.OrderRefundRequested)
		log.Info().Stringer("order_id", refund.OrderID).Msg("Requesting payment refund")
		return nil
	})

	storeRepository := store.NewRepository(dbPool.Pool)
	roleCheck := auth.PrincipalRoleCheck{}
	checker := auth.Checker{
		Role:  roleCheck,
		Owner: store.NewOwnerCheck(storeRepository),
	}

	storeService := store.NewService(storeRepository, checker, geocoder, redisCache, cfg.Redis.TTL)
	orderService := order.NewService(order.NewRepository(dbPool.Pool), roleCheck, dispatcher)
	categoryService := category.NewService(category.NewRepository(dbPool.Pool), roleCheck)
	userService := user.NewService(user.NewKeycloakClient(cfg.Keycloak))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(auth.Middleware)

	router.Route("/v1", func(r chi.Router) {
		deliveryHttp.NewStoreHandler(storeService).RegisterRoutes(r)
		deliveryHttp.NewOrderHandler(orderService).RegisterRoutes(r)
		deliveryHttp.NewCategoryHandler(categoryService).RegisterRoutes(r)
		deliveryHttp.NewUserHandler(userService).RegisterRoutes(r)
	})

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Str("port", cfg.App.Port).Msg("Could not listen")
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown failed")
	}

	dispatcher.Wait()
	dbPool.Close()

	log.Info().Msg("Delivery service stopped gracefully.")
}
