package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campusflow/ticketing/config"
	"github.com/campusflow/ticketing/internal/consumer"
	"github.com/campusflow/ticketing/internal/handler"
	"github.com/campusflow/ticketing/internal/middleware"
	"github.com/campusflow/ticketing/internal/realtime"
	"github.com/campusflow/ticketing/internal/repository"
	"github.com/campusflow/ticketing/internal/service"
	"github.com/campusflow/ticketing/pkg/database"
	"github.com/campusflow/ticketing/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
)

func main() {
	cfg := config.Load()

	db, err := database.NewPostgresDB(cfg.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	log.Println("connected to PostgreSQL")

	hub := realtime.NewHub()

	// With a broker, check-ins fan out through RabbitMQ and come back via
	// the consumer, so every instance's dashboards stay live. Without one,
	// the hub is notified directly.
	var notifier service.CheckInNotifier = hub
	if cfg.RabbitURL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("rabbitmq publisher: %v", err)
		}
		defer publisher.Close()

		mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("rabbitmq consumer: %v", err)
		}
		defer mqConsumer.Close()

		msgs, err := mqConsumer.Consume()
		if err != nil {
			log.Fatalf("rabbitmq consume: %v", err)
		}
		consumer.NewCheckInConsumer(hub).Start(msgs)

		notifier = realtime.NewBrokerNotifier(publisher)
		log.Println("check-in broadcast routed through RabbitMQ")
	} else {
		log.Println("RABBITMQ_URL not set, using in-process broadcast only")
	}

	// Repositories
	eventRepo := repository.NewEventRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	checkInRepo := repository.NewCheckInRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Services
	eventSvc := service.NewEventService(eventRepo)
	ticketSvc := service.NewTicketService(ticketRepo, eventRepo)
	checkInSvc := service.NewCheckInService(ticketRepo, checkInRepo, userRepo, notifier)

	// Echo
	e := echo.New()
	e.HideBanner = true
	// No WriteTimeout: the SSE stream at /realtime/events/:id is long-lived.
	e.Server.ReadHeaderTimeout = readHeaderTimeout
	e.Server.ReadTimeout = readTimeout
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "ticketing"})
	})

	handler.NewEventHandler(eventSvc).RegisterRoutes(e)
	handler.NewTicketHandler(ticketSvc).RegisterRoutes(e)
	handler.NewCheckInHandler(checkInSvc).RegisterRoutes(e)
	handler.NewRealtimeHandler(hub).RegisterRoutes(e)

	go func() {
		log.Printf("Ticketing service starting on :%s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	log.Println("server stopped")
}
