package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/nrednav/cuid2"

	"chatrelay/internal/boot"
	"chatrelay/internal/handlers"
	"chatrelay/internal/notify"
	"chatrelay/internal/realtime"
	"chatrelay/internal/service/chat"
	"chatrelay/internal/service/otp"
	"chatrelay/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	config, err := boot.Load(context.Background())
	if err != nil {
		log.Fatalf("boot: %+v", err)
	}

	if err := os.MkdirAll(config.DataDirectory(), 0o755); err != nil {
		log.Fatalf("creating data directory: %+v", err)
	}

	messages, err := store.NewMessageStore(config)
	if err != nil {
		log.Fatalf("message store: %+v", err)
	}
	groups, err := store.NewGroupStore(config)
	if err != nil {
		log.Fatalf("group store: %+v", err)
	}
	otpEntries, err := store.NewOTPStore(config)
	if err != nil {
		log.Fatalf("otp store: %+v", err)
	}

	hub := realtime.NewHub(config)
	router := chat.New(messages, hub)
	otpService := otp.New(config, otpEntries)
	sender := notify.LogSender{}

	server := echo.New()
	server.HideBanner = true
	server.Use(middleware.BodyLimit("1M"))
	server.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return cuid2.Generate()
		},
	}))
	server.Use(echoprometheus.NewMiddleware("chatrelay"))
	server.Use(middleware.Recover())

	server.Logger.SetLevel(log.INFO)

	headers := []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization}
	server.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     config.ServerOrigins(),
		AllowHeaders:     headers,
		AllowCredentials: true,
	}))

	server.POST("/api/auth/send-otp", handlers.SendOTP(otpService, sender, config))
	server.POST("/api/auth/verify-otp", handlers.VerifyOTP(otpService, config))
	server.POST("/api/messages", handlers.PostMessage(router))
	server.GET("/api/messages/:group", handlers.GetMessages(router))
	server.POST("/api/groups", handlers.CreateGroup(groups))
	server.GET("/api/groups", handlers.ListGroups(groups))
	server.GET("/health", handlers.Health(hub))
	server.GET("/ws", handlers.Websocket(hub, router, config.ServerOrigins()))

	go func() {
		metrics := echo.New()
		metrics.HideBanner = true
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(":" + config.Server.MetricsPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	go func() {
		if err := server.Start(":" + config.Server.Port); err != nil && err != http.ErrServerClosed {
			server.Logger.Fatal("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		server.Logger.Fatal(err)
	}
	if err := hub.Shutdown(shutdownTimeout); err != nil {
		log.Warnf("hub shutdown: %v", err)
	}
}
