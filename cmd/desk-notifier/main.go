package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/BearBump/WriteDesk/config"
	"github.com/joho/godotenv"
)

func main() {
	if os.Getenv("ENV") != "production" {
		if err := godotenv.Overload(".env"); err != nil {
			slog.Info(".env not loaded, using process environment", "err", err)
		}
	}

	cfg, err := config.LoadConfig(os.Getenv("configPath"))
	if err != nil {
		panic(fmt.Sprintf("ошибка парсинга конфига, %v", err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	slog.Info("desk-notifier started", "topic", orderTopic(cfg), "group", consumerGroup(cfg))
	if err := RunDeskNotifier(ctx, cfg, defaultNotifierFactories(), notifierHTTPOpts{}); err != nil && !errors.Is(err, context.Canceled) {
		panic(err)
	}
}
