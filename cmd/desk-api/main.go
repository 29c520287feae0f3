package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	loadDotEnv()

	app := mustBootstrapDeskAPI()
	defer app.Close()

	if err := app.Run(); err != nil && !errors.Is(err, context.Canceled) {
		panic(err)
	}
}

// loadDotEnv подхватывает .env при локальной разработке.
func loadDotEnv() {
	if os.Getenv("ENV") == "production" {
		return
	}
	if err := godotenv.Overload(".env"); err != nil {
		slog.Info(".env not loaded, using process environment", "err", err)
	}
}
