package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/wanderly/wanderly-backend/internal/app"
	"github.com/wanderly/wanderly-backend/internal/pkg/envutil"
)

func main() {
	// Missing .env is fine in containerized deploys.
	_ = godotenv.Load()

	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	a.Start()

	port := envutil.String("PORT", "8080")
	a.Log.Info("Server listening", "port", port)
	if err := a.Run(":" + port); err != nil {
		a.Log.Error("Server failed", "error", err)
	}
}
