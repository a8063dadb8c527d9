package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pearlapp/pearl-backend/internal/app"
	"github.com/pearlapp/pearl-backend/internal/observability"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	shutdownOTel := observability.InitOTel(context.Background(), a.Log, observability.OtelConfig{
		ServiceName: "pearl-backend",
		Environment: os.Getenv("APP_ENV"),
	})
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(ctx); err != nil {
			a.Log.Warn("OTel shutdown failed", "error", err)
		}
	}()

	addr := ":" + a.Cfg.Port
	a.Log.Info("Server listening", "addr", addr)
	if err := a.Run(addr); err != nil {
		a.Log.Error("Server failed", "error", err)
	}
}
