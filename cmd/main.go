package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/usersync-backend/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	a.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		a.Log.Info("Shutting down...")
		if err := a.Shutdown(); err != nil {
			a.Log.Warn("Graceful shutdown failed", "error", err)
		}
	}()

	if err := a.Run(":" + a.Cfg.Port); err != nil {
		a.Log.Error("Server failed", "error", err)
	}
}
