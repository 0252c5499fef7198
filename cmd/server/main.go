package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/campusdesk/campusdesk/internal/config"
)

func main() {
	// Local development convenience; absent .env files are not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed: ", err)
	}

	server, err := NewServer(context.Background(), cfg)
	if err != nil {
		log.Fatal("server init failed: ", err)
	}

	if err := server.Start(); err != nil {
		log.Fatal("server start failed: ", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	if err := server.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		log.Fatal("shutdown failed: ", err)
	}
}
