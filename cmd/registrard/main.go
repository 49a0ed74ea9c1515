package main

import (
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	appconfig "github.com/blocknames/registrar/internal/app-config"
	"github.com/blocknames/registrar/internal/config"
	httpservice "github.com/blocknames/registrar/internal/interface/http"
)

// nolint:all
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	log.SetLevel(log.Level(cfg.LogLevel))

	svcConfig := httpservice.Config{
		Port: cfg.Port,
	}
	appConfig := &appconfig.Config{
		DbType:             cfg.DbType,
		DbDir:              cfg.DbDir,
		WalletType:         cfg.WalletType,
		WalletFile:         cfg.WalletFile,
		Network:            cfg.Network,
		NameServiceURL:     cfg.NameServiceURL,
		BitcoindRPCAddr:    cfg.BitcoindRPCAddr,
		BitcoindRPCUser:    cfg.BitcoindRPCUser,
		BitcoindRPCPass:    cfg.BitcoindRPCPass,
		MinBalanceSats:     cfg.MinBalanceSats,
		MaxNamesPerAddress: cfg.MaxNamesPerAddress,
		QueueConfirmations: cfg.QueueConfirmations,
		MonitorInterval:    cfg.MonitorInterval,
		RemoteTimeout:      cfg.RemoteTimeout,
	}
	svc, err := httpservice.NewService(svcConfig, appConfig)
	if err != nil {
		log.Fatal(err)
	}

	log.RegisterExitHandler(svc.Stop)

	log.Info("starting service...")
	if err := svc.Start(); err != nil {
		log.Fatal(err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case <-sigChan:
	case <-svc.Done():
		log.Info("shutdown requested via control endpoint")
	}

	log.Info("shutting down service...")
	log.Exit(0)
}
