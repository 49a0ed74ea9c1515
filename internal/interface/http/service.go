package httpservice

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	appconfig "github.com/blocknames/registrar/internal/app-config"
	interfaces "github.com/blocknames/registrar/internal/interface"
)

type Config struct {
	Port uint32
}

func (c Config) Validate() error {
	if c.Port == 0 {
		return fmt.Errorf("missing port")
	}
	return nil
}

func (c Config) address() string {
	return fmt.Sprintf(":%d", c.Port)
}

type service struct {
	config    Config
	appConfig *appconfig.Config
	server    *http.Server

	killOnce sync.Once
	killCh   chan struct{}
}

func NewService(
	svcConfig Config, appConfig *appconfig.Config,
) (interfaces.Service, error) {
	if err := svcConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid service config: %s", err)
	}
	if err := appConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid app config: %s", err)
	}

	svc := &service{
		config:    svcConfig,
		appConfig: appConfig,
		killCh:    make(chan struct{}),
	}
	router := newRouter(appConfig.AppService(), svc.kill)
	svc.server = &http.Server{
		Addr:    svcConfig.address(),
		Handler: router,
	}
	return svc, nil
}

func (s *service) Start() error {
	// nolint:all
	go s.server.ListenAndServe()
	log.Infof("started listening at %s", s.config.address())

	if err := s.appConfig.AppService().Start(); err != nil {
		return fmt.Errorf("failed to start app service: %s", err)
	}
	log.Info("started app service")
	return nil
}

func (s *service) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	// nolint:all
	s.server.Shutdown(ctx)
	log.Info("stopped http server")
	s.appConfig.AppService().Stop()
	log.Info("stopped app service")
}

func (s *service) Done() <-chan struct{} {
	return s.killCh
}

func (s *service) kill() {
	s.killOnce.Do(func() {
		close(s.killCh)
	})
}
