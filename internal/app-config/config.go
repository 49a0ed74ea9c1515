package appconfig

import (
	"fmt"
	"strings"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	log "github.com/sirupsen/logrus"

	"github.com/blocknames/registrar/internal/core/application"
	"github.com/blocknames/registrar/internal/core/ports"
	"github.com/blocknames/registrar/internal/infrastructure/chain/bitcoind"
	"github.com/blocknames/registrar/internal/infrastructure/db"
	"github.com/blocknames/registrar/internal/infrastructure/nameservice"
	"github.com/blocknames/registrar/internal/infrastructure/oracle"
	scheduler "github.com/blocknames/registrar/internal/infrastructure/scheduler/gocron"
	filewallet "github.com/blocknames/registrar/internal/infrastructure/wallet/file"
)

var (
	supportedDbs = supportedType{
		"badger": {},
	}
	supportedWallets = supportedType{
		"file": {},
	}
	supportedSchedulers = supportedType{
		"gocron": {},
	}
)

type Config struct {
	DbType string
	DbDir  string

	WalletType string
	WalletFile string

	Network *chaincfg.Params

	NameServiceURL  string
	BitcoindRPCAddr string
	BitcoindRPCUser string
	BitcoindRPCPass string

	MinBalanceSats     int64
	MaxNamesPerAddress int
	QueueConfirmations int64
	MonitorInterval    time.Duration
	RemoteTimeout      time.Duration

	SchedulerType string

	repo      ports.RepoManager
	svc       application.Service
	wallet    ports.WalletService
	names     ports.NameService
	chain     ports.ChainClient
	oracleSvc ports.AddressOracle
	scheduler ports.SchedulerService
}

func (c *Config) Validate() error {
	if !supportedDbs.supports(c.DbType) {
		return fmt.Errorf("db type not supported, please select one of: %s", supportedDbs)
	}
	if !supportedWallets.supports(c.WalletType) {
		return fmt.Errorf("wallet type not supported, please select one of: %s", supportedWallets)
	}
	if len(c.SchedulerType) <= 0 {
		c.SchedulerType = "gocron"
	}
	if !supportedSchedulers.supports(c.SchedulerType) {
		return fmt.Errorf("scheduler type not supported, please select one of: %s", supportedSchedulers)
	}
	if c.Network == nil {
		return fmt.Errorf("missing network")
	}
	if err := c.repoManager(); err != nil {
		return err
	}
	if err := c.walletService(); err != nil {
		return fmt.Errorf("failed to open wallet: %s", err)
	}
	if err := c.nameService(); err != nil {
		return fmt.Errorf("failed to connect to name service: %s", err)
	}
	if err := c.chainService(); err != nil {
		return fmt.Errorf("failed to connect to chain client: %s", err)
	}
	if err := c.oracleService(); err != nil {
		return err
	}
	if err := c.schedulerService(); err != nil {
		return err
	}
	if err := c.appService(); err != nil {
		return err
	}
	return nil
}

func (c *Config) AppService() application.Service {
	return c.svc
}

func (c *Config) repoManager() error {
	var svc ports.RepoManager
	var err error
	switch c.DbType {
	case "badger":
		logger := log.New()
		svc, err = db.NewService(db.ServiceConfig{
			QueueStoreType:   c.DbType,
			QueueStoreConfig: []interface{}{c.DbDir, logger},
		})
	default:
		return fmt.Errorf("unknown db type")
	}
	if err != nil {
		return err
	}

	c.repo = svc
	return nil
}

func (c *Config) walletService() error {
	svc, err := filewallet.NewService(c.WalletFile, c.Network)
	if err != nil {
		return err
	}

	c.wallet = svc
	return nil
}

func (c *Config) nameService() error {
	svc, err := nameservice.NewService(c.NameServiceURL, c.RemoteTimeout)
	if err != nil {
		return err
	}

	c.names = svc
	return nil
}

func (c *Config) chainService() error {
	svc, err := bitcoind.NewService(
		c.BitcoindRPCAddr, c.BitcoindRPCUser, c.BitcoindRPCPass, c.Network,
	)
	if err != nil {
		return err
	}

	c.chain = svc
	return nil
}

func (c *Config) oracleService() error {
	svc, err := oracle.NewService(
		c.chain, c.names, c.MinBalanceSats, c.MaxNamesPerAddress,
	)
	if err != nil {
		return err
	}

	c.oracleSvc = svc
	return nil
}

func (c *Config) schedulerService() error {
	c.scheduler = scheduler.NewScheduler()
	return nil
}

func (c *Config) appService() error {
	svc, err := application.NewService(
		c.Network, c.RemoteTimeout,
		c.wallet, c.names, c.chain, c.oracleSvc, c.repo,
		c.scheduler, c.MonitorInterval, c.QueueConfirmations,
	)
	if err != nil {
		return err
	}

	c.svc = svc
	return nil
}

type supportedType map[string]struct{}

func (t supportedType) String() string {
	types := make([]string, 0, len(t))
	for tt := range t {
		types = append(types, tt)
	}
	return strings.Join(types, " | ")
}

func (t supportedType) supports(typeStr string) bool {
	_, ok := t[typeStr]
	return ok
}
