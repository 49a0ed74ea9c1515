package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/spf13/viper"
)

type Config struct {
	Datadir  string
	Port     uint32
	LogLevel int
	Network  *chaincfg.Params

	DbType  string
	DbDir   string
	DbNoLog bool

	WalletType string
	WalletFile string

	NameServiceURL string

	BitcoindRPCAddr string
	BitcoindRPCUser string
	BitcoindRPCPass string

	MinBalanceSats     int64
	MaxNamesPerAddress int
	QueueConfirmations int64
	MonitorInterval    time.Duration
	RemoteTimeout      time.Duration
}

var (
	Datadir            = "DATADIR"
	Port               = "PORT"
	LogLevel           = "LOG_LEVEL"
	Network            = "NETWORK"
	DbType             = "DB_TYPE"
	WalletType         = "WALLET_TYPE"
	WalletFile         = "WALLET_FILE"
	NameServiceURL     = "NAME_SERVICE_URL"
	BitcoindRPCAddr    = "BITCOIND_RPC_ADDR"
	BitcoindRPCUser    = "BITCOIND_RPC_USER"
	BitcoindRPCPass    = "BITCOIND_RPC_PASS"
	MinBalanceSats     = "MIN_BALANCE_SATS"
	MaxNamesPerAddress = "MAX_NAMES_PER_ADDRESS"
	QueueConfirmations = "QUEUE_CONFIRMATIONS"
	MonitorInterval    = "MONITOR_INTERVAL"
	RemoteTimeout      = "REMOTE_TIMEOUT"

	defaultDatadir            = btcutil.AppDataDir("registrard", false)
	defaultPort               = 9000
	defaultLogLevel           = 4 // logrus.InfoLevel
	defaultNetwork            = "mainnet"
	defaultDbType             = "badger"
	defaultWalletType         = "file"
	defaultMinBalanceSats     = int64(100000)
	defaultMaxNamesPerAddress = 25
	defaultQueueConfirmations = int64(6)
	defaultMonitorInterval    = 60 * time.Second
	defaultRemoteTimeout      = 30 * time.Second
)

func LoadConfig() (*Config, error) {
	viper.SetEnvPrefix("REGISTRAR")
	viper.AutomaticEnv()

	viper.SetDefault(Datadir, defaultDatadir)
	viper.SetDefault(Port, defaultPort)
	viper.SetDefault(LogLevel, defaultLogLevel)
	viper.SetDefault(Network, defaultNetwork)
	viper.SetDefault(DbType, defaultDbType)
	viper.SetDefault(WalletType, defaultWalletType)
	viper.SetDefault(MinBalanceSats, defaultMinBalanceSats)
	viper.SetDefault(MaxNamesPerAddress, defaultMaxNamesPerAddress)
	viper.SetDefault(QueueConfirmations, defaultQueueConfirmations)
	viper.SetDefault(MonitorInterval, defaultMonitorInterval)
	viper.SetDefault(RemoteTimeout, defaultRemoteTimeout)

	if err := initDatadir(); err != nil {
		return nil, fmt.Errorf("error while creating datadir: %s", err)
	}

	net, err := networkFromString(viper.GetString(Network))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Datadir:            viper.GetString(Datadir),
		Port:               viper.GetUint32(Port),
		LogLevel:           viper.GetInt(LogLevel),
		Network:            net,
		DbType:             viper.GetString(DbType),
		DbDir:              filepath.Join(viper.GetString(Datadir), "db"),
		WalletType:         viper.GetString(WalletType),
		WalletFile:         viper.GetString(WalletFile),
		NameServiceURL:     viper.GetString(NameServiceURL),
		BitcoindRPCAddr:    viper.GetString(BitcoindRPCAddr),
		BitcoindRPCUser:    viper.GetString(BitcoindRPCUser),
		BitcoindRPCPass:    viper.GetString(BitcoindRPCPass),
		MinBalanceSats:     viper.GetInt64(MinBalanceSats),
		MaxNamesPerAddress: viper.GetInt(MaxNamesPerAddress),
		QueueConfirmations: viper.GetInt64(QueueConfirmations),
		MonitorInterval:    viper.GetDuration(MonitorInterval),
		RemoteTimeout:      viper.GetDuration(RemoteTimeout),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port == 0 {
		return fmt.Errorf("missing port")
	}
	if len(c.NameServiceURL) <= 0 {
		return fmt.Errorf("missing name service url")
	}
	if len(c.BitcoindRPCAddr) <= 0 {
		return fmt.Errorf("missing bitcoind rpc address")
	}
	if len(c.WalletFile) <= 0 {
		return fmt.Errorf("missing wallet file")
	}
	if c.RemoteTimeout <= 0 {
		return fmt.Errorf("remote timeout must be positive")
	}
	if c.MonitorInterval < 5*time.Second {
		return fmt.Errorf("monitor interval must be at least 5 seconds")
	}
	if c.QueueConfirmations <= 0 {
		return fmt.Errorf("queue confirmations must be positive")
	}
	return nil
}

func networkFromString(network string) (*chaincfg.Params, error) {
	switch network {
	case chaincfg.MainNetParams.Name:
		return &chaincfg.MainNetParams, nil
	case chaincfg.TestNet3Params.Name:
		return &chaincfg.TestNet3Params, nil
	case chaincfg.RegressionNetParams.Name:
		return &chaincfg.RegressionNetParams, nil
	default:
		return nil, fmt.Errorf("invalid network: %s", network)
	}
}

func initDatadir() error {
	datadir := viper.GetString(Datadir)
	return makeDirectoryIfNotExists(datadir)
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
