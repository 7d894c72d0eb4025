// Package config loads the trading loop configuration from a YAML file or
// CLI flags. Exchange credentials come from the environment, never from the
// config file.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	defaultPlatform     = "binance"
	defaultSymbol       = "BTCUSDT"
	defaultDataFile     = "trade_history.json"
	defaultWalDir       = "./wal"
	defaultPollInterval = 10 * time.Second

	defaultInitialCapital = "7000"
	defaultBuyThreshold   = "0.998"
	defaultSellThreshold  = "1.003"

	defaultHyperliquidAPIURL  = "https://api.hyperliquid.xyz"
	defaultSimulateStartPrice = "100"
)

// Config is the resolved runtime configuration.
type Config struct {
	Platform          string
	Symbol            string
	InitialCapital    decimal.Decimal
	DataFile          string
	WalDir            string
	PollPriceInterval time.Duration
	BuyThreshold      decimal.Decimal
	SellThreshold     decimal.Decimal
	Interactive       bool
	WebAddr           string

	BinanceAPIKey         string
	BinanceAPISecret      string
	BybitAPIKey           string
	BybitAPISecret        string
	HyperliquidPrivateKey string
	HyperliquidAPIURL     string

	SimulateStartPrice decimal.Decimal
	SimulateSeed       int64
}

type configYaml struct {
	Platform           string        `yaml:"platform"`
	Symbol             string        `yaml:"symbol"`
	InitialCapital     string        `yaml:"initial_capital,omitempty"`
	DataFile           string        `yaml:"data_file,omitempty"`
	WalDir             string        `yaml:"wal_dir,omitempty"`
	PollPriceInterval  time.Duration `yaml:"poll_price_interval,omitempty"`
	BuyThreshold       string        `yaml:"buy_threshold,omitempty"`
	SellThreshold      string        `yaml:"sell_threshold,omitempty"`
	Interactive        bool          `yaml:"interactive,omitempty"`
	WebAddr            string        `yaml:"web_addr,omitempty"`
	HyperliquidAPIURL  string        `yaml:"hyperliquid_api_url,omitempty"`
	SimulateStartPrice string        `yaml:"simulate_start_price,omitempty"`
	SimulateSeed       int64         `yaml:"simulate_seed,omitempty"`
}

// Get resolves configuration from the -config YAML file when given, or from
// CLI flags otherwise.
func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	platform := flag.String("platform", defaultPlatform, "price source platform: binance, bybit, hyperliquid or simulate")
	symbol := flag.String("symbol", defaultSymbol, "instrument symbol, example: BTCUSDT")
	capitalStr := flag.String("capital", defaultInitialCapital, "starting capital for the first run")
	dataFile := flag.String("datafile", defaultDataFile, "path to the persisted ledger file")
	walDir := flag.String("waldir", defaultWalDir, "directory for the trade audit log")
	pollInterval := flag.Duration("pollpriceinterval", defaultPollInterval, "poll market price interval")
	buyStr := flag.String("buythreshold", defaultBuyThreshold, "buy when price < avg * threshold")
	sellStr := flag.String("sellthreshold", defaultSellThreshold, "sell when price > avg * threshold")
	interactive := flag.Bool("interactive", false, "ask for confirmation before each trade")
	webAddr := flag.String("webaddr", "", "listen address for the status server, empty disables it")
	flag.Parse()

	if *configPath != "" {
		return getYaml(*configPath)
	}

	conf := Config{
		Platform:          *platform,
		Symbol:            *symbol,
		DataFile:          *dataFile,
		WalDir:            *walDir,
		PollPriceInterval: *pollInterval,
		Interactive:       *interactive,
		WebAddr:           *webAddr,
		HyperliquidAPIURL: defaultHyperliquidAPIURL,
	}

	var err error
	if conf.InitialCapital, err = decimal.NewFromString(*capitalStr); err != nil {
		return Config{}, fmt.Errorf("invalid --capital provided, --capital=%s: %w", *capitalStr, err)
	}
	if conf.BuyThreshold, err = decimal.NewFromString(*buyStr); err != nil {
		return Config{}, fmt.Errorf("invalid --buythreshold provided, --buythreshold=%s: %w", *buyStr, err)
	}
	if conf.SellThreshold, err = decimal.NewFromString(*sellStr); err != nil {
		return Config{}, fmt.Errorf("invalid --sellthreshold provided, --sellthreshold=%s: %w", *sellStr, err)
	}
	conf.SimulateStartPrice, _ = decimal.NewFromString(defaultSimulateStartPrice)
	conf.SimulateSeed = time.Now().UnixNano()

	fillCredentialsFromEnv(&conf)

	if err := conf.validate(); err != nil {
		return Config{}, err
	}

	return conf, nil
}

func getYaml(path string) (Config, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var tmp configYaml
	if err := yaml.Unmarshal(payload, &tmp); err != nil {
		return Config{}, err
	}

	return fromYaml(tmp)
}

func fromYaml(tmp configYaml) (Config, error) {
	conf := Config{
		Platform:          tmp.Platform,
		Symbol:            tmp.Symbol,
		DataFile:          tmp.DataFile,
		WalDir:            tmp.WalDir,
		PollPriceInterval: tmp.PollPriceInterval,
		Interactive:       tmp.Interactive,
		WebAddr:           tmp.WebAddr,
		HyperliquidAPIURL: tmp.HyperliquidAPIURL,
		SimulateSeed:      tmp.SimulateSeed,
	}

	if conf.Platform == "" {
		conf.Platform = defaultPlatform
	}
	if conf.Symbol == "" {
		conf.Symbol = defaultSymbol
	}
	if conf.DataFile == "" {
		conf.DataFile = defaultDataFile
	}
	if conf.WalDir == "" {
		conf.WalDir = defaultWalDir
	}
	if conf.PollPriceInterval == 0 {
		conf.PollPriceInterval = defaultPollInterval
	}
	if conf.HyperliquidAPIURL == "" {
		conf.HyperliquidAPIURL = defaultHyperliquidAPIURL
	}
	if conf.SimulateSeed == 0 {
		conf.SimulateSeed = time.Now().UnixNano()
	}

	var err error
	if conf.InitialCapital, err = parseDecimalOrDefault(tmp.InitialCapital, defaultInitialCapital); err != nil {
		return Config{}, fmt.Errorf("incorrect 'initial_capital' param in yaml config: %w", err)
	}
	if conf.BuyThreshold, err = parseDecimalOrDefault(tmp.BuyThreshold, defaultBuyThreshold); err != nil {
		return Config{}, fmt.Errorf("incorrect 'buy_threshold' param in yaml config: %w", err)
	}
	if conf.SellThreshold, err = parseDecimalOrDefault(tmp.SellThreshold, defaultSellThreshold); err != nil {
		return Config{}, fmt.Errorf("incorrect 'sell_threshold' param in yaml config: %w", err)
	}
	if conf.SimulateStartPrice, err = parseDecimalOrDefault(tmp.SimulateStartPrice, defaultSimulateStartPrice); err != nil {
		return Config{}, fmt.Errorf("incorrect 'simulate_start_price' param in yaml config: %w", err)
	}

	fillCredentialsFromEnv(&conf)

	if err := conf.validate(); err != nil {
		return Config{}, err
	}

	return conf, nil
}

func parseDecimalOrDefault(value, fallback string) (decimal.Decimal, error) {
	if value == "" {
		value = fallback
	}
	return decimal.NewFromString(value)
}

func fillCredentialsFromEnv(conf *Config) {
	conf.BinanceAPIKey = os.Getenv("BINANCE_APIKEY")
	conf.BinanceAPISecret = os.Getenv("BINANCE_SECRETKEY")
	conf.BybitAPIKey = os.Getenv("BYBIT_APIKEY")
	conf.BybitAPISecret = os.Getenv("BYBIT_SECRETKEY")
	conf.HyperliquidPrivateKey = os.Getenv("HYPERLIQUID_PRIVATE_KEY")
}

func (c *Config) validate() error {
	switch c.Platform {
	case "binance", "bybit", "hyperliquid", "simulate":
	default:
		return fmt.Errorf("unsupported platform: %s", c.Platform)
	}

	if c.Symbol == "" {
		return fmt.Errorf("symbol must not be empty")
	}
	if !c.InitialCapital.IsPositive() {
		return fmt.Errorf("initial capital must be positive, got %s", c.InitialCapital.String())
	}
	if c.PollPriceInterval <= 0 {
		return fmt.Errorf("poll price interval must be positive, got %s", c.PollPriceInterval)
	}

	one := decimal.NewFromInt(1)
	if c.BuyThreshold.LessThanOrEqual(decimal.Zero) || c.BuyThreshold.GreaterThanOrEqual(one) {
		return fmt.Errorf("buy threshold must be in (0, 1), got %s", c.BuyThreshold.String())
	}
	if c.SellThreshold.LessThanOrEqual(one) {
		return fmt.Errorf("sell threshold must be greater than 1, got %s", c.SellThreshold.String())
	}

	if c.Platform == "hyperliquid" && c.HyperliquidPrivateKey == "" {
		return fmt.Errorf("HYPERLIQUID_PRIVATE_KEY env is not set")
	}

	return nil
}
