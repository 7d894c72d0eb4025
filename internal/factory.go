package internal

import (
	"fmt"

	binance "github.com/adshao/go-binance/v2"
	"github.com/smolin/onelot/config"
	"github.com/smolin/onelot/internal/clients"
	"github.com/smolin/onelot/internal/services/pricer"
	"go.uber.org/zap"
)

// NewPricer dispatches the configured platform to a concrete price source.
// This is the single point of truth for platform-specific wiring.
func NewPricer(conf config.Config, logger *zap.Logger) (pricer.Pricer, error) {
	switch conf.Platform {
	case "binance":
		return pricer.NewBinancePricer(binance.NewClient(conf.BinanceAPIKey, conf.BinanceAPISecret)), nil
	case "bybit":
		return pricer.NewBybitPricer(clients.NewBybitClient(conf.BybitAPIKey, conf.BybitAPISecret)), nil
	case "hyperliquid":
		client, err := clients.NewHyperliquidClient(conf.HyperliquidPrivateKey, conf.HyperliquidAPIURL)
		if err != nil {
			return nil, err
		}
		return pricer.NewHyperliquidPricer(client.Exchange().Info()), nil
	case "simulate":
		logger.Info("using simulated price source", zap.String("start_price", conf.SimulateStartPrice.String()))
		return pricer.NewSimulatePricer(conf.SimulateStartPrice, conf.SimulateSeed), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", conf.Platform)
	}
}
