package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/smolin/onelot/config"
	"github.com/smolin/onelot/internal"
	"github.com/smolin/onelot/internal/domain"
	"github.com/smolin/onelot/internal/services/decider"
	"github.com/smolin/onelot/internal/services/executor"
	"github.com/smolin/onelot/internal/services/notifier"
	"github.com/smolin/onelot/internal/services/pricer"
	"github.com/smolin/onelot/internal/storage/ledgerstore"
	"github.com/smolin/onelot/internal/storage/tradelog"
	"github.com/smolin/onelot/internal/web"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	conf, err := config.Get()
	if err != nil {
		logger.Fatal("failed to get configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := ledgerstore.NewStore(conf.DataFile)

	ledger, found, err := store.Load()
	if err != nil {
		// a corrupt ledger is fatal: never guess at financial state
		logger.Fatal("refusing to start: persisted ledger is unreadable",
			zap.String("data_file", conf.DataFile), zap.Error(err))
	}
	if !found {
		ledger = domain.NewLedger(conf.InitialCapital)
		logger.Info("no persisted ledger found, starting fresh",
			zap.String("initial_capital", conf.InitialCapital.String()))
	} else {
		logger.Info("ledger restored",
			zap.String("capital", ledger.Capital.String()),
			zap.Int64("holdings", ledger.Holdings),
			zap.Int("trades", len(ledger.TradeHistory)))
	}

	audit, err := tradelog.New(conf.WalDir)
	if err != nil {
		logger.Fatal("failed to open trade audit log", zap.Error(err))
	}
	defer audit.Close()

	backend, err := internal.NewPricer(conf, logger)
	if err != nil {
		logger.Fatal("failed to create price source", zap.Error(err))
	}
	guarded := pricer.NewGuarded(backend, logger)

	engine, err := decider.NewEngine(conf.BuyThreshold, conf.SellThreshold)
	if err != nil {
		logger.Fatal("invalid decision thresholds", zap.Error(err))
	}

	var ntf notifier.Notifier = notifier.NewAutoConfirm(logger)
	if conf.Interactive {
		ntf = notifier.NewConsole(logger)
	}

	exec := executor.New(store, audit, ntf, logger)

	var status *web.Holder
	if conf.WebAddr != "" {
		status = web.NewHolder()
		server := web.NewServer(conf.WebAddr, status)
		go func() {
			if err := server.Start(ctx); err != nil {
				logger.Error("status server stopped", zap.Error(err))
			}
		}()
		logger.Info("status server listening", zap.String("addr", conf.WebAddr))
	}

	bot := internal.NewTradingBot(conf, ledger, guarded, engine, exec, ntf, status, logger)

	if err := bot.Run(ctx); err != nil {
		logger.Fatal("trading loop failed", zap.Error(err))
	}
}
