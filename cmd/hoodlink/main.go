package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"hoodlink/internal/broker/robinhood"
	"hoodlink/internal/configs"
	"hoodlink/internal/journal"
	jpostgres "hoodlink/internal/journal/postgres"
	"hoodlink/internal/logging"
	"hoodlink/internal/models"
	"hoodlink/internal/orders"
	"hoodlink/internal/trailing"
)

var flagconf string

func init() {
	flag.StringVar(&flagconf, "conf", "hoodlink.yaml", "config path, eg: -conf hoodlink.yaml")
}

func main() {
	flag.Parse()

	cfg, err := configs.Load(flagconf)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("hoodlink exited with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *configs.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := robinhood.NewSession(robinhood.WithLogger(logger))
	if err := login(ctx, session, cfg.Credentials); err != nil {
		return err
	}
	defer func() {
		if err := session.Logout(context.Background()); err != nil {
			logger.Warn("logout failed", zap.Error(err))
		}
	}()

	jnl, closeJournal, err := openJournal(cfg.Journal)
	if err != nil {
		return err
	}
	defer closeJournal()

	equityClient := orders.NewEquityClient(session.Equity(), orders.WithLogger(logger))
	cryptoClient := orders.NewCryptoClient(session.Crypto(), orders.WithLogger(logger))

	var monitors []*trailing.Monitor
	for _, w := range cfg.Watches {
		client := equityClient
		if strings.EqualFold(w.Asset, string(models.AssetCrypto)) {
			client = cryptoClient
		}

		snap := client.WrapOrder(models.OrderRecord{ID: w.OrderID})
		if err := snap.Refresh(ctx); err != nil {
			return fmt.Errorf("resolve watched order %s: %w", w.OrderID, err)
		}

		percent := w.Percent
		if percent == 0 {
			percent = cfg.Trailing.Percent
		}

		m, err := trailing.NewMonitor(snap, client, client,
			trailing.Config{
				Percent:      percent,
				PollInterval: cfg.Trailing.PollInterval,
			},
			trailing.WithLogger(logger),
			trailing.WithJournal(jnl),
		)
		if err != nil {
			return fmt.Errorf("monitor for order %s: %w", w.OrderID, err)
		}
		monitors = append(monitors, m)
	}

	if len(monitors) == 0 {
		logger.Info("no watches configured, nothing to do")
		return nil
	}

	logger.Info("running trailing stop monitors", zap.Int("count", len(monitors)))
	return trailing.RunAll(ctx, func(r trailing.Result) {
		logger.Info("monitor finished",
			zap.String("order_id", r.OrderID),
			zap.String("reason", string(r.Reason)),
			zap.String("exit_order_id", r.ExitOrderID),
			zap.Float64("peak", r.Peak),
		)
	}, monitors...)
}

// login performs the password grant, prompting once on the console when the
// venue challenges with MFA.
func login(ctx context.Context, session *robinhood.Session, creds configs.CredentialsConfig) error {
	rc := robinhood.Credentials{
		Username:    creds.Username,
		Password:    creds.Password,
		DeviceToken: creds.DeviceToken,
	}
	err := session.Login(ctx, rc)
	if !errors.Is(err, robinhood.ErrMFARequired) {
		return err
	}

	fmt.Print("MFA: ")
	code, readErr := bufio.NewReader(os.Stdin).ReadString('\n')
	if readErr != nil {
		return fmt.Errorf("read mfa code: %w", readErr)
	}
	rc.MFACode = strings.TrimSpace(code)
	return session.Login(ctx, rc)
}

func openJournal(cfg configs.JournalConfig) (journal.Journal, func(), error) {
	if cfg.ConnStr == "" {
		return journal.Nop{}, func() {}, nil
	}
	pj, err := jpostgres.New(cfg.ConnStr)
	if err != nil {
		return nil, nil, fmt.Errorf("open journal: %w", err)
	}
	return pj, func() { pj.Close() }, nil
}
