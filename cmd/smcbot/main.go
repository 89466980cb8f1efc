package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rxtech-lab/argo-smc/internal/config"
	"github.com/rxtech-lab/argo-smc/internal/logger"
	"github.com/rxtech-lab/argo-smc/internal/notification"
	"github.com/rxtech-lab/argo-smc/internal/version"
	"github.com/rxtech-lab/argo-smc/pkg/errors"
	"github.com/rxtech-lab/argo-smc/pkg/marketdata"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to a YAML config file; environment variables override it",
		Sources: cli.EnvVars("SMC_CONFIG"),
	}
}

func logLevelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level (debug, info, warn, error); overrides the config",
	}
}

// loadConfig loads the config and builds the logger for a command.
func loadConfig(ctx context.Context, cmd *cli.Command) (config.Config, *logger.Logger, error) {
	cfg, err := config.Load(ctx, cmd.String("config"))
	if err != nil {
		return config.Config{}, nil, err
	}

	if level := cmd.String("log-level"); level != "" {
		cfg.LogLevel = level
	} else if cfg.RunMode == config.RunModeDevelopment {
		cfg.LogLevel = "debug"
	}

	log, err := logger.NewLoggerWithLevel(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid log level", err)
	}

	return cfg, log, nil
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, err := loadConfig(ctx, cmd)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	log.Info("starting smart money scanner",
		zap.String("version", version.GetVersion()),
		zap.String("run_mode", string(cfg.RunMode)),
		zap.Bool("testnet", cfg.Binance.Testnet),
		zap.String("profile", string(cfg.Strategy.Profile)),
	)

	b, err := newBot(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	if cmd.Bool("once") {
		if _, err := b.scanner.Prepare(ctx); err != nil {
			return err
		}

		if _, err := b.scanner.ScanOnce(ctx); err != nil {
			return err
		}

		return writeJSON(cmd, b.scanner.Latest())
	}

	if cfg.HTTP.Addr != "" {
		if err := b.server.Start(ctx, cfg.HTTP.Addr); err != nil {
			return err
		}
	}

	err = b.scanner.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info("scanner stopped")

		return nil
	}

	return err
}

func analyzeAction(ctx context.Context, cmd *cli.Command) error {
	symbol := cmd.Args().First()
	if symbol == "" {
		return errors.New(errors.ErrCodeMissingParameter, "usage: smcbot analyze SYMBOL")
	}

	cfg, log, err := loadConfig(ctx, cmd)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	b, err := newBot(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	if _, err := b.provider.PricePrecisions(ctx, []string{symbol}); err != nil {
		log.Warn("could not load price precision", zap.String("symbol", symbol), zap.Error(err))
	}

	result, err := b.scanner.Analyze(ctx, symbol)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.Root().Writer, notification.Header(result.Decision()))

	return writeJSON(cmd, result)
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	schema, err := config.Schema()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.Root().Writer, schema)

	return nil
}

func providersAction(_ context.Context, cmd *cli.Command) error {
	infos := make([]marketdata.ProviderInfo, 0)

	for _, name := range marketdata.GetSupportedProviders() {
		info, err := marketdata.GetProviderInfo(name)
		if err != nil {
			return err
		}

		infos = append(infos, info)
	}

	return writeJSON(cmd, infos)
}

func writeJSON(cmd *cli.Command, v any) error {
	encoder := json.NewEncoder(cmd.Root().Writer)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "smcbot",
		Usage:   "Smart money setup scanner for Binance futures",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Scan the configured symbols and alert on new setups",
				Flags: []cli.Flag{
					configFlag(),
					logLevelFlag(),
					&cli.BoolFlag{
						Name:  "once",
						Usage: "Run a single scan cycle, print the decisions and exit",
					},
				},
				Action: runAction,
			},
			{
				Name:      "analyze",
				Usage:     "Print the current decision for one symbol",
				ArgsUsage: "SYMBOL",
				Flags:     []cli.Flag{configFlag(), logLevelFlag()},
				Action:    analyzeAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the config file",
				Action: schemaAction,
			},
			{
				Name:   "providers",
				Usage:  "List the supported market data providers",
				Action: providersAction,
			},
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
