package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/lisanmuaddib/mintbot/internal/botconfig"
	"github.com/lisanmuaddib/mintbot/pkg/logging"
	"github.com/lisanmuaddib/mintbot/pkg/minter"
	"github.com/lisanmuaddib/mintbot/pkg/wallet"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// Process exit statuses.
const (
	ExitMinted      = 1
	ExitInterrupted = 130
)

func main() {
	// Load .env before reading LOG_LEVEL so it can be set there too
	envErr := godotenv.Load()

	log := logging.NewLogger(os.Stdout, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	if envErr != nil {
		// .env is optional
		log.WithError(envErr).Debug("Error loading .env file")
	}

	// Create context cancelled on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newApp(log).RunContext(ctx, os.Args)
	stop()

	os.Exit(exitCode(log, err))
}

func newApp(log *logrus.Logger) *cli.App {
	return &cli.App{
		Name:  "mintbot",
		Usage: "poll network fees and call mintTokens once the fee condition holds",
		Flags: botconfig.Flags(),
		Action: func(c *cli.Context) error {
			return run(c, log)
		},
		// Exit codes are decided by exitCode, not inside the cli package
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// exitCode maps the outcome of run to the process status. A sent mint
// transaction is reported with ExitMinted.
func exitCode(log *logrus.Logger, err error) int {
	if err == nil {
		return 0
	}

	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	var cfgErr *botconfig.ConfigError
	if errors.As(err, &cfgErr) {
		log.Error(cfgErr.Error())
		return 1
	}

	if errors.Is(err, context.Canceled) {
		log.Info("Interrupted")
		return ExitInterrupted
	}

	log.WithError(err).Error("mintbot failed")
	return 1
}

func run(c *cli.Context, log *logrus.Logger) error {
	cfg, err := botconfig.FromCLI(c)
	if err != nil {
		return err
	}
	if cfg.AddressWarning != nil {
		log.WithError(cfg.AddressWarning).Warn("Contract address does not look valid")
	}

	policy, err := minter.NewPolicy(cfg.Policy, cfg.PolicyParams())
	if err != nil {
		return err
	}

	ctx := c.Context
	client, err := wallet.NewClient(ctx, log, cfg.Connection, cfg.PrivateKey)
	if err != nil {
		return fmt.Errorf("failed to create wallet client: %w", err)
	}
	defer client.Close()

	contract := minter.NewContract(client, cfg.ContractAddress, cfg.ContractABI)
	log.WithField("wallet", client.Address().Hex()).Infof("Using Wallet: %s", client.Address().Hex())
	log.WithField("contract", contract.Address().Hex()).Infof("Contract Address: %s", contract.Address().Hex())
	log.Infof("Multiplier: %s", cfg.Multiplier.String())
	log.Infof("Max Gas: %s Gwei", wallet.WeiToGwei(cfg.Ceiling))

	executor := minter.NewExecutor(contract, minter.ExecutorOptions{
		Amount:      cfg.MintAmount,
		Value:       cfg.MintValue,
		ContractABI: cfg.ContractABI,
	})
	poller := minter.NewPoller(client, policy, executor, log, minter.PollerOptions{
		Interval:    cfg.Delay,
		CallTimeout: cfg.CallTimeout,
	})

	result, err := poller.Run(ctx)
	if err != nil {
		return err
	}

	log.WithField("tx_hash", result.TxHash.Hex()).Infof("Transaction sent: %s", cfg.TxURL(*result.TxHash))
	// The bot stops after its first submission and reports it with a non-zero status.
	return cli.Exit("", ExitMinted)
}
