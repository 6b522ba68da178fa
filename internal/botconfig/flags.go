package botconfig

import (
	"github.com/urfave/cli/v2"
)

// Flag names. The camelCase ones keep the names operators already use.
const (
	FlagRPC         = "rpc"
	FlagContract    = "contract"
	FlagPrivateKey  = "privKey"
	FlagPolicy      = "policy"
	FlagMultiplier  = "multiplier"
	FlagMaxGas      = "maxGas"
	FlagTip         = "tip"
	FlagDelay       = "delay"
	FlagTransport   = "transport"
	FlagValue       = "value"
	FlagAmount      = "amount"
	FlagABI         = "abi"
	FlagCallTimeout = "call-timeout"
	FlagExplorer    = "explorer"
	FlagDialRetries = "dial-retries"
	FlagDialDelay   = "dial-retry-delay"
)

// Flags returns the command line flags. Each one falls back to an
// environment variable, so a flag always overrides the environment.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    FlagRPC,
			Usage:   "node endpoint URI (ws://, wss://, http:// or https://)",
			EnvVars: []string{"RPC_URI"},
		},
		&cli.StringFlag{
			Name:    FlagContract,
			Usage:   "address of the contract exposing mintTokens",
			EnvVars: []string{"CONTRACT_ADDRESS"},
		},
		&cli.StringFlag{
			Name:    FlagPrivateKey,
			Usage:   "hex private key used to sign the mint",
			EnvVars: []string{"PRIVATE_KEY"},
		},
		&cli.StringFlag{
			Name:    FlagPolicy,
			Usage:   "fee policy: multiplier, fixed-tip or uncapped",
			Value:   "multiplier",
			EnvVars: []string{"FEE_POLICY"},
		},
		&cli.StringFlag{
			Name:    FlagMultiplier,
			Usage:   "multiplier applied to the suggested priority fee",
			Value:   DefaultMultiplier,
			EnvVars: []string{"MULTIPLIER"},
		},
		&cli.StringFlag{
			Name:    FlagMaxGas,
			Usage:   "fee ceiling in gwei",
			Value:   DefaultMaxGasGwei,
			EnvVars: []string{"MAX_GAS_GWEI"},
		},
		&cli.StringFlag{
			Name:    FlagTip,
			Usage:   "fixed priority fee in gwei (fixed-tip policy)",
			Value:   DefaultFixedTip,
			EnvVars: []string{"FIXED_TIP_GWEI"},
		},
		&cli.IntFlag{
			Name:    FlagDelay,
			Usage:   "delay between attempts in milliseconds",
			Value:   DefaultDelayMS,
			EnvVars: []string{"DELAY_MS"},
		},
		&cli.StringFlag{
			Name:    FlagTransport,
			Usage:   "node transport: auto, ws or http",
			Value:   "auto",
			EnvVars: []string{"RPC_TRANSPORT"},
		},
		&cli.StringFlag{
			Name:    FlagValue,
			Usage:   "payment attached to mintTokens, in ether",
			Value:   DefaultMintValue,
			EnvVars: []string{"MINT_VALUE_ETH"},
		},
		&cli.StringFlag{
			Name:    FlagAmount,
			Usage:   "integer argument passed to mintTokens",
			Value:   DefaultMintAmount,
			EnvVars: []string{"MINT_AMOUNT"},
		},
		&cli.StringFlag{
			Name:    FlagABI,
			Usage:   "path to the contract ABI JSON (defaults to a payable mintTokens(uint256))",
			EnvVars: []string{"CONTRACT_ABI"},
		},
		&cli.DurationFlag{
			Name:    FlagCallTimeout,
			Usage:   "timeout for one attempt's network calls, 0 disables it",
			EnvVars: []string{"CALL_TIMEOUT"},
		},
		&cli.StringFlag{
			Name:    FlagExplorer,
			Usage:   "URL prefix used to print the sent transaction",
			Value:   DefaultExplorerURL,
			EnvVars: []string{"EXPLORER_TX_URL"},
		},
		&cli.IntFlag{
			Name:    FlagDialRetries,
			Usage:   "extra attempts when the first connection to the node fails",
			EnvVars: []string{"DIAL_RETRIES"},
		},
		&cli.DurationFlag{
			Name:    FlagDialDelay,
			Usage:   "wait between connection attempts",
			Value:   DefaultDialDelay,
			EnvVars: []string{"DIAL_RETRY_DELAY"},
		},
	}
}

// FromCLI collects the flag values and builds the configuration.
func FromCLI(c *cli.Context) (*Config, error) {
	raw := Raw{
		Endpoint:        c.String(FlagRPC),
		ContractAddress: c.String(FlagContract),
		PrivateKey:      c.String(FlagPrivateKey),
		Policy:          c.String(FlagPolicy),
		Multiplier:      c.String(FlagMultiplier),
		MaxGasGwei:      c.String(FlagMaxGas),
		FixedTipGwei:    c.String(FlagTip),
		DelayMS:         c.Int(FlagDelay),
		Transport:       c.String(FlagTransport),
		MintValueEth:    c.String(FlagValue),
		MintAmount:      c.String(FlagAmount),
		ABIPath:         c.String(FlagABI),
		CallTimeout:     c.Duration(FlagCallTimeout),
		ExplorerURL:     c.String(FlagExplorer),
		DialRetries:     c.Int(FlagDialRetries),
		DialRetryDelay:  c.Duration(FlagDialDelay),
	}
	return raw.Build()
}
