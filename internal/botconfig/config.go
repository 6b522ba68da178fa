// Package botconfig reads the mint bot's configuration from flags and the
// environment.
package botconfig

import (
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/lisanmuaddib/mintbot/pkg/minter"
	"github.com/lisanmuaddib/mintbot/pkg/wallet"
	"github.com/shopspring/decimal"
)

// Defaults for the tunables.
const (
	DefaultMultiplier  = "2"
	DefaultMaxGasGwei  = "1000"
	DefaultFixedTip    = "200"
	DefaultDelayMS     = 500
	DefaultMintValue   = "0.07"
	DefaultMintAmount  = "1"
	DefaultExplorerURL = "https://etherscan.io/tx/"
	DefaultDialDelay   = time.Second
)

// ConfigError names a configuration field that is missing or unusable.
type ConfigError struct {
	Field  string
	Source string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s not defined (set %s)", e.Field, e.Source)
	}
	return fmt.Sprintf("invalid %s (%s): %v", e.Field, e.Source, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Raw is the configuration as strings, before any parsing.
type Raw struct {
	Endpoint        string
	ContractAddress string
	PrivateKey      string
	Policy          string
	Multiplier      string
	MaxGasGwei      string
	FixedTipGwei    string
	DelayMS         int
	Transport       string
	MintValueEth    string
	MintAmount      string
	ABIPath         string
	CallTimeout     time.Duration
	ExplorerURL     string
	DialRetries     int
	DialRetryDelay  time.Duration
}

// Config is built once at startup and never modified afterwards.
type Config struct {
	Connection      wallet.ConnectionConfig
	ContractAddress common.Address
	PrivateKey      string
	Policy          minter.PolicyName
	Multiplier      decimal.Decimal
	Ceiling         *big.Int
	FixedTip        *big.Int
	Delay           time.Duration
	CallTimeout     time.Duration
	MintValue       *big.Int
	MintAmount      *big.Int
	ContractABI     *abi.ABI
	ExplorerURL     string

	// AddressWarning is set when the contract address does not look valid
	AddressWarning error
}

// PolicyParams returns the fee policy tunables.
func (c *Config) PolicyParams() minter.PolicyParams {
	return minter.PolicyParams{
		Multiplier: c.Multiplier,
		FixedTip:   c.FixedTip,
		Ceiling:    c.Ceiling,
	}
}

// TxURL renders a followable reference for a transaction hash.
func (c *Config) TxURL(hash common.Hash) string {
	return c.ExplorerURL + hash.Hex()
}

// Build checks the required fields and parses the rest. Required fields are
// checked before anything else so nothing is touched when one is missing.
func (r Raw) Build() (*Config, error) {
	if strings.TrimSpace(r.Endpoint) == "" {
		return nil, &ConfigError{Field: "RPC_URI", Source: "--rpc or RPC_URI in .env"}
	}
	if strings.TrimSpace(r.ContractAddress) == "" {
		return nil, &ConfigError{Field: "CONTRACT_ADDRESS", Source: "--contract or CONTRACT_ADDRESS in .env"}
	}
	if strings.TrimSpace(r.PrivateKey) == "" {
		return nil, &ConfigError{Field: "PRIVATE_KEY", Source: "--privKey or PRIVATE_KEY in .env"}
	}

	transport, ok := wallet.ParseTransport(r.Transport)
	if !ok {
		return nil, &ConfigError{Field: "transport", Source: "--transport", Err: fmt.Errorf("unknown transport %q", r.Transport)}
	}

	multiplier, err := decimal.NewFromString(orDefault(r.Multiplier, DefaultMultiplier))
	if err != nil {
		return nil, &ConfigError{Field: "multiplier", Source: "--multiplier", Err: err}
	}
	if multiplier.IsZero() {
		multiplier = decimal.RequireFromString(DefaultMultiplier)
	}
	if multiplier.IsNegative() {
		return nil, &ConfigError{Field: "multiplier", Source: "--multiplier", Err: fmt.Errorf("must not be negative")}
	}

	ceiling, err := wallet.GweiToWei(orDefault(r.MaxGasGwei, DefaultMaxGasGwei))
	if err != nil {
		return nil, &ConfigError{Field: "maxGas", Source: "--maxGas", Err: err}
	}

	fixedTip, err := wallet.GweiToWei(orDefault(r.FixedTipGwei, DefaultFixedTip))
	if err != nil {
		return nil, &ConfigError{Field: "tip", Source: "--tip", Err: err}
	}

	value, err := wallet.EtherToWei(orDefault(r.MintValueEth, DefaultMintValue))
	if err != nil {
		return nil, &ConfigError{Field: "value", Source: "--value", Err: err}
	}

	amount, ok := new(big.Int).SetString(orDefault(r.MintAmount, DefaultMintAmount), 10)
	if !ok || amount.Sign() < 0 {
		return nil, &ConfigError{Field: "amount", Source: "--amount", Err: fmt.Errorf("not a non-negative integer: %q", r.MintAmount)}
	}

	policy := minter.PolicyName(orDefault(r.Policy, string(minter.PolicyMultiplier)))
	switch policy {
	case minter.PolicyMultiplier, minter.PolicyFixedTip, minter.PolicyUncapped:
	default:
		return nil, &ConfigError{Field: "policy", Source: "--policy", Err: fmt.Errorf("unknown fee policy %q", policy)}
	}

	abiJSON := minter.DefaultABI
	if r.ABIPath != "" {
		content, err := os.ReadFile(r.ABIPath)
		if err != nil {
			return nil, &ConfigError{Field: "abi", Source: "--abi", Err: err}
		}
		abiJSON = string(content)
	}
	contractABI, err := minter.ParseABI(abiJSON)
	if err != nil {
		return nil, &ConfigError{Field: "abi", Source: "--abi", Err: err}
	}

	if r.DialRetries < 0 {
		return nil, &ConfigError{Field: "dial-retries", Source: "--dial-retries", Err: fmt.Errorf("must not be negative")}
	}
	dialDelay := r.DialRetryDelay
	if dialDelay <= 0 {
		dialDelay = DefaultDialDelay
	}

	delay := r.DelayMS
	if delay <= 0 {
		delay = DefaultDelayMS
	}

	address := strings.TrimSpace(r.ContractAddress)
	return &Config{
		Connection: wallet.ConnectionConfig{
			Endpoint:    strings.TrimSpace(r.Endpoint),
			Transport:   transport,
			DialRetries: r.DialRetries,
			RetryDelay:  dialDelay,
		},
		ContractAddress: common.HexToAddress(address),
		PrivateKey:      strings.TrimSpace(r.PrivateKey),
		Policy:          policy,
		Multiplier:      multiplier,
		Ceiling:         ceiling,
		FixedTip:        fixedTip,
		Delay:           time.Duration(delay) * time.Millisecond,
		CallTimeout:     r.CallTimeout,
		MintValue:       value,
		MintAmount:      amount,
		ContractABI:     contractABI,
		ExplorerURL:     orDefault(r.ExplorerURL, DefaultExplorerURL),
		AddressWarning:  wallet.ValidateAddress(address),
	}, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
