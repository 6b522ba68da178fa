package wallet

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sirupsen/logrus"
)

// FeeData is the network's fee snapshot at call time, in wei.
type FeeData struct {
	// BaseFee is the base fee of the latest block
	BaseFee *big.Int

	// MaxFeePerGas is the suggested fee cap: twice the base fee plus the tip
	MaxFeePerGas *big.Int

	// MaxPriorityFeePerGas is the node's suggested tip
	MaxPriorityFeePerGas *big.Int
}

// Client is a single node connection with the signing identity bound to it.
type Client struct {
	eth        *ethclient.Client
	config     ConnectionConfig
	keyManager *KeyManager
	chainID    *big.Int
	log        *logrus.Logger
}

// NewClient dials the configured endpoint and derives the signing identity
// from privateKey.
//
// Example:
//
//	client, err := NewClient(ctx, logger, ConnectionConfig{Endpoint: "wss://node.example"}, privateKey)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
func NewClient(ctx context.Context, log *logrus.Logger, config ConnectionConfig, privateKey string) (*Client, error) {
	keyManager, err := NewKeyManager(privateKey)
	if err != nil {
		return nil, NewWalletError(ErrCodeInvalidPrivateKey, "failed to initialize key manager", err, "")
	}

	c := &Client{
		config:     config,
		keyManager: keyManager,
		log:        log,
	}

	c.eth, err = c.dialWithRetry(ctx)
	if err != nil {
		return nil, NewWalletError(ErrCodeRPCError, "failed to connect to node", err, config.Endpoint)
	}

	log.WithFields(logrus.Fields{
		"endpoint":  config.Endpoint,
		"transport": config.Resolve(),
	}).Infof("Connected to %s", config.Endpoint)

	return c, nil
}

// Address returns the signing identity's address.
func (c *Client) Address() common.Address {
	return c.keyManager.GetAddress()
}

// Backend exposes the connection for contract bindings.
func (c *Client) Backend() bind.ContractBackend {
	return c.eth
}

// ChainID returns the chain id of the node, fetched once and cached.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	if c.chainID != nil {
		return c.chainID, nil
	}
	chainID, err := c.eth.ChainID(ctx)
	if err != nil {
		return nil, NewWalletError(ErrCodeRPCError, "failed to get chain ID", err, c.config.Endpoint)
	}
	c.chainID = chainID
	return chainID, nil
}

// Transactor returns signing options bound to this client's chain.
func (c *Client) Transactor(ctx context.Context) (*bind.TransactOpts, error) {
	chainID, err := c.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	return c.keyManager.NewTransactor(ctx, chainID)
}

// FeeSnapshot fetches the latest base fee and the suggested tip. The fee cap
// follows the common wallet heuristic of 2 * baseFee + tip.
func (c *Client) FeeSnapshot(ctx context.Context) (*FeeData, error) {
	head, err := c.eth.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, NewWalletError(ErrCodeRPCError, "failed to get latest header", err, c.config.Endpoint)
	}
	if head.BaseFee == nil {
		return nil, NewWalletError(ErrCodeFeeData, "latest block has no base fee", nil, c.config.Endpoint)
	}

	tip, err := c.eth.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, NewWalletError(ErrCodeRPCError, "failed to get priority fee", err, c.config.Endpoint)
	}

	maxFee := new(big.Int).Mul(head.BaseFee, big.NewInt(2))
	maxFee.Add(maxFee, tip)

	return &FeeData{
		BaseFee:              new(big.Int).Set(head.BaseFee),
		MaxFeePerGas:         maxFee,
		MaxPriorityFeePerGas: tip,
	}, nil
}

// dialWithRetry connects over the resolved transport, retrying up to
// DialRetries times.
func (c *Client) dialWithRetry(ctx context.Context) (*ethclient.Client, error) {
	var rpcClient *rpc.Client
	var err error

	for i := 0; i <= c.config.DialRetries; i++ {
		rpcClient, err = c.dial(ctx)
		if err == nil {
			return ethclient.NewClient(rpcClient), nil
		}

		if i < c.config.DialRetries {
			c.log.WithFields(logrus.Fields{
				"endpoint": c.config.Endpoint,
				"attempt":  i + 1,
				"error":    err,
			}).Debug("Retrying node connection")

			timer := time.NewTimer(c.config.RetryDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return nil, fmt.Errorf("failed to connect after %d attempts: %w", c.config.DialRetries+1, err)
}

func (c *Client) dial(ctx context.Context) (*rpc.Client, error) {
	switch c.config.Resolve() {
	case TransportWebSocket:
		return rpc.DialWebsocket(ctx, c.config.Endpoint, "")
	case TransportHTTP:
		return rpc.DialHTTP(c.config.Endpoint)
	default:
		return nil, NewWalletError(ErrCodeInvalidTransport, "unknown transport", nil, c.config.Endpoint)
	}
}

// Close closes the node connection.
func (c *Client) Close() {
	c.eth.Close()
	c.log.WithField("endpoint", c.config.Endpoint).Debug("Closed node connection")
}
