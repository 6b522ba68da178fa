package minter

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/lisanmuaddib/mintbot/pkg/wallet"
)

// MintMethod is the contract method the bot invokes.
const MintMethod = "mintTokens"

// DefaultABI is the minimal interface of a payable mintTokens(uint256).
const DefaultABI = `[
	{
		"inputs": [{"internalType": "uint256", "name": "numberOfTokens", "type": "uint256"}],
		"name": "mintTokens",
		"outputs": [],
		"stateMutability": "payable",
		"type": "function"
	}
]`

// MintOptions are the arguments shared by the dry run and the submission.
type MintOptions struct {
	// Amount is the integer argument passed to mintTokens
	Amount *big.Int

	// Value is the native currency attached to the call
	Value *big.Int

	// GasTipCap and GasFeeCap are only used by the submission
	GasTipCap *big.Int
	GasFeeCap *big.Int
}

// Minter is the contract surface the executor needs.
type Minter interface {
	SimulateMint(ctx context.Context, opts MintOptions) error
	SubmitMint(ctx context.Context, opts MintOptions) (common.Hash, error)
}

// ParseABI parses a contract interface and checks it exposes a payable
// mintTokens taking one integer.
func ParseABI(abiJSON string) (*abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, wallet.NewWalletError(wallet.ErrCodeInvalidABI, "failed to parse ABI", err, "")
	}

	method, ok := parsed.Methods[MintMethod]
	if !ok {
		return nil, wallet.NewWalletError(wallet.ErrCodeInvalidABI, "ABI has no "+MintMethod+" method", nil, "")
	}
	if len(method.Inputs) != 1 || (method.Inputs[0].Type.T != abi.UintTy && method.Inputs[0].Type.T != abi.IntTy) {
		return nil, wallet.NewWalletError(wallet.ErrCodeInvalidABI, MintMethod+" must take exactly one integer", nil, "")
	}
	if !method.IsPayable() {
		return nil, wallet.NewWalletError(wallet.ErrCodeInvalidABI, MintMethod+" must be payable", nil, "")
	}

	return &parsed, nil
}

// Contract is a mintTokens binding signed by the client's identity.
type Contract struct {
	address common.Address
	abi     *abi.ABI
	client  *wallet.Client
	bound   *bind.BoundContract
}

// NewContract binds address to the given interface on client.
func NewContract(client *wallet.Client, address common.Address, contractABI *abi.ABI) *Contract {
	backend := client.Backend()
	return &Contract{
		address: address,
		abi:     contractABI,
		client:  client,
		bound:   bind.NewBoundContract(address, *contractABI, backend, backend, backend),
	}
}

// Address returns the bound contract address.
func (c *Contract) Address() common.Address {
	return c.address
}

// SimulateMint runs mintTokens through eth_call from the signing address
// with the payment attached. Nothing is signed or broadcast.
func (c *Contract) SimulateMint(ctx context.Context, opts MintOptions) error {
	data, err := c.abi.Pack(MintMethod, opts.Amount)
	if err != nil {
		return fmt.Errorf("failed to pack %s: %w", MintMethod, err)
	}

	msg := ethereum.CallMsg{
		From:  c.client.Address(),
		To:    &c.address,
		Value: opts.Value,
		Data:  data,
	}
	_, err = c.client.Backend().CallContract(ctx, msg, nil)
	return err
}

// SubmitMint signs and broadcasts mintTokens as a dynamic fee transaction.
func (c *Contract) SubmitMint(ctx context.Context, opts MintOptions) (common.Hash, error) {
	auth, err := c.client.Transactor(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	auth.Value = opts.Value
	auth.GasTipCap = opts.GasTipCap
	auth.GasFeeCap = opts.GasFeeCap

	tx, err := c.bound.Transact(auth, MintMethod, opts.Amount)
	if err != nil {
		return common.Hash{}, err
	}
	return tx.Hash(), nil
}
