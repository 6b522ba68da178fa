package minter

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// AttemptResult is the outcome of one iteration. Exactly one of TxHash and
// Err is set.
type AttemptResult struct {
	AttemptID string
	Decision  FeeDecision
	TxHash    *common.Hash
	Err       *AttemptError
}

// Succeeded reports whether the submission went out.
func (r AttemptResult) Succeeded() bool {
	return r.TxHash != nil
}

// ExecutorOptions configures the mint call.
type ExecutorOptions struct {
	// Amount is the mintTokens argument, 1 when nil
	Amount *big.Int

	// Value is the payment attached to both calls, in wei
	Value *big.Int

	// ContractABI decodes custom revert errors, optional
	ContractABI *abi.ABI
}

// Executor runs the dry run and, if it passes, the real submission.
type Executor struct {
	minter  Minter
	options ExecutorOptions
}

// NewExecutor creates an executor around the given contract binding.
func NewExecutor(minter Minter, options ExecutorOptions) *Executor {
	if options.Amount == nil {
		options.Amount = big.NewInt(1)
	}
	if options.Value == nil {
		options.Value = new(big.Int)
	}
	return &Executor{
		minter:  minter,
		options: options,
	}
}

// Attempt simulates the mint and submits it when the simulation does not
// error. The decision's ceiling is always the fee cap of the submission.
func (e *Executor) Attempt(ctx context.Context, log *logrus.Entry, decision FeeDecision) AttemptResult {
	result := AttemptResult{Decision: decision}

	opts := MintOptions{
		Amount:    e.options.Amount,
		Value:     e.options.Value,
		GasTipCap: decision.PriorityFee,
		GasFeeCap: decision.Ceiling,
	}

	log.Infof("Checking if %s would succeed..", MintMethod)
	if err := e.minter.SimulateMint(ctx, opts); err != nil {
		result.Err = Normalize(StageSimulation, err, e.options.ContractABI)
		return result
	}

	log.Infof("It should work! Attempting %s for real...", MintMethod)
	hash, err := e.minter.SubmitMint(ctx, opts)
	if err != nil {
		result.Err = Normalize(StageSubmission, err, e.options.ContractABI)
		return result
	}

	result.TxHash = &hash
	return result
}
