package minter

import (
	"fmt"
	"math/big"

	"github.com/lisanmuaddib/mintbot/pkg/wallet"
	"github.com/shopspring/decimal"
)

// PolicyName identifies a fee policy.
type PolicyName string

const (
	// PolicyMultiplier multiplies the suggested tip and skips the attempt when
	// tip + (maxFee - suggestedTip) is above the ceiling.
	PolicyMultiplier PolicyName = "multiplier"
	// PolicyFixedTip uses a constant tip and skips the attempt when
	// tip + maxFee/2 is above the ceiling.
	PolicyFixedTip PolicyName = "fixed-tip"
	// PolicyUncapped multiplies the suggested tip and always attempts; the
	// ceiling only bounds the submission through its fee cap.
	PolicyUncapped PolicyName = "uncapped"
)

// PolicyParams carries the tunables a policy may read. All amounts are wei.
type PolicyParams struct {
	Multiplier decimal.Decimal
	FixedTip   *big.Int
	Ceiling    *big.Int
}

// FeeDecision is recomputed from a fresh snapshot on every iteration.
type FeeDecision struct {
	Policy      PolicyName
	BaseFee     *big.Int
	PriorityFee *big.Int
	TotalFee    *big.Int
	Ceiling     *big.Int

	// CeilingChecked is false for policies that never skip on total fee
	CeilingChecked bool
}

// Exceeded reports whether the iteration must be skipped.
func (d FeeDecision) Exceeded() bool {
	return d.CeilingChecked && d.TotalFee.Cmp(d.Ceiling) > 0
}

// Policy turns a fee snapshot into a decision.
type Policy interface {
	Name() PolicyName
	Decide(fee *wallet.FeeData) FeeDecision
}

// NewPolicy builds the named policy.
func NewPolicy(name PolicyName, params PolicyParams) (Policy, error) {
	if params.Ceiling == nil {
		return nil, fmt.Errorf("fee ceiling is required")
	}
	switch name {
	case PolicyMultiplier, "":
		return &multiplierPolicy{params: params, checkCeiling: true}, nil
	case PolicyUncapped:
		return &multiplierPolicy{params: params, checkCeiling: false}, nil
	case PolicyFixedTip:
		if params.FixedTip == nil {
			return nil, fmt.Errorf("fixed tip is required for policy %s", name)
		}
		return &fixedTipPolicy{params: params}, nil
	default:
		return nil, fmt.Errorf("unknown fee policy %q", name)
	}
}

type multiplierPolicy struct {
	params       PolicyParams
	checkCeiling bool
}

func (p *multiplierPolicy) Name() PolicyName {
	if p.checkCeiling {
		return PolicyMultiplier
	}
	return PolicyUncapped
}

func (p *multiplierPolicy) Decide(fee *wallet.FeeData) FeeDecision {
	baseFee := new(big.Int).Sub(fee.MaxFeePerGas, fee.MaxPriorityFeePerGas)
	priority := decimal.NewFromBigInt(fee.MaxPriorityFeePerGas, 0).Mul(p.params.Multiplier).BigInt()

	return FeeDecision{
		Policy:         p.Name(),
		BaseFee:        baseFee,
		PriorityFee:    priority,
		TotalFee:       new(big.Int).Add(priority, baseFee),
		Ceiling:        new(big.Int).Set(p.params.Ceiling),
		CeilingChecked: p.checkCeiling,
	}
}

// fixedTipPolicy approximates the base fee as half the suggested fee cap.
type fixedTipPolicy struct {
	params PolicyParams
}

func (p *fixedTipPolicy) Name() PolicyName {
	return PolicyFixedTip
}

func (p *fixedTipPolicy) Decide(fee *wallet.FeeData) FeeDecision {
	baseFee := new(big.Int).Div(fee.MaxFeePerGas, big.NewInt(2))
	priority := new(big.Int).Set(p.params.FixedTip)

	return FeeDecision{
		Policy:         PolicyFixedTip,
		BaseFee:        baseFee,
		PriorityFee:    priority,
		TotalFee:       new(big.Int).Add(priority, baseFee),
		Ceiling:        new(big.Int).Set(p.params.Ceiling),
		CeilingChecked: true,
	}
}
