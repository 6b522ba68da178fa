package wallet

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	gweiDecimals  = 9
	etherDecimals = 18
)

// GweiToWei converts a decimal gwei amount such as "1000" or "1.5" to wei.
// Digits below one wei are truncated.
func GweiToWei(amount string) (*big.Int, error) {
	return toWei(amount, gweiDecimals)
}

// EtherToWei converts a decimal ether amount such as "0.07" to wei.
func EtherToWei(amount string) (*big.Int, error) {
	return toWei(amount, etherDecimals)
}

// WeiToGwei renders a wei amount in gwei for display.
func WeiToGwei(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -gweiDecimals).String()
}

func toWei(amount string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("invalid amount %q: must not be negative", amount)
	}
	return d.Shift(decimals).BigInt(), nil
}
