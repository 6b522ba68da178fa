package wallet

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// addressRegex checks for a "0x" prefix followed by exactly 40 hexadecimal characters.
	addressRegex = regexp.MustCompile("^0x[0-9a-fA-F]{40}$")
)

// ValidateAddress checks the format of an address and, when it is written in
// mixed case, its EIP-55 checksum.
//
// Example:
//
//	if err := ValidateAddress("0x742d35Cc6634C0532925a3b844Bc454e4438f44e"); err != nil {
//	    log.Warn(err)
//	}
func ValidateAddress(address string) error {
	if !addressRegex.MatchString(address) {
		return NewWalletError(ErrCodeInvalidAddress, "invalid address format", nil, "")
	}

	checksumAddr := common.HexToAddress(address).Hex()

	// If the address was provided with checksum, verify it matches
	hexPart := address[2:]
	mixedCase := hexPart != strings.ToLower(hexPart) && hexPart != strings.ToUpper(hexPart)
	if mixedCase && address != checksumAddr {
		return NewWalletError(ErrCodeInvalidAddress, "invalid address checksum", nil, "")
	}

	return nil
}
