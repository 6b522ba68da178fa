package wallet

import (
	"errors"
	"fmt"
)

// Error codes for wallet operations
const (
	// ErrCodeInvalidAddress indicates an invalid blockchain address format
	ErrCodeInvalidAddress = "INVALID_ADDRESS"
	// ErrCodeInvalidPrivateKey indicates an invalid or malformed private key
	ErrCodeInvalidPrivateKey = "INVALID_PRIVATE_KEY"
	// ErrCodeInvalidTransport indicates an unknown transport was requested
	ErrCodeInvalidTransport = "INVALID_TRANSPORT"
	// ErrCodeRPCError indicates an RPC connection or call failed
	ErrCodeRPCError = "RPC_ERROR"
	// ErrCodeInvalidABI indicates invalid or malformed contract ABI
	ErrCodeInvalidABI = "INVALID_ABI"
	// ErrCodeFeeData indicates the fee snapshot could not be assembled
	ErrCodeFeeData = "FEE_DATA"
)

// WalletError represents a wallet-specific error with the endpoint it
// happened against.
type WalletError struct {
	Code     string // Error code identifying the type of error
	Message  string // Human readable error message
	Err      error  // Underlying error if any
	Endpoint string // Endpoint where the error occurred
}

func (e *WalletError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("[%s] %s on %s: %v", e.Code, e.Message, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
}

// Unwrap returns the underlying error.
func (e *WalletError) Unwrap() error {
	return e.Err
}

// NewWalletError creates a new WalletError with the given parameters.
func NewWalletError(code string, message string, err error, endpoint string) *WalletError {
	return &WalletError{
		Code:     code,
		Message:  message,
		Err:      err,
		Endpoint: endpoint,
	}
}

// IsWalletError reports whether err, or anything it wraps, is a WalletError
// with the given code.
func IsWalletError(err error, code string) bool {
	var we *WalletError
	if errors.As(err, &we) {
		return we.Code == code
	}
	return false
}
