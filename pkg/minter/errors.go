package minter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/lisanmuaddib/mintbot/pkg/wallet"
)

// ErrCeilingExceeded marks an iteration skipped by the fee policy.
var ErrCeilingExceeded = errors.New("total fee exceeds ceiling")

// Stage is the step of an attempt an error came from.
type Stage string

const (
	StageFees       Stage = "fees"
	StageFeeCheck   Stage = "fee_check"
	StageSimulation Stage = "simulation"
	StageSubmission Stage = "submission"
)

// ErrorKind tags a normalized attempt failure.
type ErrorKind string

const (
	// KindReverted carries a decoded revert payload
	KindReverted ErrorKind = "reverted"
	// KindNetwork carries a transport or node response detail
	KindNetwork ErrorKind = "network"
	// KindUnknown carries the raw error text
	KindUnknown ErrorKind = "unknown"
	// KindSkipped is a ceiling skip, not a failure of a call
	KindSkipped ErrorKind = "skipped"
)

// AttemptError is the single shape every failed attempt is reported in.
type AttemptError struct {
	Kind    ErrorKind
	Stage   Stage
	Payload interface{}
	Err     error
}

func (e *AttemptError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Kind, e.Err)
}

func (e *AttemptError) Unwrap() error {
	return e.Err
}

// Normalize translates a failed call into an AttemptError. Revert data is
// preferred, then a node response, then the raw error. contractABI is used to
// decode custom errors and may be nil.
func Normalize(stage Stage, err error, contractABI *abi.ABI) *AttemptError {
	if err == nil {
		return nil
	}

	var ae *AttemptError
	if errors.As(err, &ae) {
		return ae
	}

	out := &AttemptError{Stage: stage, Err: err}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) && dataErr.ErrorData() != nil {
		out.Kind = KindReverted
		out.Payload = decodeRevert(dataErr.ErrorData(), contractABI)
		return out
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		payload := map[string]interface{}{
			"code":    rpcErr.ErrorCode(),
			"message": rpcErr.Error(),
		}
		out.Kind = KindNetwork
		if strings.Contains(strings.ToLower(rpcErr.Error()), "execution reverted") {
			out.Kind = KindReverted
		}
		out.Payload = payload
		return out
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		out.Kind = KindNetwork
		out.Payload = map[string]interface{}{
			"status": httpErr.StatusCode,
			"body":   string(httpErr.Body),
		}
		return out
	}

	if isNetworkError(err) {
		out.Kind = KindNetwork
		out.Payload = err.Error()
		return out
	}

	out.Kind = KindUnknown
	out.Payload = err.Error()
	return out
}

func isNetworkError(err error) bool {
	var netErr net.Error
	switch {
	case errors.As(err, &netErr):
		return true
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, rpc.ErrClientQuit):
		return true
	}
	return wallet.IsWalletError(err, wallet.ErrCodeRPCError)
}

// decodeRevert turns the data field of a node error into a payload. Already
// structured data is returned unchanged.
func decodeRevert(data interface{}, contractABI *abi.ABI) interface{} {
	hexData, ok := data.(string)
	if !ok {
		return data
	}

	raw, err := hexutil.Decode(hexData)
	if err != nil || len(raw) < 4 {
		return map[string]interface{}{"data": hexData}
	}

	if reason, err := abi.UnpackRevert(raw); err == nil {
		return map[string]interface{}{"reason": reason}
	}

	if contractABI != nil {
		for name, abiErr := range contractABI.Errors {
			if !bytes.Equal(abiErr.ID[:4], raw[:4]) {
				continue
			}
			args, err := abiErr.Unpack(raw)
			if err != nil {
				break
			}
			return map[string]interface{}{"error": name, "args": args}
		}
	}

	return map[string]interface{}{"data": hexData}
}
