package minter_test

import (
	"context"
	"encoding/json"
	"io"
	"math/big"
	"net/http/httptest"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/lisanmuaddib/mintbot/pkg/minter"
	"github.com/lisanmuaddib/mintbot/pkg/wallet"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
)

const testPrivateKey = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

var _ = Describe("ParseABI", func() {
	It("should accept the default interface", func() {
		parsed, err := minter.ParseABI(minter.DefaultABI)
		Expect(err).NotTo(HaveOccurred())
		Expect(parsed.Methods).To(HaveKey(minter.MintMethod))
	})

	It("should accept interfaces declaring custom errors", func() {
		parsed, err := minter.ParseABI(customErrorABI)
		Expect(err).NotTo(HaveOccurred())
		Expect(parsed.Errors).To(HaveKey("MaxSupplyReached"))
	})

	DescribeTable("rejects unusable interfaces",
		func(abiJSON string, reason string) {
			_, err := minter.ParseABI(abiJSON)
			Expect(wallet.IsWalletError(err, wallet.ErrCodeInvalidABI)).To(BeTrue())
			Expect(err).To(MatchError(ContainSubstring(reason)))
		},
		Entry("malformed JSON", `[{`, "failed to parse ABI"),
		Entry("no mint method", `[{"inputs":[],"name":"mint","outputs":[],"stateMutability":"payable","type":"function"}]`, "no mintTokens"),
		Entry("wrong arguments", `[{"inputs":[{"name":"to","type":"address"}],"name":"mintTokens","outputs":[],"stateMutability":"payable","type":"function"}]`, "exactly one integer"),
		Entry("not payable", `[{"inputs":[{"name":"n","type":"uint256"}],"name":"mintTokens","outputs":[],"stateMutability":"nonpayable","type":"function"}]`, "payable"),
	)
})

var _ = Describe("Contract", func() {
	var (
		stub     *rpcStub
		server   *httptest.Server
		contract *minter.Contract
		address  common.Address
		client   *wallet.Client
	)

	BeforeEach(func() {
		stub, server = newRPCStub(map[string]interface{}{
			"eth_call": "0x",
		})
		DeferCleanup(server.Close)

		logger := logrus.New()
		logger.SetOutput(io.Discard)

		var err error
		client, err = wallet.NewClient(context.Background(), logger, wallet.ConnectionConfig{Endpoint: server.URL}, testPrivateKey)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(client.Close)

		parsed, err := minter.ParseABI(minter.DefaultABI)
		Expect(err).NotTo(HaveOccurred())

		address = common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
		contract = minter.NewContract(client, address, parsed)
	})

	It("should dry run mintTokens from the signer with the payment attached", func() {
		err := contract.SimulateMint(context.Background(), minter.MintOptions{
			Amount: big.NewInt(1),
			Value:  big.NewInt(70_000_000_000_000_000),
		})
		Expect(err).NotTo(HaveOccurred())

		calls := stub.calls("eth_call")
		Expect(calls).To(HaveLen(1))

		var msg struct {
			From  common.Address `json:"from"`
			To    common.Address `json:"to"`
			Value *hexutil.Big   `json:"value"`
			Input hexutil.Bytes  `json:"input"`
			Data  hexutil.Bytes  `json:"data"`
		}
		Expect(json.Unmarshal(calls[0].Params[0], &msg)).To(Succeed())
		Expect(msg.From).To(Equal(client.Address()))
		Expect(msg.To).To(Equal(address))
		Expect(msg.Value.ToInt().String()).To(Equal("70000000000000000"))

		input := msg.Input
		if len(input) == 0 {
			input = msg.Data
		}
		Expect(input).To(HaveLen(4 + 32))
		Expect(new(big.Int).SetBytes(input[4:]).Int64()).To(Equal(int64(1)))
	})

	It("should surface the revert payload of a failing dry run", func() {
		stub.set("eth_call", rpcFailure{Code: 3, Message: "execution reverted: SoldOut", Data: revertData("SoldOut")})

		err := contract.SimulateMint(context.Background(), minter.MintOptions{Amount: big.NewInt(1), Value: big.NewInt(0)})
		Expect(err).To(HaveOccurred())

		attemptErr := minter.Normalize(minter.StageSimulation, err, nil)
		Expect(attemptErr.Kind).To(Equal(minter.KindReverted))
		Expect(attemptErr.Payload).To(Equal(map[string]interface{}{"reason": "SoldOut"}))
	})

	Context("when submitting", func() {
		mintOptions := func() minter.MintOptions {
			return minter.MintOptions{
				Amount:    big.NewInt(1),
				Value:     big.NewInt(70_000_000_000_000_000),
				GasTipCap: gwei(2),
				GasFeeCap: gwei(1000),
			}
		}

		BeforeEach(func() {
			stub.set("eth_chainId", (*hexutil.Big)(big.NewInt(1)))
			stub.set("eth_getCode", "0x6080604052")
			stub.set("eth_getTransactionCount", hexutil.Uint64(7))
			stub.set("eth_estimateGas", hexutil.Uint64(90_000))
			stub.set("eth_sendRawTransaction", common.Hash{}.Hex())
		})

		It("should sign a dynamic fee transaction carrying the tip, the ceiling and the payment", func() {
			hash, err := contract.SubmitMint(context.Background(), mintOptions())
			Expect(err).NotTo(HaveOccurred())

			calls := stub.calls("eth_sendRawTransaction")
			Expect(calls).To(HaveLen(1))

			var rawTx hexutil.Bytes
			Expect(json.Unmarshal(calls[0].Params[0], &rawTx)).To(Succeed())
			tx := new(types.Transaction)
			Expect(tx.UnmarshalBinary(rawTx)).To(Succeed())

			Expect(tx.Type()).To(Equal(uint8(types.DynamicFeeTxType)))
			Expect(tx.GasTipCap().String()).To(Equal("2000000000"))
			Expect(tx.GasFeeCap().String()).To(Equal("1000000000000"))
			Expect(tx.Value().String()).To(Equal("70000000000000000"))
			Expect(*tx.To()).To(Equal(address))
			Expect(tx.Nonce()).To(Equal(uint64(7)))
			Expect(tx.Gas()).To(Equal(uint64(90_000)))
			Expect(tx.Hash()).To(Equal(hash))

			sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(1)), tx)
			Expect(err).NotTo(HaveOccurred())
			Expect(sender).To(Equal(client.Address()))
		})

		It("should surface a revert raised while estimating gas", func() {
			stub.set("eth_estimateGas", rpcFailure{Code: 3, Message: "execution reverted: SoldOut", Data: revertData("SoldOut")})

			_, err := contract.SubmitMint(context.Background(), mintOptions())
			Expect(err).To(HaveOccurred())

			attemptErr := minter.Normalize(minter.StageSubmission, err, nil)
			Expect(attemptErr.Kind).To(Equal(minter.KindReverted))
			Expect(attemptErr.Stage).To(Equal(minter.StageSubmission))
			Expect(attemptErr.Payload).To(Equal(map[string]interface{}{"reason": "SoldOut"}))
			Expect(stub.calls("eth_sendRawTransaction")).To(BeEmpty())
		})
	})
})
