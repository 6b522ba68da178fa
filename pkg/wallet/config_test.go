package wallet_test

import (
	"github.com/lisanmuaddib/mintbot/pkg/wallet"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ConnectionConfig", func() {
	DescribeTable("Resolve",
		func(endpoint string, transport wallet.Transport, want wallet.Transport) {
			cfg := wallet.ConnectionConfig{Endpoint: endpoint, Transport: transport}
			Expect(cfg.Resolve()).To(Equal(want))
		},
		Entry("wss by scheme", "wss://node.example/ws", wallet.TransportAuto, wallet.TransportWebSocket),
		Entry("ws by scheme", "ws://127.0.0.1:8546", wallet.Transport(""), wallet.TransportWebSocket),
		Entry("https by scheme", "https://node.example", wallet.TransportAuto, wallet.TransportHTTP),
		Entry("explicit http wins", "wss://node.example/ws", wallet.TransportHTTP, wallet.TransportHTTP),
		Entry("explicit ws wins", "https://node.example", wallet.TransportWebSocket, wallet.TransportWebSocket),
	)

	It("should parse transport names", func() {
		t, ok := wallet.ParseTransport("WebSocket")
		Expect(ok).To(BeTrue())
		Expect(t).To(Equal(wallet.TransportWebSocket))

		t, ok = wallet.ParseTransport("")
		Expect(ok).To(BeTrue())
		Expect(t).To(Equal(wallet.TransportAuto))

		_, ok = wallet.ParseTransport("grpc")
		Expect(ok).To(BeFalse())
	})
})
