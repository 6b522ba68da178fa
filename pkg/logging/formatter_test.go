package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/lisanmuaddib/mintbot/pkg/logging"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
)

var _ = Describe("ColoredTextFormatter", func() {
	var (
		buf    *bytes.Buffer
		logger *logrus.Logger
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		formatter := logging.NewColoredTextFormatter()
		formatter.DisableColors = true

		logger = logrus.New()
		logger.SetOutput(buf)
		logger.SetFormatter(formatter)
	})

	It("should print level, message and fields on one line", func() {
		logger.WithFields(logrus.Fields{
			"tx_hash":    "0xabc123",
			"attempt_id": "a1",
			"policy":     "multiplier",
		}).Info("Mint submitted")

		line := buf.String()
		Expect(line).To(HaveSuffix("\n"))
		Expect(strings.Count(line, "\n")).To(Equal(1))
		Expect(line).To(ContainSubstring("INFO    Mint submitted"))
		Expect(line).To(ContainSubstring(`tx_hash="0xabc123"`))
		Expect(strings.Index(line, "attempt_id=")).To(BeNumerically("<", strings.Index(line, "tx_hash=")))
		Expect(strings.Index(line, "tx_hash=")).To(BeNumerically("<", strings.Index(line, "policy=")))
	})

	It("should render structured values as JSON and errors as text", func() {
		logger.WithFields(logrus.Fields{
			"revert": map[string]interface{}{"reason": "SoldOut"},
			"error":  errors.New("execution reverted"),
		}).Warn("Mint would revert")

		line := buf.String()
		Expect(line).To(ContainSubstring(`revert={"reason":"SoldOut"}`))
		Expect(line).To(ContainSubstring(`error="execution reverted"`))
		Expect(line).To(ContainSubstring("WARNING"))
	})

	It("should not emit escape codes when colors are disabled", func() {
		logger.Error("plain")
		Expect(buf.String()).NotTo(ContainSubstring("\x1b["))
	})
})

var _ = Describe("NewLogger", func() {
	It("should use the JSON formatter on request", func() {
		buf := &bytes.Buffer{}
		logger := logging.NewLogger(buf, "debug", "json")
		Expect(logger.GetLevel()).To(Equal(logrus.DebugLevel))

		logger.WithField("attempt_id", "a1").Debug("hello")
		var entry map[string]interface{}
		Expect(json.Unmarshal(buf.Bytes(), &entry)).To(Succeed())
		Expect(entry).To(HaveKeyWithValue("msg", "hello"))
		Expect(entry).To(HaveKeyWithValue("attempt_id", "a1"))
	})

	It("should fall back to info for an invalid level", func() {
		buf := &bytes.Buffer{}
		logger := logging.NewLogger(buf, "chatty", "")
		Expect(logger.GetLevel()).To(Equal(logrus.InfoLevel))
		Expect(buf.String()).To(ContainSubstring("Invalid log level specified"))
	})

	It("should default to info silently", func() {
		buf := &bytes.Buffer{}
		logger := logging.NewLogger(buf, "", "text")
		Expect(logger.GetLevel()).To(Equal(logrus.InfoLevel))
		Expect(buf.String()).To(BeEmpty())
	})
})
