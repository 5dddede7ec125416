package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/die-net/getproxy/internal/logger"
)

var _ = Describe("Logger", func() {
	var stdout, stderr *bytes.Buffer

	BeforeEach(func() {
		stdout = &bytes.Buffer{}
		stderr = &bytes.Buffer{}
	})

	Describe("New", func() {
		It("should create logger with info level", func() {
			log := logger.New("info", "dev")
			Expect(log).NotTo(BeNil())
			Expect(log.Enabled(context.Background(), slog.LevelInfo)).To(BeTrue())
			Expect(log.Enabled(context.Background(), slog.LevelDebug)).To(BeFalse())
		})

		It("should respect debug level", func() {
			log := logger.New("debug", "dev")
			Expect(log.Enabled(context.Background(), slog.LevelDebug)).To(BeTrue())
		})

		It("should default to info for invalid level", func() {
			log := logger.New("loud", "dev")
			Expect(log.Enabled(context.Background(), slog.LevelInfo)).To(BeTrue())
			Expect(log.Enabled(context.Background(), slog.LevelDebug)).To(BeFalse())
		})

		It("should suppress info at error level", func() {
			log := logger.New("error", "dev")
			Expect(log.Enabled(context.Background(), slog.LevelInfo)).To(BeFalse())
			Expect(log.Enabled(context.Background(), slog.LevelError)).To(BeTrue())
		})
	})

	Describe("stream routing", func() {
		It("writes informational records to stdout only", func() {
			log := logger.NewWithWriters("info", "dev", stdout, stderr)
			log.Info("request received", slog.String("request", "GET / HTTP/1.1"))

			Expect(stdout.String()).To(ContainSubstring("request received"))
			Expect(stdout.String()).To(ContainSubstring("environment=dev"))
			Expect(stderr.Len()).To(BeZero())
		})

		It("writes warnings to stdout", func() {
			log := logger.NewWithWriters("info", "dev", stdout, stderr)
			log.Warn("slow origin")

			Expect(stdout.String()).To(ContainSubstring("slow origin"))
			Expect(stderr.Len()).To(BeZero())
		})

		It("writes error records to stderr only", func() {
			log := logger.NewWithWriters("info", "dev", stdout, stderr)
			log.Error("connection failed", slog.String("err", "boom"))

			Expect(stderr.String()).To(ContainSubstring("connection failed"))
			Expect(stdout.Len()).To(BeZero())
		})

		It("keeps attributes added with With on both streams", func() {
			log := logger.NewWithWriters("info", "dev", stdout, stderr).With(slog.String("remote", "10.0.0.1:5555"))
			log.Info("accepted")
			log.Error("dropped")

			Expect(stdout.String()).To(ContainSubstring("remote=10.0.0.1:5555"))
			Expect(stderr.String()).To(ContainSubstring("remote=10.0.0.1:5555"))
		})
	})

	Describe("prod environment", func() {
		It("emits JSON records", func() {
			log := logger.NewWithWriters("info", "prod", stdout, stderr)
			log.Info("forwarding", slog.String("target", "93.184.216.34:80"))

			var rec map[string]any
			Expect(json.Unmarshal(stdout.Bytes(), &rec)).To(Succeed())
			Expect(rec).To(HaveKeyWithValue("msg", "forwarding"))
			Expect(rec).To(HaveKeyWithValue("environment", "prod"))
			Expect(rec).To(HaveKeyWithValue("target", "93.184.216.34:80"))
		})
	})
})
