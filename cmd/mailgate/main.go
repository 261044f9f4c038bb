// Package main is the entry point for the mail gateway.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sehwan/mailgate/internal/compose"
	"github.com/sehwan/mailgate/internal/config"
	"github.com/sehwan/mailgate/internal/httpd"
	gatetls "github.com/sehwan/mailgate/internal/tls"
	"github.com/sehwan/mailgate/internal/transport"
	"github.com/sehwan/mailgate/internal/transport/resendapi"
	"github.com/sehwan/mailgate/internal/transport/ses"
	"github.com/sehwan/mailgate/internal/transport/stdout"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file (optional)")
	flag.Parse()

	// Load configuration
	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	setupLogger(cfg.Logging.Level)

	// Setup TLS if enabled
	tlsConfig, err := gatetls.Setup(cfg.TLS.Enabled, cfg.TLS.CertFile, cfg.TLS.KeyFile, cfg.HTTP.Listen)
	if err != nil {
		slog.Error("failed to setup TLS", "error", err)
		os.Exit(1)
	}

	// Select message delivery transport
	trans := selectTransport(cfg)

	server := httpd.New(httpd.ServerConfig{
		ListenAddr: cfg.HTTP.Listen,
		Sender: compose.Sender{
			Address: cfg.Sender.Address,
			Name:    cfg.Sender.Name,
		},
		Transport:   trans,
		AuthToken:   cfg.HTTP.AuthToken,
		MaxBodySize: cfg.HTTP.MaxBodySize,
		TLSConfig:   tlsConfig,
	})

	slog.Info("starting mailgate",
		"listen", cfg.HTTP.Listen,
		"transport", trans.Name(),
		"sender", cfg.Sender.Address,
		"auth_enabled", cfg.AuthEnabled(),
		"tls_enabled", tlsConfig != nil,
	)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		sig := <-sigCh
		slog.Info("received signal, initiating shutdown", "signal", sig)
		cancel()
	}()

	// Start the server (blocks until context is cancelled)
	if err := server.ListenAndServe(ctx); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("mailgate stopped")
}

// loadConfig loads configuration from the specified path (YAML + env override)
// or from environment variables only if no path is given.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// setupLogger configures the global slog logger with JSON output and the
// specified log level.
func setupLogger(level string) {
	var logLevel slog.Level

	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// selectTransport chooses the message delivery backend based on configuration.
// If the transport selector is set, it takes precedence. Otherwise the first
// configured backend wins: Resend, then SES, then stdout.
func selectTransport(cfg *config.Config) transport.Transport {
	switch cfg.Transport {
	case "ses":
		if !cfg.SESConfigured() {
			slog.Error("SES transport selected but SES_REGION is required")
			os.Exit(1)
		}
		slog.Info("using AWS SES transport", "region", cfg.SES.Region)
		return newSESTransport(cfg)

	case "resend":
		if !cfg.ResendConfigured() {
			slog.Error("Resend transport selected but RESEND_API_KEY is required")
			os.Exit(1)
		}
		slog.Info("using Resend transport")
		return resendapi.New(resendapi.Config{APIKey: cfg.Resend.APIKey})

	case "stdout":
		slog.Info("using stdout transport")
		return stdout.New()

	case "":
		// Auto-detection fallback
		if cfg.ResendConfigured() {
			slog.Info("using Resend transport (auto-detected)")
			return resendapi.New(resendapi.Config{APIKey: cfg.Resend.APIKey})
		}
		if cfg.SESConfigured() {
			slog.Info("using AWS SES transport (auto-detected)", "region", cfg.SES.Region)
			return newSESTransport(cfg)
		}
		slog.Info("no transport configured, using stdout transport")
		return stdout.New()

	default:
		slog.Error("unknown transport", "transport", cfg.Transport)
		os.Exit(1)
		return nil
	}
}

func newSESTransport(cfg *config.Config) transport.Transport {
	t, err := ses.New(context.Background(), ses.Config{
		Region:          cfg.SES.Region,
		AccessKeyID:     cfg.SES.AccessKeyID,
		SecretAccessKey: cfg.SES.SecretAccessKey,
	})
	if err != nil {
		slog.Error("failed to create SES transport", "error", err)
		os.Exit(1)
	}
	return t
}
