package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/KING-JAGUAR05/whatsapp-ai-bot/internal/api"
	"github.com/KING-JAGUAR05/whatsapp-ai-bot/internal/config"
	"github.com/KING-JAGUAR05/whatsapp-ai-bot/internal/inference"
	"github.com/KING-JAGUAR05/whatsapp-ai-bot/internal/ledger"
	"github.com/KING-JAGUAR05/whatsapp-ai-bot/internal/reply"
	"github.com/KING-JAGUAR05/whatsapp-ai-bot/internal/whatsapp"
)

func main() {
	slog.Info("Starting whatsapp-agent-svc")

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found or error loading it", "error", err)
	}

	var cfg config.Config
	if err := envconfig.Process("", &cfg); err != nil {
		slog.Error("Failed to process config", "error", err)
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err == nil {
		opts := &slog.HandlerOptions{Level: level}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, opts))
		slog.SetDefault(logger)
	}

	slog.Info("Starting WhatsApp AI Agent Service",
		"port", cfg.Port,
		"business", cfg.BusinessName,
		"model_url", cfg.InferenceModelURL,
	)

	waClient := whatsapp.NewClient(cfg.WhatsAppToken, logger)
	inferenceClient := inference.NewClient(cfg.HuggingFaceToken, cfg.InferenceModelURL, logger)
	replyGen := reply.NewGenerator(inferenceClient, cfg.BusinessName, cfg.SupportEmail, logger)

	customerLedger := setupLedger(cfg, logger)

	status := api.ServiceStatus{
		WhatsAppToken:  cfg.WhatsAppToken != "",
		InferenceToken: cfg.HuggingFaceToken != "",
	}
	handler := api.NewHandler(waClient, replyGen, customerLedger, cfg.VerifyToken, cfg.BusinessName, status, logger)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mux,
	}

	go func() {
		slog.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server failed", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	slog.Info("Received signal, shutting down", "signal", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", "error", err)
	}

	slog.Info("Service shutdown complete")
}

// setupLedger connects the spreadsheet ledger when configured. The service
// runs degraded without it; the health endpoint reports the difference.
func setupLedger(cfg config.Config, logger *slog.Logger) api.Ledger {
	if cfg.GoogleSheetID == "" {
		slog.Info("Google Sheets not configured, customer ledger disabled")
		return nil
	}

	creds := ledger.Credentials{
		ProjectID:    cfg.GoogleProjectID,
		PrivateKeyID: cfg.GooglePrivateKeyID,
		PrivateKey:   cfg.GooglePrivateKey,
		ClientEmail:  cfg.GoogleClientEmail,
		ClientID:     cfg.GoogleClientID,
	}

	ctx := context.Background()
	client, err := ledger.NewClient(ctx, creds, cfg.GoogleSheetID, logger)
	if err != nil {
		slog.Error("Failed to connect Google Sheets, customer ledger disabled", "error", err)
		return nil
	}

	if err := client.EnsureHeaders(ctx); err != nil {
		slog.Error("Failed to ensure ledger headers", "error", err)
	}

	slog.Info("Google Sheets connected successfully", "sheet_id", cfg.GoogleSheetID)
	return client
}
