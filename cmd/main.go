package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"passkey-wallet-gateway/internal/api"
	"passkey-wallet-gateway/internal/balance"
	"passkey-wallet-gateway/internal/config"
	"passkey-wallet-gateway/internal/emitters"
	"passkey-wallet-gateway/internal/events"
	"passkey-wallet-gateway/internal/health"
	"passkey-wallet-gateway/internal/logger"
	"passkey-wallet-gateway/internal/rpc"
	"passkey-wallet-gateway/internal/transfer"
	"passkey-wallet-gateway/internal/validation"
	"passkey-wallet-gateway/internal/wallet"
	"passkey-wallet-gateway/internal/wallet/direct"
	"passkey-wallet-gateway/internal/wallet/standard"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			logger.GetLogger().Error().Interface("panic", r).Msg("Application panicked, recovering")
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.GetLogger().Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.LogLevel)
	log := logger.GetLogger()

	for name, url := range map[string]string{
		"RPC endpoint": cfg.Solana.RpcEndpoint,
		"portal":       cfg.Portal.URL,
		"paymaster":    cfg.Paymaster.URL,
		"explorer":     cfg.Explorer.BaseURL,
	} {
		if err := validation.ValidateURL(url); err != nil {
			log.Fatal().Err(err).Str("service", name).Msg("Invalid service URL")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rpcClient := rpc.NewClient(
		cfg.Solana.RpcEndpoint,
		cfg.Solana.ApiKey,
		cfg.Solana.Commitment,
		cfg.Solana.RateLimit,
		cfg.MaxRetries,
		cfg.RetryDelay,
		cfg.HTTP.Timeout,
		log,
	)
	defer rpcClient.Close()

	portal := wallet.NewPortalClient(cfg.Portal.URL, log)

	kafkaEmitter := emitters.NewKafkaEmitter(
		cfg.Kafka.BrokerAddress,
		cfg.Kafka.Topic,
		cfg.Kafka.BatchSize,
		cfg.Kafka.BatchTimeout,
	)
	defer func() {
		_ = kafkaEmitter.Close()
	}()

	emitter := &events.LogEmitter{
		WrappedEmitter: kafkaEmitter,
		Logger:         log,
	}

	directProvider := direct.NewProvider(
		portal,
		rpcClient,
		cfg.Paymaster.URL,
		cfg.HTTP.Timeout,
		cfg.Explorer.BaseURL,
		cfg.Explorer.Cluster,
		log,
	)

	standardProvider := standard.NewProvider(
		portal,
		rpcClient,
		cfg.Explorer.BaseURL,
		cfg.Explorer.Cluster,
		log,
	)

	registry := wallet.NewRegistry()
	if err := registry.Register(directProvider); err != nil {
		log.Fatal().Err(err).Msg("Failed to register direct wallet")
	}
	if err := standard.Register(registry, standardProvider); err != nil {
		log.Fatal().Err(err).Msg("Failed to register standard wallet")
	}

	workflows := make(map[string]*api.Workflow)
	for _, name := range registry.Names() {
		provider, _ := registry.Get(name)
		tracker := balance.NewTracker(rpcClient.GetBalance, cfg.Balance.PollInterval, log)
		submitter := transfer.NewSubmitter(tracker, emitter, log)
		workflows[name] = api.NewWorkflow(provider, tracker, submitter)
	}
	defer func() {
		for _, wf := range workflows {
			wf.Tracker.Unwatch()
		}
	}()

	health.RegisterSlotWatcher(ctx, "solana", rpcClient.GetSlot)
	health.SetReady(true)

	handler := api.NewHandler(ctx, workflows, log)
	server := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: handler.Routes(),
	}

	go func() {
		log.Info().
			Str("addr", cfg.ServerAddr).
			Strs("wallets", registry.Names()).
			Msg("Starting wallet gateway")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	health.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Wallet gateway stopped")
}
