package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/echomind/echomind/internal/config"
	"github.com/echomind/echomind/internal/handler"
	"github.com/echomind/echomind/internal/logging"
	"github.com/echomind/echomind/internal/service/ai"
	emotionservice "github.com/echomind/echomind/internal/service/emotion"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Setup(cfg.Log, os.Stderr)

	if envErr != nil {
		log.Warn().Err(envErr).Msg("no .env file loaded, continuing with system environment variables only")
	}

	deps := handler.Dependencies{AllowedOrigins: cfg.Server.AllowedOrigins}

	var chatModel model.ChatModel
	if cfg.AI.Enabled() {
		chatModel, err = cfg.AI.NewChatModel(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("failed to create chat model, /chat will answer 503")
		}
	} else {
		log.Warn().Msg("Ark credentials not configured, /chat will answer 503")
	}

	if chatModel != nil {
		aiService, err := ai.NewService(ctx, chatModel)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize AI service")
		} else {
			deps.Responder = aiService
			log.Info().Msg("AI service initialized")
		}
	}

	emotionCfg := emotionservice.Config{
		Enabled: cfg.Emotion.LLMEnabled,
		TopK:    cfg.Emotion.TopK,
	}
	emotionSvc, err := emotionservice.NewService(ctx, chatModel, emotionCfg)
	if err != nil {
		log.Warn().Err(err).Msg("failed to build emotion classifier, using heuristics")
		emotionCfg.Enabled = false
		emotionSvc, _ = emotionservice.NewService(ctx, nil, emotionCfg)
	}
	switch {
	case emotionSvc.Enabled():
		log.Info().Msg("emotion classifier enabled")
	case cfg.Emotion.LLMEnabled:
		log.Info().Msg("emotion classifier requested but chat model unavailable, falling back to heuristics")
	default:
		log.Info().Msg("emotion classifier disabled by configuration")
	}
	deps.Analyzer = emotionSvc

	router := handler.NewRouter(deps)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr, err := serverCfg.ListenAddr()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid listen address")
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("EchoMind backend listening")
	if err := runServer(ctx, srv); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
