package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/eliseohh/splitonbot/internal/bot"
	"github.com/eliseohh/splitonbot/internal/command"
	"github.com/eliseohh/splitonbot/internal/config"
	"github.com/eliseohh/splitonbot/internal/logctx"
	"github.com/eliseohh/splitonbot/internal/reply"
	"github.com/eliseohh/splitonbot/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, config.ErrMissingToken) {
			fmt.Fprintln(os.Stderr, "❌ Erro: BOT_TOKEN não encontrado nas variáveis de ambiente!")
			fmt.Fprintln(os.Stderr, "Configure a variável BOT_TOKEN antes de iniciar o bot.")
		} else {
			fmt.Fprintf(os.Stderr, "❌ Erro: %v\n", err)
		}
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	token, err := config.RequireToken(cfg)
	if err != nil {
		return err
	}

	logger := logctx.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logctx.New(ctx, logger)

	sinks := telemetry.Multi{telemetry.LogSink{Logger: logger}}
	if cfg.AuditDB != "" {
		rec, err := telemetry.Open(ctx, cfg.AuditDB)
		if err != nil {
			return fmt.Errorf("audit db: %w", err)
		}
		defer func() {
			if err := rec.Close(); err != nil {
				logger.Warn("audit db close failed", "error", err)
			}
			if n := rec.Dropped(); n > 0 {
				logger.Warn("audit records dropped", "count", n)
			}
		}()
		sinks = append(sinks, rec)
	}

	registry, err := newRegistry(reply.NewRenderer(sinks))
	if err != nil {
		return err
	}

	b, err := bot.New(ctx, bot.Config{Token: token, PollTimeout: cfg.PollTimeout}, registry)
	if err != nil {
		return fmt.Errorf("bot init: %w", err)
	}
	if err := b.PublishCommands(); err != nil {
		logger.Warn("could not publish command menu", "error", err)
	}

	go func() {
		<-ctx.Done()
		logctx.Logger(ctx).Info("shutting down")
		b.Stop()
	}()

	fmt.Println("🤖 Bot SplitOn iniciado!")
	fmt.Println("Pressione Ctrl+C para parar.")
	b.Start()
	return nil
}

func newRegistry(r *reply.Renderer) (*command.Registry, error) {
	reg := command.NewRegistry()
	if err := reg.Register(command.Command{Name: "start", Description: "Abrir o SplitOn"}, r.Welcome); err != nil {
		return nil, err
	}
	if err := reg.Register(command.Command{Name: "help", Description: "Como usar o SplitOn"}, r.Help); err != nil {
		return nil, err
	}
	return reg, nil
}
