package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/eliseohh/splitonbot/internal/command"
	"github.com/eliseohh/splitonbot/internal/logctx"
	"github.com/eliseohh/splitonbot/internal/reply"
)

type Bot struct {
	api      *tele.Bot
	registry *command.Registry
	logger   *slog.Logger
}

type Config struct {
	Token       string
	PollTimeout time.Duration

	// URL overrides the Bot API endpoint. Offline skips the getMe call.
	URL         string
	Offline     bool
	Synchronous bool
}

// New builds the telebot client. It logs through the logger carried by ctx.
func New(ctx context.Context, cfg Config, registry *command.Registry) (*Bot, error) {
	logger := logctx.Logger(ctx)
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 10 * time.Second
	}

	bot := &Bot{registry: registry, logger: logger}

	pref := tele.Settings{
		Token:       cfg.Token,
		URL:         cfg.URL,
		Offline:     cfg.Offline,
		Synchronous: cfg.Synchronous,
		Poller:      &tele.LongPoller{Timeout: cfg.PollTimeout},
		OnError:     bot.onError,
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}

	bot.api = b
	bot.register()
	return bot, nil
}

// Start blocks on the long-poll loop until Stop is called.
func (b *Bot) Start() {
	b.logger.Info("bot started", "username", b.api.Me.Username)
	b.api.Start()
}

func (b *Bot) Stop() {
	b.api.Stop()
}

// PublishCommands sets the chat command menu from the registry.
func (b *Bot) PublishCommands() error {
	var cmds []tele.Command
	for _, c := range b.registry.Commands() {
		cmds = append(cmds, tele.Command{Text: c.Name, Description: c.Description})
	}
	return b.api.SetCommands(cmds)
}

func (b *Bot) register() {
	for _, c := range b.registry.Commands() {
		b.api.Handle("/"+c.Name, b.handleCommand)
	}

	// Unregistered commands land here too.
	b.api.Handle(tele.OnText, b.handleText)
}

func (b *Bot) handleCommand(c tele.Context) error {
	return b.dispatch(c, commandName(c.Message().Text))
}

// handleText answers unknown commands with the fallback and ignores free text.
func (b *Bot) handleText(c tele.Context) error {
	text := strings.TrimSpace(c.Message().Text)
	if !strings.HasPrefix(text, "/") {
		return nil
	}
	return b.dispatch(c, commandName(text))
}

func (b *Bot) dispatch(c tele.Context, name string) error {
	id := identityOf(c.Sender())

	resp, err := b.registry.Dispatch(name, id)
	if errors.Is(err, command.ErrUnknownCommand) {
		b.logger.Debug("unknown command", "command", name, "user_id", id.ID)
		resp = reply.Fallback()
	} else if err != nil {
		return err
	}

	if markup := markupFor(resp); markup != nil {
		return c.Send(resp.Text, markup)
	}
	return c.Send(resp.Text)
}

func (b *Bot) onError(err error, c tele.Context) {
	args := []any{"error", err}
	if c != nil && c.Sender() != nil {
		args = append(args, "user_id", c.Sender().ID)
	}
	b.logger.Error("update failed", args...)
}

// commandName turns "/start@SplitOn_ton_bot payload" into "start".
func commandName(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	name := strings.TrimPrefix(fields[0], "/")
	name, _, _ = strings.Cut(name, "@")
	return name
}

func identityOf(u *tele.User) reply.Identity {
	if u == nil {
		return reply.Identity{}
	}
	return reply.Identity{ID: u.ID, DisplayName: u.FirstName}
}

func markupFor(resp reply.Response) *tele.ReplyMarkup {
	if len(resp.Buttons) == 0 {
		return nil
	}

	m := &tele.ReplyMarkup{}
	row := make([]tele.Btn, 0, len(resp.Buttons))
	for _, btn := range resp.Buttons {
		row = append(row, m.URL(btn.Label, btn.URL))
	}
	m.Inline(m.Row(row...))
	return m
}
