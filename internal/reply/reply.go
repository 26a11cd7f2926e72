// Package reply renders the SplitOn bot responses without touching Telegram.
package reply

import (
	"time"
)

// AppURL opens the SplitOn mini app inside Telegram.
const AppURL = "https://t.me/SplitOn_ton_bot/SplitOn"

const (
	welcomeText = `🎉 Bem-vindo ao SplitOn!

Divida suas contas de forma fácil e rápida com seus amigos.

Clique no botão abaixo para abrir o app:`

	openAppLabel = "🚀 Abrir SplitOn"

	helpText = `ℹ️ Como usar o SplitOn:

1. Clique em "Abrir SplitOn"
2. Cadastre suas despesas
3. Adicione seus amigos
4. Divida as contas automaticamente

Digite /start para voltar ao início.`

	fallbackText = "🤔 Não entendi esse comando. Digite /help para ver as opções."
)

// Identity is the user that sent a command, as reported by the transport.
type Identity struct {
	ID          int64
	DisplayName string
}

// Button is an inline button that opens URL.
type Button struct {
	Label string
	URL   string
}

// Response is what the transport sends back to the chat.
type Response struct {
	Text    string
	Buttons []Button
}

// Record is a diagnostic event handed to a Sink.
type Record struct {
	Event       string
	UserID      int64
	DisplayName string
	At          time.Time
}

// Sink accepts telemetry records. Emit must not block the caller.
type Sink interface {
	Emit(Record)
}

type discard struct{}

func (discard) Emit(Record) {}

// Renderer builds the bot's responses. It never talks to Telegram.
type Renderer struct {
	sink Sink
	now  func() time.Time
}

// NewRenderer returns a Renderer reporting to sink. A nil sink discards.
func NewRenderer(sink Sink) *Renderer {
	if sink == nil {
		sink = discard{}
	}
	return &Renderer{sink: sink, now: time.Now}
}

// Welcome answers /start.
func (r *Renderer) Welcome(id Identity) Response {
	r.emit(Record{Event: "start", UserID: id.ID, DisplayName: id.DisplayName})

	return Response{
		Text:    welcomeText,
		Buttons: []Button{{Label: openAppLabel, URL: AppURL}},
	}
}

// Help answers /help.
func (r *Renderer) Help(Identity) Response {
	return Response{Text: helpText}
}

// Fallback is sent for commands nobody registered.
func Fallback() Response {
	return Response{Text: fallbackText}
}

// emit swallows sink panics so telemetry never breaks a reply.
func (r *Renderer) emit(rec Record) {
	defer func() { _ = recover() }()
	rec.At = r.now()
	r.sink.Emit(rec)
}
