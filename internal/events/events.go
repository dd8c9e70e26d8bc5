package events

import (
	"github.com/rs/zerolog"

	"passkey-wallet-gateway/internal/models"
)

// Emitter is the sink for confirmed transfer events.
type Emitter interface {
	EmitEvent(event models.TransferEvent) error
}

// LogEmitter logs every transfer event and forwards it to the wrapped
// emitter, if any.
type LogEmitter struct {
	WrappedEmitter Emitter
	Logger         *zerolog.Logger
}

func (l *LogEmitter) EmitEvent(event models.TransferEvent) error {
	l.Logger.Info().
		Str("provider", event.Provider).
		Str("from", event.From).
		Str("to", event.To).
		Str("amount", event.Amount).
		Str("signature", event.Signature).
		Str("explorer", event.ExplorerURL).
		Time("timestamp", event.Timestamp).
		Msg("Transfer confirmed")

	if l.WrappedEmitter != nil {
		return l.WrappedEmitter.EmitEvent(event)
	}
	return nil
}
