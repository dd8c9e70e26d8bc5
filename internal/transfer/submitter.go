package transfer

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/rs/zerolog"

	"passkey-wallet-gateway/internal/events"
	"passkey-wallet-gateway/internal/models"
	"passkey-wallet-gateway/internal/wallet"
)

// Refresher is the tracker hook the submitter fires after a confirmed
// transfer.
type Refresher interface {
	RefreshNow(ctx context.Context)
}

// Outcome is the terminal result of one submission attempt: either a
// signature or a classified error, never both.
type Outcome struct {
	Signature   string    `json:"signature,omitempty"`
	ExplorerURL string    `json:"explorerUrl,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
	Err         *Error    `json:"-"`
}

// Submitter turns a validated transfer into one system-program transfer
// instruction and delegates signing and submission to the capability
// provider. It performs no retries and holds no queue: a failed attempt is
// terminal and needs fresh user intent.
type Submitter struct {
	tracker Refresher
	emitter events.Emitter
	logger  *zerolog.Logger
}

func NewSubmitter(tracker Refresher, emitter events.Emitter, logger *zerolog.Logger) *Submitter {
	return &Submitter{
		tracker: tracker,
		emitter: emitter,
		logger:  logger,
	}
}

// Submit runs one submission attempt to completion. The provider call
// suspends through the passkey ceremony and network confirmation. On
// success the balance refresh is issued before the outcome is returned, so
// a rendered success never shows the pre-transfer balance.
func (s *Submitter) Submit(ctx context.Context, validated ValidatedTransfer, provider wallet.Provider) Outcome {
	from, ok := provider.Account()
	if !ok {
		return Outcome{
			SubmittedAt: time.Now().UTC(),
			Err:         &Error{Kind: KindNotConnected, Message: "no active account"},
		}
	}

	instruction := system.NewTransferInstruction(
		validated.Lamports,
		from,
		validated.Recipient,
	).Build()

	sig, err := provider.SignAndSubmit(ctx, instruction)
	if err != nil {
		classified := Classify(err)
		s.logger.Warn().
			Str("provider", provider.Name()).
			Str("kind", string(classified.Kind)).
			Err(err).
			Msg("Transfer submission failed")
		return Outcome{
			SubmittedAt: time.Now().UTC(),
			Err:         classified,
		}
	}

	// Refresh before the success outcome is recorded (ordering guarantee).
	s.tracker.RefreshNow(ctx)

	outcome := Outcome{
		Signature:   sig.String(),
		ExplorerURL: provider.ExplorerURL(sig.String()),
		SubmittedAt: time.Now().UTC(),
	}

	if emitErr := s.emitter.EmitEvent(models.TransferEvent{
		Provider:    provider.Name(),
		From:        from.String(),
		To:          validated.Recipient.String(),
		Amount:      FormatSOL(validated.Lamports),
		Signature:   outcome.Signature,
		Timestamp:   outcome.SubmittedAt,
		ExplorerURL: outcome.ExplorerURL,
	}); emitErr != nil {
		s.logger.Error().Err(emitErr).Msg("Error emitting transfer event")
	}

	return outcome
}
