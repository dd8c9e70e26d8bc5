package transfer

import (
	"errors"
	"strings"

	"passkey-wallet-gateway/internal/models"
	"passkey-wallet-gateway/internal/wallet"
)

// Kind is the user-facing category of a transfer failure.
type Kind string

const (
	KindInvalidRecipient       Kind = "invalid_recipient"
	KindInvalidAmount          Kind = "invalid_amount"
	KindNotConnected           Kind = "not_connected"
	KindInsufficientBalance    Kind = "insufficient_balance"
	KindBelowReserveThreshold  Kind = "below_reserve_threshold"
	KindSigningRejected        Kind = "signing_rejected"
	KindSigningFailed          Kind = "signing_failed"
	KindTransactionTooLarge    Kind = "transaction_too_large"
	KindInsufficientFundsChain Kind = "insufficient_funds_on_chain"
	KindAccountNotFunded       Kind = "account_not_funded"
	KindSimulationFailed       Kind = "simulation_failed"
	KindUnknown                Kind = "unknown"
)

// Error is a classified transfer failure. MaxSendable is set only for
// BelowReserveThreshold, in lamports.
type Error struct {
	Kind        Kind
	Message     string
	MaxSendable *uint64
}

func (e *Error) Error() string {
	return e.Message
}

// UserMessage returns the guidance each kind carries for the user.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindInvalidRecipient:
		return "Recipient address is not valid. Please re-enter it."
	case KindInvalidAmount:
		return "Amount must be a positive number. Please re-enter it."
	case KindNotConnected:
		return "No wallet connected. Please reconnect and try again."
	case KindInsufficientBalance:
		return "Amount exceeds your current balance."
	case KindBelowReserveThreshold:
		if e.MaxSendable != nil {
			return "Amount would leave the account below the rent-exempt reserve. Maximum sendable: " + FormatSOL(*e.MaxSendable) + " SOL."
		}
		return "Amount would leave the account below the rent-exempt reserve."
	case KindSigningRejected:
		return "Transaction was cancelled."
	case KindSigningFailed:
		return "Passkey signing failed. Please re-authenticate and try again."
	case KindTransactionTooLarge:
		return "Transaction is too large. Try a smaller amount."
	case KindInsufficientFundsChain:
		return "The network rejected the transfer for insufficient funds. Top up via the faucet and try again."
	case KindAccountNotFunded:
		return "The account has never been funded. Request devnet SOL from the faucet first."
	case KindSimulationFailed:
		return "Transaction simulation failed. Please try again."
	default:
		return "Transaction failed. Please try again."
	}
}

// Classify maps a raw submission error to the taxonomy. Structured codes
// from the portal, paymaster and RPC node are matched first; substring
// matching on the rendered message is the fallback for errors that arrive
// flattened. All wording coupling to the external services lives here.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	var perr *wallet.ProviderError
	if errors.As(err, &perr) {
		switch perr.Code {
		case wallet.CodeUserRejected:
			return &Error{Kind: KindSigningRejected, Message: perr.Message}
		case wallet.CodeCeremonyFailed, wallet.CodeCeremonyTimeout:
			return &Error{Kind: KindSigningFailed, Message: perr.Message}
		case wallet.CodeTxTooLarge:
			return &Error{Kind: KindTransactionTooLarge, Message: perr.Message}
		case wallet.CodeAccountNotFound:
			return &Error{Kind: KindAccountNotFunded, Message: perr.Message}
		case wallet.CodeSponsorRejected, wallet.CodeSimulationFailed:
			return &Error{Kind: KindSimulationFailed, Message: perr.Message}
		}
	}

	var rerr *models.RPCError
	if errors.As(err, &rerr) {
		// -32002: transaction simulation failed. The custom program error
		// and insufficient-lamports cases arrive inside its message.
		msg := strings.ToLower(rerr.Message)
		switch {
		case strings.Contains(msg, "insufficient lamports"),
			strings.Contains(msg, "custom program error: 0x1"):
			return &Error{Kind: KindInsufficientFundsChain, Message: rerr.Message}
		case strings.Contains(msg, "accountnotfound"),
			strings.Contains(msg, "could not find account"):
			return &Error{Kind: KindAccountNotFunded, Message: rerr.Message}
		case strings.Contains(msg, "too large"):
			return &Error{Kind: KindTransactionTooLarge, Message: rerr.Message}
		case rerr.Code == -32002, strings.Contains(msg, "simulation failed"):
			return &Error{Kind: KindSimulationFailed, Message: rerr.Message}
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "user rejected"),
		strings.Contains(msg, "user declined"),
		strings.Contains(msg, "user cancelled"):
		return &Error{Kind: KindSigningRejected, Message: err.Error()}
	case strings.Contains(msg, "webauthn"),
		strings.Contains(msg, "passkey"),
		strings.Contains(msg, "ceremony"):
		return &Error{Kind: KindSigningFailed, Message: err.Error()}
	case strings.Contains(msg, "too large"):
		return &Error{Kind: KindTransactionTooLarge, Message: err.Error()}
	case strings.Contains(msg, "insufficient lamports"),
		strings.Contains(msg, "insufficient funds"),
		strings.Contains(msg, "custom program error: 0x1"):
		return &Error{Kind: KindInsufficientFundsChain, Message: err.Error()}
	case strings.Contains(msg, "accountnotfound"),
		strings.Contains(msg, "could not find account"):
		return &Error{Kind: KindAccountNotFunded, Message: err.Error()}
	case strings.Contains(msg, "simulation failed"):
		return &Error{Kind: KindSimulationFailed, Message: err.Error()}
	default:
		return &Error{Kind: KindUnknown, Message: err.Error()}
	}
}
