package transfer

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"passkey-wallet-gateway/internal/validation"
)

// ReserveLamports is the minimum balance that must remain after a transfer
// to keep the account rent-exempt: 0.001 SOL.
const ReserveLamports uint64 = 1_000_000

var lamportsPerSOL = decimal.New(1, 9)

// ValidatedTransfer is a transfer request that passed validation: parsed
// recipient and the amount in lamports, so no floating point is involved
// past this point.
type ValidatedTransfer struct {
	Recipient solana.PublicKey
	Lamports  uint64
}

// Validate checks a proposed transfer against the latest known balance.
// Rules run in order and the first failure wins. When the balance is not
// known the balance rules are skipped and the network gets the final say.
func Validate(recipientRaw, amountRaw string, balanceLamports uint64, balanceKnown bool) (ValidatedTransfer, *Error) {
	recipientRaw = strings.TrimSpace(recipientRaw)
	if err := validation.ValidateAddress(recipientRaw); err != nil {
		return ValidatedTransfer{}, &Error{
			Kind:    KindInvalidRecipient,
			Message: fmt.Sprintf("invalid recipient: %v", err),
		}
	}

	recipient, err := solana.PublicKeyFromBase58(recipientRaw)
	if err != nil {
		return ValidatedTransfer{}, &Error{
			Kind:    KindInvalidRecipient,
			Message: fmt.Sprintf("invalid recipient: %v", err),
		}
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(amountRaw))
	if err != nil {
		return ValidatedTransfer{}, &Error{
			Kind:    KindInvalidAmount,
			Message: fmt.Sprintf("invalid amount %q", amountRaw),
		}
	}

	if verr := validation.ValidateAmount(amount); verr != nil {
		return ValidatedTransfer{}, &Error{
			Kind:    KindInvalidAmount,
			Message: verr.Error(),
		}
	}

	// Fixed-point scale to lamports. Anything finer than one lamport is
	// truncated; a request that truncates to zero is not a transfer.
	lamportsDec := amount.Mul(lamportsPerSOL).Truncate(0)
	lamportsBig := lamportsDec.BigInt()
	if !lamportsBig.IsUint64() {
		return ValidatedTransfer{}, &Error{
			Kind:    KindInvalidAmount,
			Message: "amount is out of range",
		}
	}
	lamports := lamportsBig.Uint64()
	if lamports == 0 {
		return ValidatedTransfer{}, &Error{
			Kind:    KindInvalidAmount,
			Message: "amount is below one lamport",
		}
	}

	if balanceKnown {
		if lamports > balanceLamports {
			return ValidatedTransfer{}, &Error{
				Kind:    KindInsufficientBalance,
				Message: fmt.Sprintf("amount %s SOL exceeds balance %s SOL", FormatSOL(lamports), FormatSOL(balanceLamports)),
			}
		}

		maxSendable := uint64(0)
		if balanceLamports > ReserveLamports {
			maxSendable = balanceLamports - ReserveLamports
		}
		if lamports > maxSendable {
			return ValidatedTransfer{}, &Error{
				Kind:        KindBelowReserveThreshold,
				Message:     fmt.Sprintf("amount %s SOL would leave less than the %s SOL reserve; maximum sendable is %s SOL", FormatSOL(lamports), FormatSOL(ReserveLamports), FormatSOL(maxSendable)),
				MaxSendable: &maxSendable,
			}
		}
	}

	return ValidatedTransfer{Recipient: recipient, Lamports: lamports}, nil
}

// FormatSOL renders a lamport amount as a decimal SOL string.
func FormatSOL(lamports uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), -9).String()
}
