package wallet

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// ConnectionState tracks the lifecycle of a wallet connection. It is owned
// by the provider; everything else only reads it.
type ConnectionState string

const (
	Disconnected ConnectionState = "disconnected"
	Connecting   ConnectionState = "connecting"
	Connected    ConnectionState = "connected"
)

// Provider is the capability contract every wallet integration satisfies,
// so the transfer workflow stays implementation-agnostic.
type Provider interface {
	// Name identifies the integration variant ("direct", "standard").
	Name() string

	State() ConnectionState

	// Account returns the spendable smart-wallet account, present only
	// while connected.
	Account() (solana.PublicKey, bool)

	// Connect performs the passkey connect ceremony and resolves the
	// smart-wallet account.
	Connect(ctx context.Context) (solana.PublicKey, error)

	Disconnect(ctx context.Context) error

	// SignAndSubmit signs and submits a single instruction. It suspends
	// until the out-of-process passkey ceremony and network confirmation
	// complete or fail.
	SignAndSubmit(ctx context.Context, instruction solana.Instruction) (solana.Signature, error)

	// ExplorerURL returns a block explorer link for a submitted signature.
	ExplorerURL(signature string) string
}

// ProviderError is the structured error surface shared by the portal and
// the paymaster. Classification matches on Code; Message is what the
// service rendered for the user.
type ProviderError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes reported by the portal and paymaster services.
const (
	CodeUserRejected     = "USER_REJECTED"
	CodeCeremonyFailed   = "CEREMONY_FAILED"
	CodeCeremonyTimeout  = "CEREMONY_TIMEOUT"
	CodeTxTooLarge       = "TRANSACTION_TOO_LARGE"
	CodeAccountNotFound  = "ACCOUNT_NOT_FOUND"
	CodeSponsorRejected  = "SPONSOR_REJECTED"
	CodeSimulationFailed = "SIMULATION_FAILED"
)

// EncodeTransaction assembles a single-instruction transaction against the
// given blockhash and returns it base64 encoded, ready for the portal's
// signing endpoint.
func EncodeTransaction(instruction solana.Instruction, payer solana.PublicKey, blockhash solana.Hash) (string, error) {
	tx, err := solana.NewTransaction(
		[]solana.Instruction{instruction},
		blockhash,
		solana.TransactionPayer(payer),
	)
	if err != nil {
		return "", fmt.Errorf("failed to build transaction: %w", err)
	}

	wire, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("failed to serialize transaction: %w", err)
	}

	return base64.StdEncoding.EncodeToString(wire), nil
}
