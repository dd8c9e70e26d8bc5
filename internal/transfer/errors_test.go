package transfer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passkey-wallet-gateway/internal/models"
	"passkey-wallet-gateway/internal/wallet"
)

func TestClassifyProviderCodes(t *testing.T) {
	cases := []struct {
		code string
		want Kind
	}{
		{wallet.CodeUserRejected, KindSigningRejected},
		{wallet.CodeCeremonyFailed, KindSigningFailed},
		{wallet.CodeCeremonyTimeout, KindSigningFailed},
		{wallet.CodeTxTooLarge, KindTransactionTooLarge},
		{wallet.CodeAccountNotFound, KindAccountNotFunded},
		{wallet.CodeSponsorRejected, KindSimulationFailed},
		{wallet.CodeSimulationFailed, KindSimulationFailed},
	}

	for _, tc := range cases {
		err := &wallet.ProviderError{Code: tc.code, Message: "whatever the portal said"}
		classified := Classify(err)
		assert.Equal(t, tc.want, classified.Kind, "code %s", tc.code)
	}
}

func TestClassifyWrappedProviderError(t *testing.T) {
	// Codes must survive wrapping on the way up.
	err := fmt.Errorf("sign and submit: %w", &wallet.ProviderError{
		Code:    wallet.CodeUserRejected,
		Message: "User rejected the request",
	})

	classified := Classify(err)
	assert.Equal(t, KindSigningRejected, classified.Kind)
}

func TestClassifyRPCErrors(t *testing.T) {
	cases := []struct {
		name string
		err  *models.RPCError
		want Kind
	}{
		{
			name: "insufficient lamports",
			err:  &models.RPCError{Code: -32002, Message: "Transaction simulation failed: Transfer: insufficient lamports 100, need 200"},
			want: KindInsufficientFundsChain,
		},
		{
			name: "custom program error",
			err:  &models.RPCError{Code: -32002, Message: "Transaction simulation failed: Error processing Instruction 0: custom program error: 0x1"},
			want: KindInsufficientFundsChain,
		},
		{
			name: "account not found",
			err:  &models.RPCError{Code: -32002, Message: "Transaction simulation failed: Attempt to debit an account but found no record of a prior credit. AccountNotFound"},
			want: KindAccountNotFunded,
		},
		{
			name: "simulation failure",
			err:  &models.RPCError{Code: -32002, Message: "Transaction simulation failed: Blockhash not found"},
			want: KindSimulationFailed,
		},
		{
			name: "too large",
			err:  &models.RPCError{Code: -32600, Message: "base64 encoded transaction too large: 1700 bytes"},
			want: KindTransactionTooLarge,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			classified := Classify(tc.err)
			assert.Equal(t, tc.want, classified.Kind)
		})
	}
}

func TestClassifySubstringFallback(t *testing.T) {
	// Flattened errors with no structure left, matched on wording alone.
	cases := []struct {
		msg  string
		want Kind
	}{
		{"User rejected the request", KindSigningRejected},
		{"signing failed: user cancelled", KindSigningRejected},
		{"WebAuthn assertion error", KindSigningFailed},
		{"passkey authentication expired", KindSigningFailed},
		{"transaction too large for wire format", KindTransactionTooLarge},
		{"insufficient funds for rent", KindInsufficientFundsChain},
		{"could not find account", KindAccountNotFunded},
		{"preflight simulation failed", KindSimulationFailed},
		{"connection reset by peer", KindUnknown},
	}

	for _, tc := range cases {
		classified := Classify(errors.New(tc.msg))
		assert.Equal(t, tc.want, classified.Kind, "message %q", tc.msg)
	}
}

func TestClassifyPassesThroughClassifiedErrors(t *testing.T) {
	max := uint64(999_000_000)
	original := &Error{Kind: KindBelowReserveThreshold, Message: "too much", MaxSendable: &max}

	classified := Classify(fmt.Errorf("validate: %w", original))

	require.Equal(t, KindBelowReserveThreshold, classified.Kind)
	require.NotNil(t, classified.MaxSendable)
	assert.Equal(t, max, *classified.MaxSendable)
}

func TestClassifyNil(t *testing.T) {
	assert.Nil(t, Classify(nil))
}

func TestUserMessages(t *testing.T) {
	rejected := &Error{Kind: KindSigningRejected, Message: "raw"}
	assert.Equal(t, "Transaction was cancelled.", rejected.UserMessage())

	max := uint64(999_000_000)
	reserve := &Error{Kind: KindBelowReserveThreshold, Message: "raw", MaxSendable: &max}
	assert.Contains(t, reserve.UserMessage(), "0.999")
}
