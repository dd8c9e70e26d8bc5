package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	goodRecipient = "So11111111111111111111111111111111111111112"
	solLamports   = uint64(1_000_000_000)
)

func TestValidateAcceptsSimpleTransfer(t *testing.T) {
	validated, err := Validate(goodRecipient, "0.5", solLamports, true)

	require.Nil(t, err)
	assert.Equal(t, uint64(500_000_000), validated.Lamports)
	assert.Equal(t, goodRecipient, validated.Recipient.String())
}

func TestValidateRejectsMalformedRecipient(t *testing.T) {
	cases := []string{
		"",
		"not-an-address",
		"0x52908400098527886E0F7030069857D2E4169EE7", // ethereum shaped
		"So1111111111111111111111111111111111111O112", // base58 forbids O
	}

	for _, recipient := range cases {
		_, err := Validate(recipient, "0.5", solLamports, true)
		require.NotNil(t, err, "recipient %q", recipient)
		assert.Equal(t, KindInvalidRecipient, err.Kind)
	}
}

func TestValidateRejectsBadAmounts(t *testing.T) {
	cases := []string{"abc", "", "-1", "0", "1e999", "0.0000000001"}

	for _, amount := range cases {
		_, err := Validate(goodRecipient, amount, solLamports, true)
		require.NotNil(t, err, "amount %q", amount)
		assert.Equal(t, KindInvalidAmount, err.Kind, "amount %q", amount)
	}
}

func TestValidateAmountCheckedBeforeBalance(t *testing.T) {
	// Amount validation must win even when the balance would also reject.
	_, err := Validate(goodRecipient, "abc", 0, true)

	require.NotNil(t, err)
	assert.Equal(t, KindInvalidAmount, err.Kind)
}

func TestValidateRejectsAmountAboveBalance(t *testing.T) {
	_, err := Validate(goodRecipient, "1.5", solLamports, true)

	require.NotNil(t, err)
	assert.Equal(t, KindInsufficientBalance, err.Kind)
}

func TestValidateEnforcesReserveThreshold(t *testing.T) {
	// balance 1.0 SOL, reserve 0.001 SOL: 0.9995 must fail with max 0.999
	_, err := Validate(goodRecipient, "0.9995", solLamports, true)

	require.NotNil(t, err)
	assert.Equal(t, KindBelowReserveThreshold, err.Kind)
	require.NotNil(t, err.MaxSendable)
	assert.Equal(t, uint64(999_000_000), *err.MaxSendable)
	assert.Equal(t, "0.999", FormatSOL(*err.MaxSendable))
}

func TestValidateAcceptsExactlyMaxSendable(t *testing.T) {
	validated, err := Validate(goodRecipient, "0.999", solLamports, true)

	require.Nil(t, err)
	assert.Equal(t, uint64(999_000_000), validated.Lamports)
}

func TestValidateReserveWithTinyBalance(t *testing.T) {
	// Balance below the reserve: nothing is sendable.
	_, err := Validate(goodRecipient, "0.0001", ReserveLamports/2, true)

	require.NotNil(t, err)
	assert.Equal(t, KindBelowReserveThreshold, err.Kind)
	require.NotNil(t, err.MaxSendable)
	assert.Equal(t, uint64(0), *err.MaxSendable)
}

func TestValidateSkipsBalanceRulesWhenUnknown(t *testing.T) {
	// Unknown balance: the network gets the final say.
	validated, err := Validate(goodRecipient, "999999", 0, false)

	require.Nil(t, err)
	assert.Equal(t, uint64(999_999_000_000_000), validated.Lamports)
}

func TestValidateLamportConversionIsExact(t *testing.T) {
	// 0.1 has no exact float64 representation; fixed-point must not drift.
	validated, err := Validate(goodRecipient, "0.1", solLamports, true)

	require.Nil(t, err)
	assert.Equal(t, uint64(100_000_000), validated.Lamports)
}

func TestFormatSOL(t *testing.T) {
	assert.Equal(t, "1", FormatSOL(1_000_000_000))
	assert.Equal(t, "0.001", FormatSOL(1_000_000))
	assert.Equal(t, "0.000000001", FormatSOL(1))
	assert.Equal(t, "0", FormatSOL(0))
}
