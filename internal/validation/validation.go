package validation

import (
	"errors"
	"regexp"

	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"
)

// ValidateAddress validates a Solana account address: base58 text decoding
// to exactly 32 bytes (an Ed25519 public key).
func ValidateAddress(address string) error {
	if address == "" {
		return errors.New("address cannot be empty")
	}

	if len(address) < 32 || len(address) > 44 {
		return errors.New("address length is invalid")
	}

	raw, err := base58.Decode(address)
	if err != nil {
		return errors.New("address is not valid base58")
	}
	if len(raw) != 32 {
		return errors.New("address must decode to a 32-byte public key")
	}

	return nil
}

// ValidateAmount validates that an amount is positive and within reasonable
// bounds.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return errors.New("amount must be positive")
	}

	// Total SOL supply is well under 1 billion
	maxAmount := decimal.NewFromInt(1_000_000_000)
	if amount.Cmp(maxAmount) > 0 {
		return errors.New("amount exceeds maximum allowed value")
	}

	return nil
}

// ValidateSignature validates a transaction signature: base58 text decoding
// to a 64-byte Ed25519 signature.
func ValidateSignature(signature string) error {
	if signature == "" {
		return errors.New("signature cannot be empty")
	}

	raw, err := base58.Decode(signature)
	if err != nil {
		return errors.New("signature is not valid base58")
	}
	if len(raw) != 64 {
		return errors.New("signature must decode to 64 bytes")
	}

	return nil
}

var urlRegex = regexp.MustCompile(`^https?://[^\s/$.?#].[^\s]*$`)

// ValidateURL validates URL format
func ValidateURL(url string) error {
	if url == "" {
		return errors.New("URL cannot be empty")
	}

	if !urlRegex.MatchString(url) {
		return errors.New("invalid URL format")
	}

	return nil
}
