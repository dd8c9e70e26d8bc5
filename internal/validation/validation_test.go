package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateAddress(t *testing.T) {
	valid := []string{
		"So11111111111111111111111111111111111111112",
		"11111111111111111111111111111111",
		"TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
	}
	for _, addr := range valid {
		assert.NoError(t, ValidateAddress(addr), "address %q", addr)
	}

	invalid := []string{
		"",
		"short",
		"0x52908400098527886E0F7030069857D2E4169EE7",
		"So1111111111111111111111111111111111111O112",
		"1111111111111111111111111111111111111111111111111111", // too long
	}
	for _, addr := range invalid {
		assert.Error(t, ValidateAddress(addr), "address %q", addr)
	}
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(decimal.RequireFromString("0.5")))
	assert.NoError(t, ValidateAmount(decimal.RequireFromString("999999999")))

	assert.Error(t, ValidateAmount(decimal.Zero))
	assert.Error(t, ValidateAmount(decimal.RequireFromString("-1")))
	assert.Error(t, ValidateAmount(decimal.RequireFromString("1000000001")))
}

func TestValidateSignature(t *testing.T) {
	assert.NoError(t, ValidateSignature("5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW"))

	assert.Error(t, ValidateSignature(""))
	assert.Error(t, ValidateSignature("So11111111111111111111111111111111111111112"))
	assert.Error(t, ValidateSignature("not!base58"))
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("https://api.devnet.solana.com"))
	assert.NoError(t, ValidateURL("http://localhost:8899"))

	assert.Error(t, ValidateURL(""))
	assert.Error(t, ValidateURL("not a url"))
	assert.Error(t, ValidateURL("ftp://example.com"))
}
