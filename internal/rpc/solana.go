package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// GetBalance returns the lamport balance of an account at the client's
// commitment level.
func (c *Client) GetBalance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	resp, err := c.Call(ctx, "getBalance", []interface{}{
		account.String(),
		map[string]interface{}{
			"commitment": c.Commitment,
		},
	})
	if err != nil {
		return 0, err
	}

	var result struct {
		Value uint64 `json:"value"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return 0, fmt.Errorf("failed to parse balance: %w", err)
	}

	return result.Value, nil
}

// GetLatestBlockhash returns a recent blockhash for transaction assembly.
func (c *Client) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	resp, err := c.Call(ctx, "getLatestBlockhash", []interface{}{
		map[string]interface{}{
			"commitment": c.Commitment,
		},
	})
	if err != nil {
		return solana.Hash{}, err
	}

	var result struct {
		Value struct {
			Blockhash string `json:"blockhash"`
		} `json:"value"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return solana.Hash{}, fmt.Errorf("failed to parse blockhash: %w", err)
	}

	hash, err := solana.HashFromBase58(result.Value.Blockhash)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("invalid blockhash %q: %w", result.Value.Blockhash, err)
	}

	return hash, nil
}

// SendTransaction submits a base64-encoded signed transaction and returns
// its signature. Preflight simulation stays enabled so the node rejects
// obviously failing transactions before they hit a block.
func (c *Client) SendTransaction(ctx context.Context, txBase64 string) (solana.Signature, error) {
	resp, err := c.Call(ctx, "sendTransaction", []interface{}{
		txBase64,
		map[string]interface{}{
			"encoding":            "base64",
			"preflightCommitment": c.Commitment,
		},
	})
	if err != nil {
		return solana.Signature{}, err
	}

	var sigStr string
	if err := json.Unmarshal(resp.Result, &sigStr); err != nil {
		return solana.Signature{}, fmt.Errorf("failed to parse signature: %w", err)
	}

	sig, err := solana.SignatureFromBase58(sigStr)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("invalid signature %q: %w", sigStr, err)
	}

	return sig, nil
}

// SimulateTransaction runs a transaction through preflight simulation
// without submitting it.
func (c *Client) SimulateTransaction(ctx context.Context, txBase64 string) error {
	resp, err := c.Call(ctx, "simulateTransaction", []interface{}{
		txBase64,
		map[string]interface{}{
			"encoding":   "base64",
			"commitment": c.Commitment,
		},
	})
	if err != nil {
		return err
	}

	var result struct {
		Value struct {
			Err  interface{} `json:"err"`
			Logs []string    `json:"logs"`
		} `json:"value"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return fmt.Errorf("failed to parse simulation result: %w", err)
	}

	if result.Value.Err != nil {
		return fmt.Errorf("Transaction simulation failed: %v", result.Value.Err)
	}

	return nil
}

// GetSlot returns the current slot at the client's commitment level.
func (c *Client) GetSlot(ctx context.Context) (uint64, error) {
	resp, err := c.Call(ctx, "getSlot", []interface{}{
		map[string]interface{}{
			"commitment": c.Commitment,
		},
	})
	if err != nil {
		return 0, err
	}

	var slot uint64
	if err := json.Unmarshal(resp.Result, &slot); err != nil {
		return 0, fmt.Errorf("failed to parse slot: %w", err)
	}

	return slot, nil
}
