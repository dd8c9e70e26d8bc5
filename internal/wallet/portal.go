package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
)

// PortalClient talks to the passkey signing portal. Signing requests carry
// no client-side timeout: the ceremony suspends until the user confirms or
// declines on their authenticator, which can take arbitrarily long. Callers
// cancel through the context.
type PortalClient struct {
	BaseURL    string
	Logger     *zerolog.Logger
	HTTPClient *http.Client
}

func NewPortalClient(baseURL string, logger *zerolog.Logger) *PortalClient {
	return &PortalClient{
		BaseURL: baseURL,
		Logger:  logger,
		HTTPClient: &http.Client{
			Transport: http.DefaultTransport,
		},
	}
}

type connectResponse struct {
	Account string `json:"account"`
}

type signRequest struct {
	Transaction string `json:"transaction"`
}

type signResponse struct {
	Transaction string `json:"transaction"`
}

// ConnectAccount runs the passkey connect ceremony and returns the
// smart-wallet account derived for the authenticated passkey.
func (p *PortalClient) ConnectAccount(ctx context.Context) (solana.PublicKey, error) {
	var resp connectResponse
	if err := p.post(ctx, "/v1/accounts/connect", struct{}{}, &resp); err != nil {
		return solana.PublicKey{}, err
	}

	account, err := solana.PublicKeyFromBase58(resp.Account)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("portal returned invalid account %q: %w", resp.Account, err)
	}

	return account, nil
}

// SignTransaction submits a base64 transaction for the passkey signing
// ceremony and returns the signed transaction, also base64.
func (p *PortalClient) SignTransaction(ctx context.Context, txBase64 string) (string, error) {
	var resp signResponse
	if err := p.post(ctx, "/v1/transactions/sign", signRequest{Transaction: txBase64}, &resp); err != nil {
		return "", err
	}

	if resp.Transaction == "" {
		return "", fmt.Errorf("portal returned an empty signed transaction")
	}

	return resp.Transaction, nil
}

// post sends a JSON request and decodes either the success body or the
// portal's structured error envelope.
func (p *PortalClient) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	p.Logger.Debug().
		Str("url", p.BaseURL+path).
		Msg("Calling passkey portal")

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		var perr ProviderError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&perr); decodeErr == nil && perr.Code != "" {
			return &perr
		}
		return fmt.Errorf("portal HTTP error: %d - %s", resp.StatusCode, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode portal response: %w", err)
	}

	return nil
}
