// Package direct implements the vendor-direct wallet integration: signing
// through the passkey portal, submission through the paymaster so the user
// never pays fees.
package direct

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"passkey-wallet-gateway/internal/rpc"
	"passkey-wallet-gateway/internal/wallet"
)

var _ wallet.Provider = (*Provider)(nil)

// Provider is the vendor-direct capability provider.
type Provider struct {
	portal       *wallet.PortalClient
	rpc          *rpc.Client
	paymasterURL string
	httpClient   *http.Client
	explorerBase string
	cluster      string
	logger       *zerolog.Logger

	mu         sync.RWMutex
	state      wallet.ConnectionState
	account    solana.PublicKey
	hasAccount bool
}

func NewProvider(portal *wallet.PortalClient, rpcClient *rpc.Client, paymasterURL string, httpTimeout time.Duration, explorerBase, cluster string, logger *zerolog.Logger) *Provider {
	return &Provider{
		portal:       portal,
		rpc:          rpcClient,
		paymasterURL: paymasterURL,
		httpClient: &http.Client{
			Timeout: httpTimeout,
		},
		explorerBase: explorerBase,
		cluster:      cluster,
		logger:       logger,
		state:        wallet.Disconnected,
	}
}

func (p *Provider) Name() string {
	return "direct"
}

func (p *Provider) State() wallet.ConnectionState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

func (p *Provider) Account() (solana.PublicKey, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.account, p.hasAccount
}

func (p *Provider) Connect(ctx context.Context) (solana.PublicKey, error) {
	p.mu.Lock()
	p.state = wallet.Connecting
	p.mu.Unlock()

	account, err := p.portal.ConnectAccount(ctx)
	if err != nil {
		p.mu.Lock()
		p.state = wallet.Disconnected
		p.mu.Unlock()
		return solana.PublicKey{}, err
	}

	p.mu.Lock()
	p.state = wallet.Connected
	p.account = account
	p.hasAccount = true
	p.mu.Unlock()

	p.logger.Info().
		Str("provider", p.Name()).
		Str("account", account.String()).
		Msg("Wallet connected")

	return account, nil
}

func (p *Provider) Disconnect(_ context.Context) error {
	p.mu.Lock()
	p.state = wallet.Disconnected
	p.account = solana.PublicKey{}
	p.hasAccount = false
	p.mu.Unlock()

	p.logger.Info().
		Str("provider", p.Name()).
		Msg("Wallet disconnected")

	return nil
}

// SignAndSubmit assembles the transaction, sends it through the passkey
// signing ceremony, and hands the signed transaction to the paymaster for
// sponsored submission.
func (p *Provider) SignAndSubmit(ctx context.Context, instruction solana.Instruction) (solana.Signature, error) {
	account, ok := p.Account()
	if !ok {
		return solana.Signature{}, fmt.Errorf("no connected account")
	}

	blockhash, err := p.rpc.GetLatestBlockhash(ctx)
	if err != nil {
		return solana.Signature{}, err
	}

	unsigned, err := wallet.EncodeTransaction(instruction, account, blockhash)
	if err != nil {
		return solana.Signature{}, err
	}

	signed, err := p.portal.SignTransaction(ctx, unsigned)
	if err != nil {
		return solana.Signature{}, err
	}

	return p.sponsor(ctx, signed)
}

type sponsorRequest struct {
	Transaction string `json:"transaction"`
}

type sponsorResponse struct {
	Signature string `json:"signature"`
}

// sponsor submits the signed transaction through the paymaster, which
// attaches the fee payment and forwards it to the network.
func (p *Provider) sponsor(ctx context.Context, signedTxBase64 string) (solana.Signature, error) {
	payload, err := json.Marshal(sponsorRequest{Transaction: signedTxBase64})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to marshal sponsor request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.paymasterURL+"/v1/sponsor", bytes.NewReader(payload))
	if err != nil {
		return solana.Signature{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return solana.Signature{}, err
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		var perr wallet.ProviderError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&perr); decodeErr == nil && perr.Code != "" {
			return solana.Signature{}, &perr
		}
		return solana.Signature{}, fmt.Errorf("paymaster HTTP error: %d - %s", resp.StatusCode, resp.Status)
	}

	var out sponsorResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return solana.Signature{}, fmt.Errorf("failed to decode paymaster response: %w", err)
	}

	sig, err := solana.SignatureFromBase58(out.Signature)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("paymaster returned invalid signature %q: %w", out.Signature, err)
	}

	p.logger.Info().
		Str("provider", p.Name()).
		Str("signature", sig.String()).
		Msg("Sponsored transaction submitted")

	return sig, nil
}

func (p *Provider) ExplorerURL(signature string) string {
	return wallet.ExplorerTxURL(p.explorerBase, p.cluster, signature)
}
