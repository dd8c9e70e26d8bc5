// Package standard implements the standards-based wallet integration: the
// same passkey wallet registered with the generic multi-wallet registry.
// Signing still goes through the portal; submission goes straight to the
// RPC node, so fees come out of the user's account.
package standard

import (
	"context"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"passkey-wallet-gateway/internal/rpc"
	"passkey-wallet-gateway/internal/wallet"
)

var _ wallet.Provider = (*Provider)(nil)

// Provider is the adapter-registered capability provider.
type Provider struct {
	portal       *wallet.PortalClient
	rpc          *rpc.Client
	explorerBase string
	cluster      string
	logger       *zerolog.Logger

	mu         sync.RWMutex
	state      wallet.ConnectionState
	account    solana.PublicKey
	hasAccount bool
}

func NewProvider(portal *wallet.PortalClient, rpcClient *rpc.Client, explorerBase, cluster string, logger *zerolog.Logger) *Provider {
	return &Provider{
		portal:       portal,
		rpc:          rpcClient,
		explorerBase: explorerBase,
		cluster:      cluster,
		logger:       logger,
		state:        wallet.Disconnected,
	}
}

// Register makes the wallet discoverable through the registry, the
// standards equivalent of announcing the wallet to every adapter on the
// page.
func Register(registry *wallet.Registry, p *Provider) error {
	return registry.Register(p)
}

func (p *Provider) Name() string {
	return "standard"
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

// SignAndSubmit assembles the transaction, runs the passkey signing
// ceremony, and submits the signed transaction through the RPC node.
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

	sig, err := p.rpc.SendTransaction(ctx, signed)
	if err != nil {
		return solana.Signature{}, err
	}

	p.logger.Info().
		Str("provider", p.Name()).
		Str("signature", sig.String()).
		Msg("Transaction submitted")

	return sig, nil
}

func (p *Provider) ExplorerURL(signature string) string {
	return wallet.ExplorerTxURL(p.explorerBase, p.cluster, signature)
}
