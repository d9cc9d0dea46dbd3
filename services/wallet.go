package services

import (
	"context"

	"namestory-backend/config"
	"namestory-backend/models/users"
	"namestory-backend/pkg/logger"
)

// Wallet manages connected accounts and their USDC earnings. Withdrawals are
// gated on the configured threshold; actual token movement is the settlement
// collaborator's job, this service only keeps the book.
type Wallet struct {
	store      WalletStore
	cfg        *config.Config
	log        *logger.Logger
	settlement *SettlementClient
}

func NewWallet(store WalletStore, cfg *config.Config, log *logger.Logger) *Wallet {
	return &Wallet{store: store, cfg: cfg, log: log}
}

// WithSettlement wires the on-chain payout collaborator; without it
// withdrawals are recorded locally only.
func (w *Wallet) WithSettlement(s *SettlementClient) *Wallet {
	w.settlement = s
	return w
}

// Connect registers (or refreshes) the wallet account for a session.
func (w *Wallet) Connect(ctx context.Context, address, displayName, basename string) (users.WalletAccount, error) {
	if address == "" {
		return users.WalletAccount{}, NewValidationError("wallet address is required")
	}
	return w.store.UpsertWallet(ctx, users.WalletAccount{
		Address:     address,
		DisplayName: displayName,
		Basename:    basename,
	})
}

func (w *Wallet) Account(ctx context.Context, address string) (users.WalletAccount, error) {
	return w.store.GetWallet(ctx, address)
}

// Credit adds earnings (a valuation of one of the owner's stories).
func (w *Wallet) Credit(ctx context.Context, address string, amount float64) (users.WalletAccount, error) {
	if amount <= 0 {
		return users.WalletAccount{}, NewValidationError("credit amount must be positive")
	}
	return w.store.CreditWallet(ctx, address, amount)
}

// Withdraw pays out the full balance. It is refused below the configured
// threshold; the ledger is debited only after the settlement collaborator
// (when configured) accepted the transfer.
func (w *Wallet) Withdraw(ctx context.Context, address string) (users.WalletAccount, error) {
	account, err := w.store.GetWallet(ctx, address)
	if err != nil {
		return users.WalletAccount{}, err
	}
	if account.Balance < w.cfg.WithdrawalThreshold {
		return users.WalletAccount{}, NewValidationError(
			"balance %.2f below withdrawal threshold %.2f", account.Balance, w.cfg.WithdrawalThreshold)
	}

	if w.settlement != nil {
		txHash, err := w.settlement.SubmitTransfer(ctx, address, account.Balance)
		if err != nil {
			return users.WalletAccount{}, err
		}
		w.log.Info("withdrawal settled", "address", address, "tx_hash", txHash)
	}

	return w.store.DebitWallet(ctx, address, account.Balance)
}

// ToggleFollow flips the follow state for a username; returns the new state.
func (w *Wallet) ToggleFollow(ctx context.Context, viewer Identity, username string) (bool, error) {
	if !viewer.Connected() {
		return false, NewValidationError("wallet not connected")
	}
	if username == "" {
		return false, NewValidationError("username is required")
	}
	return w.store.ToggleFollow(ctx, viewer.Address, username)
}

func (w *Wallet) Follows(ctx context.Context, address string) ([]string, error) {
	return w.store.ListFollows(ctx, address)
}

// LinkPlatform attaches an OAuth-verified external account to the wallet.
func (w *Wallet) LinkPlatform(ctx context.Context, address string, link users.PlatformLink) error {
	if link.Platform == "" {
		return NewValidationError("platform is required")
	}
	return w.store.AddPlatformLink(ctx, address, link)
}
