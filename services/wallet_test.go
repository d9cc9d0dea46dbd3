package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namestory-backend/pkg/logger"
)

func TestWallet_ConnectAndCredit(t *testing.T) {
	ctx := context.Background()
	wallet := NewWallet(NewMemoryWalletStore(), testConfig(), logger.NewNop())

	account, err := wallet.Connect(ctx, "0xA1", "Satoshi", "satoshi.base.eth")
	require.NoError(t, err)
	assert.Equal(t, "0xA1", account.Address)
	assert.Zero(t, account.Balance)

	_, err = wallet.Connect(ctx, "", "x", "")
	assert.True(t, IsValidation(err))

	account, err = wallet.Credit(ctx, "0xA1", 0.7)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, account.Balance, 1e-9)

	_, err = wallet.Credit(ctx, "0xA1", -1)
	assert.True(t, IsValidation(err))
}

func TestWallet_WithdrawThreshold(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	wallet := NewWallet(NewMemoryWalletStore(), cfg, logger.NewNop())

	_, err := wallet.Connect(ctx, "0xA1", "Satoshi", "")
	require.NoError(t, err)

	// 0.70 earned, threshold is 1.00.
	_, err = wallet.Credit(ctx, "0xA1", 0.7)
	require.NoError(t, err)

	_, err = wallet.Withdraw(ctx, "0xA1")
	assert.True(t, IsValidation(err))

	_, err = wallet.Credit(ctx, "0xA1", 0.7)
	require.NoError(t, err)

	account, err := wallet.Withdraw(ctx, "0xA1")
	require.NoError(t, err)
	assert.Zero(t, account.Balance)
}

func TestWallet_WithdrawSettlement(t *testing.T) {
	ctx := context.Background()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"txHash":"0xfeed","status":"confirmed"}`))
	}))
	defer srv.Close()

	wallet := NewWallet(NewMemoryWalletStore(), testConfig(), logger.NewNop()).
		WithSettlement(NewSettlementClient(srv.URL, "secret"))

	_, err := wallet.Connect(ctx, "0xA1", "Satoshi", "")
	require.NoError(t, err)
	_, err = wallet.Credit(ctx, "0xA1", 2.5)
	require.NoError(t, err)

	account, err := wallet.Withdraw(ctx, "0xA1")
	require.NoError(t, err)
	assert.Zero(t, account.Balance)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestWallet_WithdrawSettlementFailure(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "out of gas", http.StatusBadGateway)
	}))
	defer srv.Close()

	wallet := NewWallet(NewMemoryWalletStore(), testConfig(), logger.NewNop()).
		WithSettlement(NewSettlementClient(srv.URL, ""))

	_, err := wallet.Connect(ctx, "0xA1", "Satoshi", "")
	require.NoError(t, err)
	_, err = wallet.Credit(ctx, "0xA1", 2.5)
	require.NoError(t, err)

	_, err = wallet.Withdraw(ctx, "0xA1")
	assert.True(t, IsCollaborator(err))

	// Nothing was debited.
	account, err := wallet.Account(ctx, "0xA1")
	require.NoError(t, err)
	assert.InDelta(t, 2.5, account.Balance, 1e-9)
}

func TestWallet_ToggleFollow(t *testing.T) {
	ctx := context.Background()
	wallet := NewWallet(NewMemoryWalletStore(), testConfig(), logger.NewNop())
	viewer := Identity{Address: "0xA1", DisplayName: "Satoshi"}

	following, err := wallet.ToggleFollow(ctx, viewer, "LunaMoonrise")
	require.NoError(t, err)
	assert.True(t, following)

	follows, err := wallet.Follows(ctx, "0xA1")
	require.NoError(t, err)
	assert.Equal(t, []string{"LunaMoonrise"}, follows)

	following, err = wallet.ToggleFollow(ctx, viewer, "LunaMoonrise")
	require.NoError(t, err)
	assert.False(t, following)

	follows, err = wallet.Follows(ctx, "0xA1")
	require.NoError(t, err)
	assert.Empty(t, follows)

	_, err = wallet.ToggleFollow(ctx, Identity{}, "LunaMoonrise")
	assert.True(t, IsValidation(err))
}
