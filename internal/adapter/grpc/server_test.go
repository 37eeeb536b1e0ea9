package grpc

import (
	"context"
	"net"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/simaogato/ledger-backend/internal/adapter/repository/memory"
	"github.com/simaogato/ledger-backend/internal/domain"
	"github.com/simaogato/ledger-backend/internal/usecase/bank"
	"github.com/simaogato/ledger-backend/internal/usecase/conversion"
	"github.com/simaogato/ledger-backend/internal/usecase/ledger"
)

const testToken = "test-token-123"

// startServer runs the ledger service on an in-memory listener and returns a client
func startServer(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	rates := memory.NewRateRepository()
	require.NoError(t, rates.Upsert(ctx, &domain.ExchangeRate{From: "EUR", To: "RON", Rate: decimal.RequireFromString("5")}))
	require.NoError(t, rates.Upsert(ctx, &domain.ExchangeRate{From: "USD", To: "EUR", Rate: decimal.RequireFromString("1.2")}))
	converter := conversion.NewRateConverter(rates, logger)

	accounts := memory.NewAccountRepository()
	journal := memory.NewTransactionRepository()
	ledgerService := ledger.NewLedgerService(accounts, journal, memory.NewLedgerStore(accounts, journal), converter, logger)

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		LoggingInterceptor(logger),
		AuthInterceptor(testToken),
	))
	RegisterLedgerServiceServer(srv, NewServer(ledgerService, bank.NewBankService(logger), converter))

	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewClient(conn, testToken)
}

func openAccount(t *testing.T, client *Client, currency, balance string) string {
	t.Helper()
	resp, err := client.Call(context.Background(), "OpenAccount", map[string]any{
		"currency":        currency,
		"initial_balance": balance,
	})
	require.NoError(t, err)
	return resp.GetFields()["account"].GetStructValue().GetFields()["id"].GetStringValue()
}

func balance(t *testing.T, client *Client, id string) string {
	t.Helper()
	resp, err := client.Call(context.Background(), "GetAccount", map[string]any{"account_id": id})
	require.NoError(t, err)
	return resp.GetFields()["account"].GetStructValue().GetFields()["balance"].GetStringValue()
}

func TestServer_DepositWithdraw(t *testing.T) {
	ctx := context.Background()
	client := startServer(t)
	id := openAccount(t, client, "EUR", "50")

	_, err := client.Call(ctx, "Deposit", map[string]any{"account_id": id, "amount": "25.50"})
	require.NoError(t, err)
	assert.Equal(t, "75.5", balance(t, client, id))

	_, err = client.Call(ctx, "Withdraw", map[string]any{"account_id": id, "amount": "100"})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = client.Call(ctx, "Deposit", map[string]any{"account_id": id, "amount": "-10"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.Call(ctx, "Deposit", map[string]any{"account_id": id, "amount": "ten"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestServer_Transfers(t *testing.T) {
	ctx := context.Background()
	client := startServer(t)
	source := openAccount(t, client, "EUR", "100")
	destination := openAccount(t, client, "EUR", "0")
	ron := openAccount(t, client, "RON", "0")

	_, err := client.Call(ctx, "TransferMin", map[string]any{
		"from_account_id": source, "to_account_id": destination, "amount": "90",
	})
	require.NoError(t, err)
	assert.Equal(t, "10", balance(t, client, source))
	assert.Equal(t, "90", balance(t, client, destination))

	_, err = client.Call(ctx, "TransferMin", map[string]any{
		"from_account_id": source, "to_account_id": destination, "amount": "1",
	})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = client.Call(ctx, "Transfer", map[string]any{
		"from_account_id": destination, "to_account_id": destination, "amount": "1",
	})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	resp, err := client.Call(ctx, "TransferWithConversion", map[string]any{
		"from_account_id": destination, "to_account_id": ron, "amount": "10",
	})
	require.NoError(t, err)
	assert.Equal(t, "50", resp.GetFields()["converted"].GetStringValue())
	assert.Equal(t, "80", balance(t, client, destination))
	assert.Equal(t, "50", balance(t, client, ron))

	history, err := client.Call(ctx, "History", map[string]any{"account_id": destination, "limit": 10})
	require.NoError(t, err)
	txs := history.GetFields()["transactions"].GetListValue().GetValues()
	require.Len(t, txs, 2)
	assert.Equal(t, string(domain.KindConversion), txs[0].GetStructValue().GetFields()["kind"].GetStringValue())
}

func TestServer_SummaryAndInfo(t *testing.T) {
	ctx := context.Background()
	client := startServer(t)
	openAccount(t, client, "EUR", "10")
	openAccount(t, client, "EUR", "5.5")

	summary, err := client.Call(ctx, "Summary", nil)
	require.NoError(t, err)
	assert.Equal(t, float64(2), summary.GetFields()["account_count"].GetNumberValue())
	assert.Equal(t, "15.5", summary.GetFields()["totals"].GetStructValue().GetFields()["EUR"].GetStringValue())

	list, err := client.Call(ctx, "ListAccounts", nil)
	require.NoError(t, err)
	assert.Len(t, list.GetFields()["accounts"].GetListValue().GetValues(), 2)

	info, err := client.Call(ctx, "GetTransactionInfo", map[string]any{"amount": "100"})
	require.NoError(t, err)
	assert.Equal(t, "Original Amount: 100 USD. Converted Amount: 120 EUR.", info.GetFields()["info"].GetStringValue())
}

func TestServer_NotFoundAndAuth(t *testing.T) {
	ctx := context.Background()
	client := startServer(t)

	_, err := client.Call(ctx, "GetAccount", map[string]any{"account_id": "00000000-0000-0000-0000-000000000001"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.Call(ctx, "GetAccount", map[string]any{"account_id": "not-a-uuid"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	anonymous := NewClient(client.conn, "")
	_, err = anonymous.Call(ctx, "ListAccounts", nil)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestMapError(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{err: domain.ErrInvalidArgument, want: codes.InvalidArgument},
		{err: domain.ErrSameAccount, want: codes.InvalidArgument},
		{err: domain.ErrInsufficientFunds, want: codes.FailedPrecondition},
		{err: domain.ErrAccountNotFound, want: codes.NotFound},
		{err: domain.ErrRateNotFound, want: codes.NotFound},
		{err: context.DeadlineExceeded, want: codes.DeadlineExceeded},
		{err: assert.AnError, want: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, status.Code(mapError(tt.err)))
		})
	}
	assert.NoError(t, mapError(nil))
}
