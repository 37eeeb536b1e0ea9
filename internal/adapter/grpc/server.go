package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/ledger-backend/internal/domain"
	"github.com/simaogato/ledger-backend/internal/usecase/bank"
	"github.com/simaogato/ledger-backend/internal/usecase/ledger"
)

// Verify that Server implements LedgerServiceServer
var _ LedgerServiceServer = (*Server)(nil)

// Server implements the LedgerService gRPC server
type Server struct {
	LedgerService *ledger.LedgerService
	BankService   *bank.BankService
	Converter     domain.CurrencyConverter
}

// NewServer creates a new gRPC server instance
func NewServer(
	ledgerService *ledger.LedgerService,
	bankService *bank.BankService,
	converter domain.CurrencyConverter,
) *Server {
	return &Server{
		LedgerService: ledgerService,
		BankService:   bankService,
		Converter:     converter,
	}
}

// OpenAccount handles the OpenAccount RPC
// Request: {currency, initial_balance?}
func (s *Server) OpenAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	initial := decimal.Zero
	if raw := stringField(req, "initial_balance"); raw != "" {
		var err error
		initial, err = decimal.NewFromString(raw)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid initial_balance format: %v", err)
		}
	}

	account, err := s.LedgerService.OpenAccount(ctx, stringField(req, "currency"), initial)
	if err != nil {
		return nil, mapError(err)
	}

	return structpb.NewStruct(map[string]any{"account": accountToMap(account)})
}

// GetAccount handles the GetAccount RPC
// Request: {account_id}
func (s *Server) GetAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := uuidField(req, "account_id")
	if err != nil {
		return nil, err
	}

	account, err := s.LedgerService.GetAccount(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	return structpb.NewStruct(map[string]any{"account": accountToMap(account)})
}

// ListAccounts handles the ListAccounts RPC
func (s *Server) ListAccounts(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	accounts, err := s.LedgerService.ListAccounts(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	list := make([]any, 0, len(accounts))
	for _, account := range accounts {
		list = append(list, accountToMap(account))
	}

	return structpb.NewStruct(map[string]any{"accounts": list})
}

// Deposit handles the Deposit RPC
// Request: {account_id, amount}
func (s *Server) Deposit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := uuidField(req, "account_id")
	if err != nil {
		return nil, err
	}
	amount, err := amountField(req, "amount")
	if err != nil {
		return nil, err
	}

	account, err := s.LedgerService.Deposit(ctx, id, amount)
	if err != nil {
		return nil, mapError(err)
	}

	return structpb.NewStruct(map[string]any{"account": accountToMap(account)})
}

// Withdraw handles the Withdraw RPC
// Request: {account_id, amount}
func (s *Server) Withdraw(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := uuidField(req, "account_id")
	if err != nil {
		return nil, err
	}
	amount, err := amountField(req, "amount")
	if err != nil {
		return nil, err
	}

	account, err := s.LedgerService.Withdraw(ctx, id, amount)
	if err != nil {
		return nil, mapError(err)
	}

	return structpb.NewStruct(map[string]any{"account": accountToMap(account)})
}

// Transfer handles the Transfer RPC
// Request: {from_account_id, to_account_id, amount}
func (s *Server) Transfer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.transfer(ctx, req, s.LedgerService.Transfer)
}

// TransferMin handles the TransferMin RPC
func (s *Server) TransferMin(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.transfer(ctx, req, s.LedgerService.TransferMin)
}

// TransferWithConversion handles the TransferWithConversion RPC
func (s *Server) TransferWithConversion(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.transfer(ctx, req, s.LedgerService.TransferWithConversion)
}

type transferFunc func(ctx context.Context, fromID, toID uuid.UUID, amount decimal.Decimal) (*ledger.TransferResult, error)

func (s *Server) transfer(ctx context.Context, req *structpb.Struct, run transferFunc) (*structpb.Struct, error) {
	fromID, err := uuidField(req, "from_account_id")
	if err != nil {
		return nil, err
	}
	toID, err := uuidField(req, "to_account_id")
	if err != nil {
		return nil, err
	}
	amount, err := amountField(req, "amount")
	if err != nil {
		return nil, err
	}

	result, err := run(ctx, fromID, toID, amount)
	if err != nil {
		return nil, mapError(err)
	}

	return structpb.NewStruct(map[string]any{
		"transaction": transactionToMap(result.Transaction),
		"source":      accountToMap(result.Source),
		"destination": accountToMap(result.Destination),
		"converted":   result.Converted.String(),
	})
}

// History handles the History RPC
// Request: {account_id, limit?, offset?}
func (s *Server) History(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := uuidField(req, "account_id")
	if err != nil {
		return nil, err
	}

	limit := int(req.GetFields()["limit"].GetNumberValue())
	offset := int(req.GetFields()["offset"].GetNumberValue())

	txs, err := s.LedgerService.History(ctx, id, limit, offset)
	if err != nil {
		return nil, mapError(err)
	}

	list := make([]any, 0, len(txs))
	for _, tx := range txs {
		list = append(list, transactionToMap(tx))
	}

	return structpb.NewStruct(map[string]any{"transactions": list})
}

// Summary handles the Summary RPC
func (s *Server) Summary(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	summary, err := s.LedgerService.Summary(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	totals := make(map[string]any, len(summary.Totals))
	for currency, total := range summary.Totals {
		totals[currency] = total.String()
	}

	return structpb.NewStruct(map[string]any{
		"account_count": summary.AccountCount,
		"totals":        totals,
	})
}

// GetTransactionInfo handles the GetTransactionInfo RPC
// Request: {amount}
func (s *Server) GetTransactionInfo(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	amount, err := amountField(req, "amount")
	if err != nil {
		return nil, err
	}

	info, err := s.BankService.GetTransactionInfo(ctx, amount, s.Converter)
	if err != nil {
		return nil, mapError(err)
	}

	return structpb.NewStruct(map[string]any{"info": info})
}

func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

func uuidField(req *structpb.Struct, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(stringField(req, name))
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", name, err)
	}
	return id, nil
}

// amountField parses a decimal amount sent as a string
func amountField(req *structpb.Struct, name string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(stringField(req, name))
	if err != nil {
		return decimal.Zero, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", name, err)
	}
	return amount, nil
}

func accountToMap(account *domain.Account) map[string]any {
	return map[string]any{
		"id":          account.ID.String(),
		"currency":    account.Currency,
		"balance":     account.Balance().String(),
		"min_balance": account.MinBalance().String(),
	}
}

func transactionToMap(tx *domain.Transaction) map[string]any {
	entries := make([]any, 0, len(tx.Entries))
	for _, entry := range tx.Entries {
		entries = append(entries, map[string]any{
			"account_id": entry.AccountID.String(),
			"amount":     entry.Amount.String(),
			"type":       string(entry.Type),
			"currency":   entry.Currency,
		})
	}

	return map[string]any{
		"id":          tx.ID.String(),
		"kind":        string(tx.Kind),
		"description": tx.Description,
		"date":        tx.Date.Format(time.RFC3339Nano),
		"entries":     entries,
	}
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrSameAccount):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrAccountNotFound), errors.Is(err, domain.ErrRateNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	// Default to Internal error for unknown errors
	return status.Error(codes.Internal, err.Error())
}
