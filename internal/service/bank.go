package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"retail-ledger/internal/model"
	"retail-ledger/internal/repository"
)

// AuditLog receives one entry per service operation
type AuditLog interface {
	Append(ctx context.Context, entry model.AuditEntry) error
}

// Limits configures the ceilings applied to new customers and accounts
type Limits struct {
	WithdrawalCeiling      decimal.Decimal
	WithdrawalCountCeiling int
	DailyTransactionLimit  int
}

// DefaultLimits returns the deployment defaults: 500 per withdrawal, 50
// withdrawals per account and 2 operations per account per day
func DefaultLimits() Limits {
	return Limits{
		WithdrawalCeiling:      decimal.NewFromInt(500),
		WithdrawalCountCeiling: 50,
		DailyTransactionLimit:  model.DefaultDailyTransactionLimit,
	}
}

// BankService handles customer, account and transaction business logic.
// Operations are serialized so that limit checks, the balance change and
// the history append happen atomically.
type BankService struct {
	mu           sync.Mutex
	customerRepo *repository.CustomerRepository
	accountRepo  *repository.AccountRepository
	audit        AuditLog
	limits       Limits
	clock        model.Clock
	logger       *slog.Logger
}

// NewBankService creates a new bank service. audit, clock and logger may be nil.
func NewBankService(
	customerRepo *repository.CustomerRepository,
	accountRepo *repository.AccountRepository,
	audit AuditLog,
	limits Limits,
	clock model.Clock,
	logger *slog.Logger,
) *BankService {
	if clock == nil {
		clock = model.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BankService{
		customerRepo: customerRepo,
		accountRepo:  accountRepo,
		audit:        audit,
		limits:       limits,
		clock:        clock,
		logger:       logger,
	}
}

// CreateCustomer registers a new customer
func (s *BankService) CreateCustomer(ctx context.Context, req *model.CreateCustomerRequest) (resp *model.CustomerResponse, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record(ctx, "create_customer", req, err) }()

	if err := req.Validate(); err != nil {
		return nil, translateError(err)
	}

	birthDate, _ := req.ParsedBirthDate()
	customer := model.NewCustomer(req.Name, birthDate, req.TaxID, req.Address,
		model.WithDailyTransactionLimit(s.limits.DailyTransactionLimit))

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, translateError(err)
	}

	s.logger.Info("customer created", "tax_id", customer.TaxID)
	return model.NewCustomerResponse(customer), nil
}

// GetCustomer retrieves a customer by tax id
func (s *BankService) GetCustomer(ctx context.Context, taxID string) (*model.CustomerResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customer, err := s.customerRepo.GetByTaxID(ctx, taxID)
	if err != nil {
		return nil, translateError(err)
	}
	return model.NewCustomerResponse(customer), nil
}

// CustomerExists reports whether a customer is registered under taxID
func (s *BankService) CustomerExists(ctx context.Context, taxID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customerRepo.Exists(ctx, taxID)
}

// CreateAccount opens a checking account for an existing customer
func (s *BankService) CreateAccount(ctx context.Context, req *model.CreateAccountRequest) (resp *model.AccountResponse, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record(ctx, "create_account", req, err) }()

	if err := req.Validate(); err != nil {
		return nil, translateError(err)
	}

	customer, err := s.customerRepo.GetByTaxID(ctx, req.TaxID)
	if err != nil {
		return nil, translateError(err)
	}

	account, err := s.accountRepo.Create(ctx, func(number int) model.Account {
		return model.NewCheckingAccount(customer, number, s.clock,
			model.WithWithdrawalCeiling(s.limits.WithdrawalCeiling),
			model.WithWithdrawalCountCeiling(s.limits.WithdrawalCountCeiling),
		)
	})
	if err != nil {
		return nil, translateError(err)
	}
	customer.AddAccount(account)

	s.logger.Info("account created", "tax_id", customer.TaxID, "number", account.Number())
	return model.NewAccountResponse(account), nil
}

// GetAccount retrieves an account by number
func (s *BankService) GetAccount(ctx context.Context, number int) (*model.AccountResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.accountRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, translateError(err)
	}
	return model.NewAccountResponse(account), nil
}

// ListAccounts returns every account ordered by number
func (s *BankService) ListAccounts(ctx context.Context) []model.AccountResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := s.accountRepo.List(ctx)
	out := make([]model.AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, *model.NewAccountResponse(a))
	}
	return out
}

// Deposit credits an account of the customer
func (s *BankService) Deposit(ctx context.Context, req *model.TransactionRequest) (*model.TransactionResponse, error) {
	req.Kind = model.KindDeposit
	return s.PerformTransaction(ctx, req)
}

// Withdraw debits an account of the customer
func (s *BankService) Withdraw(ctx context.Context, req *model.TransactionRequest) (*model.TransactionResponse, error) {
	req.Kind = model.KindWithdrawal
	return s.PerformTransaction(ctx, req)
}

// PerformTransaction resolves the customer and account of req and hands
// the transaction to the customer
func (s *BankService) PerformTransaction(ctx context.Context, req *model.TransactionRequest) (resp *model.TransactionResponse, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record(ctx, string(req.Kind), req, err) }()

	if err := req.Validate(); err != nil {
		return nil, translateError(err)
	}

	customer, account, err := s.resolve(ctx, req.TaxID, req.AccountNumber)
	if err != nil {
		return nil, translateError(err)
	}

	tx, err := model.NewTransaction(req.Kind, req.Amount)
	if err != nil {
		return nil, translateError(err)
	}

	if err := customer.PerformTransaction(account, tx); err != nil {
		s.logger.Warn("transaction rejected",
			"kind", tx.Kind(), "account", account.Number(), "amount", tx.Amount().String(), "reason", err.Error())
		return nil, translateError(err)
	}

	rec, _ := account.History().Last()
	s.logger.Info("transaction recorded",
		"kind", tx.Kind(), "account", account.Number(), "amount", tx.Amount().String())

	return &model.TransactionResponse{
		Account: *model.NewAccountResponse(account),
		Record:  rec,
	}, nil
}

// Statement returns the history of an account, optionally filtered by
// kind, with its current balance. The account must belong to the customer.
func (s *BankService) Statement(ctx context.Context, taxID string, number int, kind string) (*model.StatementResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	args := map[string]any{"tax_id": taxID, "account_number": number, "kind": kind}
	resp, err := s.statement(ctx, taxID, number, kind)
	s.record(ctx, "statement", args, err)
	return resp, err
}

func (s *BankService) statement(ctx context.Context, taxID string, number int, kind string) (*model.StatementResponse, error) {
	if taxID == "" {
		return nil, translateError(&model.ValidationError{Field: "tax_id", Message: "tax_id is required"})
	}
	if kind != "" {
		if _, ok := model.ParseKind(kind); !ok {
			return nil, translateError(&model.ValidationError{Field: "kind", Message: "kind must be deposit or withdrawal"})
		}
	}

	_, account, err := s.resolve(ctx, taxID, number)
	if err != nil {
		return nil, translateError(err)
	}

	records := make([]model.Record, 0, account.History().Len())
	for rec := range account.History().Report(kind) {
		records = append(records, rec)
	}

	return &model.StatementResponse{
		Account: *model.NewAccountResponse(account),
		Records: records,
		Balance: account.Balance(),
	}, nil
}

// resolve finds the customer and the account to operate on. Number 0
// selects the customer's first account.
func (s *BankService) resolve(ctx context.Context, taxID string, number int) (*model.Customer, model.Account, error) {
	customer, err := s.customerRepo.GetByTaxID(ctx, taxID)
	if err != nil {
		return nil, nil, err
	}

	if number == 0 {
		account, ok := customer.FirstAccount()
		if !ok {
			return nil, nil, &ServiceError{
				Code:    model.ErrCodeAccountNotFound,
				Message: "Customer has no account",
				Err:     repository.ErrAccountNotFound,
			}
		}
		return customer, account, nil
	}

	account, err := s.accountRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, nil, err
	}
	if account.Customer() != customer {
		return nil, nil, repository.ErrAccountNotFound
	}
	return customer, account, nil
}

func (s *BankService) record(ctx context.Context, operation string, args any, err error) {
	if s.audit == nil {
		return
	}

	arguments, mErr := json.Marshal(args)
	if mErr != nil {
		arguments = []byte("{}")
	}
	result := "ok"
	if err != nil {
		result = ErrorCode(err) + ": " + err.Error()
	}

	entry := model.AuditEntry{
		ID:        uuid.New(),
		Operation: operation,
		Arguments: string(arguments),
		Result:    result,
		CreatedAt: s.clock.Now(),
	}
	if aErr := s.audit.Append(ctx, entry); aErr != nil {
		s.logger.Error("failed to write audit entry", "operation", operation, "error", aErr)
	}
}
