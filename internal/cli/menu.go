// Package cli implements the interactive teller menu on top of the bank
// service.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"retail-ledger/internal/model"
	"retail-ledger/internal/service"
)

const menuText = `
================ MENU ================
[d]	Deposit
[s]	Withdraw
[e]	Statement
[nc]	New account
[lc]	List accounts
[nu]	New customer
[q]	Quit
=> `

const timestampLayout = "02-01-2006 15:04:05"

// Menu reads options and their inputs line by line and reports the
// outcome of each operation
type Menu struct {
	bank *service.BankService
	in   *bufio.Scanner
	out  io.Writer
}

// NewMenu creates a menu reading from in and writing to out
func NewMenu(bank *service.BankService, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		bank: bank,
		in:   bufio.NewScanner(in),
		out:  out,
	}
}

// Run loops until the user quits or the input ends
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		option, err := m.prompt(menuText)
		if err != nil {
			return ignoreEOF(err)
		}

		switch option {
		case "d":
			err = m.transaction(ctx, model.KindDeposit)
		case "s":
			err = m.transaction(ctx, model.KindWithdrawal)
		case "e":
			err = m.statement(ctx)
		case "nu":
			err = m.newCustomer(ctx)
		case "nc":
			err = m.newAccount(ctx)
		case "lc":
			m.listAccounts(ctx)
		case "q":
			return nil
		default:
			m.println("\nInvalid operation, please select the desired operation again.")
		}

		if err != nil {
			return ignoreEOF(err)
		}
	}
}

func (m *Menu) transaction(ctx context.Context, kind model.Kind) error {
	taxID, err := m.prompt("Enter the customer's tax id: ")
	if err != nil {
		return err
	}
	if _, err := m.bank.GetCustomer(ctx, taxID); err != nil {
		m.fail(err)
		return nil
	}

	label := "deposit"
	if kind == model.KindWithdrawal {
		label = "withdrawal"
	}
	raw, err := m.prompt(fmt.Sprintf("Enter the %s amount: ", label))
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		m.println("\nOperation failed! The amount informed is not a number.")
		return nil
	}

	req := &model.TransactionRequest{TaxID: taxID, Amount: amount}
	if kind == model.KindDeposit {
		_, err = m.bank.Deposit(ctx, req)
	} else {
		_, err = m.bank.Withdraw(ctx, req)
	}
	if err != nil {
		m.fail(err)
		return nil
	}

	if kind == model.KindDeposit {
		m.println("\n=== Deposit completed successfully! ===")
	} else {
		m.println("\n=== Withdrawal completed successfully! ===")
	}
	return nil
}

func (m *Menu) statement(ctx context.Context) error {
	taxID, err := m.prompt("Enter the customer's tax id: ")
	if err != nil {
		return err
	}

	st, err := m.bank.Statement(ctx, taxID, 0, "")
	if err != nil {
		m.fail(err)
		return nil
	}

	var b strings.Builder
	b.WriteString("\n================ STATEMENT ================")
	if len(st.Records) == 0 {
		b.WriteString("\nNo transactions recorded.")
	}
	for _, rec := range st.Records {
		fmt.Fprintf(&b, "\n%s\n%s:\n\t%s", rec.Timestamp.Format(timestampLayout), kindTitle(rec.Kind), rec.Amount.StringFixed(2))
	}
	fmt.Fprintf(&b, "\n\nBalance:\n\t%s", st.Balance.StringFixed(2))
	b.WriteString("\n===========================================")
	m.println(b.String())
	return nil
}

func (m *Menu) newCustomer(ctx context.Context) error {
	taxID, err := m.prompt("Enter the tax id (digits only): ")
	if err != nil {
		return err
	}
	if m.bank.CustomerExists(ctx, taxID) {
		m.println("\nA customer with this tax id already exists!")
		return nil
	}

	name, err := m.prompt("Enter the full name: ")
	if err != nil {
		return err
	}
	birthDate, err := m.prompt("Enter the birth date (dd-mm-yyyy): ")
	if err != nil {
		return err
	}
	address, err := m.prompt("Enter the address (street, number - district - city/state): ")
	if err != nil {
		return err
	}

	_, err = m.bank.CreateCustomer(ctx, &model.CreateCustomerRequest{
		Name:      name,
		BirthDate: birthDate,
		TaxID:     taxID,
		Address:   address,
	})
	if err != nil {
		m.fail(err)
		return nil
	}

	m.println("\n=== Customer created successfully! ===")
	return nil
}

func (m *Menu) newAccount(ctx context.Context) error {
	taxID, err := m.prompt("Enter the customer's tax id: ")
	if err != nil {
		return err
	}

	account, err := m.bank.CreateAccount(ctx, &model.CreateAccountRequest{TaxID: taxID})
	if err != nil {
		if service.ErrorCode(err) == model.ErrCodeCustomerNotFound {
			m.println("\nCustomer not found, account creation flow ended!")
			return nil
		}
		m.fail(err)
		return nil
	}

	m.printf("\n=== Account %d created successfully! ===\n", account.Number)
	return nil
}

func (m *Menu) listAccounts(ctx context.Context) {
	for _, a := range m.bank.ListAccounts(ctx) {
		m.println(strings.Repeat("=", 50))
		m.printf("Branch:\t\t%s\nAccount:\t%d\nHolder:\t\t%s\nBalance:\t%s\n",
			a.Branch, a.Number, a.Holder, a.Balance.StringFixed(2))
	}
}

func (m *Menu) prompt(text string) (string, error) {
	fmt.Fprint(m.out, text)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(m.in.Text()), nil
}

func (m *Menu) fail(err error) {
	m.printf("\nOperation failed! %s.\n", err.Error())
}

func (m *Menu) println(s string) {
	fmt.Fprintln(m.out, s)
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}

func kindTitle(k model.Kind) string {
	s := string(k)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
