package valutatrade

import "github.com/shopspring/decimal"

// Wallet is a single currency balance.
//
// The balance is never negative: Deposit and Withdraw validate before mutating.
type Wallet struct {
	code    string
	balance decimal.Decimal
}

// NewWallet returns a wallet with a starting balance.
func NewWallet(code string, balance decimal.Decimal) (*Wallet, error) {
	if balance.IsNegative() {
		return nil, invalidf("wallet %s cannot start with a negative balance %s", code, balance)
	}
	return &Wallet{code: code, balance: balance}, nil
}

func (w Wallet) Code() string             { return w.code }
func (w Wallet) Balance() decimal.Decimal { return w.balance }

// Deposit adds a strictly positive amount.
func (w *Wallet) Deposit(amount decimal.Decimal) error {
	if err := checkPositive(amount); err != nil {
		return err
	}
	w.balance = w.balance.Add(amount)
	return nil
}

// Withdraw removes a strictly positive amount not greater than the balance.
func (w *Wallet) Withdraw(amount decimal.Decimal) error {
	if err := checkPositive(amount); err != nil {
		return err
	}
	if amount.GreaterThan(w.balance) {
		return &InsufficientFundsError{Available: w.balance, Required: amount, Code: w.code}
	}
	w.balance = w.balance.Sub(amount)
	return nil
}
