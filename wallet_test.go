package valutatrade

import (
	"errors"
	"testing"
)

func TestWallet(t *testing.T) {
	w, err := NewWallet("USD", d("100"))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Deposit(d("0.5")); err != nil {
		t.Fatal(err)
	}
	if got := w.Balance().String(); got != "100.5" {
		t.Errorf("balance = %s, want 100.5", got)
	}

	tests := []struct {
		name string
		op   func() error
		kind string
	}{
		{"deposit zero", func() error { return w.Deposit(d("0")) }, "InvalidAmount"},
		{"deposit negative", func() error { return w.Deposit(d("-1")) }, "InvalidAmount"},
		{"withdraw negative", func() error { return w.Withdraw(d("-1")) }, "InvalidAmount"},
		{"withdraw too much", func() error { return w.Withdraw(d("100.51")) }, "InsufficientFunds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertKind(t, tt.op(), tt.kind)
			if got := w.Balance().String(); got != "100.5" {
				t.Errorf("balance changed to %s", got)
			}
		})
	}

	// the whole balance can be withdrawn
	if err := w.Withdraw(d("100.5")); err != nil {
		t.Fatal(err)
	}
	if !w.Balance().IsZero() {
		t.Errorf("balance = %s, want 0", w.Balance())
	}
}

func TestInsufficientFundsError(t *testing.T) {
	w, _ := NewWallet("BTC", d("0.05"))
	err := w.Withdraw(d("0.1"))
	var ife *InsufficientFundsError
	if !errors.As(err, &ife) {
		t.Fatalf("Withdraw() error = %v, want *InsufficientFundsError", err)
	}
	if ife.Code != "BTC" || ife.Available.String() != "0.05" || ife.Required.String() != "0.1" {
		t.Errorf("InsufficientFundsError = %+v", ife)
	}
}

func TestNewWallet_Negative(t *testing.T) {
	_, err := NewWallet("USD", d("-0.01"))
	assertKind(t, err, "InvalidInput")
}

func TestPortfolio(t *testing.T) {
	reg := DefaultRegistry()
	p := NewPortfolio(7)

	if _, err := p.StrictWallet("USD"); !errors.Is(err, ErrWalletNotFound) {
		t.Errorf("StrictWallet(USD) error = %v, want ErrWalletNotFound", err)
	}
	if _, err := p.AddCurrency(reg, "XYZ"); !errors.Is(err, ErrCurrencyNotFound) {
		t.Errorf("AddCurrency(XYZ) error = %v", err)
	}
	w, err := p.AddCurrency(reg, "USD")
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Deposit(d("10")); err != nil {
		t.Fatal(err)
	}
	again, _ := p.AddCurrency(reg, "USD")
	if again.Balance().String() != "10" {
		t.Errorf("AddCurrency must return the existing wallet")
	}
	p.Wallet("BTC")

	if got := p.Codes(); len(got) != 2 || got[0] != "BTC" || got[1] != "USD" {
		t.Errorf("Codes() = %v", got)
	}
	if !p.Balance("ETH").Balance().IsZero() || p.Len() != 2 {
		t.Errorf("Balance of a missing wallet must be zero and not create it")
	}
}
