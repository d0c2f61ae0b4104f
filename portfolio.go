package valutatrade

import (
	"fmt"
	"maps"
	"slices"
)

// Portfolio is the set of wallets of one user.
type Portfolio struct {
	userID  int
	wallets map[string]*Wallet
}

// NewPortfolio returns an empty portfolio.
func NewPortfolio(userID int) *Portfolio {
	return &Portfolio{userID: userID, wallets: make(map[string]*Wallet)}
}

func (p *Portfolio) UserID() int { return p.userID }

// AddCurrency creates the wallet for code, or returns the existing one.
func (p *Portfolio) AddCurrency(reg *Registry, code string) (*Wallet, error) {
	if _, err := reg.Get(code); err != nil {
		return nil, err
	}
	if w, ok := p.wallets[code]; ok {
		return w, nil
	}
	w := &Wallet{code: code}
	p.wallets[code] = w
	return w, nil
}

// Wallet returns the wallet for code, creating an empty one if missing.
// Code must already be validated by the caller.
func (p *Portfolio) Wallet(code string) *Wallet {
	w, ok := p.wallets[code]
	if !ok {
		w = &Wallet{code: code}
		p.wallets[code] = w
	}
	return w
}

// StrictWallet returns the wallet for code, failing if it does not exist.
func (p *Portfolio) StrictWallet(code string) (*Wallet, error) {
	w, ok := p.wallets[code]
	if !ok {
		return nil, fmt.Errorf("%w: user %d has no %s wallet", ErrWalletNotFound, p.userID, code)
	}
	return w, nil
}

// Balance returns the balance for code, zero if there is no wallet.
func (p *Portfolio) Balance(code string) Wallet {
	if w, ok := p.wallets[code]; ok {
		return *w
	}
	return Wallet{code: code}
}

// Codes returns the wallet codes in alphabetical order.
func (p *Portfolio) Codes() []string {
	return slices.Sorted(maps.Keys(p.wallets))
}

// Len returns the number of wallets.
func (p *Portfolio) Len() int { return len(p.wallets) }

// PortfolioStore persists portfolios, one whole record per user.
type PortfolioStore interface {
	// LoadPortfolio returns the persisted portfolio, or found=false if there is none.
	LoadPortfolio(userID int) (p *Portfolio, found bool, err error)
	// SavePortfolio replaces the persisted portfolio of p.UserID().
	SavePortfolio(p *Portfolio) error
}
