package valutatrade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// memStore implements every store interface in memory.
type memStore struct {
	rates      RateCache
	rateWrites int
	users      []User
	portfolios map[int]*Portfolio
	session    *SessionUser
	saves      int
	failSave   error
	failLoad   error
}

func newMemStore() *memStore {
	return &memStore{rates: RateCache{Pairs: map[string]RatePair{}}, portfolios: map[int]*Portfolio{}}
}

func (m *memStore) ReadRates() (RateCache, error) { return m.rates, nil }
func (m *memStore) WriteRates(c RateCache) error {
	m.rates = c
	m.rateWrites++
	return nil
}

func (m *memStore) ReadUsers() ([]User, error) { return append([]User(nil), m.users...), nil }
func (m *memStore) WriteUsers(users []User) error {
	m.users = append([]User(nil), users...)
	return nil
}

// LoadPortfolio returns a copy, like a store reading its file again.
func (m *memStore) LoadPortfolio(userID int) (*Portfolio, bool, error) {
	if m.failLoad != nil {
		return nil, false, m.failLoad
	}
	p, ok := m.portfolios[userID]
	if !ok {
		return nil, false, nil
	}
	cp := NewPortfolio(userID)
	for code, w := range p.wallets {
		cp.wallets[code] = &Wallet{code: code, balance: w.balance}
	}
	return cp, true, nil
}

func (m *memStore) SavePortfolio(p *Portfolio) error {
	if m.failSave != nil {
		return m.failSave
	}
	m.saves++
	m.portfolios[p.UserID()] = p
	return nil
}

func (m *memStore) ReadSession() (SessionUser, bool, error) {
	if m.session == nil {
		return SessionUser{}, false, nil
	}
	return *m.session, true, nil
}
func (m *memStore) WriteSession(u SessionUser) error {
	m.session = &u
	return nil
}
func (m *memStore) ClearSession() error {
	m.session = nil
	return nil
}

// now is the reference instant of the tests.
var now = time.Date(2025, 10, 9, 12, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// usdSnapshot mirrors the offline demo rates.
func usdSnapshot() Snapshot {
	one := decimal.NewFromInt(1)
	return Snapshot{
		Base:   "USD",
		Source: "test",
		Rates: map[string]decimal.Decimal{
			"EUR": d("0.92"),
			"RUB": d("95"),
			"BTC": one.DivRound(decimal.NewFromInt(60000), 18),
			"ETH": one.DivRound(decimal.NewFromInt(2500), 18),
		},
	}
}

// fakeSource returns a fixed snapshot or error.
type fakeSource struct {
	name  string
	snap  Snapshot
	err   error
	calls int
	wait  bool
}

func (f *fakeSource) Name() string { return f.name }
func (f *fakeSource) Fetch(ctx context.Context, base string) (Snapshot, error) {
	f.calls++
	if f.wait {
		<-ctx.Done()
		return Snapshot{}, ctx.Err()
	}
	return f.snap, f.err
}

var errDown = errors.New("connection refused")

func assertKind(t *testing.T, err error, want string) {
	t.Helper()
	if got := Kind(err); got != want {
		t.Errorf("Kind(%v) = %q, want %q", err, got, want)
	}
}
