package valutatrade

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultBase is the valuation currency when none is given.
const DefaultBase = "USD"

// Side of a trade.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// Receipt describes an executed trade.
//
// Rate, UpdatedAt and EstimatedCost are only meaningful when Priced is true.
// PricingErr tells why a trade could not be priced.
type Receipt struct {
	Side          Side
	Code          string
	Amount        decimal.Decimal
	OldBalance    decimal.Decimal
	NewBalance    decimal.Decimal
	Base          string
	Priced        bool
	Rate          decimal.Decimal
	UpdatedAt     time.Time
	EstimatedCost decimal.Decimal
	PricingErr    error
}

// Holding is one line of a portfolio valuation.
type Holding struct {
	Code    string
	Balance decimal.Decimal
	Value   decimal.Decimal
	Priced  bool
	Rate    decimal.Decimal
	Err     error
}

// Valuation is a portfolio valued in Base.
// Total only sums priced holdings.
type Valuation struct {
	UserID   int
	Username string
	Base     string
	Holdings []Holding
	Total    decimal.Decimal
}

// Trader executes trades for the current session user.
type Trader struct {
	registry *Registry
	rates    *Rates
	store    PortfolioStore
	session  *Session
	log      zerolog.Logger
}

// NewTrader wires the trading usecase.
func NewTrader(reg *Registry, rates *Rates, store PortfolioStore, session *Session, log zerolog.Logger) *Trader {
	return &Trader{registry: reg, rates: rates, store: store, session: session, log: log}
}

// Buy credits amount of code to the current user.
//
// Pricing is informational: a failing rate lookup leaves the receipt unpriced but
// never cancels the deposit.
func (t *Trader) Buy(code, amount, base string) (Receipt, error) {
	return t.trade(Buy, code, amount, base)
}

// Sell debits amount of code from the current user.
//
// Funds are checked before any pricing, and nothing is persisted on failure.
func (t *Trader) Sell(code, amount, base string) (Receipt, error) {
	return t.trade(Sell, code, amount, base)
}

func (t *Trader) trade(side Side, code, amount, base string) (Receipt, error) {
	user, err := t.session.Current()
	if err != nil {
		return Receipt{}, err
	}
	cur, err := t.registry.Resolve(code)
	if err != nil {
		return Receipt{}, err
	}
	bc, err := t.resolveBase(base)
	if err != nil {
		return Receipt{}, err
	}
	qty, err := ParseAmount(amount)
	if err != nil {
		return Receipt{}, err
	}

	p, err := t.portfolio(user.UserID)
	if err != nil {
		return Receipt{}, err
	}
	w := p.Wallet(cur.Code)
	r := Receipt{Side: side, Code: cur.Code, Amount: qty, OldBalance: w.Balance(), Base: bc.Code}

	switch side {
	case Buy:
		err = w.Deposit(qty)
	case Sell:
		err = w.Withdraw(qty)
	}
	if err != nil {
		return Receipt{}, err
	}
	r.NewBalance = w.Balance()

	if pair, err := t.price(cur.Code, bc.Code); err != nil {
		r.PricingErr = err
		t.log.Warn().Err(err).Str("from", cur.Code).Str("to", bc.Code).Msg("trade not priced")
	} else {
		r.Priced = true
		r.Rate = pair.Rate
		r.UpdatedAt = pair.UpdatedAt
		r.EstimatedCost = qty.Mul(pair.Rate)
	}

	if err := t.store.SavePortfolio(p); err != nil {
		return Receipt{}, err
	}
	return r, nil
}

// ShowPortfolio values every wallet of the current user in base.
//
// A wallet that cannot be priced is listed with a zero value.
func (t *Trader) ShowPortfolio(base string) (Valuation, error) {
	user, err := t.session.Current()
	if err != nil {
		return Valuation{}, err
	}
	bc, err := t.resolveBase(base)
	if err != nil {
		return Valuation{}, err
	}
	p, err := t.portfolio(user.UserID)
	if err != nil {
		return Valuation{}, err
	}

	v := Valuation{UserID: user.UserID, Username: user.Username, Base: bc.Code, Total: decimal.Zero}
	for _, code := range p.Codes() {
		w := p.Balance(code)
		h := Holding{Code: code, Balance: w.Balance(), Value: decimal.Zero}
		if pair, err := t.price(code, bc.Code); err != nil {
			h.Err = err
		} else {
			h.Priced = true
			h.Rate = pair.Rate
			h.Value = w.Balance().Mul(pair.Rate)
		}
		v.Total = v.Total.Add(h.Value)
		v.Holdings = append(v.Holdings, h)
	}
	return v, nil
}

// price returns the rate from -> to, with identity handled here and not by the cache.
func (t *Trader) price(from, to string) (RatePair, error) {
	if from == to {
		return RatePair{From: from, To: to, Rate: decimal.NewFromInt(1), UpdatedAt: time.Now().UTC()}, nil
	}
	return t.rates.Get(from, to)
}

func (t *Trader) resolveBase(base string) (Currency, error) {
	if base == "" {
		base = DefaultBase
	}
	return t.registry.Resolve(base)
}

// portfolio loads the persisted portfolio of userID, or an empty one.
func (t *Trader) portfolio(userID int) (*Portfolio, error) {
	p, found, err := t.store.LoadPortfolio(userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return NewPortfolio(userID), nil
	}
	return p, nil
}
