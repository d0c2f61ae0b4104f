package valutatrade

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// CurrencyKind distinguishes fiat money from crypto assets.
type CurrencyKind int

const (
	Fiat CurrencyKind = iota
	Crypto
)

func (k CurrencyKind) String() string {
	switch k {
	case Fiat:
		return "FIAT"
	case Crypto:
		return "CRYPTO"
	default:
		return "UNKNOWN"
	}
}

// Currency is an immutable entry of the registry.
//
// IssuingCountry is only meaningful for Fiat, Algorithm and MarketCap only for Crypto.
type Currency struct {
	Code           string
	Name           string
	Kind           CurrencyKind
	IssuingCountry string
	Algorithm      string
	MarketCap      float64
}

// DisplayInfo returns the one line description used by list-currencies and currency-info.
func (c Currency) DisplayInfo() string {
	if c.Kind == Crypto {
		return fmt.Sprintf("[CRYPTO] %s — %s (Algo: %s, MCAP: %.2e)", c.Code, c.Name, c.Algorithm, c.MarketCap)
	}
	return fmt.Sprintf("[FIAT] %s — %s (Issuing: %s)", c.Code, c.Name, c.IssuingCountry)
}

// NewFiat returns a fiat currency.
func NewFiat(code, name, country string) Currency {
	return Currency{Code: code, Name: name, Kind: Fiat, IssuingCountry: country}
}

// NewCrypto returns a crypto currency.
func NewCrypto(code, name, algorithm string, marketCap float64) Currency {
	return Currency{Code: code, Name: name, Kind: Crypto, Algorithm: algorithm, MarketCap: marketCap}
}

// NormalizeCode trims and upper-cases a user supplied currency code.
//
// A code must be 2 to 5 letters long.
func NormalizeCode(s string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	if len(code) < 2 || len(code) > 5 {
		return "", invalidf("currency code %q must be 2 to 5 letters long", s)
	}
	for _, r := range code {
		if unicode.IsSpace(r) || r < 'A' || r > 'Z' {
			return "", invalidf("currency code %q must only contain letters", s)
		}
	}
	return code, nil
}

// Registry is the static catalog of known currencies.
type Registry struct {
	byCode map[string]Currency
}

// NewRegistry builds a registry. Codes must be normalized and unique.
func NewRegistry(currencies ...Currency) (*Registry, error) {
	r := &Registry{byCode: make(map[string]Currency, len(currencies))}
	for _, c := range currencies {
		code, err := NormalizeCode(c.Code)
		if err != nil {
			return nil, err
		}
		if code != c.Code {
			return nil, invalidf("currency code %q is not normalized", c.Code)
		}
		if c.Name == "" {
			return nil, invalidf("currency %q has no name", c.Code)
		}
		if _, exists := r.byCode[code]; exists {
			return nil, invalidf("currency %q is defined twice", c.Code)
		}
		r.byCode[code] = c
	}
	return r, nil
}

// DefaultRegistry returns the built-in currency table.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		NewFiat("USD", "US Dollar", "United States"),
		NewFiat("EUR", "Euro", "Eurozone"),
		NewFiat("RUB", "Russian Ruble", "Russia"),
		NewFiat("GBP", "British Pound", "United Kingdom"),
		NewFiat("JPY", "Japanese Yen", "Japan"),
		NewFiat("CNY", "Chinese Yuan", "China"),
		NewCrypto("BTC", "Bitcoin", "SHA-256", 1.12e12),
		NewCrypto("ETH", "Ethereum", "Ethash", 4.2e11),
		NewCrypto("SOL", "Solana", "Proof of History", 6.5e10),
	)
	if err != nil {
		panic(err) // the table above is static
	}
	return r
}

// Get returns the currency for a normalized code.
func (r *Registry) Get(code string) (Currency, error) {
	c, ok := r.byCode[code]
	if !ok {
		return Currency{}, &CurrencyNotFoundError{Code: code}
	}
	return c, nil
}

// Has reports whether code is in the registry.
func (r *Registry) Has(code string) bool {
	_, ok := r.byCode[code]
	return ok
}

// Resolve normalizes raw and looks it up.
func (r *Registry) Resolve(raw string) (Currency, error) {
	code, err := NormalizeCode(raw)
	if err != nil {
		return Currency{}, err
	}
	return r.Get(code)
}

// List returns all currencies, fiat first, each group sorted by code.
func (r *Registry) List() []Currency {
	list := make([]Currency, 0, len(r.byCode))
	for _, c := range r.byCode {
		list = append(list, c)
	}
	slices.SortFunc(list, func(a, b Currency) int {
		if a.Kind != b.Kind {
			return int(a.Kind) - int(b.Kind)
		}
		return strings.Compare(a.Code, b.Code)
	})
	return list
}

// Codes returns the sorted list of codes.
func (r *Registry) Codes() []string {
	codes := make([]string, 0, len(r.byCode))
	for code := range r.byCode {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}
