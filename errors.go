package valutatrade

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Error kinds. Every error returned by this package, or by the store and
// ratesource packages, matches exactly one of them with errors.Is.
var (
	ErrCurrencyNotFound       = errors.New("currency not found")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrRatesCacheEmpty        = errors.New("rates cache is empty")
	ErrRatesCacheExpired      = errors.New("rates cache is expired")
	ErrRateUnavailable        = errors.New("rate unavailable")
	ErrRateSourceUnavailable  = errors.New("no rate source available")
	ErrStorageCorrupt         = errors.New("storage corrupt")
	ErrStorageIO              = errors.New("storage i/o error")

	ErrInvalidInput       = errors.New("invalid input")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrWalletNotFound     = errors.New("wallet not found")
)

// kinds lists the error kinds in the order Kind checks them.
var kinds = []struct {
	name string
	err  error
}{
	{"CurrencyNotFound", ErrCurrencyNotFound},
	{"InvalidAmount", ErrInvalidAmount},
	{"InsufficientFunds", ErrInsufficientFunds},
	{"AuthenticationRequired", ErrAuthenticationRequired},
	{"RatesCacheEmpty", ErrRatesCacheEmpty},
	{"RatesCacheExpired", ErrRatesCacheExpired},
	{"RateUnavailable", ErrRateUnavailable},
	{"RateSourceUnavailable", ErrRateSourceUnavailable},
	{"StorageCorrupt", ErrStorageCorrupt},
	{"StorageIOError", ErrStorageIO},
	{"InvalidInput", ErrInvalidInput},
	{"UserNotFound", ErrUserNotFound},
	{"InvalidCredentials", ErrInvalidCredentials},
	{"UsernameTaken", ErrUsernameTaken},
	{"WalletNotFound", ErrWalletNotFound},
}

// Kind returns the name of the error kind matched by err, "" for nil and
// "Unexpected" for errors outside of the taxonomy.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "Unexpected"
}

// IsDomain reports whether err belongs to the taxonomy.
func IsDomain(err error) bool { return err != nil && Kind(err) != "Unexpected" }

// CurrencyNotFoundError is returned when a code is not in the registry.
type CurrencyNotFoundError struct {
	Code string
}

func (e *CurrencyNotFoundError) Error() string { return fmt.Sprintf("unknown currency %q", e.Code) }
func (e *CurrencyNotFoundError) Unwrap() error { return ErrCurrencyNotFound }

// InsufficientFundsError is returned when a withdrawal exceeds the balance.
type InsufficientFundsError struct {
	Available decimal.Decimal
	Required  decimal.Decimal
	Code      string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %s %s, required %s %s", e.Available, e.Code, e.Required, e.Code)
}
func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// RateUnavailableError is returned when the cache has no entry for a pair.
type RateUnavailableError struct {
	From, To string
}

func (e *RateUnavailableError) Error() string {
	return fmt.Sprintf("rate %s->%s is not in the cache", e.From, e.To)
}
func (e *RateUnavailableError) Unwrap() error { return ErrRateUnavailable }

// StorageError reports a failure to read or write a persisted document.
// It matches both its kind (ErrStorageCorrupt or ErrStorageIO) and the underlying error.
type StorageError struct {
	Path    string
	Corrupt bool
	Err     error
}

func (e *StorageError) Error() string {
	if e.Corrupt {
		return fmt.Sprintf("corrupt document %q: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("cannot access %q: %v", e.Path, e.Err)
}

func (e *StorageError) Unwrap() []error {
	if e.Corrupt {
		return []error{ErrStorageCorrupt, e.Err}
	}
	return []error{ErrStorageIO, e.Err}
}

// invalidf returns an ErrInvalidInput with a formatted message.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
