package valutatrade

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// This file contains the JSON formats of the persisted documents:
//
//	users.json       [{"user_id":1,"username":"alice","hashed_password":"..","salt":"..","registration_date":".."}]
//	portfolios.json  [{"user_id":1,"wallets":{"USD":{"balance":1000}}}]
//	rates.json       {"BTC_USD":{"rate":59337.21,"updated_at":".."}, .., "source":"..","last_refresh":".."}
//
// Numbers are written as JSON numbers with all their decimal digits, and read back
// into decimals without going through float64.

const (
	attrSource      = "source"
	attrLastRefresh = "last_refresh"
)

// naive ISO 8601 layouts, without zone, are read as local time.
var naiveLayouts = []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05", "2006-01-02 15:04:05"}

// FormatTime is the timestamp format of every persisted document.
func FormatTime(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// ParseTime reads an ISO 8601 timestamp, with or without zone.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO 8601 timestamp %q", s)
}

func parseNumber(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, fmt.Errorf("missing number")
	}
	return decimal.NewFromString(n.String())
}

type jsonUser struct {
	UserID           int    `json:"user_id"`
	Username         string `json:"username"`
	HashedPassword   string `json:"hashed_password"`
	Salt             string `json:"salt"`
	RegistrationDate string `json:"registration_date"`
}

func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonUser{
		UserID:           u.ID,
		Username:         u.Username,
		HashedPassword:   u.HashedPassword,
		Salt:             u.Salt,
		RegistrationDate: FormatTime(u.RegistrationDate),
	})
}

func (u *User) UnmarshalJSON(data []byte) error {
	var ju jsonUser
	if err := json.Unmarshal(data, &ju); err != nil {
		return err
	}
	if ju.UserID <= 0 || ju.Username == "" {
		return fmt.Errorf("user must have a positive user_id and a username")
	}
	var reg time.Time
	if ju.RegistrationDate != "" {
		t, err := ParseTime(ju.RegistrationDate)
		if err != nil {
			return fmt.Errorf("user %q: %w", ju.Username, err)
		}
		reg = t
	}
	*u = User{
		ID:               ju.UserID,
		Username:         ju.Username,
		HashedPassword:   ju.HashedPassword,
		Salt:             ju.Salt,
		RegistrationDate: reg,
	}
	return nil
}

type jsonWallet struct {
	Balance json.Number `json:"balance"`
}

func (p *Portfolio) MarshalJSON() ([]byte, error) {
	var wallets orderedObject
	for _, code := range p.Codes() {
		wallets.Append(code, jsonWallet{Balance: json.Number(p.wallets[code].balance.String())})
	}
	var w orderedObject
	w.Append("user_id", p.userID)
	w.Append("wallets", &wallets)
	return w.MarshalJSON()
}

func (p *Portfolio) UnmarshalJSON(data []byte) error {
	var jp struct {
		UserID  int                   `json:"user_id"`
		Wallets map[string]jsonWallet `json:"wallets"`
	}
	if err := json.Unmarshal(data, &jp); err != nil {
		return err
	}
	if jp.UserID <= 0 {
		return fmt.Errorf("portfolio must have a positive user_id")
	}
	np := NewPortfolio(jp.UserID)
	for raw, jw := range jp.Wallets {
		code, err := NormalizeCode(raw)
		if err != nil {
			return fmt.Errorf("portfolio of user %d: %w", jp.UserID, err)
		}
		balance, err := parseNumber(jw.Balance)
		if err != nil {
			return fmt.Errorf("portfolio of user %d: wallet %s: invalid balance: %w", jp.UserID, code, err)
		}
		w, err := NewWallet(code, balance)
		if err != nil {
			return fmt.Errorf("portfolio of user %d: %w", jp.UserID, err)
		}
		np.wallets[code] = w
	}
	*p = *np
	return nil
}

type jsonPair struct {
	Rate      json.Number `json:"rate"`
	UpdatedAt string      `json:"updated_at"`
}

// MarshalJSON writes pairs in key order, followed by source and last_refresh.
// An empty cache is written as {}.
func (c RateCache) MarshalJSON() ([]byte, error) {
	var w orderedObject
	for _, key := range c.Keys() {
		p := c.Pairs[key]
		w.Append(key, jsonPair{Rate: json.Number(p.Rate.String()), UpdatedAt: FormatTime(p.UpdatedAt)})
	}
	if !c.IsEmpty() {
		w.Append(attrSource, c.Source)
		w.Append(attrLastRefresh, FormatTime(c.LastRefresh))
	}
	return w.MarshalJSON()
}

func (c *RateCache) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	nc := RateCache{Pairs: make(map[string]RatePair, len(obj))}
	for key, raw := range obj {
		switch key {
		case attrSource:
			if err := json.Unmarshal(raw, &nc.Source); err != nil {
				return fmt.Errorf("property %q must be a string: %w", attrSource, err)
			}
		case attrLastRefresh:
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return fmt.Errorf("property %q must be a string: %w", attrLastRefresh, err)
			}
			t, err := ParseTime(s)
			if err != nil {
				return fmt.Errorf("property %q: %w", attrLastRefresh, err)
			}
			nc.LastRefresh = t
		default:
			pair, err := decodePair(key, raw)
			if err != nil {
				return err
			}
			nc.Pairs[key] = pair
		}
	}
	if nc.LastRefresh.IsZero() && len(nc.Pairs) > 0 {
		return fmt.Errorf("rates without %q", attrLastRefresh)
	}
	*c = nc
	return nil
}

func decodePair(key string, raw json.RawMessage) (RatePair, error) {
	from, to, ok := strings.Cut(key, "_")
	if !ok || from == "" || to == "" {
		return RatePair{}, fmt.Errorf("property %q is not a FROM_TO pair", key)
	}
	var jp jsonPair
	if err := json.Unmarshal(raw, &jp); err != nil {
		return RatePair{}, fmt.Errorf("pair %q: %w", key, err)
	}
	rate, err := parseNumber(jp.Rate)
	if err != nil {
		return RatePair{}, fmt.Errorf("pair %q: invalid rate: %w", key, err)
	}
	if !rate.IsPositive() {
		return RatePair{}, fmt.Errorf("pair %q: rate %s must be positive", key, rate)
	}
	updated, err := ParseTime(jp.UpdatedAt)
	if err != nil {
		return RatePair{}, fmt.Errorf("pair %q: %w", key, err)
	}
	return RatePair{From: from, To: to, Rate: rate, UpdatedAt: updated}, nil
}
