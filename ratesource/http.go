// Package ratesource implements the rate sources of the updater.
//
// Every source returns a snapshot for a base currency: the number of units of
// each code that one unit of the base buys.
package ratesource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// maxBody bounds the size of a response read from a rate API.
const maxBody = 1 << 20

// get performs an HTTP GET request and returns the body of a 200 response.
func get(ctx context.Context, client *http.Client, addr string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBody))
}

// keep reports whether code is in codes, an empty list keeps everything.
func keep(codes []string, code string) bool {
	return len(codes) == 0 || slices.Contains(codes, code)
}

// positive parses a rate that must be strictly positive.
func positive(code, raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("rate of %s is not a number: %q", code, raw)
	}
	if !v.IsPositive() {
		return decimal.Zero, fmt.Errorf("rate of %s must be positive: %s", code, v)
	}
	return v, nil
}
