// Package valutatrade implements a local currency-trading simulator.
//
// Users keep a multi-currency portfolio and buy or sell simulated holdings that
// are valued against a cached exchange-rate table. The main pieces are:
//   - Registry: the static catalog of currencies (fiat and crypto).
//   - Portfolio and Wallet: per-user balances that can never go negative.
//   - RateCache, Rates and Updater: a TTL-bounded table of currency pairs,
//     derived from a base-currency snapshot by bridging through the base.
//   - Trader: the buy, sell, and valuation usecases, for the logged-in user.
//   - Users and Session: account registration, login, and the current user.
//
// Persistence is delegated to small store interfaces; the store package
// implements them with JSON files written atomically. The package is the
// foundation of the `vth` command-line tool.
//
// A data directory is meant to be used by one process at a time: documents
// are read, modified in memory, and written back whole, without locking.
package valutatrade
