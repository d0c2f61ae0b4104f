package store

import (
	"slices"

	"github.com/etnz/valutatrade"
)

// The DB implements every store interface of the valutatrade package.
var (
	_ valutatrade.RateCacheStore = (*DB)(nil)
	_ valutatrade.PortfolioStore = (*DB)(nil)
	_ valutatrade.UserStore      = (*DB)(nil)
	_ valutatrade.SessionStore   = (*DB)(nil)
)

// ReadRates returns the rate cache, empty if never written.
func (db *DB) ReadRates() (valutatrade.RateCache, error) {
	var c valutatrade.RateCache
	found, err := db.read(RatesFile, &c)
	if err != nil || !found {
		return valutatrade.RateCache{Pairs: map[string]valutatrade.RatePair{}}, err
	}
	return c, nil
}

// WriteRates replaces the rate cache.
func (db *DB) WriteRates(c valutatrade.RateCache) error {
	return db.write(RatesFile, c)
}

// ReadUsers returns the registered users in registration order.
func (db *DB) ReadUsers() ([]valutatrade.User, error) {
	var users []valutatrade.User
	if _, err := db.read(UsersFile, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// WriteUsers replaces the list of users.
func (db *DB) WriteUsers(users []valutatrade.User) error {
	if users == nil {
		users = []valutatrade.User{}
	}
	return db.write(UsersFile, users)
}

func (db *DB) readPortfolios() ([]*valutatrade.Portfolio, error) {
	var list []*valutatrade.Portfolio
	if _, err := db.read(PortfoliosFile, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// LoadPortfolio returns the portfolio of userID.
func (db *DB) LoadPortfolio(userID int) (*valutatrade.Portfolio, bool, error) {
	list, err := db.readPortfolios()
	if err != nil {
		return nil, false, err
	}
	for _, p := range list {
		if p.UserID() == userID {
			return p, true, nil
		}
	}
	return nil, false, nil
}

// SavePortfolio replaces the record of p.UserID(), or appends it.
//
// A corrupt portfolios file is reported rather than overwritten, the other users'
// records are in it.
func (db *DB) SavePortfolio(p *valutatrade.Portfolio) error {
	list, err := db.readPortfolios()
	if err != nil {
		return err
	}
	i := slices.IndexFunc(list, func(q *valutatrade.Portfolio) bool { return q.UserID() == p.UserID() })
	if i >= 0 {
		list[i] = p
	} else {
		list = append(list, p)
	}
	return db.write(PortfoliosFile, list)
}

// ReadSession returns the logged in user. A corrupt session file reads as logged out.
func (db *DB) ReadSession() (valutatrade.SessionUser, bool, error) {
	var u valutatrade.SessionUser
	found, err := db.read(SessionFile, &u)
	if err != nil {
		if valutatrade.Kind(err) == "StorageCorrupt" {
			db.log.Warn().Err(err).Msg("ignoring corrupt session")
			return valutatrade.SessionUser{}, false, nil
		}
		return valutatrade.SessionUser{}, false, err
	}
	if !found || u.UserID <= 0 {
		return valutatrade.SessionUser{}, false, nil
	}
	return u, true, nil
}

// WriteSession records the logged in user.
func (db *DB) WriteSession(u valutatrade.SessionUser) error {
	return db.write(SessionFile, u)
}

// ClearSession logs out.
func (db *DB) ClearSession() error {
	return db.remove(SessionFile)
}
