package valutatrade

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/crypto/argon2"
)

const (
	minUsernameLen = 3
	minPasswordLen = 4
	saltLen        = 16
)

// argon2id parameters.
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2KeyLen  = 32
)

// User is a registered account.
type User struct {
	ID               int
	Username         string
	HashedPassword   string
	Salt             string
	RegistrationDate time.Time
}

// HashPassword derives the argon2id hash of password with salt, hex encoded.
func HashPassword(password, salt string) string {
	key := argon2.IDKey([]byte(password), []byte(salt), argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
	return hex.EncodeToString(key)
}

// VerifyPassword reports whether password matches the stored hash.
func (u User) VerifyPassword(password string) bool {
	got := HashPassword(password, u.Salt)
	return subtle.ConstantTimeCompare([]byte(got), []byte(u.HashedPassword)) == 1
}

// UserStore persists the ordered list of users as one document.
type UserStore interface {
	ReadUsers() ([]User, error)
	WriteUsers(users []User) error
}

// Users registers and authenticates accounts.
type Users struct {
	store      UserStore
	portfolios PortfolioStore
	now        func() time.Time
	rand       io.Reader
}

// NewUsers returns the account manager. Each new account gets an empty portfolio in portfolios.
func NewUsers(store UserStore, portfolios PortfolioStore) *Users {
	return &Users{store: store, portfolios: portfolios, now: time.Now, rand: rand.Reader}
}

func validateCredentials(username, password string) error {
	if len(strings.TrimSpace(username)) < minUsernameLen || strings.ContainsAny(username, " \t\n") {
		return invalidf("username must be at least %d characters without spaces", minUsernameLen)
	}
	if len(password) < minPasswordLen {
		return invalidf("password must be at least %d characters", minPasswordLen)
	}
	return nil
}

// Register creates a new user with the next free id and an empty portfolio.
func (u *Users) Register(username, password string) (User, error) {
	if err := validateCredentials(username, password); err != nil {
		return User{}, err
	}
	users, err := u.store.ReadUsers()
	if err != nil {
		return User{}, err
	}
	id := 0
	for _, existing := range users {
		if existing.Username == username {
			return User{}, fmt.Errorf("%w: %q", ErrUsernameTaken, username)
		}
		id = max(id, existing.ID)
	}

	// portfolios must be readable before the user is written
	if _, _, err := u.portfolios.LoadPortfolio(id + 1); err != nil {
		return User{}, err
	}
	salt, err := u.newSalt()
	if err != nil {
		return User{}, err
	}
	user := User{
		ID:               id + 1,
		Username:         username,
		HashedPassword:   HashPassword(password, salt),
		Salt:             salt,
		RegistrationDate: u.now().UTC().Truncate(time.Second),
	}
	if err := u.store.WriteUsers(append(users, user)); err != nil {
		return User{}, err
	}
	if err := u.portfolios.SavePortfolio(NewPortfolio(user.ID)); err != nil {
		return User{}, fmt.Errorf("user %q registered without portfolio: %w", username, err)
	}
	return user, nil
}

func (u *Users) newSalt() (string, error) {
	b := make([]byte, saltLen)
	if _, err := io.ReadFull(u.rand, b); err != nil {
		return "", fmt.Errorf("cannot generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Authenticate checks the credentials of username.
func (u *Users) Authenticate(username, password string) (User, error) {
	users, err := u.store.ReadUsers()
	if err != nil {
		return User{}, err
	}
	for _, user := range users {
		if user.Username != username {
			continue
		}
		if !user.VerifyPassword(password) {
			return User{}, fmt.Errorf("%w for %q", ErrInvalidCredentials, username)
		}
		return user, nil
	}
	return User{}, fmt.Errorf("%w: %q", ErrUserNotFound, username)
}

// ByID returns the user with id.
func (u *Users) ByID(id int) (User, error) {
	users, err := u.store.ReadUsers()
	if err != nil {
		return User{}, err
	}
	for _, user := range users {
		if user.ID == id {
			return user, nil
		}
	}
	return User{}, fmt.Errorf("%w: id %d", ErrUserNotFound, id)
}
