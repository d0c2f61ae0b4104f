package valutatrade

import (
	"time"

	"github.com/rs/zerolog"
)

// Do runs fn as the named user action and logs its start, its outcome and its duration.
//
// Domain failures are logged with their kind; they are still returned untouched.
func Do[T any](log zerolog.Logger, action string, fn func() (T, error)) (T, error) {
	start := time.Now()
	log.Debug().Str("action", action).Msg("start")
	v, err := fn()
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Str("action", action).Str("result", "ERROR").Str("error_type", Kind(err)).
			Err(err).Dur("elapsed", elapsed).Msg("action failed")
		return v, err
	}
	log.Info().Str("action", action).Str("result", "OK").Dur("elapsed", elapsed).Msg("action done")
	return v, nil
}

// WithUser returns log annotated with the session user, or "anonymous".
func WithUser(log zerolog.Logger, s *Session) zerolog.Logger {
	u, err := s.Current()
	if err != nil {
		return log.With().Str("username", "anonymous").Logger()
	}
	return log.With().Str("username", u.Username).Int("user_id", u.UserID).Logger()
}
