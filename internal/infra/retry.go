package infra

import (
	"context"
	"database/sql/driver"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
)

// RetryPolicy bounds how often a transient store failure is retried.
type RetryPolicy struct {
	Attempts  int           // total tries, including the first
	BaseDelay time.Duration // doubled after every failed try
}

// Retry calls fn until it succeeds, returns a non-transient error, or the
// policy runs out of attempts. The last error is returned unchanged.
func Retry(ctx context.Context, p RetryPolicy, op string, fn func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	delay := p.BaseDelay

	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil || !IsTransient(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		log.Warn().Err(err).Str("op", op).Int("attempt", i+1).Dur("backoff", delay).
			Msg("retry: transient store error")

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return err
		case <-t.C:
		}
		delay *= 2
	}
	return err
}

// IsTransient reports whether err is a store failure that may succeed when
// the whole transaction is attempted again.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "40001", // serialization_failure
			pgErr.Code == "40P01", // deadlock_detected
			pgErr.Code == "57P01", // admin_shutdown
			strings.HasPrefix(pgErr.Code, "08"):
			return true
		}
		return false
	}
	if pgconn.SafeToRetry(err) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database table is locked")
}
