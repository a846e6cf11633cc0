package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ValidationError reports malformed input. Nothing was written.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an unknown product, supplier or customer reference.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// InsufficientStockError is returned by Sell when the quantity exceeds the
// stock found inside the transaction. Available lets the caller re-prompt.
type InsufficientStockError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: available %s, requested %s", e.Available, e.Requested)
}

// AuthError is deliberately uninformative: it never says whether the
// username or the password was wrong.
type AuthError struct{}

func (e *AuthError) Error() string { return "invalid credentials" }

// PermissionError means the principal's role may not perform Action.
type PermissionError struct {
	Role   model.Role
	Action string
}

func (e *PermissionError) Error() string {
	role := string(e.Role)
	if role == "" {
		role = "anonymous"
	}
	return fmt.Sprintf("role %s may not %s", role, e.Action)
}

// StoreError wraps a persistence failure. The transaction it interrupted was
// rolled back. Retryable is set when the failure was transient (or the store
// breaker is open) and the same call may succeed later.
type StoreError struct {
	Op        string
	Retryable bool
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// isDomainError reports errors that describe the request rather than the store.
func isDomainError(err error) bool {
	var (
		v *ValidationError
		n *NotFoundError
		i *InsufficientStockError
		a *AuthError
		p *PermissionError
		s *StoreError
	)
	return errors.As(err, &v) || errors.As(err, &n) || errors.As(err, &i) ||
		errors.As(err, &a) || errors.As(err, &p) || errors.As(err, &s)
}

// lookupErr turns gorm.ErrRecordNotFound into a NotFoundError and leaves any
// other error alone.
func lookupErr(err error, entity, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return err
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "SQLSTATE 23505")
}
