package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Money is an amount in kuruş (cents). Arithmetic stays integral;
	// convert to a float only for display.
	Money struct {
		Cents int64
	}

	// Expense is a single spend record fetched from the remote API.
	// Date is the zero time when the server-side expenseDate was missing
	// or unparseable; such records still count toward totals but carry no
	// month information.
	Expense struct {
		ID          string
		Title       string
		Description string
		Amount      Money
		Date        time.Time
		CategoryID  string
		OwnerID     string
	}

	// Category lives independently of expenses. An expense's CategoryID
	// may reference a category that no longer exists; the backend does
	// not enforce referential integrity.
	Category struct {
		ID      string
		Name    string
		OwnerID string
	}

	// CategoryLimit caps spend for one category over a date range.
	CategoryLimit struct {
		CategoryID string
		Amount     Money
		StartDate  time.Time
		EndDate    time.Time
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyTitle      = errors.New("empty title")
	ErrEmptyName       = errors.New("empty name")
	ErrMissingCategory = errors.New("missing category")
	ErrLimitRange      = errors.New("limit end date must be after start date")
)

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if len(strings.TrimSpace(e.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(e.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.CategoryID) == "" {
		return ErrMissingCategory
	}
	return nil
}

func (c Category) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyName
	}
	if len(c.Name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	return nil
}

func (l CategoryLimit) Validate() error {
	if strings.TrimSpace(l.CategoryID) == "" {
		return ErrMissingCategory
	}
	if err := l.Amount.Validate(); err != nil {
		return err
	}
	if l.StartDate.IsZero() || l.EndDate.IsZero() {
		return errors.New("limit start and end dates are required")
	}
	if !l.EndDate.After(l.StartDate) {
		return ErrLimitRange
	}
	return nil
}
