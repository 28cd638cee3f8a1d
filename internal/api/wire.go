package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"gider/internal/core"
)

// wireID tolerates servers that emit identifiers as JSON numbers; the
// client treats every identifier as an opaque string.
type wireID string

func (id *wireID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*id = wireID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = wireID(n.String())
	return nil
}

type expenseDTO struct {
	ID          wireID  `json:"id,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Amount      float64 `json:"amount"`
	ExpenseDate string  `json:"expenseDate,omitempty"`
	CategoryID  wireID  `json:"categoryId"`
	UserID      wireID  `json:"userId,omitempty"`
}

// categoryDTO reads both naming revisions of the backend: category lists
// have been observed with "categoryName" and with plain "name".
type categoryDTO struct {
	ID           wireID `json:"id"`
	CategoryName string `json:"categoryName"`
	Name         string `json:"name"`
	UserID       wireID `json:"userId,omitempty"`
}

type limitDTO struct {
	CategoryID  wireID  `json:"categoryId"`
	LimitAmount float64 `json:"limitAmount"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
}

// Layouts the backend has been seen emitting for expenseDate.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseExpenseDate returns the zero time when the value is missing or
// unparseable. The record still counts toward totals; only the monthly
// series skips it, so the failure is logged rather than surfaced.
func parseExpenseDate(ctx context.Context, raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	slog.WarnContext(ctx, "Skipping unparseable expense date", "value", raw)
	return time.Time{}
}

func (d expenseDTO) toDomain(ctx context.Context) core.Expense {
	return core.Expense{
		ID:          string(d.ID),
		Title:       d.Title,
		Description: d.Description,
		Amount:      core.Money{Cents: core.CentsFromDecimal(d.Amount)},
		Date:        parseExpenseDate(ctx, d.ExpenseDate),
		CategoryID:  string(d.CategoryID),
		OwnerID:     string(d.UserID),
	}
}

func expenseToWire(e core.Expense) expenseDTO {
	dto := expenseDTO{
		ID:          wireID(e.ID),
		Title:       e.Title,
		Description: e.Description,
		Amount:      e.Amount.Lira(),
		CategoryID:  wireID(e.CategoryID),
		UserID:      wireID(e.OwnerID),
	}
	if !e.Date.IsZero() {
		dto.ExpenseDate = e.Date.Format("2006-01-02")
	}
	return dto
}

func (d categoryDTO) toDomain() core.Category {
	name := d.CategoryName
	if name == "" {
		name = d.Name
	}
	return core.Category{
		ID:      string(d.ID),
		Name:    name,
		OwnerID: string(d.UserID),
	}
}

func limitToWire(l core.CategoryLimit) limitDTO {
	return limitDTO{
		CategoryID:  wireID(l.CategoryID),
		LimitAmount: l.Amount.Lira(),
		StartDate:   l.StartDate.Format("2006-01-02"),
		EndDate:     l.EndDate.Format("2006-01-02"),
	}
}
