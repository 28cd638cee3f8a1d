// Package ports declares the outbound interfaces the dashboard and CLI
// consume. The remote REST client and the in-memory store implement them.
package ports

import (
	"context"

	"gider/internal/core"
)

type (
	ExpenseReader interface {
		ListExpenses(ctx context.Context, userID string) ([]core.Expense, error)
	}

	CategoryReader interface {
		ListCategories(ctx context.Context) ([]core.Category, error)
	}

	ExpenseWriter interface {
		CreateExpense(ctx context.Context, e core.Expense) (id string, err error)
		UpdateExpense(ctx context.Context, e core.Expense) error
		DeleteExpense(ctx context.Context, id string) error
	}

	CategoryWriter interface {
		CreateCategory(ctx context.Context, c core.Category) (id string, err error)
		DeleteCategory(ctx context.Context, id string) error
	}

	LimitWriter interface {
		CreateCategoryLimit(ctx context.Context, l core.CategoryLimit) error
	}
)

// Backend is the full surface a data backend provides.
type Backend interface {
	ExpenseReader
	CategoryReader
	ExpenseWriter
	CategoryWriter
	LimitWriter
}
