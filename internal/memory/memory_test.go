package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gider/internal/core"
)

func TestExpenseLifecycle(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	cats, err := s.ListCategories(ctx)
	if err != nil || len(cats) == 0 {
		t.Fatalf("expected seeded categories, got %d (err=%v)", len(cats), err)
	}

	e := core.Expense{
		Title:      "market",
		Amount:     core.Money{Cents: 12345},
		Date:       time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		CategoryID: cats[0].ID,
		OwnerID:    "u1",
	}
	id, err := s.CreateExpense(ctx, e)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == "" {
		t.Fatalf("expected generated id")
	}

	list, err := s.ListExpenses(ctx, "u1")
	if err != nil || len(list) != 1 {
		t.Fatalf("expected 1 expense for u1, got %d (err=%v)", len(list), err)
	}
	if other, _ := s.ListExpenses(ctx, "u2"); len(other) != 0 {
		t.Fatalf("expenses must be scoped per user, got %d", len(other))
	}

	e.ID = id
	e.Title = "pazar"
	if err := s.UpdateExpense(ctx, e); err != nil {
		t.Fatalf("update: %v", err)
	}
	list, _ = s.ListExpenses(ctx, "u1")
	if list[0].Title != "pazar" {
		t.Fatalf("update not applied: %+v", list[0])
	}

	if err := s.DeleteExpense(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteExpense(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestCreateExpenseValidates(t *testing.T) {
	s := NewSeeded()
	_, err := s.CreateExpense(context.Background(), core.Expense{Title: ""})
	if !errors.Is(err, core.ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
}

func TestCategoryCreateAndDelete(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	id, err := s.CreateCategory(ctx, core.Category{Name: "Sağlık"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	cats, _ := s.ListCategories(ctx)
	if len(cats) != 1 || cats[0].Name != "Sağlık" {
		t.Fatalf("unexpected categories: %+v", cats)
	}
	if err := s.DeleteCategory(ctx, id); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	if err := s.DeleteCategory(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNewFromFiles(t *testing.T) {
	dir := t.TempDir()
	seed := "# comment\nMarket\n\nKira\nMarket\n"
	if err := os.WriteFile(filepath.Join(dir, "seed_categories.txt"), []byte(seed), 0644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}

	s := NewFromFiles(dir)
	cats, _ := s.ListCategories(context.Background())
	if len(cats) != 2 || cats[0].Name != "Market" || cats[1].Name != "Kira" {
		t.Fatalf("unexpected seeded categories: %+v", cats)
	}
}

func TestNewFromFilesFallsBackToDefaults(t *testing.T) {
	s := NewFromFiles(t.TempDir())
	cats, _ := s.ListCategories(context.Background())
	if len(cats) == 0 {
		t.Fatalf("expected default categories when seed file is missing")
	}
}

func TestCreateCategoryLimit(t *testing.T) {
	s := NewSeeded()
	l := core.CategoryLimit{
		CategoryID: "c1",
		Amount:     core.Money{Cents: 50000},
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := s.CreateCategoryLimit(context.Background(), l); err != nil {
		t.Fatalf("create limit: %v", err)
	}
	l.EndDate = l.StartDate
	if err := s.CreateCategoryLimit(context.Background(), l); !errors.Is(err, core.ErrLimitRange) {
		t.Fatalf("expected ErrLimitRange, got %v", err)
	}
}
