package memory

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gider/internal/core"
	"gider/internal/ports"
)

// ErrNotFound is returned for updates and deletes against unknown IDs.
var ErrNotFound = errors.New("record not found")

// Store keeps expenses and categories in process memory. It is the offline
// stand-in for the remote API during development and in tests.
type Store struct {
	mu       sync.Mutex
	expenses []core.Expense
	cats     []core.Category
	limits   []core.CategoryLimit
}

var _ ports.Backend = (*Store)(nil)

// New seeds the store with the given categories, assigning IDs to any
// category that lacks one.
func New(cats []core.Category) *Store {
	s := &Store{}
	for _, c := range cats {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		s.cats = append(s.cats, c)
	}
	return s
}

// NewSeeded builds a store with a small default category set.
func NewSeeded() *Store {
	return New([]core.Category{
		{Name: "Market"},
		{Name: "Kira"},
		{Name: "Ulaşım"},
		{Name: "Eğlence"},
	})
}

// NewFromFiles seeds categories from <base>/seed_categories.txt, one name
// per line, falling back to the default set when the file is missing or
// empty.
func NewFromFiles(base string) *Store {
	names := readLines(filepath.Join(base, "seed_categories.txt"))
	if len(names) == 0 {
		return NewSeeded()
	}
	cats := make([]core.Category, 0, len(names))
	for _, name := range names {
		cats = append(cats, core.Category{Name: name})
	}
	return New(cats)
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	seen := map[string]struct{}{}
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}

func (s *Store) ListExpenses(_ context.Context, userID string) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		if e.OwnerID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Category(nil), s.cats...), nil
}

func (s *Store) CreateExpense(_ context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = uuid.NewString()
	s.expenses = append(s.expenses, e)
	return e.ID, nil
}

func (s *Store) UpdateExpense(_ context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.expenses {
		if s.expenses[i].ID == e.ID {
			s.expenses[i] = e
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.expenses {
		if s.expenses[i].ID == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) CreateCategory(_ context.Context, cat core.Category) (string, error) {
	if err := cat.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cat.ID = uuid.NewString()
	s.cats = append(s.cats, cat)
	return cat.ID, nil
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cats {
		if s.cats[i].ID == id {
			s.cats = append(s.cats[:i], s.cats[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) CreateCategoryLimit(_ context.Context, l core.CategoryLimit) error {
	if err := l.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limits = append(s.limits, l)
	return nil
}

// Seed inserts an expense without validation, for test fixtures that need
// records the remote API could have produced but the client would reject.
func (s *Store) Seed(userID, title string, cents int64, date time.Time, categoryID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := core.Expense{
		ID:         uuid.NewString(),
		Title:      title,
		Amount:     core.Money{Cents: cents},
		Date:       date,
		CategoryID: categoryID,
		OwnerID:    userID,
	}
	s.expenses = append(s.expenses, e)
	return e.ID
}
