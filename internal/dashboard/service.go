package dashboard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"gider/internal/cache"
	"gider/internal/core"
	"gider/internal/log"
	"gider/internal/ports"
	"gider/internal/token"
)

// TokenSource yields the persisted session token.
type TokenSource interface {
	Get(ctx context.Context) (string, error)
}

// Identity is the decoded session owner.
type Identity struct {
	UserID      string
	DisplayName string
}

// Service builds dashboard views on top of the expense backend. Summaries
// are cached per user and concurrent builds of the same summary are
// collapsed into one backend round trip.
type Service struct {
	backend ports.Backend
	tokens  TokenSource
	cache   *cache.LRUCache[core.Summary]
	group   singleflight.Group
	log     *log.Logger
	timeout time.Duration
}

type Options struct {
	CacheSize int
	CacheTTL  time.Duration
	// Timeout bounds each backend round trip. Zero disables the bound.
	Timeout time.Duration
}

func New(backend ports.Backend, tokens TokenSource, logger *log.Logger, opts Options) *Service {
	if opts.CacheSize < 1 {
		opts.CacheSize = 16
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 2 * time.Minute
	}
	return &Service{
		backend: backend,
		tokens:  tokens,
		cache:   cache.NewLRUCache[core.Summary](opts.CacheSize, opts.CacheTTL),
		log:     logger,
		timeout: opts.Timeout,
	}
}

// Cache exposes the summary cache for expiry sweeps.
func (s *Service) Cache() cache.Cleaner { return s.cache }

// Identity decodes the stored token into the session owner.
func (s *Service) Identity(ctx context.Context) (Identity, error) {
	raw, err := s.tokens.Get(ctx)
	if err != nil {
		return Identity{}, fmt.Errorf("read session token: %w", err)
	}
	claims, err := token.Decode(raw)
	if err != nil {
		return Identity{}, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return Identity{}, err
	}
	return Identity{UserID: userID, DisplayName: claims.DisplayName()}, nil
}

// Summary returns the aggregated dashboard view for the session owner.
func (s *Service) Summary(ctx context.Context) (core.Summary, error) {
	ident, err := s.Identity(ctx)
	if err != nil {
		return core.Summary{}, err
	}

	key := ident.UserID + ":summary"
	if cached, ok := s.cache.Get(key); ok {
		s.log.DebugContext(ctx, "summary cache hit", log.FieldUserID, ident.UserID)
		return cached, nil
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		summary, err := s.build(ctx, ident.UserID)
		if err != nil {
			return core.Summary{}, err
		}
		s.cache.Set(key, summary)
		return summary, nil
	})
	if err != nil {
		return core.Summary{}, err
	}
	if shared {
		s.log.DebugContext(ctx, "summary build shared", log.FieldUserID, ident.UserID)
	}
	return v.(core.Summary), nil
}

// build fetches expenses first and categories only after that resolves.
// The remote API tolerates nothing fancier, so the order stays fixed.
func (s *Service) build(ctx context.Context, userID string) (core.Summary, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	start := time.Now()
	expenses, err := s.backend.ListExpenses(ctx, userID)
	if err != nil {
		return core.Summary{}, err
	}
	categories, err := s.backend.ListCategories(ctx)
	if err != nil {
		return core.Summary{}, err
	}

	summary := core.Aggregate(expenses, categories)
	s.log.InfoContext(ctx, "summary built",
		log.FieldUserID, userID,
		"expenses", len(expenses),
		"categories", len(categories),
		log.FieldDuration, time.Since(start).Milliseconds(),
	)
	return summary, nil
}

// Expenses lists the session owner's expenses, newest data straight from
// the backend.
func (s *Service) Expenses(ctx context.Context) ([]core.Expense, error) {
	ident, err := s.Identity(ctx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.backend.ListExpenses(ctx, ident.UserID)
}

func (s *Service) Categories(ctx context.Context) ([]core.Category, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.backend.ListCategories(ctx)
}

// AddExpense stamps the session owner onto the expense before the write.
func (s *Service) AddExpense(ctx context.Context, e core.Expense) (string, error) {
	ident, err := s.Identity(ctx)
	if err != nil {
		return "", err
	}
	e.OwnerID = ident.UserID

	ctx, cancel := s.bound(ctx)
	defer cancel()
	id, err := s.backend.CreateExpense(ctx, e)
	if err != nil {
		return "", err
	}
	s.invalidate(ctx, ident.UserID)
	s.log.InfoContext(ctx, "expense created", log.FieldUserID, ident.UserID, log.FieldExpenseID, id)
	return id, nil
}

func (s *Service) UpdateExpense(ctx context.Context, e core.Expense) error {
	ident, err := s.Identity(ctx)
	if err != nil {
		return err
	}
	e.OwnerID = ident.UserID

	ctx, cancel := s.bound(ctx)
	defer cancel()
	if err := s.backend.UpdateExpense(ctx, e); err != nil {
		return err
	}
	s.invalidate(ctx, ident.UserID)
	s.log.InfoContext(ctx, "expense updated", log.FieldUserID, ident.UserID, log.FieldExpenseID, e.ID)
	return nil
}

func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	ident, err := s.Identity(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	if err := s.backend.DeleteExpense(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, ident.UserID)
	s.log.InfoContext(ctx, "expense deleted", log.FieldUserID, ident.UserID, log.FieldExpenseID, id)
	return nil
}

// AddCategory creates a category. Categories are shared, so every user's
// cached summary goes stale at once and the whole cache is dropped.
func (s *Service) AddCategory(ctx context.Context, c core.Category) (string, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	id, err := s.backend.CreateCategory(ctx, c)
	if err != nil {
		return "", err
	}
	s.invalidate(ctx, "")
	s.log.InfoContext(ctx, "category created", log.FieldCategoryID, id)
	return id, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	if err := s.backend.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, "")
	s.log.InfoContext(ctx, "category deleted", log.FieldCategoryID, id)
	return nil
}

func (s *Service) AddCategoryLimit(ctx context.Context, l core.CategoryLimit) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.backend.CreateCategoryLimit(ctx, l)
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	n := s.cache.DeletePrefix(userID)
	if n > 0 {
		s.log.DebugContext(ctx, "summary cache invalidated", log.FieldUserID, userID, "removed", n)
	}
}

func (s *Service) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}
