package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gider/internal/core"
)

type staticTokens string

func (s staticTokens) Get(context.Context) (string, error) {
	if s == "" {
		return "", errors.New("no stored token")
	}
	return string(s), nil
}

func newTestClient(t *testing.T, handler http.Handler, tokens TokenSource) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL, AuthorizeCategoryList: true, HTTPClient: srv.Client()}, tokens)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c, srv
}

func TestListExpensesDecodesRecords(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/Expense/user/u1" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Fatalf("unexpected auth header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		// Mixed id types and a broken date, as seen in the wild
		w.Write([]byte(`[
			{"id": 7, "title": "market", "amount": 100.5, "expenseDate": "2024-01-15T00:00:00", "categoryId": "A"},
			{"id": "e2", "title": "kira", "amount": 200, "expenseDate": "not-a-date", "categoryId": 3}
		]`))
	})
	c, _ := newTestClient(t, handler, staticTokens("tok"))

	expenses, err := c.ListExpenses(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list expenses: %v", err)
	}
	if len(expenses) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(expenses))
	}
	first := expenses[0]
	if first.ID != "7" || first.Amount.Cents != 10050 || first.CategoryID != "A" {
		t.Fatalf("unexpected first expense: %+v", first)
	}
	if first.Date.IsZero() || first.Date.Month() != time.January {
		t.Fatalf("expected parsed January date, got %v", first.Date)
	}
	second := expenses[1]
	if !second.Date.IsZero() {
		t.Fatalf("unparseable date must map to zero time, got %v", second.Date)
	}
	if second.Amount.Cents != 20000 || second.CategoryID != "3" {
		t.Fatalf("unexpected second expense: %+v", second)
	}
}

func TestListCategoriesReadsBothNameRevisions(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/Categorys/getall" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`[{"id":"a","categoryName":"Food"},{"id":"b","name":"Rent"}]`))
	})
	c, _ := newTestClient(t, handler, staticTokens("tok"))

	cats, err := c.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(cats) != 2 || cats[0].Name != "Food" || cats[1].Name != "Rent" {
		t.Fatalf("unexpected categories: %+v", cats)
	}
}

func TestCategoryListAuthIsConfigurable(t *testing.T) {
	var sawAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, AuthorizeCategoryList: false, HTTPClient: srv.Client()}, staticTokens("tok"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := c.ListCategories(context.Background()); err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if sawAuth != "" {
		t.Fatalf("expected no bearer header, got %q", sawAuth)
	}
}

func TestFetchErrorCarriesServerMessage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"something broke"}`))
	})
	c, _ := newTestClient(t, handler, staticTokens("tok"))

	_, err := c.ListExpenses(context.Background(), "u1")
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Status != http.StatusInternalServerError || fe.Message != "something broke" {
		t.Fatalf("unexpected fetch error: %+v", fe)
	}
}

func TestUnauthorizedFetch(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	c, _ := newTestClient(t, handler, staticTokens("stale"))

	_, err := c.ListExpenses(context.Background(), "u1")
	var fe *FetchError
	if !errors.As(err, &fe) || !fe.Unauthorized() {
		t.Fatalf("expected unauthorized FetchError, got %v", err)
	}
}

func TestMutationErrorOnFailedCreate(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"kategori bulunamadı"}`))
	})
	c, _ := newTestClient(t, handler, staticTokens("tok"))

	_, err := c.CreateExpense(context.Background(), core.Expense{
		Title:      "market",
		Amount:     core.Money{Cents: 100},
		CategoryID: "ghost",
	})
	var me *MutationError
	if !errors.As(err, &me) {
		t.Fatalf("expected MutationError, got %v", err)
	}
	if me.Message != "kategori bulunamadı" {
		t.Fatalf("unexpected message %q", me.Message)
	}
}

func TestValidationBlocksBeforeNetwork(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("invalid payload must not reach the network")
	})
	c, _ := newTestClient(t, handler, staticTokens("tok"))

	if _, err := c.CreateExpense(context.Background(), core.Expense{Title: ""}); !errors.Is(err, core.ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if _, err := c.CreateCategory(context.Background(), core.Category{Name: " "}); !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}

	badLimit := core.CategoryLimit{
		CategoryID: "c1",
		Amount:     core.Money{Cents: 100},
		StartDate:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := c.CreateCategoryLimit(context.Background(), badLimit); !errors.Is(err, core.ErrLimitRange) {
		t.Fatalf("expected ErrLimitRange, got %v", err)
	}
}

func TestLoginReturnsToken(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/Auths/Login" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Fatalf("login must not send a bearer header")
		}
		w.Write([]byte(`{"token":"fresh-token"}`))
	})
	c, _ := newTestClient(t, handler, staticTokens(""))

	tok, err := c.Login(context.Background(), "a@b.c", "secret")
	if err != nil || tok != "fresh-token" {
		t.Fatalf("expected fresh-token, got %q (err=%v)", tok, err)
	}
}

func TestMissingTokenShortCircuits(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("request must not be sent without a token")
	})
	c, _ := newTestClient(t, handler, staticTokens(""))

	_, err := c.ListExpenses(context.Background(), "u1")
	if err == nil {
		t.Fatalf("expected error for missing token")
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		t.Fatalf("missing token must not be a FetchError: %v", err)
	}
}
