package http

import (
	"net/http"
	"time"

	"gider/internal/api"
	"gider/internal/chart"
	"gider/internal/core"
	"gider/internal/log"
)

const dateLayout = "2006-01-02"

type expenseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	CategoryID  string `json:"categoryId"`
}

type categoryRequest struct {
	Name string `json:"name"`
}

type limitRequest struct {
	Amount    string `json:"amount"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type sessionResponse struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type expenseResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date,omitempty"`
	CategoryID  string  `json:"categoryId"`
}

type categoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type summaryResponse struct {
	Total         float64             `json:"total"`
	CategoryCount int                 `json:"categoryCount"`
	Distribution  []distributionEntry `json:"distribution"`
	Monthly       []monthEntry        `json:"monthly"`
	Peak          monthEntry          `json:"peak"`
}

type distributionEntry struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type monthEntry struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	ident, err := s.svc.Identity(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{UserID: ident.UserID, DisplayName: ident.DisplayName})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.auth == nil {
		writeError(w, http.StatusNotImplemented, "login is not available on this backend")
		return
	}

	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = sanitizeInput(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	raw, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := s.sessions.Set(r.Context(), raw); err != nil {
		respondError(w, err)
		return
	}
	s.log.InfoContext(r.Context(), "login succeeded", log.FieldOperation, log.OpLogin)
	writeSuccess(w, "signed in")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Clear(r.Context()); err != nil {
		respondError(w, err)
		return
	}
	writeSuccess(w, "signed out")
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if s.auth == nil {
		writeError(w, http.StatusNotImplemented, "registration is not available on this backend")
		return
	}

	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.FirstName = sanitizeInput(req.FirstName)
	req.LastName = sanitizeInput(req.LastName)
	req.Email = sanitizeInput(req.Email)
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "all fields are required")
		return
	}

	err := s.auth.Register(r.Context(), api.RegisterParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeSuccess(w, "account created, you can sign in now")
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.Summary(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	resp := summaryResponse{
		Total:         summary.Total.Lira(),
		CategoryCount: summary.CategoryCount,
		Distribution:  make([]distributionEntry, 0, len(summary.Distribution)),
		Monthly:       make([]monthEntry, 0, len(summary.Monthly)),
		Peak:          monthEntry{Label: summary.Peak.Label, Amount: summary.Peak.Total.Lira()},
	}
	for _, d := range summary.Distribution {
		resp.Distribution = append(resp.Distribution, distributionEntry{Name: d.Name, Amount: d.Amount.Lira()})
	}
	for _, m := range summary.Monthly {
		resp.Monthly = append(resp.Monthly, monthEntry{Label: m.Label, Amount: m.Total.Lira()})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePie(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.Summary(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chart.Pie(summary))
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.Summary(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chart.Trend(summary))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.svc.Expenses(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		resp := expenseResponse{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			Amount:      e.Amount.Lira(),
			CategoryID:  e.CategoryID,
		}
		if !e.Date.IsZero() {
			resp.Date = e.Date.Format(dateLayout)
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	e, ok := s.expenseFromRequest(w, r)
	if !ok {
		return
	}
	id, err := s.svc.AddExpense(r.Context(), e)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, notification{Status: "success", Message: "expense created: " + id})
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	e, ok := s.expenseFromRequest(w, r)
	if !ok {
		return
	}
	e.ID = r.PathValue("id")
	if e.ID == "" {
		writeError(w, http.StatusBadRequest, "expense id is required")
		return
	}
	if err := s.svc.UpdateExpense(r.Context(), e); err != nil {
		respondError(w, err)
		return
	}
	writeSuccess(w, "expense updated")
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "expense id is required")
		return
	}
	if err := s.svc.DeleteExpense(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	writeSuccess(w, "expense deleted")
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.svc.Categories(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryResponse{ID: c.ID, Name: c.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id, err := s.svc.AddCategory(r.Context(), core.Category{Name: sanitizeInput(req.Name)})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, notification{Status: "success", Message: "category created: " + id})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "category id is required")
		return
	}
	if err := s.svc.DeleteCategory(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	writeSuccess(w, "category deleted")
}

func (s *Server) handleCreateCategoryLimit(w http.ResponseWriter, r *http.Request) {
	var req limitRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount: "+req.Amount)
		return
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start date: "+req.StartDate)
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end date: "+req.EndDate)
		return
	}

	limit := core.CategoryLimit{
		CategoryID: r.PathValue("id"),
		Amount:     core.Money{Cents: cents},
		StartDate:  start,
		EndDate:    end,
	}
	if err := s.svc.AddCategoryLimit(r.Context(), limit); err != nil {
		respondError(w, err)
		return
	}
	writeSuccess(w, "category limit created")
}

func (s *Server) expenseFromRequest(w http.ResponseWriter, r *http.Request) (core.Expense, bool) {
	var req expenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return core.Expense{}, false
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount: "+req.Amount)
		return core.Expense{}, false
	}

	e := core.Expense{
		Title:       sanitizeInput(req.Title),
		Description: sanitizeInput(req.Description),
		Amount:      core.Money{Cents: cents},
		CategoryID:  req.CategoryID,
	}
	if req.Date != "" {
		d, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date: "+req.Date)
			return core.Expense{}, false
		}
		e.Date = d
	}
	if err := e.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return core.Expense{}, false
	}
	return e, true
}
