package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"unburyme/domain"
	"unburyme/presentation"
	"unburyme/service"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type LoanHandler struct {
	service  *service.LoanService
	validate *validator.Validate
}

func NewLoanHandler(service *service.LoanService) *LoanHandler {
	return &LoanHandler{service: service, validate: newValidator()}
}

type scheduleResponse struct {
	PaymentCount int                        `json:"payment_count"`
	Entries      []domain.AmortizationEntry `json:"entries"`
}

// CalculateLoan returns the monthly payment and lifetime totals.
func (h *LoanHandler) CalculateLoan(w http.ResponseWriter, r *http.Request) {
	var loan domain.Loan
	if err := decodeJSON(w, r, h.validate, &loan); err != nil {
		respondError(w, r, err)
		return
	}

	result, err := h.service.CalculateLoan(r.Context(), loan)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, result)
}

// Schedule returns the full month-by-month amortization schedule.
func (h *LoanHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var loan domain.Loan
	if err := decodeJSON(w, r, h.validate, &loan); err != nil {
		respondError(w, r, err)
		return
	}

	entries, err := h.service.Schedule(r.Context(), loan)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, scheduleResponse{PaymentCount: len(entries), Entries: entries})
}

// Chart returns a Chart.js configuration of the remaining balance.
func (h *LoanHandler) Chart(w http.ResponseWriter, r *http.Request) {
	var loan domain.Loan
	if err := decodeJSON(w, r, h.validate, &loan); err != nil {
		respondError(w, r, err)
		return
	}

	entries, err := h.service.Schedule(r.Context(), loan)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var buf bytes.Buffer
	renderer := presentation.NewChartJSRenderer(&buf)
	if err := renderer.Render(r.Context(), presentation.BalanceSeries(entries), presentation.DefaultChartOptions()); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, json.RawMessage(buf.Bytes()))
}

// History lists recent calculations, newest first.
func (h *LoanHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxHistoryLimit {
			respondRaw(w, r, http.StatusBadRequest, errorResponse{
				Error: "limit must be between 1 and " + strconv.Itoa(maxHistoryLimit),
			})
			return
		}
		limit = n
	}

	calcs, err := h.service.History(r.Context(), limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if calcs == nil {
		calcs = []domain.Calculation{}
	}

	respondJSON(w, r, http.StatusOK, calcs)
}
