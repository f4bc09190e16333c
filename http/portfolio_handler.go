package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"unburyme/domain"
	"unburyme/service"
)

type PortfolioHandler struct {
	service  *service.PortfolioService
	validate *validator.Validate
}

func NewPortfolioHandler(service *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{service: service, validate: newValidator()}
}

type totalRequest struct {
	Loans []domain.Loan `json:"loans" validate:"required,min=1,dive"`
}

// Total sums the monthly payments of several loans.
func (h *PortfolioHandler) Total(w http.ResponseWriter, r *http.Request) {
	var req totalRequest
	if err := decodeJSON(w, r, h.validate, &req); err != nil {
		respondError(w, r, err)
		return
	}

	result, err := h.service.Total(r.Context(), req.Loans)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, result)
}
