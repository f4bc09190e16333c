package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"unburyme/domain"
	"unburyme/service"
)

type TermRecommendationHandler struct {
	service  *service.TermRecommendationService
	validate *validator.Validate
}

func NewTermRecommendationHandler(service *service.TermRecommendationService) *TermRecommendationHandler {
	return &TermRecommendationHandler{service: service, validate: newValidator()}
}

func (h *TermRecommendationHandler) RecommendTerm(w http.ResponseWriter, r *http.Request) {
	var input domain.TermRecommendationInput
	if err := decodeJSON(w, r, h.validate, &input); err != nil {
		respondError(w, r, err)
		return
	}

	result, err := h.service.RecommendTerm(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, result)
}
