package http

import (
	"net/http"

	"loan-quote/domain"
	"loan-quote/service"
)

type CalculateHandler struct {
	service *service.LoanService
}

func NewCalculateHandler(service *service.LoanService) *CalculateHandler {
	return &CalculateHandler{service: service}
}

// CalculateLoan returns rate, payment and formatted figures for an amount
// and a term in years.
func (h *CalculateHandler) CalculateLoan(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var input domain.LoanInput
	if err := decodeJSON(w, r, &input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.CalculateLoan(input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}
