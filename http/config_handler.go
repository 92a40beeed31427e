package http

import (
	"net/http"

	"loan-quote/service"
)

type ConfigHandler struct {
	policy *service.QuotePolicy
}

func NewConfigHandler(policy *service.QuotePolicy) *ConfigHandler {
	return &ConfigHandler{policy: policy}
}

func (h *ConfigHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cfg, err := h.policy.Config(r.Context(), clientIP(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cfg)
}
