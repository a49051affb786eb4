package ledgerapi

import (
	"fmt"
	"net/http"

	"github.com/bahikhata-erp/bahikhata/internal/platform/httpx"
)

// decode parses and validates the request body, writing the problem response
// itself on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: malformed JSON", httpx.ErrValidation))
		return false
	}
	if err := h.validator.Struct(target); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return false
	}
	return true
}
