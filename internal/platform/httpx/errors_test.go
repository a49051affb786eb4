package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRespondErrorMapsSentinels(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		title  string
	}{
		{"not found", fmt.Errorf("sale: %w", ErrNotFound), 404, "Not Found"},
		{"duplicate", fmt.Errorf("customer id already exists: %w", ErrDuplicate), 409, "Duplicate"},
		{"validation", fmt.Errorf("%w: malformed JSON", ErrValidation), 400, "Validation Failed"},
		{"unauthorized", fmt.Errorf("missing token: %w", ErrUnauthorized), 401, "Unauthorized"},
		{"unknown", errors.New("boom"), 500, "Internal Error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondError(rec, tc.err)

			require.Equal(t, tc.status, rec.Code)

			var body ProblemDetail
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, tc.title, body.Title)
			require.Equal(t, tc.status, body.Status)
			if tc.status == 500 {
				require.Empty(t, body.Detail, "internal errors must not leak details")
			} else {
				require.Equal(t, tc.err.Error(), body.Detail)
			}
		})
	}
}
