package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/auth/session"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
)

var testAuthor = common.Identity{Email: "ada@example.org", Name: "Ada Lovelace", Initials: "AL"}

type routeRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// serve routes one request through a chi router carrying testAuthor.
func serve(t *testing.T, h routeRegistrar, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(session.WithIdentity(req.Context(), testAuthor)))
		})
	})
	h.RegisterRoutes(r)

	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeData unwraps the success envelope.
func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) (T, common.APIResponse[T]) {
	t.Helper()
	var env common.APIResponse[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env.Data, env
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

//Personal.AI order the ending
