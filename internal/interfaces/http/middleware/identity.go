package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/auth/session"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
)

// TokenVerifier turns a bearer token into the identity it was issued for.
// session.Manager satisfies it.
type TokenVerifier interface {
	Verify(raw string) (common.Identity, error)
}

// Identity resolves the request author. Requests without an Authorization
// header continue as the anonymous author; a malformed header or a token
// that fails verification is rejected with 401. Identity is attribution only,
// no route is gated on it.
func Identity(verifier TokenVerifier, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := strings.TrimSpace(r.Header.Get("Authorization"))
			if header == "" {
				next.ServeHTTP(w, r.WithContext(session.WithIdentity(r.Context(), common.AnonymousIdentity)))
				return
			}

			scheme, token, ok := strings.Cut(header, " ")
			token = strings.TrimSpace(token)
			if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
				writeUnauthorized(w, errors.New(errors.ErrCodeTokenInvalid, "authorization header must be a bearer token"))
				return
			}

			id, err := verifier.Verify(token)
			if err != nil {
				logger.Debug("bearer token rejected",
					logging.String("path", r.URL.Path),
					logging.String("code", errors.GetCode(err).String()))
				writeUnauthorized(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.WithIdentity(r.Context(), id)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == errors.CodeUnknown || code == errors.CodeOK {
		code = errors.ErrCodeTokenInvalid
	}
	var ae *errors.AppError
	message := errors.DefaultMessageForCode(code)
	if errors.As(err, &ae) && ae.Message != "" {
		message = ae.Message
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("WWW-Authenticate", `Bearer realm="atlas"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    code.String(),
		"message": message,
	})
}

//Personal.AI order the ending
