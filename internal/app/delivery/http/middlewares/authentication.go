package middlewares

import (
	"context"
	"errors"
	"medrec-service/internal/pkg/constvars"
	"medrec-service/internal/pkg/exceptions"
	"medrec-service/internal/pkg/utils"
	"net/http"

	"go.uber.org/zap"
)

// Authenticate resolves the bearer token into a session and stores it in
// the request context under CONTEXT_SESSION_DATA_KEY.
func (m *Middlewares) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := utils.GetRequestID(r.Context())

		token := utils.BearerToken(r)
		if token == "" {
			utils.LogSecurityEvent(m.Log, "missing_bearer_token", requestID,
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(errors.New("authorization header is empty")))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), m.InternalConfig.RequestTimeout())
		defer cancel()

		session, err := m.AuthUsecase.ResolveSession(ctx, token)
		if err != nil {
			utils.BuildErrorResponse(m.Log, w, err)
			return
		}

		m.Log.Debug("request authenticated",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingUserIDKey, session.UserID),
			zap.String(constvars.LoggingRoleKey, session.Role.String()),
		)

		sessionCtx := context.WithValue(r.Context(), constvars.CONTEXT_SESSION_DATA_KEY, session)
		next.ServeHTTP(w, r.WithContext(sessionCtx))
	})
}
