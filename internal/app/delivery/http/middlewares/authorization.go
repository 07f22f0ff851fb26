package middlewares

import (
	"errors"
	"medrec-service/internal/app/models"
	"medrec-service/internal/pkg/constvars"
	"medrec-service/internal/pkg/exceptions"
	"medrec-service/internal/pkg/utils"
	"net/http"

	"go.uber.org/zap"
)

// RequireRoles must run after Authenticate.
func (m *Middlewares) RequireRoles(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := utils.GetSessionFromContext(r.Context())
			if err != nil {
				utils.BuildErrorResponse(m.Log, w, err)
				return
			}

			if !session.HasRole(roles...) {
				utils.LogSecurityEvent(m.Log, "role_not_allowed", utils.GetRequestID(r.Context()),
					zap.String(constvars.LoggingUserIDKey, session.UserID),
					zap.String(constvars.LoggingRoleKey, session.Role.String()),
					zap.String(constvars.LoggingEndpointKey, r.URL.Path),
				)
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrRoleNotAllowed(errors.New("role is not permitted on this route"), session.Role.String()))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
