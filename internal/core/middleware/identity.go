package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"leaguepay/internal/core/logger"
)

type contextKey string

const memberIDKey contextKey = "member_id"

// memberIDHeader carries the authenticated member id, set by the OIDC proxy
// in front of this service. Authentication itself happens upstream; here we
// only transport the already-verified identity into the request context.
const memberIDHeader = "X-Member-ID"

// WithMemberIdentity rejects requests without a valid member id and makes
// the id available to handlers via MemberIDFromContext.
func WithMemberIdentity(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(memberIDHeader)
			memberID, err := uuid.Parse(raw)
			if err != nil || memberID == uuid.Nil {
				log.Warn("Request without member identity",
					logger.StringField("path", r.URL.Path),
					logger.StringField("header", raw),
				)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), memberIDKey, memberID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// MemberIDFromContext returns the authenticated member id placed by
// WithMemberIdentity.
func MemberIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	memberID, ok := ctx.Value(memberIDKey).(uuid.UUID)
	return memberID, ok
}
