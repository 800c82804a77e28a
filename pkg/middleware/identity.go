package middleware

import (
	"context"
	"net/http"
	apperrors "seatrota/pkg/errors"
	httputil "seatrota/pkg/http"
	"seatrota/pkg/logger"
	"seatrota/pkg/model"
	"seatrota/pkg/sanitizer"

	"github.com/julienschmidt/httprouter"
)

const (
	UserIDHeader            = "X-User-ID"
	userKey      contextKey = "user"
)

// UserLookup resolves a caller id. It must return a NOT_FOUND AppError for
// unknown ids.
type UserLookup func(ctx context.Context, id string) (*model.User, error)

// Identity resolves the X-User-ID header into a *model.User on the request
// context. Requests without the header pass through anonymously; unknown ids
// are rejected.
func Identity(lookup UserLookup, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(UserIDHeader)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			id := sanitizer.UserID(raw)
			if id == "" {
				httputil.WriteError(w, apperrors.Unauthorized("malformed "+UserIDHeader+" header"))
				return
			}

			user, err := lookup(r.Context(), id)
			if err != nil {
				if apperrors.HasCode(err, apperrors.CodeNotFound) {
					log.Warn("Unknown caller", "request_id", RequestID(r.Context()), "user_id", id)
					httputil.WriteError(w, apperrors.Unauthorized("unknown user"))
					return
				}
				httputil.WriteError(w, err)
				return
			}
			if !user.IsActive {
				httputil.WriteError(w, apperrors.Forbidden("user is inactive"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

// RequireUser rejects anonymous requests.
func RequireUser(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if _, ok := UserFromContext(r.Context()); !ok {
			httputil.WriteError(w, apperrors.Unauthorized("missing "+UserIDHeader+" header"))
			return
		}
		next(w, r, ps)
	}
}

// RequireAdmin rejects callers without the admin role.
func RequireAdmin(next httprouter.Handle) httprouter.Handle {
	return RequireUser(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		user, _ := UserFromContext(r.Context())
		if !user.IsAdmin() {
			httputil.WriteError(w, apperrors.Forbidden("admin role required"))
			return
		}
		next(w, r, ps)
	})
}
