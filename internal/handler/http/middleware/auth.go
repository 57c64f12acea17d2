package middleware

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/cmlabs-hris/leave-dashboard-go/internal/handler/http/response"
	"github.com/cmlabs-hris/leave-dashboard-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// LoginRequiredNotice is shown on the dashboard when a form post lacks a
// valid access token.
const LoginRequiredNotice = "Registration requires an access token. Set it in the jwt cookie and try again."

var errInvalidToken = errors.New("invalid or expired token")

// AuthRequired rejects requests without a verified access token. It runs
// after jwtauth.Verifier has placed the token in the context.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			if err := verifyAccessToken(r); err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// FormAuthRequired is AuthRequired for browser form posts: a missing or
// invalid token redirects to redirectTo with an error notice.
func FormAuthRequired(redirectTo string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			if err := verifyAccessToken(r); err != nil {
				query := url.Values{}
				query.Set("error", LoginRequiredNotice)
				http.Redirect(w, r, redirectTo+"?"+query.Encode(), http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

func verifyAccessToken(r *http.Request) error {
	token, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return err
	}

	if token == nil {
		return errInvalidToken
	}

	tokenType, ok := claims["type"].(string)
	if tokenType != jwt.TokenTypeAccess || !ok {
		return errInvalidToken
	}
	return nil
}
