package middleware

import (
	"net/http"
	"strings"

	"github.com/karangtaruna-pekunden/marketplace/api/responses"
	"github.com/karangtaruna-pekunden/marketplace/pkg/cartoken"
	"github.com/karangtaruna-pekunden/marketplace/pkg/config"
	pkgerrors "github.com/karangtaruna-pekunden/marketplace/pkg/errors"
	"github.com/karangtaruna-pekunden/marketplace/pkg/logger"
)

// CartToken resolves X-Cart-Token into a cart id on the request context. Requests
// without a valid token are rejected with 401.
func CartToken(cfg config.CartTokenConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			raw := strings.TrimSpace(r.Header.Get(cartoken.Header))
			if raw == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "cart token required"))
				return
			}

			claims, err := cartoken.Parse(cfg, raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid cart token"))
				return
			}

			cartID := claims.CartID.String()
			ctx = WithCartID(ctx, cartID)
			if logg != nil {
				ctx = logg.WithCartID(ctx, cartID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
