package middleware

import (
	"context"
	"net/http"

	"github.com/mssola/useragent"
)

// Surface variant classes derived from the client's User-Agent. Hosts can
// always override these by naming a variant in the session request.
const (
	VariantDefault = ""
	VariantCompact = "compact"
)

type variantKey struct{}

// Variant inspects the User-Agent and stores a suggested surface variant in
// the request context. Mobile clients get the compact variant.
func Variant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		variant := VariantDefault
		if uaString := r.UserAgent(); uaString != "" {
			if ua := useragent.New(uaString); ua.Mobile() {
				variant = VariantCompact
			}
		}
		ctx := context.WithValue(r.Context(), variantKey{}, variant)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetVariant retrieves the suggested surface variant from the context.
func GetVariant(ctx context.Context) string {
	if v, ok := ctx.Value(variantKey{}).(string); ok {
		return v
	}
	return VariantDefault
}
