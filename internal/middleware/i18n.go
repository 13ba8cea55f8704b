package middleware

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type localeContextKey struct{}

// LocaleKey stores the negotiated locale in the request context.
var LocaleKey = localeContextKey{}

var localeMatcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Indonesian,
})

// CountryLookup resolves an ISO country code for an IP address, best effort.
type CountryLookup func(ip string) string

// I18N negotiates the user-facing message locale from the X-Locale header,
// Accept-Language, or the client's country, in that order.
func I18N(defaultLocale string, lookup CountryLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := detectLocale(r, defaultLocale, lookup)
			ctx := context.WithValue(r.Context(), LocaleKey, locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func detectLocale(r *http.Request, fallback string, lookup CountryLookup) string {
	if v := strings.TrimSpace(r.Header.Get("X-Locale")); v != "" {
		return matchLocale(v)
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		return matchLocale(accept)
	}
	if lookup != nil {
		if country := lookup(ClientIP(r)); strings.EqualFold(country, "ID") {
			return "id"
		}
	}
	if fallback != "" {
		return matchLocale(fallback)
	}
	return "en"
}

func matchLocale(prefs string) string {
	tag, _ := language.MatchStrings(localeMatcher, prefs)
	base, _ := tag.Base()
	if base.String() == "id" {
		return "id"
	}
	return "en"
}

// LocaleFromContext returns the negotiated locale, defaulting to English.
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok && v != "" {
		return v
	}
	return "en"
}
