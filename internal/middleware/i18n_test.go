package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func localeProbe(t *testing.T, lookup CountryLookup, decorate func(*http.Request)) string {
	t.Helper()
	var got string
	handler := I18N("en", lookup)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LocaleFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if decorate != nil {
		decorate(req)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestI18NDefaultsToEnglish(t *testing.T) {
	if got := localeProbe(t, nil, nil); got != "en" {
		t.Fatalf("locale = %q, want en", got)
	}
}

func TestI18NXLocaleHeaderWins(t *testing.T) {
	got := localeProbe(t, nil, func(r *http.Request) {
		r.Header.Set("X-Locale", "id")
		r.Header.Set("Accept-Language", "en-US")
	})
	if got != "id" {
		t.Fatalf("locale = %q, want id", got)
	}
}

func TestI18NAcceptLanguage(t *testing.T) {
	got := localeProbe(t, nil, func(r *http.Request) {
		r.Header.Set("Accept-Language", "id-ID,id;q=0.9,en;q=0.8")
	})
	if got != "id" {
		t.Fatalf("locale = %q, want id", got)
	}
}

func TestI18NCountryFallback(t *testing.T) {
	lookup := func(ip string) string { return "ID" }
	if got := localeProbe(t, lookup, nil); got != "id" {
		t.Fatalf("locale = %q, want id", got)
	}
	lookup = func(ip string) string { return "US" }
	if got := localeProbe(t, lookup, nil); got != "en" {
		t.Fatalf("locale = %q, want en", got)
	}
}

func TestI18NUnknownLanguageFallsBack(t *testing.T) {
	got := localeProbe(t, nil, func(r *http.Request) {
		r.Header.Set("Accept-Language", "fr-FR")
	})
	if got != "en" {
		t.Fatalf("locale = %q, want en", got)
	}
}

func TestLocaleFromContextDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := LocaleFromContext(req.Context()); got != "en" {
		t.Fatalf("locale = %q, want en", got)
	}
}
