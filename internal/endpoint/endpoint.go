// Package endpoint resolves the prediction backend base URL from an ordered
// list of providers. The first provider reporting a non-empty value wins.
package endpoint

import (
	"net/http"
	"net/url"
	"os"
	"strings"
)

// DefaultBase is used when no provider reports a value.
const DefaultBase = "http://localhost:8000"

// CookieName is the cookie holding a base URL remembered from a prior session.
const CookieName = "topk_api_base"

// BuildBase is injected at build time:
//
//	go build -ldflags "-X github.com/JaimeStill/topk/internal/endpoint.BuildBase=https://predict.example"
var BuildBase string

// Provider reports a candidate base URL and whether it is present.
type Provider func() (string, bool)

// Resolve returns the first present value from providers, or fallback.
// A provider that panics is treated as absent.
func Resolve(fallback string, providers ...Provider) string {
	for _, p := range providers {
		if v, ok := try(p); ok {
			return v
		}
	}
	return Normalize(fallback)
}

// Normalize trims surrounding whitespace and trailing slashes.
func Normalize(base string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/")
}

func try(p Provider) (v string, ok bool) {
	if p == nil {
		return "", false
	}
	defer func() {
		if recover() != nil {
			v, ok = "", false
		}
	}()
	v, ok = p()
	v = Normalize(v)
	return v, ok && v != ""
}

// Query reads the api parameter, then base, from query values. A blank
// parameter is absent and does not hide the next one.
func Query(values url.Values) Provider {
	return func() (string, bool) {
		if values == nil {
			return "", false
		}
		for _, key := range []string{"api", "base"} {
			if v := Normalize(values.Get(key)); v != "" {
				return v, true
			}
		}
		return "", false
	}
}

// RequestQuery parses the query of r. A nil request or malformed query yields
// an absent value.
func RequestQuery(r *http.Request) Provider {
	return func() (string, bool) {
		if r == nil || r.URL == nil {
			return "", false
		}
		values, err := url.ParseQuery(r.URL.RawQuery)
		if err != nil {
			return "", false
		}
		return Query(values)()
	}
}

// Override wraps a runtime-injected value such as a configured base URL.
func Override(value string) Provider {
	return func() (string, bool) {
		return value, value != ""
	}
}

// Env reads the named environment variable.
func Env(name string) Provider {
	return func() (string, bool) {
		return os.LookupEnv(name)
	}
}

// Cookie reads a base URL persisted in the named cookie.
func Cookie(r *http.Request, name string) Provider {
	return func() (string, bool) {
		if r == nil {
			return "", false
		}
		c, err := r.Cookie(name)
		if err != nil {
			return "", false
		}
		v, err := url.QueryUnescape(c.Value)
		if err != nil {
			return "", false
		}
		return v, true
	}
}

// File reads a base URL persisted in the file at path.
func File(path string) Provider {
	return func() (string, bool) {
		if path == "" {
			return "", false
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", false
		}
		return string(data), true
	}
}

// Build reports BuildBase.
func Build() Provider {
	return func() (string, bool) {
		return BuildBase, BuildBase != ""
	}
}

// RememberCookie builds the cookie persisting base across sessions.
// An empty base produces an expiring cookie that clears the preference.
func RememberCookie(name, path, base string) *http.Cookie {
	base = Normalize(base)
	c := &http.Cookie{
		Name:     name,
		Value:    url.QueryEscape(base),
		Path:     path,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   365 * 24 * 60 * 60,
	}
	if base == "" {
		c.MaxAge = -1
	}
	return c
}

// Valid reports whether base is an absolute http or https URL.
func Valid(base string) bool {
	u, err := url.Parse(Normalize(base))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
