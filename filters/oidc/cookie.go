package oidc

import (
	"fmt"
	"net/url"
	"strings"
)

// CookieRole identifies which of the three cookies a directive concerns.
type CookieRole string

const (
	CookieRoleState       CookieRole = "state"
	CookieRoleIDToken     CookieRole = "id-token"
	CookieRoleAccessToken CookieRole = "access-token"
)

// cookieName computes the __Host-[<prefix>-]authservice-<role>-cookie name
// (spec §3). The prefix segment is omitted entirely when empty.
func cookieName(prefix string, role CookieRole) string {
	if prefix == "" {
		return fmt.Sprintf("__Host-authservice-%s-cookie", role)
	}
	return fmt.Sprintf("__Host-%s-authservice-%s-cookie", prefix, role)
}

// cookiesFromHeader parses every "Cookie" request header line into a flat
// name -> value map. Later occurrences of a duplicate name win, matching
// how net/http's own cookie jar resolves collisions.
func cookiesFromHeader(cookieHeaderValues []string) map[string]string {
	result := make(map[string]string)
	for _, line := range cookieHeaderValues {
		for _, part := range strings.Split(line, ";") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			name, value, ok := strings.Cut(part, "=")
			if !ok {
				continue
			}
			if unescaped, err := url.QueryUnescape(value); err == nil {
				value = unescaped
			}
			result[strings.TrimSpace(name)] = value
		}
	}
	return result
}

// encodeCookieTimeoutDirective renders the Max-Age directive for a given
// timeout in seconds, kept as its own step so it can be tested in
// isolation (mirrors the original implementation's decomposition).
func encodeCookieTimeoutDirective(maxAgeSeconds int64) string {
	return fmt.Sprintf("Max-Age=%d", maxAgeSeconds)
}

// cookieDirectives renders the fixed attribute suffix every Set-Cookie the
// core emits carries (spec §4.3.4).
func cookieDirectives(maxAgeSeconds int64) string {
	return fmt.Sprintf("HttpOnly; %s; Path=/; SameSite=Lax; Secure", encodeCookieTimeoutDirective(maxAgeSeconds))
}

// setCookieHeader renders a Set-Cookie value that creates/refreshes a
// session cookie.
func setCookieHeader(name, value string, maxAgeSeconds int64) string {
	return fmt.Sprintf("%s=%s; %s", name, url.QueryEscape(value), cookieDirectives(maxAgeSeconds))
}

// deleteCookieHeader renders a Set-Cookie value that deletes a session
// cookie (spec §4.3.4: literal value "deleted", Max-Age=0).
func deleteCookieHeader(name string) string {
	return fmt.Sprintf("%s=deleted; %s", name, cookieDirectives(0))
}
