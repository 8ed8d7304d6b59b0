package scan

import (
	"net/url"
	"regexp"
	"strings"
)

var schemeRE = regexp.MustCompile(`(?i)^https?://`)

// Normalize agrega https:// si el payload no trae http/https.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || schemeRE.MatchString(raw) {
		return raw
	}
	return "https://" + raw
}

// IsLink indica si el payload parece un enlace de red: host con al menos un punto.
func IsLink(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	u, err := url.Parse(Normalize(raw))
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host != "" && strings.Contains(host, ".")
}

func Classify(raw string) PayloadKind {
	if IsLink(raw) {
		return KindLink
	}
	return KindText
}
