package comms

import (
	"net/url"
	"regexp"
	"strings"
)

var notDialable = regexp.MustCompile(`[^0-9+#*]`)

// SanitizeNumber deja sólo dígitos y + # *.
func SanitizeNumber(raw string) string {
	return notDialable.ReplaceAllString(raw, "")
}

// encodeComponent codifica como encodeURIComponent (espacios => %20).
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func CallURL(number string) string {
	return "tel:" + number
}

// SMSURL usa "&body=" en iOS y "?body=" en el resto.
func SMSURL(number, message, platform string) string {
	msg := strings.TrimSpace(message)
	if msg == "" {
		return "sms:" + number
	}
	sep := "?"
	if platform == PlatformIOS {
		sep = "&"
	}
	return "sms:" + number + sep + "body=" + encodeComponent(msg)
}

// WhatsAppURLs devuelve el scheme nativo y el fallback web.
func WhatsAppURLs(number, message string) (primary, fallback string) {
	digits := strings.TrimLeft(number, "+")
	msg := strings.TrimSpace(message)

	primary = "whatsapp://send?phone=" + digits
	fallback = "https://wa.me/" + digits
	if msg != "" {
		primary += "&text=" + encodeComponent(msg)
		fallback += "?text=" + encodeComponent(msg)
	}
	return primary, fallback
}
