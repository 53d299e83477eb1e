// Package whatsapp builds click-to-chat links. Sending is left to the user's
// WhatsApp client; nothing here talks to WhatsApp.
package whatsapp

import (
	"errors"
	"net/url"
	"strings"
)

const baseURL = "https://wa.me/"

// DefaultCountryCode is Argentina
const DefaultCountryCode = "54"

var ErrInvalidPhone = errors.New("phone number has too few digits")

// minDigits is the shortest national number accepted
const minDigits = 6

// NormalizePhone reduces a phone number to the international digits wa.me
// expects. An international "00" or "+" prefix is kept as is; a national
// trunk "0" is replaced by countryCode; a bare local number gets countryCode
// prepended unless it already starts with it.
func NormalizePhone(phone, countryCode string) (string, error) {
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	international := strings.HasPrefix(strings.TrimSpace(phone), "+")

	digits := onlyDigits(phone)
	switch {
	case strings.HasPrefix(digits, "00"):
		digits = digits[2:]
		international = true
	case !international && strings.HasPrefix(digits, "0"):
		digits = countryCode + strings.TrimLeft(digits, "0")
	case !international && !strings.HasPrefix(digits, countryCode):
		digits = countryCode + digits
	}

	if len(digits) < minDigits {
		return "", ErrInvalidPhone
	}
	return digits, nil
}

// ShareLink returns a wa.me link that opens a chat with phone and the message
// prefilled. With an empty phone the link lets the user pick the chat.
func ShareLink(phone, message, countryCode string) (string, error) {
	target := ""
	if strings.TrimSpace(phone) != "" {
		normalized, err := NormalizePhone(phone, countryCode)
		if err != nil {
			return "", err
		}
		target = normalized
	}

	link := baseURL + target
	if message != "" {
		link += "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	}
	return link, nil
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
