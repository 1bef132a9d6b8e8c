// Package validators contains validators found throughout the application
// that have been abstracted away from the main code
package validators

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
)

var (
	ErrAddressEmpty   = errors.New("no email address or phone number provided")
	ErrAddressInvalid = errors.New("invalid email address or phone number provided")
	ErrPhoneInvalid   = errors.New("invalid phone number provided")
)

// E.164 with an optional leading plus, separators are stripped before matching
var phoneRe = regexp.MustCompile(`^\+?[1-9][0-9]{6,14}$`)

func EmailValidator(e string) bool {
	a, err := mail.ParseAddress(e)
	// ParseAddress also accepts "Name <a@b.c>", only bare addresses are allowed
	return err == nil && a.Address == e
}

func PhoneValidator(p string) bool {
	return phoneRe.MatchString(stripPhone(p))
}

func stripPhone(p string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "").Replace(p)
}

// NormalizeAddress validates a contact address and returns the form it's
// stored under. Emails are lowercased, phone numbers lose their separators
func NormalizeAddress(a string) (string, error) {
	a = strings.TrimSpace(a)
	if a == "" {
		return "", ErrAddressEmpty
	}

	if strings.Contains(a, "@") {
		if !EmailValidator(a) {
			return "", ErrAddressInvalid
		}

		return strings.ToLower(a), nil
	}

	if !PhoneValidator(a) {
		return "", ErrAddressInvalid
	}

	return stripPhone(a), nil
}

func NormalizePhone(p string) (string, error) {
	p = strings.TrimSpace(p)
	if !PhoneValidator(p) {
		return "", ErrPhoneInvalid
	}

	return stripPhone(p), nil
}
