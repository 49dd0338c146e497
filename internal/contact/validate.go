package contact

import (
	"regexp"
	"strings"

	"github.com/careassist/routetrack/internal/model"
)

var nonDigitRe = regexp.MustCompile(`[^\d]`)

// Validate normalizes a raw extracted contact: lowercased email,
// title-cased names, formatted phone, scheme-prefixed website. Optional
// fields that are blank stay empty strings for downstream export.
func Validate(c model.Contact) model.Contact {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))

	c.Name = titleName(c.Name)
	c.FirstName = titleName(c.FirstName)
	c.LastName = titleName(c.LastName)

	c.Phone = FormatPhone(c.Phone)

	if w := strings.ToLower(strings.TrimSpace(c.Website)); w != "" {
		if !strings.HasPrefix(w, "http") {
			w = "https://" + w
		}
		c.Website = w
	} else {
		c.Website = ""
	}

	c.Title = strings.TrimSpace(c.Title)
	c.Company = strings.TrimSpace(c.Company)
	c.Address = strings.TrimSpace(c.Address)

	return c
}

// FormatPhone renders a 10-digit (or 11-digit with leading 1) phone
// number as (XXX) XXX-XXXX. Anything else is returned unchanged.
func FormatPhone(phone string) string {
	if strings.TrimSpace(phone) == "" {
		return ""
	}
	digits := nonDigitRe.ReplaceAllString(phone, "")
	switch {
	case len(digits) == 10:
		return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
	case len(digits) == 11 && digits[0] == '1':
		return "(" + digits[1:4] + ") " + digits[4:7] + "-" + digits[7:]
	default:
		return phone
	}
}

func titleName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return titleCaser.String(s)
}
