package middleware

import (
	"github.com/gofiber/fiber/v2"

	"catalog/pkg/i18n"
)

// LocaleKey is the request-locals key holding the negotiated message locale.
const LocaleKey = "locale"

// SetLocale picks the message language from the Accept-Language header and
// stores it in the request locals. Only message text is affected; status
// codes and error field keys stay the same in every locale.
func SetLocale() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(LocaleKey, i18n.Negotiate(c.Get(fiber.HeaderAcceptLanguage)))
		return c.Next()
	}
}

// Locale returns the locale negotiated for this request, defaulting when
// the middleware did not run.
func Locale(c *fiber.Ctx) string {
	if locale, ok := c.Locals(LocaleKey).(string); ok {
		return locale
	}
	return i18n.DefaultLocale
}
