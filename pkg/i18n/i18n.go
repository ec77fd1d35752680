// Package i18n holds the localized client-facing messages. The API speaks
// Russian by default and English when requested; the locale affects message
// text only, never status codes or error field keys.
package i18n

// Supported locale codes.
const (
	LocaleRU = "ru"
	LocaleEN = "en"

	DefaultLocale = LocaleRU
)

// Negotiate picks the message locale from an Accept-Language header value.
// Only an exact match on a supported code switches the locale; anything
// else (including region-qualified tags like "en-US") keeps the default.
func Negotiate(header string) string {
	switch header {
	case LocaleRU, LocaleEN:
		return header
	default:
		return DefaultLocale
	}
}

// T resolves a message key in the given locale, falling back to the
// default locale and finally to the key itself for unknown entries.
func T(locale, key string) string {
	if messages, ok := catalogs[locale]; ok {
		if msg, ok := messages[key]; ok {
			return msg
		}
	}
	if msg, ok := catalogs[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

var catalogs = map[string]map[string]string{
	LocaleRU: {
		"validation.failed":                  "Ошибка валидации",
		"validation.q.max":                   "Поисковый запрос не должен превышать 255 символов",
		"validation.price_from.numeric":      "Минимальная цена должна быть числом",
		"validation.price_from.min":          "Минимальная цена не может быть отрицательной",
		"validation.price_to.numeric":        "Максимальная цена должна быть числом",
		"validation.price_to.min":            "Максимальная цена не может быть отрицательной",
		"validation.category_id.integer":     "Идентификатор категории должен быть целым числом",
		"validation.category_id.exists":      "Указанная категория не существует",
		"validation.rating_from.numeric":     "Минимальный рейтинг должен быть числом",
		"validation.rating_from.min":         "Минимальный рейтинг не может быть меньше 0",
		"validation.rating_from.max":         "Минимальный рейтинг не может быть больше 5",
		"validation.sort.in":                 "Недопустимое значение сортировки",
		"validation.page.integer":            "Номер страницы должен быть целым числом",
		"validation.page.min":                "Номер страницы должен быть не меньше 1",
		"validation.per_page.integer":        "Размер страницы должен быть целым числом",
		"validation.per_page.min":            "Размер страницы должен быть не меньше 1",
		"validation.per_page.max":            "Размер страницы не может превышать 100",
		"validation.product.not_found":       "Товар не найден",
		"validation.product.not_found_by_id": "Товар с указанным идентификатором не найден",
	},
	LocaleEN: {
		"validation.failed":                  "Validation failed",
		"validation.q.max":                   "The search query must not exceed 255 characters",
		"validation.price_from.numeric":      "The minimum price must be a number",
		"validation.price_from.min":          "The minimum price must not be negative",
		"validation.price_to.numeric":        "The maximum price must be a number",
		"validation.price_to.min":            "The maximum price must not be negative",
		"validation.category_id.integer":     "The category id must be an integer",
		"validation.category_id.exists":      "The selected category does not exist",
		"validation.rating_from.numeric":     "The minimum rating must be a number",
		"validation.rating_from.min":         "The minimum rating must be at least 0",
		"validation.rating_from.max":         "The minimum rating must not be greater than 5",
		"validation.sort.in":                 "The selected sort option is invalid",
		"validation.page.integer":            "The page number must be an integer",
		"validation.page.min":                "The page number must be at least 1",
		"validation.per_page.integer":        "The page size must be an integer",
		"validation.per_page.min":            "The page size must be at least 1",
		"validation.per_page.max":            "The page size must not exceed 100",
		"validation.product.not_found":       "Product not found",
		"validation.product.not_found_by_id": "No product exists with the given id",
	},
}
