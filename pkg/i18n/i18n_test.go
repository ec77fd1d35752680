package i18n_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"catalog/pkg/i18n"
)

func TestNegotiate(t *testing.T) {
	assert.Equal(t, i18n.LocaleRU, i18n.Negotiate("ru"))
	assert.Equal(t, i18n.LocaleEN, i18n.Negotiate("en"))

	// Only exact matches switch the locale
	assert.Equal(t, i18n.DefaultLocale, i18n.Negotiate(""))
	assert.Equal(t, i18n.DefaultLocale, i18n.Negotiate("en-US"))
	assert.Equal(t, i18n.DefaultLocale, i18n.Negotiate("de"))
	assert.Equal(t, i18n.DefaultLocale, i18n.Negotiate("en, ru;q=0.9"))
}

func TestT(t *testing.T) {
	assert.Equal(t, "Товар не найден", i18n.T(i18n.LocaleRU, "validation.product.not_found"))
	assert.Equal(t, "Product not found", i18n.T(i18n.LocaleEN, "validation.product.not_found"))

	// Unknown locale falls back to the default catalog
	assert.Equal(t, "Товар не найден", i18n.T("de", "validation.product.not_found"))

	// Unknown keys come back verbatim
	assert.Equal(t, "validation.unknown", i18n.T(i18n.LocaleRU, "validation.unknown"))
}
