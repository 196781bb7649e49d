package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	assert.True(t, ValidateUsername("ada.lovelace"))
	assert.True(t, ValidateUsername("a_b-c+d@e"))
	assert.False(t, ValidateUsername("ab"))
	assert.False(t, ValidateUsername("has space"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("abcdefg1"))
	assert.ErrorIs(t, ValidatePassword("abc1"), ErrPasswordTooShort)
	assert.ErrorIs(t, ValidatePassword("12345678"), ErrPasswordNoLetter)
	assert.ErrorIs(t, ValidatePassword("abcdefgh"), ErrPasswordNoDigit)
}

func TestIsHTTPURL(t *testing.T) {
	tests := map[string]bool{
		"https://github.com/ada/repo": true,
		"http://example.com":          true,
		"ftp://example.com/file":      false,
		"github.com/ada":              false,
		"":                            false,
		"https://":                    false,
	}
	for raw, want := range tests {
		assert.Equal(t, want, IsHTTPURL(raw), raw)
	}
}

func TestRegisterGinValidators(t *testing.T) {
	assert.NoError(t, RegisterGinValidators())
}
