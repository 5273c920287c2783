package utils

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=3,p=2$"))

	ok, err := VerifyPassword("correct horse battery", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	other, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "salt must differ")
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	for _, h := range []string{"", "plain", "$bcrypt$v=19$m=1,t=1,p=1$a$b", "$argon2id$v=19$m=x$a$b", "$argon2id$v=19$m=65536,t=3,p=2$!!$!!"} {
		_, err := VerifyPassword("pw", h)
		assert.ErrorIs(t, err, ErrInvalidHash, h)
	}
}

func TestGenerateAnonUsername(t *testing.T) {
	re := regexp.MustCompile(`^(Quiet|Blue|Soft|Brave|Lonely|Gentle)(River|Sky|Star|Leaf|Ocean|Flame)([0-9]|[1-9][0-9])$`)
	for i := 0; i < 200; i++ {
		name := GenerateAnonUsername()
		assert.Regexp(t, re, name)
	}
}

func TestValidateUsername(t *testing.T) {
	var tests = []struct {
		in    string
		valid bool
	}{
		{"admin", true},
		{"mod_1", true},
		{"ab", false},
		{"_admin", false},
		{"has space", false},
		{strings.Repeat("a", 21), false},
	}
	for _, tc := range tests {
		err := ValidateUsername(tc.in)
		if tc.valid {
			assert.NoError(t, err, tc.in)
			continue
		}
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve, tc.in)
	}
}
