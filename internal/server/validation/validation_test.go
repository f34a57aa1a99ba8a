package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidName(t *testing.T) {
	for _, s := range []string{"Ann", "Lee", "Mary Jane", "Smith-Jones", "Al", strings.Repeat("a", 50)} {
		assert.True(t, IsValidName(s), s)
	}
	for _, s := range []string{"", "A", "Ann3", "O'Neil", "Zoë", strings.Repeat("a", 51)} {
		assert.False(t, IsValidName(s), s)
	}
}

func TestIsValidUsername(t *testing.T) {
	for _, s := range []string{"ann", "ann_lee1", "A_B_C", strings.Repeat("x", 20)} {
		assert.True(t, IsValidUsername(s), s)
	}
	for _, s := range []string{"", "an", "ann lee", "ann-lee", "ann.lee", strings.Repeat("x", 21)} {
		assert.False(t, IsValidUsername(s), s)
	}
}

func TestIsValidPassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Secret#123", true},
		{"Aa1_aaaa", true},
		{"Aa1-ÄÖÜß", true},
		{"weak", false},
		{"Secret123", false},
		{"secret#123", false},
		{"SECRET#123", false},
		{"Secret#abc", false},
		{"Se#1", false},
		{"Secret#1\n23", false},
		{"Secret+123", false},
		{"Secret#1" + strings.Repeat("a", 64), true},
		{"Secret#1" + strings.Repeat("a", 65), false},
		{"Secret#1" + strings.Repeat("ä", 33), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidPassword(tt.password), tt.password)
	}
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, common.ErrValidation))
	var ve *common.ValidationError
	require.True(t, errors.As(err, &ve))
	return ve.Field
}

func TestSignup(t *testing.T) {
	assert.NoError(t, Signup("Ann", "", "Lee", "ann_lee1", "Secret#123"))
	assert.NoError(t, Signup("Ann", "Marie", "Lee", "ann_lee1", "Secret#123"))

	assert.Equal(t, "fields", fieldOf(t, Signup("", "", "Lee", "ann_lee1", "Secret#123")))
	assert.Equal(t, "fields", fieldOf(t, Signup("Ann", "", "Lee", "ann_lee1", "")))
	assert.Equal(t, "first_name", fieldOf(t, Signup("A", "", "Lee", "ann_lee1", "Secret#123")))
	assert.Equal(t, "middle_name", fieldOf(t, Signup("Ann", "M4", "Lee", "ann_lee1", "Secret#123")))
	assert.Equal(t, "last_name", fieldOf(t, Signup("Ann", "", "L33", "ann_lee1", "Secret#123")))
	assert.Equal(t, "username", fieldOf(t, Signup("Ann", "", "Lee", "a!", "Secret#123")))
	assert.Equal(t, "password", fieldOf(t, Signup("Ann", "", "Lee", "ann_lee1", "weak")))

	var ve *common.ValidationError
	require.True(t, errors.As(Signup("Ann", "", "Lee", "ann_lee1", "weak"), &ve))
	assert.Equal(t, MsgPasswordFormat, ve.Message)

	long := "Secret#1" + strings.Repeat("a", 65)
	require.True(t, errors.As(Signup("Ann", "", "Lee", "ann_lee1", long), &ve))
	assert.Equal(t, "password", ve.Field)
	assert.Equal(t, MsgPasswordTooLong, ve.Message)
}

func TestPassword(t *testing.T) {
	assert.NoError(t, Password("newPassword", "Secret#1"+strings.Repeat("a", 64)))
	assert.Equal(t, "newPassword", fieldOf(t, Password("newPassword", "weak")))

	var ve *common.ValidationError
	require.True(t, errors.As(Password("newPassword", "Secret#1"+strings.Repeat("a", 65)), &ve))
	assert.Equal(t, "newPassword", ve.Field)
	assert.Equal(t, MsgPasswordTooLong, ve.Message)
}

func TestLogin(t *testing.T) {
	assert.NoError(t, Login("ann_lee1", "Secret#123"))

	var ve *common.ValidationError
	require.True(t, errors.As(Login("", "x"), &ve))
	assert.Equal(t, MsgLoginRequired, ve.Message)

	require.True(t, errors.As(Login("a b", "Secret#123"), &ve))
	assert.Equal(t, MsgLoginUsername, ve.Message)

	require.True(t, errors.As(Login("ann_lee1", "weak"), &ve))
	assert.Equal(t, MsgLoginPassword, ve.Message)
}

func TestTask(t *testing.T) {
	assert.NoError(t, Task("buy milk"))
	assert.Equal(t, "task", fieldOf(t, Task("   ")))
}
