package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"UserAccount", "user_account"},
		{"userName", "user_name"},
		{"HTTPRequest", "http_request"},
		{"ID", "id"},
		{"id", "id"},
		{"already_snake", "already_snake"},
		{"user_Name", "user_name"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToSnakeCase(tt.input))
		})
	}
}

func TestToCamelCase(t *testing.T) {
	assert.Equal(t, "userAccount", ToCamelCase("user_account"))
	assert.Equal(t, "userAccount", ToCamelCase("USER_ACCOUNT"))
	assert.Equal(t, "id", ToCamelCase("id"))
	assert.Equal(t, "aB", ToCamelCase("_a__b_"))
	assert.Equal(t, "", ToCamelCase(""))
}

func TestFirstToLower(t *testing.T) {
	assert.Equal(t, "userAccount", FirstToLower("UserAccount"))
	assert.Equal(t, "x", FirstToLower("X"))
	assert.Equal(t, "", FirstToLower(""))
	assert.Equal(t, "éclair", FirstToLower("Éclair"))
}

func TestFirstToUpper(t *testing.T) {
	assert.Equal(t, "UserName", FirstToUpper("userName"))
	assert.Equal(t, "", FirstToUpper(""))
}

func TestToLowerCamel(t *testing.T) {
	tests := map[string]string{
		"UserName":   "userName",
		"ID":         "id",
		"UserID":     "userID",
		"HTTPStatus": "httpStatus",
		"userName":   "userName",
		"X":          "x",
		"":           "",
	}
	for input, expected := range tests {
		assert.Equal(t, expected, ToLowerCamel(input), input)
	}
}
