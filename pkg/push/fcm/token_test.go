package fcm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidPushToken(t *testing.T) {
	wellFormed := strings.Repeat("a1B2-c3_d4:", 14) // 154 chars

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{
			name:  "Well-formed token",
			token: wellFormed,
			want:  true,
		},
		{
			name:  "Empty string",
			token: "",
			want:  false,
		},
		{
			name:  "Too short",
			token: "abcde12345",
			want:  false,
		},
		{
			name:  "Contains space",
			token: strings.Repeat("a", 120) + " " + strings.Repeat("b", 129),
			want:  false,
		},
		{
			name:  "Too long",
			token: strings.Repeat("a", 301),
			want:  false,
		},
		{
			name:  "Literal null",
			token: "null",
			want:  false,
		},
		{
			name:  "Placeholder padded to valid length is still rejected by charset",
			token: strings.Repeat("x", 99) + "!" + strings.Repeat("y", 50),
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidPushToken(tt.token))
		})
	}
}
