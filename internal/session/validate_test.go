package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAnswer(t *testing.T) {
	cases := []struct {
		name    string
		user    string
		correct string
		want    bool
	}{
		{"exact match", "water", "water", true},
		{"case insensitive", "WaTeR", "water", true},
		{"surrounding whitespace", "  water\t", "water", true},
		{"wrong answer", "fire", "water", false},
		{"semicolon alternative", "feline", "cat; feline", true},
		{"first alternative", "cat", "cat; feline", true},
		{"or alternative", "kitty", "cat or kitty", true},
		{"or needs word boundary", "forest", "forest", true},
		{"user supplies one of several", "cat", "cat or kitty or feline", true},
		{"user alternatives split on or", "kitty or dog", "cat or kitty", true},
		{"semicolon in user answer is literal", "dog; cat", "dog or hound", false},
		{"no partial credit", "cat fel", "cat; feline", false},
		{"empty user answer", "", "water", false},
		{"empty correct answer", "anything", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidateAnswer(tc.user, tc.correct))
		})
	}
}
