package giturl

import (
	"testing"

	"github.com/inovacc/mornpage/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  model.RepoRef
	}{
		{"me/journal", model.RepoRef{Owner: "me", Name: "journal"}},
		{"me/journal.git", model.RepoRef{Owner: "me", Name: "journal"}},
		{"github.com/me/journal", model.RepoRef{Owner: "me", Name: "journal"}},
		{"ghe.corp.io/me/journal", model.RepoRef{Owner: "me", Name: "journal", Host: "ghe.corp.io"}},
		{"https://github.com/me/journal", model.RepoRef{Owner: "me", Name: "journal"}},
		{"https://www.github.com/me/journal.git", model.RepoRef{Owner: "me", Name: "journal"}},
		{"https://github.com/me/journal/blob/main/2025-01-27.md#L3", model.RepoRef{Owner: "me", Name: "journal"}},
		{"git@github.com:me/journal.git", model.RepoRef{Owner: "me", Name: "journal"}},
		{"ssh://git@ghe.corp.io/me/journal.git", model.RepoRef{Owner: "me", Name: "journal", Host: "ghe.corp.io"}},
		{"  me/journal  ", model.RepoRef{Owner: "me", Name: "journal"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, input := range []string{
		"",
		"journal",
		"a/b/c/d",
		"https://github.com/me",
		"ftp://github.com/me/journal",
		"me/.git",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestWebURL(t *testing.T) {
	assert.Equal(t, "https://github.com/me/journal", WebURL(model.RepoRef{Owner: "me", Name: "journal"}))
	assert.Equal(t, "https://ghe.corp.io/me/journal", WebURL(model.RepoRef{Owner: "me", Name: "journal", Host: "ghe.corp.io"}))
}
