package utils_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/craftfolio/server/internal/utils"
)

func TestDeriveRepoName(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://github.com/alice/cool-project", "cool-project"},
		{"https://github.com/alice/cool-project/", "cool-project"},
		{"https://github.com/alice/cool-project.git", "cool-project"},
		{"https://gitlab.com/group/sub/repo", "repo"},
		{"", ""},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, utils.DeriveRepoName(tc.url), "url %q", tc.url)
	}
}

func TestGenerateSecureToken(t *testing.T) {
	a, err := utils.GenerateSecureToken(32)
	require.NoError(t, err)
	b, err := utils.GenerateSecureToken(32)
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.Len(t, a, 43) // 32 bytes base64url, unpadded
}
