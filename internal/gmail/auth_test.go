package gmail

import (
	"bufio"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestAuthCodeFromInput(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"4/0AbCdEf", "4/0AbCdEf", false},
		{"  4/0AbCdEf \n", "4/0AbCdEf", false},
		{"http://127.0.0.1:53682/?state=s&code=4%2F0xyz&scope=gmail", "4/0xyz", false},
		{"https://localhost/?state=s", "", true},
		{"", "", true},
	}
	for _, tc := range tests {
		got, err := authCodeFromInput(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestReadAuthCode_SharesBufferedReader(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("1,3\n4/0AbCdEf\n"))
	first, err := in.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "1,3\n", first)

	code, err := readAuthCode(in)
	require.NoError(t, err)
	assert.Equal(t, "4/0AbCdEf", code)
}

func TestReadAuthCode_NoTrailingNewline(t *testing.T) {
	code, err := readAuthCode(strings.NewReader("4/0xyz"))
	require.NoError(t, err)
	assert.Equal(t, "4/0xyz", code)

	_, err = readAuthCode(strings.NewReader(""))
	assert.Error(t, err)
}

func TestPersistingTokenSource_SavesRefreshedToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "token.json")
	refreshed := &oauth2.Token{AccessToken: "new-access", RefreshToken: "refresh"}
	ts := &persistingTokenSource{
		base: oauth2.StaticTokenSource(refreshed),
		path: path,
		last: "old-access",
	}

	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "new-access", tok.AccessToken)

	saved, err := readToken(path)
	require.NoError(t, err)
	assert.Equal(t, "new-access", saved.AccessToken)
	assert.Equal(t, "refresh", saved.RefreshToken)
}

func TestPersistingTokenSource_UnchangedTokenNotWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	ts := &persistingTokenSource{
		base: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "same"}),
		path: path,
		last: "same",
	}
	_, err := ts.Token()
	require.NoError(t, err)

	_, err = readToken(path)
	assert.Error(t, err, "token file should not exist")
}
