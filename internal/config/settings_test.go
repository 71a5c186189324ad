package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esoquery/esoquery/internal/model"
)

func newTestSettings(t *testing.T) *Settings {
	t.Helper()
	t.Setenv(EnvLogin, "")
	t.Setenv(EnvPassword, "")
	path := filepath.Join(t.TempDir(), "esoquery", ConfigFileName)
	s, err := Load(path)
	require.NoError(t, err)
	return s
}

func TestLoad_CreatesDefaults(t *testing.T) {
	s := newTestSettings(t)

	_, err := os.Stat(s.Path())
	require.NoError(t, err, "settings file should be created on first run")

	assert.Equal(t, "", s.GetLogin())
	assert.Equal(t, "", s.GetPassword())
	assert.NotEmpty(t, s.GetDataDirectory())
	assert.Equal(t, []string{model.DefaultFavorite}, s.FavoriteInstruments())

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	for _, section := range []string{"[eso]", "[data]", "[instruments]"} {
		assert.Contains(t, string(raw), section)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	s := newTestSettings(t)

	s.SetLogin("astro")
	s.SetPassword("secret")
	s.SetDataDirectory("/data/eso")
	s.SetFavorite("FORS1/2", true)
	s.SetFavorite("HARPS", true)
	s.SetFavorite("SPHERE", false)
	require.NoError(t, s.Save())

	reloaded, err := Load(s.Path())
	require.NoError(t, err)

	assert.Equal(t, "astro", reloaded.GetLogin())
	assert.Equal(t, "secret", reloaded.GetPassword())
	assert.Equal(t, "/data/eso", reloaded.GetDataDirectory())
	assert.Equal(t, []string{"FORS1/2", "HARPS"}, reloaded.FavoriteInstruments())
	assert.True(t, reloaded.IsFavorite("HARPS"))
	assert.False(t, reloaded.IsFavorite("SPHERE"))
}

func TestInstrumentChoices(t *testing.T) {
	s := newTestSettings(t)

	assert.Equal(t, []string{"SPHERE"}, s.InstrumentChoices())

	s.SetFavorite("UVES", true)
	assert.Equal(t, []string{"SPHERE", "UVES", model.AllFavorites}, s.InstrumentChoices())

	s.SetFavorite("SPHERE", false)
	s.SetFavorite("UVES", false)
	assert.Empty(t, s.InstrumentChoices())
}

func TestFavoriteInstruments_UnknownKeysSorted(t *testing.T) {
	s := newTestSettings(t)
	s.SetFavorite("ZZTOP", true)
	s.SetFavorite("AAA", true)

	assert.Equal(t, []string{"SPHERE", "AAA", "ZZTOP"}, s.FavoriteInstruments())
}

func TestCredentials_EnvironmentOverrides(t *testing.T) {
	s := newTestSettings(t)
	s.SetLogin("stored")
	s.SetPassword("stored-pw")

	user, pw := s.Credentials()
	assert.Equal(t, "stored", user)
	assert.Equal(t, "stored-pw", pw)

	s.env[EnvLogin] = "env-user"
	user, pw = s.Credentials()
	assert.Equal(t, "env-user", user)
	assert.Equal(t, "stored-pw", pw)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("[eso\nlogin = "), 0600))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "parse"))
}
