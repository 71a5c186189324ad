package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/esoquery/esoquery/internal/model"
	"github.com/esoquery/esoquery/internal/platform"
)

// Location of the settings file below the user's home directory
const (
	ConfigDirName  = ".config/esoquery"
	ConfigFileName = "esoquery.toml"
)

// Environment variables overriding the stored credentials
const (
	EnvLogin    = "ESOQUERY_LOGIN"
	EnvPassword = "ESOQUERY_PASSWORD"
)

// File permissions; the file holds the archive password
const (
	DirPermissions  = 0700
	FilePermissions = 0600
)

// fileData mirrors the three sections of the settings file
type fileData struct {
	ESO struct {
		Login    string `toml:"login"`
		Password string `toml:"password"`
	} `toml:"eso"`
	Data struct {
		Path string `toml:"path"`
	} `toml:"data"`
	Instruments map[string]bool `toml:"instruments"`
}

// Settings manages application configuration
type Settings struct {
	mu       sync.RWMutex
	filePath string
	data     fileData
	env      map[string]string
}

// DefaultPath returns ~/.config/esoquery/esoquery.toml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigDirName, ConfigFileName), nil
}

// Load reads the settings file at path, creating it with defaults on first run.
// Credential overrides are read from the environment and from a .env file in
// the working directory if one exists.
func Load(path string) (*Settings, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), DirPermissions); err != nil {
		return nil, fmt.Errorf("config: create dir: %w", err)
	}

	s := &Settings{filePath: path, env: readEnv()}

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		s.data = defaults()
		if err := s.Save(); err != nil {
			return nil, err
		}
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := toml.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if s.data.Instruments == nil {
		s.data.Instruments = make(map[string]bool)
	}
	return s, nil
}

func defaults() fileData {
	var d fileData
	home, err := platform.GetHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	d.Data.Path = home
	d.Instruments = make(map[string]bool, len(model.Instruments))
	for _, inst := range model.Instruments {
		d.Instruments[inst] = inst == model.DefaultFavorite
	}
	return d
}

func readEnv() map[string]string {
	env := make(map[string]string)
	if dotenv, err := godotenv.Read(); err == nil {
		for k, v := range dotenv {
			env[k] = v
		}
	}
	for _, k := range []string{EnvLogin, EnvPassword} {
		if v := os.Getenv(k); v != "" {
			env[k] = v
		}
	}
	return env
}

// Path returns the settings file path
func (s *Settings) Path() string {
	return s.filePath
}

// Save rewrites the settings file
func (s *Settings) Save() error {
	s.mu.RLock()
	out, err := toml.Marshal(s.data)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(s.filePath, out, FilePermissions); err != nil {
		return fmt.Errorf("config: write %s: %w", s.filePath, err)
	}
	return nil
}

// GetLogin returns the stored archive login
func (s *Settings) GetLogin() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.ESO.Login
}

// SetLogin sets the archive login
func (s *Settings) SetLogin(login string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.ESO.Login = login
}

// GetPassword returns the stored archive password
func (s *Settings) GetPassword() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.ESO.Password
}

// SetPassword sets the archive password
func (s *Settings) SetPassword(password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.ESO.Password = password
}

// Credentials returns the login and password to use, environment first
func (s *Settings) Credentials() (string, string) {
	user, password := s.GetLogin(), s.GetPassword()
	if v := s.env[EnvLogin]; v != "" {
		user = v
	}
	if v := s.env[EnvPassword]; v != "" {
		password = v
	}
	return user, password
}

// GetDataDirectory returns where downloads and exports are written
func (s *Settings) GetDataDirectory() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Data.Path
}

// SetDataDirectory sets the data directory
func (s *Settings) SetDataDirectory(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Data.Path = dir
}

// IsFavorite reports whether an instrument is flagged as favourite
func (s *Settings) IsFavorite(inst string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Instruments[inst]
}

// SetFavorite flags or unflags an instrument
func (s *Settings) SetFavorite(inst string, favorite bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Instruments[inst] = favorite
}

// FavoriteInstruments returns the flagged instruments: known ones in display
// order, then any others found in the file, sorted
func (s *Settings) FavoriteInstruments() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	known := make(map[string]bool, len(model.Instruments))
	var out []string
	for _, inst := range model.Instruments {
		known[inst] = true
		if s.data.Instruments[inst] {
			out = append(out, inst)
		}
	}
	var extra []string
	for inst, fav := range s.data.Instruments {
		if fav && !known[inst] {
			extra = append(extra, inst)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// InstrumentChoices returns the entries of the instrument selector: the
// favourites, plus "All above" when more than one is flagged
func (s *Settings) InstrumentChoices() []string {
	favs := s.FavoriteInstruments()
	if len(favs) > 1 {
		favs = append(favs, model.AllFavorites)
	}
	return favs
}
