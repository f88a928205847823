package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlexZinkM/mantra-vault/internal/common"

	"gopkg.in/yaml.v3"
)

// PrefsFileName is stored next to the vault directory, never inside it
const PrefsFileName = "config.yaml"

// Prefs are CLI preferences that persist between runs. No secrets.
type Prefs struct {
	ActiveWallet string `yaml:"active_wallet,omitempty"`
	Output       string `yaml:"output,omitempty"`
}

// PrefsPath returns the preferences file for a vault directory
func PrefsPath(vaultDir string) string {
	return filepath.Join(filepath.Dir(filepath.Clean(vaultDir)), PrefsFileName)
}

// LoadPrefs reads preferences. A missing file yields empty preferences.
func LoadPrefs(path string) (*Prefs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Prefs{}, nil
		}
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	var p Prefs
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse preferences %s: %w", path, err)
	}
	return &p, nil
}

// SavePrefs writes preferences atomically
func SavePrefs(path string, p *Prefs) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	if err := common.EnsurePrivateDir(filepath.Dir(path)); err != nil {
		return err
	}
	return common.WriteFileAtomic(path, data, common.PrivateFileMode)
}
