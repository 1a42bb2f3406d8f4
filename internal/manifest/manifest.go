// Package manifest maintains an optional YAML index of extracted icons in the
// output directory.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the manifest file kept in the output directory.
const FileName = "manifest.yaml"

// Record describes one extracted icon.
type Record struct {
	Icon      string    `yaml:"icon"`   // file name in the output directory
	Source    string    `yaml:"source"` // executable the icon came from
	SizeBytes int64     `yaml:"size_bytes"`
	SHA256    string    `yaml:"sha256"`
	CreatedAt time.Time `yaml:"created_at"`
}

// Manifest is the on-disk index. Records are ordered oldest to newest.
type Manifest struct {
	Icons []Record `yaml:"icons"`
}

// Path returns the manifest location for an output directory.
func Path(outputDir string) string {
	return filepath.Join(outputDir, FileName)
}

// Load reads the manifest from the output directory. A missing file yields an
// empty manifest.
func Load(outputDir string) (*Manifest, error) {
	data, err := os.ReadFile(Path(outputDir))
	if err != nil {
		if os.IsNotExist(err) {
			return &Manifest{}, nil
		}
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Save writes the manifest into the output directory.
func (m *Manifest) Save(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(Path(outputDir), data, 0644)
}

// Add appends a record.
func (m *Manifest) Add(rec Record) {
	m.Icons = append(m.Icons, rec)
}

// ComputeSHA256 calculates the SHA256 hash of a file.
func ComputeSHA256(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
