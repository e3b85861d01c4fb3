package store

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/flatkv/flatkv-go/pkg/codec"
	"github.com/flatkv/flatkv-go/pkg/crypto/adaptive"
)

// DefaultFilename is the hidden dotfile used when no filename is configured.
const DefaultFilename = ".flatkv.json"

// defaultSalt is used for key derivation when no salt is configured.
const defaultSalt = "flatkv.v1"

// appDirName is the subdirectory of the user config dir holding store files.
const appDirName = "flatkv"

// Options configures a storage engine. The options are fixed once the
// engine is constructed; there is no runtime reconfiguration.
type Options struct {
	// AutoLoad loads persisted state during construction.
	AutoLoad bool

	// AutoSave persists state once on clean shutdown (Close).
	AutoSave bool

	// Filename names the backing file inside the storage directory.
	// Defaults to DefaultFilename.
	Filename string

	// EnableEncryption applies the cipher to every stored payload.
	// Construction fails unless a non-empty encryption key is supplied.
	EnableEncryption bool

	// EncryptionSalt is the salt for key derivation. A fixed default is
	// used when empty.
	EncryptionSalt string

	// Dir overrides the storage directory. When empty, the fixed
	// resolution rule applies: the user config dir, falling back to the
	// working directory.
	Dir string

	// Codec converts values to and from stored payloads. Defaults to
	// codec.JSON.
	Codec codec.Codec

	// CipherAlgorithm selects the encryption algorithm; empty means
	// automatic selection.
	CipherAlgorithm adaptive.CipherType

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger

	// Metrics receives operation counts and persist timings. Optional.
	Metrics Metrics
}

// DefaultOptions returns the default configuration: load on
// construction, persist on clean shutdown, no encryption.
func DefaultOptions() *Options {
	return &Options{
		AutoLoad: true,
		AutoSave: true,
		Filename: DefaultFilename,
	}
}

// resolveDir applies the fixed storage-directory rule.
func resolveDir(override string) string {
	if override != "" {
		return override
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(base, appDirName)
}
