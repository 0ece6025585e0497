// Package secrets resolves credentials from files, inline values or the environment.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNotConfigured is returned for a required secret that has no source.
var ErrNotConfigured = errors.New("not configured")

// Source describes where a secret may come from. File wins over Value, which
// wins over Env.
type Source struct {
	// Name gives error messages some context.
	Name  string
	Value string
	File  string
	// Env is the name of an environment variable holding the secret.
	Env string
	// Optional makes Load return an empty secret instead of ErrNotConfigured.
	Optional bool
}

// Load returns the trimmed secret. A configured file that cannot be read or is
// empty is always an error, even for optional secrets.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}

		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return secret, nil
	}

	if secret := strings.TrimSpace(src.Value); secret != "" {
		return secret, nil
	}

	if env := strings.TrimSpace(src.Env); env != "" {
		if secret := strings.TrimSpace(os.Getenv(env)); secret != "" {
			return secret, nil
		}
	}

	if src.Optional {
		return "", nil
	}

	return "", fmt.Errorf("%s is %w", name, ErrNotConfigured)
}
