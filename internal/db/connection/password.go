package connection

import (
	"errors"
	"fmt"

	"github.com/rebeliceyang/lazyfilter/internal/models"
	"github.com/zalando/go-keyring"
)

const serviceName = "lazyfilter"

// ResolvePassword returns the configured password, falling back to the OS
// keyring. A missing keyring entry yields an empty password
func ResolvePassword(config models.ConnectionConfig) (string, error) {
	if config.Password != "" {
		return config.Password, nil
	}
	password, err := keyring.Get(serviceName, config.KeyringUser())
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read password from keyring: %w", err)
	}
	return password, nil
}

// SavePassword stores the connection password in the OS keyring
func SavePassword(config models.ConnectionConfig, password string) error {
	if password == "" {
		// Don't save empty passwords
		return nil
	}
	if err := keyring.Set(serviceName, config.KeyringUser(), password); err != nil {
		return fmt.Errorf("failed to save password to keyring: %w", err)
	}
	return nil
}

// DeletePassword removes the connection password from the OS keyring
func DeletePassword(config models.ConnectionConfig) error {
	err := keyring.Delete(serviceName, config.KeyringUser())
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete password from keyring: %w", err)
	}
	return nil
}
