package config

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"log"
	"os"
	"path/filepath"
)

// Initialize writes a default configuration and an SSH host key into the
// directory, skipping anything that already exists, then loads the result.
func Initialize(dir string, logger *log.Logger) (*Configuration, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	configPath := filepath.Join(dir, ConfigurationName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		logger.Printf("Creating %q", configPath)
		if err := os.WriteFile(configPath, defaultConfigData, 0600); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	keyPath := filepath.Join(dir, HostKeyName)
	if _, err := os.Stat(keyPath); os.IsNotExist(err) {
		logger.Printf("Creating %q", keyPath)
		keyPem, err := generateHostKey()
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(keyPath, keyPem, 0600); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	return Load(dir)
}

func generateHostKey() ([]byte, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}

	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, err
	}

	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}
