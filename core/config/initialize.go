package config

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"log"

	"github.com/spf13/afero"
	"golang.org/x/crypto/ssh"
)

// Initialize materializes a configuration directory at path: the
// default configuration, the session log directory and a generated SSH
// host key. Existing files are left alone so Initialize is safe to run
// repeatedly.
func Initialize(path string, logger *log.Logger) (*Configuration, error) {
	return initializeFs(afero.NewBasePathFs(afero.NewOsFs(), path), logger)
}

func initializeFs(fs afero.Fs, logger *log.Logger) (*Configuration, error) {
	if err := fs.MkdirAll(LogsDirName, 0700); err != nil {
		return nil, err
	}

	if exists, err := afero.Exists(fs, ConfigurationName); err != nil {
		return nil, err
	} else if exists {
		logger.Printf("%s already exists, skipping", ConfigurationName)
	} else {
		logger.Printf("creating %s", ConfigurationName)
		if err := afero.WriteFile(fs, ConfigurationName, defaultConfigData, 0644); err != nil {
			return nil, err
		}
	}

	if exists, err := afero.Exists(fs, PrivateKeyName); err != nil {
		return nil, err
	} else if exists {
		logger.Printf("%s already exists, skipping", PrivateKeyName)
	} else {
		logger.Printf("generating %s", PrivateKeyName)
		keyPem, err := generateHostKey()
		if err != nil {
			return nil, err
		}
		if err := afero.WriteFile(fs, PrivateKeyName, keyPem, 0600); err != nil {
			return nil, err
		}
	}

	return loadFs(fs)
}

func generateHostKey() ([]byte, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}

	block, err := ssh.MarshalPrivateKey(priv, "mishell host key")
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(block), nil
}
