package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/99designs/keyring"
	"github.com/joho/godotenv"

	"github.com/yahsan2/jira-pm/pkg/issue"
)

// Environment variables holding Jira credentials
const (
	EnvBaseURL    = "JIRA_BASE_URL"
	EnvEmail      = "JIRA_EMAIL"
	EnvAPIToken   = "JIRA_API_TOKEN"
	EnvProjectKey = "JIRA_PROJECT_KEY"
)

// Keyring entry keys for secrets managed by 'jira-pm auth'
const (
	KeyEmail    = "email"
	KeyAPIToken = "api_token"
)

const keyringService = "jira-pm"

// LoadDotenv loads a .env file from the working directory when present.
// Variables already set in the environment are never overridden, and a
// missing file is not an error.
func LoadDotenv() {
	_ = godotenv.Load()
}

// openSystemKeyring returns a configured keyring instance.
func openSystemKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: keyringService,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/jira-pm/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("jira-pm-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Keystore wraps the system keyring entries holding Jira secrets.
type Keystore struct {
	open func() (keyring.Keyring, error)
}

// NewKeystore returns a keystore backed by the system keyring.
func NewKeystore() *Keystore {
	return &Keystore{open: openSystemKeyring}
}

// Get retrieves a secret by key from the keyring.
func (k *Keystore) Get(key string) (string, error) {
	ring, err := k.open()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Set stores a secret by key in the keyring.
func (k *Keystore) Set(key, value string) error {
	ring, err := k.open()
	if err != nil {
		return err
	}

	if err := ring.Set(keyring.Item{Key: key, Data: []byte(value)}); err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a secret by key from the keyring.
func (k *Keystore) Delete(key string) error {
	ring, err := k.open()
	if err != nil {
		return err
	}

	if err := ring.Remove(key); err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}

// Has reports whether a secret is present in the keyring.
func (k *Keystore) Has(key string) bool {
	return k.lookup(key) != ""
}

// lookup returns the stored value, treating any keyring failure as absence.
func (k *Keystore) lookup(key string) string {
	value, err := k.Get(key)
	if err != nil {
		return ""
	}
	return value
}

// Resolver assembles Jira credentials from the environment, the system
// keyring, and the project configuration, in that order.
type Resolver struct {
	Config    *Config
	LookupEnv func(string) (string, bool)
	Keystore  *Keystore
}

// NewResolver returns a resolver reading the process environment and the
// system keyring.
func NewResolver(cfg *Config) *Resolver {
	return &Resolver{
		Config:    cfg,
		LookupEnv: os.LookupEnv,
		Keystore:  NewKeystore(),
	}
}

// Credentials resolves the four Jira credentials. Missing values are left
// empty for the caller to validate.
func (r *Resolver) Credentials() issue.Credentials {
	creds := issue.Credentials{
		BaseURL:    r.fromEnv(EnvBaseURL),
		Email:      r.fromEnv(EnvEmail),
		APIToken:   r.fromEnv(EnvAPIToken),
		ProjectKey: r.fromEnv(EnvProjectKey),
	}

	if creds.Email == "" && r.Keystore != nil {
		creds.Email = r.Keystore.lookup(KeyEmail)
	}
	if creds.APIToken == "" && r.Keystore != nil {
		creds.APIToken = r.Keystore.lookup(KeyAPIToken)
	}

	if r.Config != nil {
		if creds.BaseURL == "" {
			creds.BaseURL = strings.TrimSpace(r.Config.Project.BaseURL)
		}
		if creds.ProjectKey == "" {
			creds.ProjectKey = strings.TrimSpace(r.Config.Project.Key)
		}
	}

	return creds
}

func (r *Resolver) fromEnv(name string) string {
	lookup := r.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	value, ok := lookup(name)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}
