package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zalando/go-keyring"
)

const tokenPart = "bridge-token"

// TokenStore keeps the wallet-bridge bearer token in the OS keychain, with an
// optional JSON file fallback for environments without a system keyring
// (headless Linux, CI).
type TokenStore struct {
	service      string
	fallbackPath string
	mu           sync.Mutex
}

// NewTokenStore creates a token store. profile distinguishes multiple bridge
// configurations under one service name.
func NewTokenStore(serviceName, fallbackPath string) *TokenStore {
	if strings.TrimSpace(serviceName) == "" {
		serviceName = "baucua-bridge"
	}
	return &TokenStore{
		service:      serviceName,
		fallbackPath: fallbackPath,
	}
}

func (t *TokenStore) key(profile string) string {
	return fmt.Sprintf("%s/%s", profile, tokenPart)
}

// SetToken stores the bridge token for a profile.
func (t *TokenStore) SetToken(profile, token string) error {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		return fmt.Errorf("wallet: profile is required")
	}

	if err := keyring.Set(t.service, t.key(profile), token); err == nil {
		return nil
	} else if !isKeyringUnavailable(err) {
		return fmt.Errorf("wallet: keyring set: %w", err)
	}
	return t.setFallback(profile, token)
}

// GetToken returns the bridge token for a profile. A missing token returns
// keyring.ErrNotFound.
func (t *TokenStore) GetToken(profile string) (string, error) {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		return "", fmt.Errorf("wallet: profile is required")
	}

	val, err := keyring.Get(t.service, t.key(profile))
	if err == nil {
		return val, nil
	}
	if !isKeyringUnavailable(err) && !errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("wallet: keyring get: %w", err)
	}

	fallback, ferr := t.getFallback(profile)
	if ferr == nil {
		return fallback, nil
	}
	if errors.Is(err, keyring.ErrNotFound) {
		return "", keyring.ErrNotFound
	}
	return "", ferr
}

// DeleteToken removes the token for a profile from both backends.
func (t *TokenStore) DeleteToken(profile string) error {
	err := keyring.Delete(t.service, t.key(profile))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) && !isKeyringUnavailable(err) {
		_ = t.deleteFallback(profile)
		return fmt.Errorf("wallet: keyring delete: %w", err)
	}
	return t.deleteFallback(profile)
}

func isKeyringUnavailable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "secret service") ||
		strings.Contains(msg, "dbus") ||
		strings.Contains(msg, "no keychain") ||
		strings.Contains(msg, "keyring backend not available")
}

type fallbackTokens map[string]string

func (t *TokenStore) setFallback(profile, token string) error {
	if strings.TrimSpace(t.fallbackPath) == "" {
		return fmt.Errorf("wallet: keyring unavailable and no fallback path configured")
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	data, err := t.readFallbackUnlocked()
	if err != nil {
		return err
	}
	data[profile] = token
	return t.writeFallbackUnlocked(data)
}

func (t *TokenStore) getFallback(profile string) (string, error) {
	if strings.TrimSpace(t.fallbackPath) == "" {
		return "", fmt.Errorf("wallet: fallback path not configured")
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	data, err := t.readFallbackUnlocked()
	if err != nil {
		return "", err
	}
	token, ok := data[profile]
	if !ok {
		return "", keyring.ErrNotFound
	}
	return token, nil
}

func (t *TokenStore) deleteFallback(profile string) error {
	if strings.TrimSpace(t.fallbackPath) == "" {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	data, err := t.readFallbackUnlocked()
	if err != nil {
		return err
	}
	delete(data, profile)
	return t.writeFallbackUnlocked(data)
}

func (t *TokenStore) readFallbackUnlocked() (fallbackTokens, error) {
	out := fallbackTokens{}
	raw, err := os.ReadFile(t.fallbackPath)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, fmt.Errorf("wallet: read fallback tokens: %w", err)
	}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("wallet: decode fallback tokens: %w", err)
	}
	return out, nil
}

func (t *TokenStore) writeFallbackUnlocked(data fallbackTokens) error {
	dir := filepath.Dir(t.fallbackPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("wallet: mkdir fallback dir: %w", err)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("wallet: encode fallback tokens: %w", err)
	}
	if err := os.WriteFile(t.fallbackPath, raw, 0o600); err != nil {
		return fmt.Errorf("wallet: write fallback tokens: %w", err)
	}
	return nil
}
