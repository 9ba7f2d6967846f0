// Package keyring provides secure credential storage.
// It uses the system keyring when available, falling back to
// encrypted local file storage when not.
package keyring

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zalando/go-keyring"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"github.com/yllada/adguardvpn-desktop/common"
)

const (
	// ServiceName is the identifier used in the system keyring.
	ServiceName = common.AppID

	// SudoPasswordKey holds the sudo password handed to adguardvpn-cli
	// through SUDO_ASKPASS.
	SudoPasswordKey = "sudo-password"

	availabilityKey = "adguardvpn-desktop-check"
)

// Vault stores secrets in the system keyring or, when the keyring is not
// reachable, in an encrypted file. It is safe for concurrent use.
type Vault struct {
	service string
	file    string

	mu       sync.RWMutex
	useLocal bool
	local    map[string]string
	key      []byte
}

// Open checks the system keyring and prepares the file fallback at
// fallbackFile (credentials file in the config directory when empty).
func Open(fallbackFile string) (*Vault, error) {
	if fallbackFile == "" {
		dir, err := common.GetConfigDir()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrCredentialStorage, err)
		}
		fallbackFile = filepath.Join(dir, common.CredentialsFileName)
	}

	v := &Vault{service: ServiceName, file: fallbackFile}

	if err := keyring.Set(v.service, availabilityKey, "check"); err == nil {
		_ = keyring.Delete(v.service, availabilityKey)
		return v, nil
	}

	common.LogInfo("System keyring unavailable, using encrypted file %s", fallbackFile)
	if err := v.switchToLocal(); err != nil {
		return nil, err
	}
	return v, nil
}

// UsesSystemKeyring reports whether secrets go to the system keyring.
func (v *Vault) UsesSystemKeyring() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return !v.useLocal
}

func (v *Vault) switchToLocal() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.useLocal {
		return nil
	}

	if err := common.EnsureDir(filepath.Dir(v.file)); err != nil {
		return fmt.Errorf("%w: %v", common.ErrCredentialStorage, err)
	}

	key, err := deriveKey()
	if err != nil {
		return err
	}
	v.key = key
	v.local = make(map[string]string)
	v.useLocal = true

	data, err := os.ReadFile(v.file)
	if err != nil {
		return nil
	}
	plaintext, err := decrypt(v.key, data)
	if err != nil {
		common.LogWarn("Ignoring unreadable credentials file %s: %v", v.file, err)
		return nil
	}
	if err := json.Unmarshal(plaintext, &v.local); err != nil {
		common.LogWarn("Ignoring malformed credentials file %s: %v", v.file, err)
	}
	return nil
}

// saveLocked writes the local map. v.mu must be held.
func (v *Vault) saveLocked() error {
	data, err := json.Marshal(v.local)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrCredentialStorage, err)
	}
	encrypted, err := encrypt(v.key, data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(v.file, encrypted, 0600); err != nil {
		return fmt.Errorf("%w: %v", common.ErrCredentialStorage, err)
	}
	return nil
}

// Set stores secret under key.
func (v *Vault) Set(key, secret string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if secret == "" {
		return errors.New("secret cannot be empty")
	}

	if v.UsesSystemKeyring() {
		err := keyring.Set(v.service, key, secret)
		if err == nil {
			return nil
		}
		common.LogWarn("System keyring write failed, falling back to file: %v", err)
		if err := v.switchToLocal(); err != nil {
			return err
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.local[key] = secret
	return v.saveLocked()
}

// Get returns the secret stored under key, or common.ErrCredentialsNotFound.
func (v *Vault) Get(key string) (string, error) {
	if key == "" {
		return "", errors.New("key cannot be empty")
	}

	if v.UsesSystemKeyring() {
		secret, err := keyring.Get(v.service, key)
		if err == nil {
			return secret, nil
		}
		if errors.Is(err, keyring.ErrNotFound) {
			return "", common.ErrCredentialsNotFound
		}
		return "", fmt.Errorf("%w: %v", common.ErrCredentialStorage, err)
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	secret, ok := v.local[key]
	if !ok {
		return "", common.ErrCredentialsNotFound
	}
	return secret, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (v *Vault) Delete(key string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}

	if v.UsesSystemKeyring() {
		err := keyring.Delete(v.service, key)
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("%w: %v", common.ErrCredentialStorage, err)
		}
		return nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.local[key]; !ok {
		return nil
	}
	delete(v.local, key)
	return v.saveLocked()
}

// Exists checks if a secret is stored under key.
func (v *Vault) Exists(key string) bool {
	_, err := v.Get(key)
	return err == nil
}

// deriveKey derives the file encryption key from machine-specific data.
func deriveKey() ([]byte, error) {
	hostname, _ := os.Hostname()
	secret := fmt.Sprintf("%s-%s-%s-%d", common.AppID, hostname, getMachineID(), os.Getuid())

	key := make([]byte, chacha20poly1305.KeySize)
	reader := hkdf.New(sha256.New, []byte(secret), nil, []byte("credentials"))
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrEncryption, err)
	}
	return key, nil
}

func getMachineID() string {
	data, err := os.ReadFile("/etc/machine-id")
	if err == nil {
		return strings.TrimSpace(string(data))
	}
	return "default-machine-id"
}

func encrypt(key, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrEncryption, err)
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrEncryption, err)
	}

	ciphertext := aead.Seal(nonce, nonce, plaintext, nil)
	return []byte(base64.StdEncoding.EncodeToString(ciphertext)), nil
}

func decrypt(key, data []byte) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecryption, err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecryption, err)
	}
	if len(ciphertext) < aead.NonceSize() {
		return nil, fmt.Errorf("%w: ciphertext too short", common.ErrDecryption)
	}

	nonce, ciphertext := ciphertext[:aead.NonceSize()], ciphertext[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecryption, err)
	}
	return plaintext, nil
}
