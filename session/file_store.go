package session

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/jrsteele09/go-lecturer-console/internal/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	saltLength  = 16
	nonceLength = 24
	keyLength   = 32
)

var _ Store = (*FileStore)(nil)

// FileStore persists the pair in a single file sealed with NaCl secretbox.
// The file layout is salt | nonce | box, where the key is derived from the
// passphrase and salt with scrypt. Every read goes to disk.
type FileStore struct {
	mu         sync.Mutex
	path       string
	passphrase []byte
}

// NewFileStore creates a store backed by path. The file is created on first write.
func NewFileStore(path, passphrase string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("token file path is required")
	}
	if passphrase == "" {
		return nil, fmt.Errorf("token passphrase is required")
	}
	return &FileStore{path: path, passphrase: []byte(passphrase)}, nil
}

func (s *FileStore) GetAccessToken() string {
	return s.get(AccessTokenKey)
}

func (s *FileStore) GetRefreshToken() string {
	return s.get(RefreshTokenKey)
}

func (s *FileStore) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(map[string]string{AccessTokenKey: access, RefreshTokenKey: refresh})
}

func (s *FileStore) SetAccessToken(access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return errors.Wrapf(err, "[FileStore SetAccessToken] failed to read %s", s.path)
	}
	entries[AccessTokenKey] = access
	return s.write(entries)
}

func (s *FileStore) ClearTokens() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("[FileStore ClearTokens] failed to remove %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		log.Err(err).Str("path", s.path).Msg("Failed to read token file")
		return ""
	}
	return entries[key]
}

func (s *FileStore) read() (map[string]string, error) {
	entries := make(map[string]string)

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return entries, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) < saltLength+nonceLength+secretbox.Overhead {
		return nil, fmt.Errorf("token file is truncated")
	}

	key, err := s.deriveKey(data[:saltLength])
	if err != nil {
		return nil, err
	}

	var nonce [nonceLength]byte
	copy(nonce[:], data[saltLength:saltLength+nonceLength])

	plain, ok := secretbox.Open(nil, data[saltLength+nonceLength:], &nonce, key)
	if !ok {
		return nil, fmt.Errorf("token file cannot be decrypted with this passphrase")
	}

	if err := json.Unmarshal(plain, &entries); err != nil {
		return nil, fmt.Errorf("token file is corrupt: %w", err)
	}
	return entries, nil
}

func (s *FileStore) write(entries map[string]string) error {
	plain, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	header := make([]byte, saltLength+nonceLength)
	if _, err := io.ReadFull(rand.Reader, header); err != nil {
		return fmt.Errorf("failed to generate random bytes: %w", err)
	}

	key, err := s.deriveKey(header[:saltLength])
	if err != nil {
		return err
	}

	var nonce [nonceLength]byte
	copy(nonce[:], header[saltLength:])
	sealed := secretbox.Seal(header, plain, &nonce, key)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, sealed, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) deriveKey(salt []byte) (*[keyLength]byte, error) {
	derived, err := scrypt.Key(s.passphrase, salt, 1<<15, 8, 1, keyLength)
	if err != nil {
		return nil, fmt.Errorf("failed to derive token file key: %w", err)
	}
	var key [keyLength]byte
	copy(key[:], derived)
	return &key, nil
}
