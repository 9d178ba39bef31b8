package tokenstore

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	sealedPrefix = "v1:"
	saltSize     = 16
	nonceSize    = 24
	keySize      = 32

	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

var (
	// ErrWrongPassphrase is returned when a sealed token cannot be opened.
	ErrWrongPassphrase = errors.New("tokenstore: wrong passphrase or corrupted token")
	// ErrPassphraseRequired is returned when a sealed token is read without a passphrase.
	ErrPassphraseRequired = errors.New("tokenstore: token is encrypted, set ROLETA_TOKEN_PASSPHRASE")
)

// File keeps one token per profile in <dir>/<profile>.token with mode 0600.
// With a passphrase the token is sealed with NaCl secretbox under a key
// derived by scrypt; the file then holds "v1:" + base64(salt|nonce|box).
type File struct {
	mu         sync.Mutex
	path       string
	passphrase []byte
}

// NewFile returns the file store for profile under dir. An empty passphrase
// stores the token in clear.
func NewFile(dir, profile, passphrase string) *File {
	f := &File{path: filepath.Join(dir, profile+".token")}
	if passphrase != "" {
		f.passphrase = []byte(passphrase)
	}
	return f
}

// Path returns the token file location.
func (f *File) Path() string { return f.path }

func (f *File) Get(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("tokenstore: read %s: %w", f.path, err)
	}

	content := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(content, sealedPrefix) {
		return content, nil
	}
	if f.passphrase == nil {
		return "", ErrPassphraseRequired
	}
	return open(strings.TrimPrefix(content, sealedPrefix), f.passphrase)
}

func (f *File) Set(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	content := token
	if f.passphrase != nil {
		sealed, err := seal(token, f.passphrase)
		if err != nil {
			return err
		}
		content = sealedPrefix + sealed
	}
	return writeAtomic(f.path, []byte(content+"\n"))
}

func (f *File) Remove(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("tokenstore: remove %s: %w", f.path, err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("tokenstore: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return fmt.Errorf("tokenstore: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("tokenstore: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("tokenstore: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tokenstore: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("tokenstore: %w", err)
	}
	return nil
}

func deriveKey(passphrase, salt []byte) (*[keySize]byte, error) {
	k, err := scrypt.Key(passphrase, salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return nil, fmt.Errorf("tokenstore: derive key: %w", err)
	}
	var key [keySize]byte
	copy(key[:], k)
	return &key, nil
}

func seal(token string, passphrase []byte) (string, error) {
	buf := make([]byte, saltSize+nonceSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("tokenstore: %w", err)
	}
	key, err := deriveKey(passphrase, buf[:saltSize])
	if err != nil {
		return "", err
	}
	var nonce [nonceSize]byte
	copy(nonce[:], buf[saltSize:])

	out := secretbox.Seal(buf, []byte(token), &nonce, key)
	return base64.RawStdEncoding.EncodeToString(out), nil
}

func open(encoded string, passphrase []byte) (string, error) {
	raw, err := base64.RawStdEncoding.DecodeString(encoded)
	if err != nil || len(raw) < saltSize+nonceSize+secretbox.Overhead {
		return "", ErrWrongPassphrase
	}
	key, err := deriveKey(passphrase, raw[:saltSize])
	if err != nil {
		return "", err
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[saltSize:saltSize+nonceSize])

	plain, ok := secretbox.Open(nil, raw[saltSize+nonceSize:], &nonce, key)
	if !ok {
		return "", ErrWrongPassphrase
	}
	return string(plain), nil
}
