package adapters

import (
	"bytes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"github.com/petrijr/miniapp/pkg/api"
)

const envelopeMagic = "miniapp-sealed-v1"

// scrypt parameters; fixed so that files stay readable across releases.
const (
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// envelope is the on-disk form of an encrypted data set.
type envelope struct {
	Magic      string `json:"magic"`
	Inner      string `json:"inner"`
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// EncryptedAdapter seals the output of another adapter with a key derived
// from a passphrase (scrypt, XChaCha20-Poly1305). The envelope is JSON; the
// inner format id is authenticated so a file sealed around one codec cannot
// be opened with another.
type EncryptedAdapter[T any] struct {
	format     string
	inner      api.FormatAdapter[T]
	passphrase []byte
}

var _ api.FormatAdapter[struct{}] = (*EncryptedAdapter[struct{}])(nil)

// Encrypted wraps inner, binding the result to format "enc".
func Encrypted[T any](inner api.FormatAdapter[T], passphrase string, opts ...Option) *EncryptedAdapter[T] {
	if inner == nil {
		panic("adapters: Encrypted requires an inner adapter")
	}
	return &EncryptedAdapter[T]{
		format:     buildOptions("enc", opts).format,
		inner:      inner,
		passphrase: []byte(passphrase),
	}
}

func (a *EncryptedAdapter[T]) Format() string { return a.format }

func (a *EncryptedAdapter[T]) Read(r io.Reader) ([]T, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &api.DecodeError{Format: a.format, Err: err}
	}
	if env.Magic != envelopeMagic {
		return nil, &api.DecodeError{Format: a.format, Err: errors.New("not a sealed data set")}
	}
	if env.Inner != a.inner.Format() {
		return nil, &api.DecodeError{
			Format: a.format,
			Err:    fmt.Errorf("sealed %s data cannot be read as %s", env.Inner, a.inner.Format()),
		}
	}

	aead, err := a.aead(env.Salt)
	if err != nil {
		return nil, &api.DecodeError{Format: a.format, Err: err}
	}
	if len(env.Nonce) != aead.NonceSize() {
		return nil, &api.DecodeError{Format: a.format, Err: errors.New("bad nonce length")}
	}
	plain, err := aead.Open(nil, env.Nonce, env.Ciphertext, additionalData(env.Inner))
	if err != nil {
		return nil, &api.DecodeError{Format: a.format, Err: errors.New("wrong passphrase or corrupted data")}
	}

	items, err := a.inner.Read(bytes.NewReader(plain))
	if err != nil {
		return nil, api.NewDecodeError(a.format, err)
	}
	return items, nil
}

func (a *EncryptedAdapter[T]) Write(items []T, w io.Writer) error {
	var plain bytes.Buffer
	if err := a.inner.Write(items, &plain); err != nil {
		return api.NewEncodeError(a.format, err)
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return &api.EncodeError{Format: a.format, Err: err}
	}
	aead, err := a.aead(salt)
	if err != nil {
		return &api.EncodeError{Format: a.format, Err: err}
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return &api.EncodeError{Format: a.format, Err: err}
	}

	inner := a.inner.Format()
	env := envelope{
		Magic:      envelopeMagic,
		Inner:      inner,
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: aead.Seal(nil, nonce, plain.Bytes(), additionalData(inner)),
	}
	b, err := json.Marshal(env)
	if err != nil {
		return &api.EncodeError{Format: a.format, Err: err}
	}
	return writeAll(w, b)
}

// Validate checks the envelope shape; it does not decrypt.
func (a *EncryptedAdapter[T]) Validate(r io.Reader) bool {
	data, ok := sniff(r)
	if !ok {
		return false
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return false
	}
	return env.Magic == envelopeMagic &&
		len(env.Salt) > 0 &&
		len(env.Nonce) == chacha20poly1305.NonceSizeX
}

func (a *EncryptedAdapter[T]) aead(salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(a.passphrase, salt, scryptN, scryptR, scryptP, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	return chacha20poly1305.NewX(key)
}

func additionalData(inner string) []byte {
	return []byte(envelopeMagic + "/" + inner)
}
