// Package checkpoint persists the progress of long squaring chains.
package checkpoint

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"sync"

	sha256 "github.com/minio/sha256-simd"
	"github.com/vmihailenco/msgpack/v5"

	"quadform/internal/form"
)

// Current schema version; bump when Payload changes.
const SchemaVersion uint16 = 1

// Digest identifies one chain: a discriminant and its start form.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Key hashes the discriminant and start form into a Digest.
func Key(d *big.Int, start form.Form) Digest {
	h := sha256.New()
	for _, n := range []*big.Int{d, start.A, start.B, start.C} {
		// Text keeps the sign; the separator keeps fields apart.
		_, _ = h.Write([]byte(n.Text(16)))
		_, _ = h.Write([]byte{0})
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Payload is one saved chain position. Integers are decimal strings.
type Payload struct {
	Schema       uint16
	Discriminant string
	L            string
	Step         uint64
	A            string
	B            string
	C            string
}

// NewPayload fills a Payload for form f reached after step squarings.
func NewPayload(d, L *big.Int, step uint64, f form.Form) *Payload {
	return &Payload{
		Schema:       SchemaVersion,
		Discriminant: d.String(),
		L:            L.String(),
		Step:         step,
		A:            f.A.String(),
		B:            f.B.String(),
		C:            f.C.String(),
	}
}

// Form decodes the saved form.
func (p *Payload) Form() (form.Form, error) {
	var coef [3]*big.Int
	for i, s := range []string{p.A, p.B, p.C} {
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return form.Form{}, fmt.Errorf("checkpoint: bad coefficient %q", s)
		}
		coef[i] = n
	}
	return form.Form{A: coef[0], B: coef[1], C: coef[2]}, nil
}

// Store keeps payloads under <dir>/chains. Safe for concurrent use.
type Store struct {
	mu  sync.RWMutex
	dir string
}

// Open creates dir if needed and returns a Store rooted there.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("checkpoint: empty directory")
	}
	if err := os.MkdirAll(filepath.Join(dir, "chains"), 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Dir returns the root directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) pathFor(key Digest) string {
	return filepath.Join(s.dir, "chains", key.String()+".mp")
}

// Put writes payload atomically. A nil Store ignores the call.
func (s *Store) Put(key Digest, payload *Payload) (err error) {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.pathFor(key)
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the payload for key. A missing file or a payload written under
// another schema version is a miss, not an error.
func (s *Store) Get(key Digest) (*Payload, bool, error) {
	if s == nil {
		return nil, false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var out Payload
	if err := msgpack.NewDecoder(f).Decode(&out); err != nil {
		return nil, false, fmt.Errorf("checkpoint %s: %w", key, err)
	}
	if out.Schema != SchemaVersion {
		return nil, false, nil
	}
	return &out, true, nil
}

// Delete removes the payload for key, if any.
func (s *Store) Delete(key Digest) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.pathFor(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
