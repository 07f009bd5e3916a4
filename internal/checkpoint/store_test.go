package checkpoint

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"quadform/internal/form"
)

func TestPutGet(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	start := form.FromInt64(20, 7, 1360)
	d := start.Discriminant()
	key := Key(d, start)

	if _, ok, err := s.Get(key); err != nil || ok {
		t.Fatalf("Get on empty store = %v, %v", ok, err)
	}

	at := form.FromInt64(161, 27, 170)
	if err := s.Put(key, NewPayload(d, form.Bound(d), 2, at)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	p, ok, err := s.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if p.Step != 2 || p.Discriminant != "-108751" || p.L != "12" {
		t.Fatalf("payload = %+v", p)
	}
	got, err := p.Form()
	if err != nil {
		t.Fatalf("Form: %v", err)
	}
	if !got.Equal(at) {
		t.Fatalf("Form() = %s, want %s", got, at)
	}

	entries, err := os.ReadDir(filepath.Join(s.Dir(), "chains"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != key.String()+".mp" {
		t.Fatalf("chains dir holds %v", entries)
	}

	if err := s.Delete(key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get(key); ok {
		t.Fatalf("Get after Delete hit")
	}
}

func TestSchemaMismatchIsMiss(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	f := form.FromInt64(20, 7, 1360)
	key := Key(f.Discriminant(), f)

	old := NewPayload(f.Discriminant(), big.NewInt(12), 5, f)
	old.Schema = SchemaVersion + 1
	data, err := msgpack.Marshal(old)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if err := os.WriteFile(s.pathFor(key), data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, ok, err := s.Get(key); ok || err != nil {
		t.Fatalf("Get = %v, %v, want a clean miss", ok, err)
	}
}

func TestCorruptPayload(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	var key Digest
	if err := os.WriteFile(s.pathFor(key), []byte{0xc1}, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, _, err := s.Get(key); err == nil {
		t.Fatalf("Get on corrupt payload succeeded")
	}
}

func TestKeyDistinguishes(t *testing.T) {
	a := form.FromInt64(20, 7, 1360)
	b := form.FromInt64(20, -7, 1360)
	d := a.Discriminant()
	if Key(d, a) == Key(d, b) {
		t.Fatalf("forms differing in sign of b share a key")
	}
	if Key(d, a) != Key(new(big.Int).Set(d), form.FromInt64(20, 7, 1360)) {
		t.Fatalf("Key is not deterministic")
	}
}

func TestNilStore(t *testing.T) {
	var s *Store
	if err := s.Put(Digest{}, &Payload{}); err != nil {
		t.Fatalf("nil Put: %v", err)
	}
	if _, ok, err := s.Get(Digest{}); ok || err != nil {
		t.Fatalf("nil Get = %v, %v", ok, err)
	}
	if _, err := Open(""); err == nil {
		t.Fatalf("Open(\"\") succeeded")
	}
}
