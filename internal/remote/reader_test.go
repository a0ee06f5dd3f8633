package remote

import (
	"bytes"
	"errors"
	"testing"

	"memdump/internal/memory"
)

// fakeMemory is a flat image of the target starting at base, with
// optional unreadable word addresses.
type fakeMemory struct {
	base  memory.Address
	data  []byte
	holes map[memory.Address]bool
	peeks int
}

func (m *fakeMemory) PeekWord(addr memory.Address) ([memory.WordSize]byte, error) {
	m.peeks++
	var w [memory.WordSize]byte
	if m.holes[addr] {
		return w, errors.New("EIO")
	}
	off := int(addr - m.base)
	if off < 0 || off >= len(m.data) {
		return w, errors.New("EFAULT")
	}
	copy(w[:], m.data[off:])
	return w, nil
}

func (m *fakeMemory) ReadAt(addr memory.Address, buf []byte) (int, error) {
	off := int(addr - m.base)
	if off < 0 || off+len(buf) > len(m.data) {
		return 0, errors.New("EFAULT")
	}
	for a := addr; a < addr.Add(memory.Size(len(buf))); a++ {
		if m.holes[a] {
			return 0, errors.New("EIO")
		}
	}
	return copy(buf, m.data[off:]), nil
}

func image(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i + 1)
	}
	return b
}

func TestPeekReaderFull(t *testing.T) {
	mem := &fakeMemory{base: 0x1000, data: image(64)}
	r := &PeekReader{Peeker: mem}

	res := r.Read(0x1000, 21)
	if res.Status != Full || res.Faults != 0 || res.Err != nil {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(res.Data) != 21 {
		t.Fatalf("len = %d, want 21", len(res.Data))
	}
	if !bytes.Equal(res.Data, mem.data[:21]) {
		t.Errorf("data mismatch: %x", res.Data)
	}
	if mem.peeks != 3 {
		t.Errorf("peeks = %d, want 3", mem.peeks)
	}
}

func TestPeekReaderZeroFill(t *testing.T) {
	mem := &fakeMemory{base: 0x1000, data: image(32), holes: map[memory.Address]bool{0x1008: true}}
	r := &PeekReader{Peeker: mem}

	res := r.Read(0x1000, 24)
	if res.Status != ZeroFilled || res.Faults != 1 || res.Err == nil {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(res.Data) != 24 {
		t.Fatalf("len = %d, want 24", len(res.Data))
	}
	if !bytes.Equal(res.Data[:8], mem.data[:8]) || !bytes.Equal(res.Data[16:], mem.data[16:24]) {
		t.Error("readable words not copied")
	}
	if !bytes.Equal(res.Data[8:16], make([]byte, 8)) {
		t.Errorf("faulted word not zero: %x", res.Data[8:16])
	}
	if !res.OK() {
		t.Error("zero-filled result should be usable")
	}
}

func TestPeekReaderAllUnreadable(t *testing.T) {
	mem := &fakeMemory{base: 0x1000}
	res := (&PeekReader{Peeker: mem}).Read(0x1000, 16)
	if res.Status != ZeroFilled || res.Faults != 2 || len(res.Data) != 16 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestBulkReader(t *testing.T) {
	mem := &fakeMemory{base: 0x1000, data: image(64), holes: map[memory.Address]bool{0x1030: true}}
	r := &BulkReader{Source: mem}

	res := r.Read(0x1000, 32)
	if res.Status != Full || !bytes.Equal(res.Data, mem.data[:32]) {
		t.Fatalf("unexpected result %+v", res)
	}

	res = r.Read(0x1020, 32)
	if res.Status != Failed || res.Data != nil || res.Err == nil {
		t.Fatalf("expected failure, got %+v", res)
	}
	if res.OK() {
		t.Error("failed result reported OK")
	}
}

type shortSource struct{}

func (shortSource) ReadAt(_ memory.Address, buf []byte) (int, error) {
	return len(buf) / 2, nil
}

func TestBulkReaderShortRead(t *testing.T) {
	res := (&BulkReader{Source: shortSource{}}).Read(0, 16)
	if res.Status != Failed || !errors.Is(res.Err, ErrShortRead) {
		t.Fatalf("got %+v, want short read failure", res)
	}
}

func TestZeroLengthRead(t *testing.T) {
	mem := &fakeMemory{}
	for _, r := range []Reader{&PeekReader{Peeker: mem}, &BulkReader{Source: mem}} {
		res := r.Read(0x1000, 0)
		if res.Status != Full || len(res.Data) != 0 {
			t.Errorf("%T: unexpected result %+v", r, res)
		}
	}
	if mem.peeks != 0 {
		t.Errorf("peeks = %d for zero length read", mem.peeks)
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"": KindAuto, "auto": KindAuto, "PEEK": KindPeek, " bulk ": KindBulk} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseKind("mmap"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
