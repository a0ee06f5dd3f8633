//go:build darwin && cgo

package mach

import (
	"errors"
	"testing"
	"unsafe"
)

func walkSelf(t *testing.T) int {
	t.Helper()
	n := 0
	addr := uint64(0)
	for {
		start, size, _, err := RegionAt(Self(), addr)
		if errors.Is(err, ErrNoRegion) {
			return n
		}
		if err != nil {
			t.Fatalf("RegionAt(0x%x): %v", addr, err)
		}
		n++
		if size == 0 || start+size <= addr {
			return n
		}
		addr = start + size
	}
}

func TestRegionWalkReleasesPorts(t *testing.T) {
	if walkSelf(t) == 0 {
		t.Fatal("no regions in own task")
	}

	before, err := portCount()
	if err != nil {
		t.Fatal(err)
	}
	queries := 0
	for range 20 {
		queries += walkSelf(t)
	}
	after, err := portCount()
	if err != nil {
		t.Fatal(err)
	}

	if grown := after - before; grown > 16 {
		t.Errorf("port names grew by %d over %d region queries", grown, queries)
	}
}

func TestReadSelf(t *testing.T) {
	src := []byte("ABCDEFGHIJKLMNOP")
	buf := make([]byte, len(src))
	n, err := Read(Self(), uint64(uintptr(unsafe.Pointer(&src[0]))), buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != len(src) || string(buf) != string(src) {
		t.Errorf("read %d bytes %q", n, buf)
	}
}
