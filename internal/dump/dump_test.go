package dump

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"memdump/internal/memory"
	"memdump/internal/remote"
)

type imageReader struct {
	base  memory.Address
	data  []byte
	fail  map[memory.Address]bool
	calls int
}

func (r *imageReader) Read(addr memory.Address, length int) remote.ReadResult {
	r.calls++
	if r.fail[addr] {
		return remote.ReadResult{Status: remote.Failed, Err: errors.New("EFAULT")}
	}
	buf := make([]byte, length)
	copy(buf, r.data[int(addr-r.base):])
	return remote.ReadResult{Data: buf, Status: remote.Full}
}

func quiet() *log.Logger {
	return log.New(io.Discard)
}

func content(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*7 + i/256)
	}
	return b
}

func TestDumpRoundTrip(t *testing.T) {
	for _, size := range []int{0, 1, 4095, 4096, 10000, 3*4096 + 17} {
		data := content(size)
		region := &memory.Region{Start: 0x7000, End: 0x7000 + memory.Address(size), Perms: memory.Permissions{Read: true}}
		d := &Dumper{Reader: &imageReader{base: 0x7000, data: data}, Logger: quiet()}

		path := FileName(t.TempDir(), 3)
		res, err := d.Dump(region, path)
		if err != nil {
			t.Fatalf("size %d: %v", size, err)
		}
		if res.Bytes != int64(size) || res.Path != path {
			t.Errorf("size %d: result %+v", size, res)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("size %d: file content differs (len %d)", size, len(got))
		}
	}
}

func TestDumpZeroFillsFailedChunks(t *testing.T) {
	data := content(3 * 4096)
	r := &imageReader{base: 0x1000, data: data, fail: map[memory.Address]bool{0x2000: true}}
	region := &memory.Region{Start: 0x1000, End: 0x4000, Perms: memory.Permissions{Read: true}}
	d := &Dumper{Reader: r, Logger: quiet()}

	path := filepath.Join(t.TempDir(), "out.bin")
	res, err := d.Dump(region, path)
	if err != nil {
		t.Fatal(err)
	}
	if res.FailedChunks != 1 {
		t.Errorf("failed chunks = %d, want 1", res.FailedChunks)
	}

	got, _ := os.ReadFile(path)
	if len(got) != len(data) {
		t.Fatalf("len = %d, want %d", len(got), len(data))
	}
	if !bytes.Equal(got[4096:8192], make([]byte, 4096)) {
		t.Error("failed chunk not zero-filled")
	}
	if !bytes.Equal(got[8192:], data[8192:]) {
		t.Error("chunk after failure misaligned")
	}
}

func TestDumpSkips(t *testing.T) {
	r := &imageReader{}
	d := &Dumper{Reader: r, Logger: quiet()}
	dir := t.TempDir()

	res, err := d.Dump(&memory.Region{Start: 0, End: 0x1000}, FileName(dir, 0))
	if err != nil || res.Skipped != SkipNotReadable {
		t.Errorf("unreadable: %+v, %v", res, err)
	}

	big := &memory.Region{Start: 0, End: 12 * 1024 * 1024, Perms: memory.Permissions{Read: true}}
	res, err = d.Dump(big, FileName(dir, 1))
	if err != nil || res.Skipped != SkipTooLarge {
		t.Errorf("oversized: %+v, %v", res, err)
	}
	if res.Skipped.String() != "region too large for dump" {
		t.Errorf("reason = %q", res.Skipped)
	}

	if r.calls != 0 {
		t.Errorf("reader called %d times for skipped regions", r.calls)
	}
	for _, i := range []int{0, 1} {
		if _, err := os.Stat(FileName(dir, i)); !os.IsNotExist(err) {
			t.Errorf("dump file %d created for skipped region", i)
		}
	}
}

func TestDumpPersistenceError(t *testing.T) {
	d := &Dumper{Reader: &imageReader{data: content(16)}, Logger: quiet()}
	region := &memory.Region{Start: 0, End: 16, Perms: memory.Permissions{Read: true}}

	_, err := d.Dump(region, filepath.Join(t.TempDir(), "missing", "dir", "x.bin"))
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("got %v, want ErrPersistence", err)
	}
}

func TestFileName(t *testing.T) {
	if got := FileName("out", 12); got != filepath.Join("out", "dump_region_12.bin") {
		t.Errorf("got %q", got)
	}
}

func TestSelect(t *testing.T) {
	regions := []memory.Region{
		{Start: 0x1000, End: 0x2000, Perms: memory.Permissions{Read: true}, Label: "/usr/bin/cat"},
		{Start: 0x3000, End: 0x4000, Perms: memory.Permissions{Read: true, Write: true}, Label: "[heap]"},
		{Start: 0x5000, End: 0x6000, Perms: memory.Permissions{Read: true, Write: true}},
		{Start: 0x7000, End: 0x8000, Perms: memory.Permissions{Read: true, Write: true}, Label: "/lib/libc.so"},
		{Start: 0x9000, End: 0xa000, Perms: memory.Permissions{Read: true, Write: true}, Label: "[stack]"},
	}

	got := Select(regions, HeapStackAnon, 0)
	if len(got) != 3 || got[0].Index != 1 || got[1].Index != 2 || got[2].Index != 4 {
		t.Errorf("anon policy selected %+v", got)
	}
	if got[0].Region != &regions[1] {
		t.Error("candidate does not point into the snapshot")
	}

	got = Select(regions, Writable, 2)
	if len(got) != 2 || got[0].Index != 1 || got[1].Index != 2 {
		t.Errorf("writable policy with cap selected %+v", got)
	}

	p, err := ParsePolicy("all")
	if err != nil {
		t.Fatal(err)
	}
	if len(Select(regions, p, 0)) != len(regions) {
		t.Error("all policy did not select everything")
	}
	if _, err := ParsePolicy("nope"); err == nil {
		t.Error("expected error for unknown policy")
	}
}
