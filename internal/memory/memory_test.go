package memory

import (
	"testing"
)

func TestParsePermissions(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Permissions
		wantErr bool
	}{
		{name: "private rx", in: "r-xp", want: Permissions{Read: true, Execute: true}},
		{name: "shared rw", in: "rw-s", want: Permissions{Read: true, Write: true, Shared: true}},
		{name: "none", in: "---p", want: Permissions{}},
		{name: "three chars", in: "rwx", want: Permissions{Read: true, Write: true, Execute: true}},
		{name: "too short", in: "r-", wantErr: true},
		{name: "bad read flag", in: "x--p", wantErr: true},
		{name: "bad share flag", in: "r--q", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePermissions(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPermissionsString(t *testing.T) {
	if s := FromProtection(ProtRead | ProtWrite).String(); s != "rw-p" {
		t.Errorf("got %q, want rw-p", s)
	}
	if s := FromProtection(ProtRead | ProtExecute).String(); s != "r-xp" {
		t.Errorf("got %q, want r-xp", s)
	}
	if s := (Permissions{Read: true, Shared: true}).String(); s != "r--s" {
		t.Errorf("got %q, want r--s", s)
	}
}

func TestRegion(t *testing.T) {
	r := Region{Start: 0x1000, End: 0x2000, Perms: Permissions{Read: true}}
	if r.Size() != 0x1000 {
		t.Errorf("size = %d", r.Size())
	}
	if !r.Anonymous() || r.Name() != "[anonymous]" {
		t.Errorf("expected anonymous region, got name %q", r.Name())
	}
	if !r.Contains(0x1fff) || r.Contains(0x2000) {
		t.Error("Contains does not treat End as exclusive")
	}

	inverted := Region{Start: 0x2000, End: 0x1000}
	if inverted.Size() != 0 {
		t.Errorf("inverted region size = %d, want 0", inverted.Size())
	}

	heap := Region{Start: 0, End: 1, Label: "[heap]"}
	if !heap.LabelContains("heap", "stack") {
		t.Error("expected heap label match")
	}
}

func TestDefaultPattern(t *testing.T) {
	p := DefaultPattern()
	if string(p.Bytes()) != "ABCDEFGHIJKLMNOP" {
		t.Errorf("default pattern = %q", p.Bytes())
	}
}

func TestParsePattern(t *testing.T) {
	p, err := ParsePattern("00 11 22 33 44 55 66 77 88 99 aa bb cc dd ee FF")
	if err != nil {
		t.Fatal(err)
	}
	if p[0] != 0x00 || p[10] != 0xaa || p[15] != 0xff {
		t.Errorf("unexpected pattern %s", p)
	}
	if p.String() != "00 11 22 33 44 55 66 77 88 99 aa bb cc dd ee ff" {
		t.Errorf("String() = %q", p.String())
	}

	bad := []string{
		"",
		"00 11",
		"00 11 22 33 44 55 66 77 88 99 aa bb cc dd ee zz",
		"00 11 22 33 44 55 66 77 88 99 aa bb cc dd ee 100",
	}
	for _, in := range bad {
		if _, err := ParsePattern(in); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}
