package roadftp

import (
	"slices"
	"testing"
)

func TestParseListLine(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		line string
		want Entry
	}{
		{
			name: "regular file",
			line: "-rw-r--r-- 1 user group 1234 Jan 1 00:00 file.txt",
			want: Entry{
				Name:        "file.txt",
				Size:        1234,
				IsDir:       false,
				Permissions: "-rw-r--r--",
			},
		},
		{
			name: "directory",
			line: "drwxr-xr-x 2 user group 4096 Jan 1 00:00 subdir",
			want: Entry{
				Name:        "subdir",
				Size:        4096,
				IsDir:       true,
				Permissions: "drwxr-xr-x",
			},
		},
		{
			name: "name containing spaces",
			line: "-rw-r--r-- 1 user group 10 Jan 1 00:00 my file.txt",
			want: Entry{
				Name:        "my file.txt",
				Size:        10,
				Permissions: "-rw-r--r--",
			},
		},
		{
			name: "non-numeric size field",
			line: "-rw-r--r-- 1 user group 1.2M Jan 1 00:00 big.bin",
			want: Entry{
				Name:        "big.bin",
				Size:        0,
				Permissions: "-rw-r--r--",
			},
		},
		{
			name: "fewer than nine fields degrades to raw name",
			line: "total 42",
			want: Entry{
				Name: "total 42",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseListLine(tt.line)

			if got.Name != tt.want.Name {
				t.Errorf("Name = %q, want %q", got.Name, tt.want.Name)
			}
			if got.Size != tt.want.Size {
				t.Errorf("Size = %d, want %d", got.Size, tt.want.Size)
			}
			if got.IsDir != tt.want.IsDir {
				t.Errorf("IsDir = %v, want %v", got.IsDir, tt.want.IsDir)
			}
			if got.Permissions != tt.want.Permissions {
				t.Errorf("Permissions = %q, want %q", got.Permissions, tt.want.Permissions)
			}
			if got.Raw != tt.line {
				t.Errorf("Raw = %q, want %q", got.Raw, tt.line)
			}
			if !got.Modified.IsZero() {
				t.Errorf("Modified = %v, want zero", got.Modified)
			}
		})
	}
}

func TestSplitListFields(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		max  int
		want []string
	}{
		{
			name: "last field keeps internal whitespace",
			in:   "a b  c   d",
			max:  3,
			want: []string{"a", "b", "c   d"},
		},
		{
			name: "leading and trailing runs",
			in:   "  a\tb  ",
			max:  9,
			want: []string{"a", "b"},
		},
		{
			name: "fewer fields than max",
			in:   "one two",
			max:  9,
			want: []string{"one", "two"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitListFields(tt.in, tt.max)
			if !slices.Equal(got, tt.want) {
				t.Errorf("splitListFields(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}
