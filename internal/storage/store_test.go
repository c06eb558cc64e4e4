package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"
)

type storeSpec struct {
	Name string `json:"name"`
}

func (s *storeSpec) Validate() error {
	if s.Name == "" {
		return os.ErrInvalid
	}
	return nil
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestNewFileStore(t *testing.T) {
	tests := map[string]struct {
		files   map[string]string
		expKeys []string
		expErr  string
	}{
		"empty directory": {},
		"loads assets": {
			files: map[string]string{
				"a.json": `{"version":1,"id":"100001","spec":{"name":"Clearing"}}`,
				"b.json": `{"version":1,"id":"100002","spec":{"name":"Ridge"}}`,
			},
			expKeys: []string{"100001", "100002"},
		},
		"ignores non json": {
			files: map[string]string{
				"a.json":    `{"version":1,"id":"100001","spec":{"name":"Clearing"}}`,
				"notes.txt": `not an asset`,
			},
			expKeys: []string{"100001"},
		},
		"invalid json": {
			files:  map[string]string{"a.json": `{`},
			expErr: "unmarshalling asset",
		},
		"invalid spec": {
			files:  map[string]string{"a.json": `{"version":1,"id":"100001","spec":{}}`},
			expErr: "validating a.json",
		},
		"duplicate id": {
			files: map[string]string{
				"a.json": `{"version":1,"id":"100001","spec":{"name":"Clearing"}}`,
				"b.json": `{"version":1,"id":"100001","spec":{"name":"Ridge"}}`,
			},
			expErr: `duplicate id "100001"`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			for f, body := range tt.files {
				writeFile(t, dir, f, body)
			}

			st, err := NewFileStore[*storeSpec](dir)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "keys", len(st.Keys()), len(tt.expKeys))
			for i, k := range st.Keys() {
				testutil.AssertEqual(t, "key", k, tt.expKeys[i])
			}
		})
	}
}

func TestNewFileStore_MissingDirectory(t *testing.T) {
	_, err := NewFileStore[*storeSpec]("/nonexistent/aeternus/assets")
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestFileStore_SaveAndReload(t *testing.T) {
	dir := t.TempDir()

	st, err := NewFileStore[*storeSpec](dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := st.Save("ana", &storeSpec{Name: "Ana"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "cached", st.Get("ana").Name, "Ana")

	if _, err := os.Stat(filepath.Join(dir, "ana.json.tmp")); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}

	if err := st.Save("ana", &storeSpec{Name: "Ana the Bold"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reloaded, err := NewFileStore[*storeSpec](dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "reloaded", reloaded.Get("ana").Name, "Ana the Bold")
	testutil.AssertEqual(t, "count", len(reloaded.GetAll()), 1)
}

func TestFileStore_SaveRejectsInvalid(t *testing.T) {
	st, err := NewFileStore[*storeSpec](t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertErrorContains(t, st.Save("bad id", &storeSpec{Name: "x"}), "must be alphanumeric")
	if st.Get("bad id") != nil {
		t.Error("invalid record was cached")
	}
}

func TestFileStore_GetMissing(t *testing.T) {
	st, err := NewFileStore[*storeSpec](t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Get("nobody") != nil {
		t.Error("expected nil for missing record")
	}
}
