package restydump

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestInstall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "text/html")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("<html><title>Access Denied</title></html>"))
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "dump")
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(filepath.Join(dir, "stale.txt"), []byte("old"), 0600)
	if err != nil {
		t.Fatal(err)
	}

	output, err := NewDirectoryOutput(dir)
	if err != nil {
		t.Fatal(err)
	}
	client := resty.New().SetBaseURL(server.URL)
	Install(client, output, nil)

	for i := 0; i < 2; i++ {
		_, err = client.R().
			SetHeader("x-api-key", "abc").
			SetBody(`{"query":"page 1"}`).
			Post("/graphql")
		if err != nil {
			t.Fatal(err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	require.Equal(t, []string{"0001.txt", "0002.txt"}, names)

	contents, err := os.ReadFile(filepath.Join(dir, "0001.txt"))
	if err != nil {
		t.Fatal(err)
	}
	dump := string(contents)
	require.True(t, strings.HasPrefix(dump, "---- REQUEST ----"))
	require.Contains(t, dump, "POST "+server.URL+"/graphql")
	require.Contains(t, dump, "X-Api-Key: abc")
	require.Contains(t, dump, `{"query":"page 1"}`)
	require.Contains(t, dump, "403 Forbidden")
	require.Contains(t, dump, "<title>Access Denied</title>")
}
