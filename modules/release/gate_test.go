package release

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newIndex serves the package index JSON endpoint with a canned status.
func newIndex(t *testing.T, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		if status == http.StatusOK {
			fmt.Fprint(w, `{"info":{"version":"1.2.3"}}`)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

type artifacts struct {
	docs      []string
	changelog string
}

// newArtifacts writes two doc files and a changelog into a temp dir.
func newArtifacts(t *testing.T, docContent, changelogContent string) artifacts {
	t.Helper()
	dir := t.TempDir()
	readme := filepath.Join(dir, "README.rst")
	index := filepath.Join(dir, "index.rst")
	changelog := filepath.Join(dir, "HISTORY.rst")
	require.NoError(t, os.WriteFile(readme, []byte(docContent), 0o644))
	require.NoError(t, os.WriteFile(index, []byte(docContent), 0o644))
	require.NoError(t, os.WriteFile(changelog, []byte(changelogContent), 0o644))
	return artifacts{docs: []string{readme, index}, changelog: changelog}
}

func TestCheckPasses(t *testing.T) {
	server := newIndex(t, http.StatusNotFound)
	art := newArtifacts(t, "Release 1.2.3 notes", "1.2.3 - 2026-08-23\n")

	gate := NewGate(server.URL, "hostinfo")
	defer gate.Close()

	err := gate.Check(context.Background(), "1.2.3", art.docs, art.changelog, "XXXX-XX-XX")
	assert.NoError(t, err)
}

func TestCheckVersionAlreadyPublished(t *testing.T) {
	server := newIndex(t, http.StatusOK)
	art := newArtifacts(t, "Release 1.2.3 notes", "1.2.3 - 2026-08-23\n")

	gate := NewGate(server.URL, "hostinfo")
	defer gate.Close()

	err := gate.Check(context.Background(), "1.2.3", art.docs, art.changelog, "XXXX-XX-XX")
	require.Error(t, err)

	var blocked *BlockedError
	require.True(t, errors.As(err, &blocked))
	assert.Contains(t, blocked.Condition, "already exists")
}

func TestCheckIndexServerError(t *testing.T) {
	server := newIndex(t, http.StatusInternalServerError)
	art := newArtifacts(t, "Release 1.2.3 notes", "done\n")

	gate := NewGate(server.URL, "hostinfo")
	defer gate.Close()

	err := gate.Check(context.Background(), "1.2.3", art.docs, art.changelog, "XXXX-XX-XX")
	require.Error(t, err)

	// A flaky index is an ordinary failure, not a blocked release.
	var blocked *BlockedError
	assert.False(t, errors.As(err, &blocked))
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestCheckVersionMissingFromDoc(t *testing.T) {
	server := newIndex(t, http.StatusNotFound)
	art := newArtifacts(t, "no version mentioned here", "done\n")

	gate := NewGate(server.URL, "hostinfo")
	defer gate.Close()

	err := gate.Check(context.Background(), "1.2.3", art.docs, art.changelog, "XXXX-XX-XX")
	var blocked *BlockedError
	require.True(t, errors.As(err, &blocked))
	assert.Contains(t, blocked.Condition, "not mentioned")
}

func TestCheckChangelogPlaceholder(t *testing.T) {
	server := newIndex(t, http.StatusNotFound)
	art := newArtifacts(t, "Release 1.2.3 notes", "1.2.3 - XXXX-XX-XX\n")

	gate := NewGate(server.URL, "hostinfo")
	defer gate.Close()

	err := gate.Check(context.Background(), "1.2.3", art.docs, art.changelog, "XXXX-XX-XX")
	var blocked *BlockedError
	require.True(t, errors.As(err, &blocked))
	assert.Contains(t, blocked.Condition, "placeholder")
}

func TestCheckRequiresTwoDocs(t *testing.T) {
	server := newIndex(t, http.StatusNotFound)
	art := newArtifacts(t, "Release 1.2.3 notes", "done\n")

	gate := NewGate(server.URL, "hostinfo")
	defer gate.Close()

	err := gate.Check(context.Background(), "1.2.3", art.docs[:1], art.changelog, "XXXX-XX-XX")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least two doc artifacts")
}

func TestCheckEmptyVersion(t *testing.T) {
	gate := NewGate("http://unused.invalid", "hostinfo")
	defer gate.Close()

	err := gate.Check(context.Background(), "", nil, "", "XXXX-XX-XX")
	assert.Error(t, err)
}

func TestCheckQueriesExpectedURL(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)
	art := newArtifacts(t, "Release 1.2.3 notes", "done\n")

	gate := NewGate(server.URL+"/", "hostinfo")
	defer gate.Close()

	require.NoError(t, gate.Check(context.Background(), "1.2.3", art.docs, art.changelog, "XXXX-XX-XX"))
	assert.Equal(t, "/hostinfo/1.2.3/json", gotPath)
}
