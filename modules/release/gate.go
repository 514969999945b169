package release

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"resty.dev/v3"

	"github.com/makex-dev/makex/internal/ctxlog"
)

// BlockedError reports the specific precondition that prevents publishing.
type BlockedError struct {
	Condition string
}

func (e *BlockedError) Error() string {
	return "release blocked: " + e.Condition
}

// Gate cross-validates a version identifier across the remote package
// index and the local release artifacts before any irreversible publish
// step may run. All conditions are independently necessary.
type Gate struct {
	client   *resty.Client
	indexURL string
	pkg      string
}

// NewGate returns a gate for the given package on the given index. The
// index is expected to serve the common JSON endpoint
// <indexURL>/<package>/<version>/json with 404 for unknown versions.
func NewGate(indexURL, pkg string) *Gate {
	client := resty.New().
		SetTimeout(30 * time.Second).
		SetHeader("Accept", "application/json")
	return &Gate{client: client, indexURL: strings.TrimRight(indexURL, "/"), pkg: pkg}
}

// Close releases the gate's HTTP client resources.
func (g *Gate) Close() error {
	return g.client.Close()
}

// Check verifies that version
//
//	(a) does not already exist on the remote index,
//	(b) is present in every designated doc artifact (at least two), and
//	(c) the changelog no longer carries the unreleased placeholder.
//
// Any violation returns *BlockedError naming the unmet condition. The gate
// performs no uploads itself.
func (g *Gate) Check(ctx context.Context, version string, docs []string, changelog, placeholder string) error {
	logger := ctxlog.FromContext(ctx)

	if version == "" {
		return fmt.Errorf("version must not be empty")
	}
	if len(docs) < 2 {
		return fmt.Errorf("release gate requires at least two doc artifacts, got %d", len(docs))
	}

	url := fmt.Sprintf("%s/%s/%s/json", g.indexURL, g.pkg, version)
	resp, err := g.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return fmt.Errorf("failed to query package index: %w", err)
	}
	switch resp.StatusCode() {
	case http.StatusNotFound:
		// Version is free.
	case http.StatusOK:
		return &BlockedError{Condition: fmt.Sprintf("version %s already exists on %s", version, g.indexURL)}
	default:
		return fmt.Errorf("unexpected status %d from package index", resp.StatusCode())
	}
	logger.Debug("Index check passed.", "version", version)

	for _, doc := range docs {
		content, err := os.ReadFile(doc)
		if err != nil {
			return fmt.Errorf("failed to read doc artifact %q: %w", doc, err)
		}
		if !strings.Contains(string(content), version) {
			return &BlockedError{Condition: fmt.Sprintf("version %s not mentioned in %s", version, doc)}
		}
	}
	logger.Debug("Doc artifact checks passed.", "count", len(docs))

	content, err := os.ReadFile(changelog)
	if err != nil {
		return fmt.Errorf("failed to read changelog %q: %w", changelog, err)
	}
	if strings.Contains(string(content), placeholder) {
		return &BlockedError{Condition: fmt.Sprintf("changelog %s still contains placeholder %q", changelog, placeholder)}
	}
	logger.Debug("Changelog placeholder check passed.")

	return nil
}
