package fetch

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
	"github.com/hookdex-labs/hookdex-cli/internal/core/ports/driven"
	"github.com/hookdex-labs/hookdex-cli/internal/logger"
)

const (
	// downloadTimeout bounds one tarball download.
	downloadTimeout = 5 * time.Minute

	// archiveRate throttles archive requests well below the API limit.
	archiveRate = 1.0

	// maxRedirects follows the codeload redirect chain.
	maxRedirects = 3
)

// githubFetcher downloads repository tarballs through the GitHub API.
type githubFetcher struct {
	dataDir  string
	tokenEnv string
	limiter  *rate.Limiter
}

var _ driven.Fetcher = (*githubFetcher)(nil)

func newGitHubFetcher(dataDir, tokenEnv string) *githubFetcher {
	return &githubFetcher{
		dataDir:  dataDir,
		tokenEnv: tokenEnv,
		limiter:  rate.NewLimiter(rate.Limit(archiveRate), 1),
	}
}

// Fetch downloads and extracts the configured repository. A transient
// failure falls back to the previous extraction when one exists.
func (f *githubFetcher) Fetch(ctx context.Context, source *domain.Source) (string, error) {
	owner, repo, err := splitRepo(source)
	if err != nil {
		return "", err
	}

	destDir := filepath.Join(f.dataDir, "sources", source.ID)
	if err := f.download(ctx, source, owner, repo, destDir); err != nil {
		if hasExtraction(destDir) {
			logger.Warn("fetch of %s failed (%v), using cached copy", source.Name, err)
			return f.resolveSubfolder(destDir, source)
		}
		return "", err
	}
	return f.resolveSubfolder(destDir, source)
}

func (f *githubFetcher) download(ctx context.Context, source *domain.Source, owner, repo, destDir string) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return err
	}

	client := f.apiClient(ctx)
	opts := &gh.RepositoryContentGetOptions{Ref: source.Config["ref"]}
	url, _, err := client.Repositories.GetArchiveLink(ctx, owner, repo, gh.Tarball, opts, maxRedirects)
	if err != nil {
		return fmt.Errorf("%w: archive link for %s/%s: %v", domain.ErrFetchFailed, owner, repo, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url.String(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	httpClient := &http.Client{Timeout: downloadTimeout}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: downloading %s/%s: %v", domain.ErrFetchFailed, owner, repo, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: downloading %s/%s: status %d", domain.ErrFetchFailed, owner, repo, resp.StatusCode)
	}

	// Extract next to the destination, then swap so a failed download
	// never destroys the previous copy.
	tmpDir := destDir + ".tmp"
	if err := os.RemoveAll(tmpDir); err != nil {
		return fmt.Errorf("clearing staging directory: %w", err)
	}
	if err := extractTarGz(resp.Body, tmpDir); err != nil {
		os.RemoveAll(tmpDir) //nolint:errcheck
		return fmt.Errorf("%w: extracting %s/%s: %v", domain.ErrFetchFailed, owner, repo, err)
	}
	if err := os.RemoveAll(destDir); err != nil {
		return fmt.Errorf("replacing previous extraction: %w", err)
	}
	if err := os.Rename(tmpDir, destDir); err != nil {
		return fmt.Errorf("replacing previous extraction: %w", err)
	}

	logger.Info("fetched %s/%s to %s", owner, repo, destDir)
	return nil
}

// apiClient builds a go-github client, authenticated when the token
// environment variable is set.
func (f *githubFetcher) apiClient(ctx context.Context) *gh.Client {
	if f.tokenEnv != "" {
		if token := os.Getenv(f.tokenEnv); token != "" {
			ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
			return gh.NewClient(oauth2.NewClient(ctx, ts))
		}
	}
	return gh.NewClient(nil)
}

func (f *githubFetcher) resolveSubfolder(destDir string, source *domain.Source) (string, error) {
	sub := source.Config["subfolder"]
	if sub == "" {
		return destDir, nil
	}
	dir := filepath.Join(destDir, filepath.FromSlash(sub))
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: subfolder %q not found in %s", domain.ErrFetchFailed, sub, source.Name)
	}
	return dir, nil
}

func splitRepo(source *domain.Source) (string, string, error) {
	repo := source.Config["repo"]
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("%w: github source %q needs repo as owner/name", domain.ErrMissingConfig, source.Name)
	}
	return owner, name, nil
}

// hasExtraction reports whether a previous extraction is usable.
func hasExtraction(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}

// extractTarGz unpacks a repository tarball, stripping the archive's
// single top-level directory. Entries escaping the destination are
// rejected.
func extractTarGz(r io.Reader, destDir string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("opening gzip stream: %w", err)
	}
	defer gz.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading archive: %w", err)
		}

		rel := stripArchiveRoot(hdr.Name)
		if rel == "" {
			continue
		}
		if !filepath.IsLocal(rel) {
			return fmt.Errorf("archive entry escapes destination: %s", hdr.Name)
		}
		target := filepath.Join(destDir, filepath.FromSlash(rel))

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating directory: %w", err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("creating directory: %w", err)
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
			if err != nil {
				return fmt.Errorf("creating file: %w", err)
			}
			if _, err := io.Copy(out, tr); err != nil { //nolint:gosec // bounded by archive size
				out.Close()
				return fmt.Errorf("writing file: %w", err)
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("closing file: %w", err)
			}
		default:
			// Symlinks and special files are skipped.
		}
	}
}

// stripArchiveRoot drops the "owner-repo-sha/" prefix GitHub tarballs
// carry.
func stripArchiveRoot(name string) string {
	name = strings.TrimPrefix(name, "./")
	_, rest, ok := strings.Cut(name, "/")
	if !ok {
		return ""
	}
	return strings.Trim(rest, "/")
}
