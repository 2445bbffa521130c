// Package seed downloads and unpacks the pre-built nightly compiler that
// stage 0 of the bootstrap starts from.
package seed

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Fetcher retrieves the seed archive and unpacks it.
type Fetcher struct {
	URL    string
	Client *http.Client
}

// NewFetcher creates a Fetcher for url. No timeout is set; the download is
// bounded only by the caller's context.
func NewFetcher(url string) *Fetcher {
	return &Fetcher{URL: url, Client: &http.Client{}}
}

func (f *Fetcher) String() string {
	return "fetch " + f.URL
}

// Fetch downloads the archive and unpacks it into dir.
func (f *Fetcher) Fetch(ctx context.Context, dir string) error {
	tmp, err := os.CreateTemp("", "glazc-seed-*.zip")
	if err != nil {
		return fmt.Errorf("creating download file: %w", err)
	}
	defer os.Remove(tmp.Name())

	size, err := f.download(ctx, tmp)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	return Unpack(tmp.Name(), size, dir)
}

func (f *Fetcher) download(ctx context.Context, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "glazboot")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch seed compiler: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetching %s: unexpected status %d", f.URL, resp.StatusCode)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("downloading seed compiler: %w", err)
	}
	return n, nil
}

// Unpack extracts the zip archive at archivePath into dir, keeping file modes
// so the unpacked compiler stays executable.
func Unpack(archivePath string, size int64, dir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	zr, err := zip.NewReader(f, size)
	if err != nil {
		return fmt.Errorf("reading seed archive: %w", err)
	}

	for _, entry := range zr.File {
		if err := extract(entry, dir); err != nil {
			return err
		}
	}
	return nil
}

func extract(entry *zip.File, dir string) error {
	name := path.Clean(entry.Name)
	if path.IsAbs(name) || name == ".." || strings.HasPrefix(name, "../") {
		return fmt.Errorf("archive entry %q escapes the destination", entry.Name)
	}
	target := filepath.Join(dir, filepath.FromSlash(name))

	if entry.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := entry.Open()
	if err != nil {
		return fmt.Errorf("opening %s: %w", entry.Name, err)
	}
	defer rc.Close()

	mode := entry.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("extracting %s: %w", entry.Name, err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	// OpenFile applies the umask; restore the archived mode.
	return os.Chmod(target, mode)
}
