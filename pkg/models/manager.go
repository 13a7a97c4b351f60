package models

import (
	"archive/tar"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/teslashibe/go-voice-agent/internal/httpc"
)

// Progress reports download progress for one bundle.
type Progress struct {
	ModelID    string
	Downloaded int64
	Total      int64
	Done       bool
}

// Manager downloads bundles into a cache directory and resolves their files.
type Manager struct {
	dir    string
	client *http.Client
	logger *slog.Logger

	mu sync.Mutex

	// OnProgress, if set, receives progress updates during downloads.
	OnProgress func(Progress)
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithHTTPClient sets the client used for downloads.
func WithHTTPClient(c *http.Client) ManagerOption {
	return func(m *Manager) { m.client = c }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates a manager rooted at dir. The directory is created on
// first download.
func NewManager(dir string, opts ...ManagerOption) *Manager {
	m := &Manager{
		dir:    dir,
		client: httpc.Stream,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "models.manager")
	return m
}

// Dir returns the cache directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Path returns the bundle's directory in the cache.
func (m *Manager) Path(info ModelInfo) string {
	return filepath.Join(m.dir, info.Dir)
}

// File returns the absolute path of a bundle file by role.
func (m *Manager) File(info ModelInfo, role string) string {
	rel, ok := info.Files[role]
	if !ok {
		return ""
	}
	return filepath.Join(m.Path(info), rel)
}

// IsDownloaded reports whether every file of the bundle is present.
func (m *Manager) IsDownloaded(info ModelInfo) bool {
	if _, err := os.Stat(m.Path(info)); err != nil {
		return false
	}
	for role := range info.Files {
		if _, err := os.Stat(m.File(info, role)); err != nil {
			return false
		}
	}
	return true
}

// Ensure returns the bundle's directory, downloading it first if needed.
func (m *Manager) Ensure(ctx context.Context, info ModelInfo) (string, error) {
	if m.IsDownloaded(info) {
		return m.Path(info), nil
	}
	if err := m.Download(ctx, info); err != nil {
		return "", err
	}
	return m.Path(info), nil
}

// Download fetches and extracts the bundle archive. Extraction happens in a
// staging directory that is renamed into place, so an interrupted download
// never leaves a half-populated bundle behind.
func (m *Manager) Download(ctx context.Context, info ModelInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.IsDownloaded(info) {
		m.progress(Progress{ModelID: info.ID, Done: true})
		return nil
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("models: create cache dir: %w", err)
	}

	staging, err := os.MkdirTemp(m.dir, ".download-"+info.ID+"-")
	if err != nil {
		return fmt.Errorf("models: create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	m.logger.Info("downloading model", "id", info.ID, "url", info.URL, "size_mb", info.SizeMB)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, info.URL, nil)
	if err != nil {
		return err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("models: download %s: %w", info.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("models: download %s: HTTP %s", info.ID, resp.Status)
	}

	total := resp.ContentLength
	if total <= 0 {
		total = int64(info.SizeMB) << 20
	}
	body := &progressReader{r: resp.Body, total: total, id: info.ID, report: m.progress}

	if err := extract(body, info.URL, staging); err != nil {
		return fmt.Errorf("models: extract %s: %w", info.ID, err)
	}

	src := filepath.Join(staging, info.Dir)
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("models: archive for %s has no %s directory", info.ID, info.Dir)
	}
	dst := m.Path(info)
	if err := os.RemoveAll(dst); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("models: install %s: %w", info.ID, err)
	}

	if !m.IsDownloaded(info) {
		return fmt.Errorf("models: bundle %s is missing expected files", info.ID)
	}

	m.progress(Progress{ModelID: info.ID, Downloaded: body.n, Total: total, Done: true})
	m.logger.Info("model ready", "id", info.ID, "path", dst)
	return nil
}

// ListDownloaded returns the registry entries present in the cache.
func (m *Manager) ListDownloaded() []ModelInfo {
	var downloaded []ModelInfo
	for _, info := range Registry {
		if m.IsDownloaded(info) {
			downloaded = append(downloaded, info)
		}
	}
	return downloaded
}

func (m *Manager) progress(p Progress) {
	if m.OnProgress != nil {
		m.OnProgress(p)
	}
}

type progressReader struct {
	r      io.Reader
	id     string
	n      int64
	total  int64
	last   int64
	report func(Progress)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.n += int64(n)
	// Report roughly every 4MB.
	if p.n-p.last >= 4<<20 {
		p.last = p.n
		p.report(Progress{ModelID: p.id, Downloaded: p.n, Total: p.total})
	}
	return n, err
}

// extract unpacks a tar archive compressed according to the name's suffix.
func extract(r io.Reader, name, dst string) error {
	var zr io.Reader
	switch {
	case strings.HasSuffix(name, ".tar.bz2"):
		zr = bzip2.NewReader(r)
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		gz, gerr := gzip.NewReader(r)
		if gerr != nil {
			return gerr
		}
		defer gz.Close()
		zr = gz
	default:
		return fmt.Errorf("unsupported archive %q", filepath.Base(name))
	}

	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		target := filepath.Join(dst, filepath.Clean(hdr.Name))
		if !strings.HasPrefix(target, filepath.Clean(dst)+string(os.PathSeparator)) {
			return fmt.Errorf("illegal path in archive: %s", hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(target, tr, hdr.FileInfo().Mode().Perm()); err != nil {
				return err
			}
		default:
			// Links and devices are not part of model bundles.
		}
	}
}

func writeFile(path string, r io.Reader, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm|0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
