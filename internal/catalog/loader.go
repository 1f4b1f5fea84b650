package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"quiz-battle-service/internal/domain"
)

// maxDocumentBytes caps catalog documents fetched or read from disk.
const maxDocumentBytes = 8 << 20

// ErrDocumentTooLarge is returned for documents over maxDocumentBytes.
var ErrDocumentTooLarge = errors.New("catalog document too large")

// Loader fetches a catalog from a backing source by ID.
type Loader interface {
	LoadCatalog(ctx context.Context, catalogID string) (domain.Catalog, error)
}

// ReadFile parses a single document from disk.
func ReadFile(path string) (domain.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Catalog{}, err
	}
	defer f.Close()

	data, err := readDocument(f)
	if err != nil {
		return domain.Catalog{}, err
	}
	return Parse(data, FormatForPath(path))
}

// FileLoader resolves <dir>/<id>.json, .yaml or .yml.
type FileLoader struct {
	dir string
}

func NewFileLoader(dir string) *FileLoader {
	return &FileLoader{dir: dir}
}

func (l *FileLoader) LoadCatalog(_ context.Context, catalogID string) (domain.Catalog, error) {
	if !validID(catalogID) {
		return domain.Catalog{}, domain.ErrCatalogNotFound
	}
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		path := filepath.Join(l.dir, catalogID+ext)
		c, err := ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return domain.Catalog{}, fmt.Errorf("read %s: %w", path, err)
		}
		return c, nil
	}
	return domain.Catalog{}, domain.ErrCatalogNotFound
}

// HTTPLoader fetches <baseURL>/<id>.json.
type HTTPLoader struct {
	baseURL string
	client  *http.Client
}

func NewHTTPLoader(baseURL string, client *http.Client) *HTTPLoader {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPLoader{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (l *HTTPLoader) LoadCatalog(ctx context.Context, catalogID string) (domain.Catalog, error) {
	if !validID(catalogID) {
		return domain.Catalog{}, domain.ErrCatalogNotFound
	}
	reqURL := l.baseURL + "/" + url.PathEscape(catalogID) + ".json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.Catalog{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return domain.Catalog{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.Catalog{}, domain.ErrCatalogNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Catalog{}, fmt.Errorf("catalog server returned status %d", resp.StatusCode)
	}

	data, err := readDocument(resp.Body)
	if err != nil {
		return domain.Catalog{}, err
	}
	return ParseJSON(data)
}

// readDocument reads at most maxDocumentBytes and fails instead of truncating.
func readDocument(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxDocumentBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDocumentBytes {
		return nil, ErrDocumentTooLarge
	}
	return data, nil
}

func validID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}
