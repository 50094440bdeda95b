package manifest

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/vango-dev/approute/pkg/approute"
	"github.com/vango-dev/approute/pkg/router"
)

// Version is the manifest format version written by Encode.
const Version = 1

// FileName is the object name a manifest is published under.
const FileName = "routes.json"

var (
	// ErrUnsupportedVersion is returned by Decode for unknown versions.
	ErrUnsupportedVersion = errors.New("unsupported manifest version")

	// ErrInconsistentEntry is returned by Decode when an entry's path does
	// not derive from its page.
	ErrInconsistentEntry = errors.New("manifest entry path does not match page")
)

// Entry describes one route leaf.
type Entry struct {
	// ID is the hex page hash; stable across scans.
	ID string `json:"id"`

	// Pathname is the rendered URL path (e.g. /blog/[id])
	Pathname string `json:"pathname"`

	// Pattern is the path in :param / *rest form (e.g. /blog/:id)
	Pattern string `json:"pattern"`

	Type approute.PageType `json:"type"`

	// File is the leaf file, relative to the app root when one was given.
	File string `json:"file"`

	Slots  []string `json:"slots,omitempty"`
	Params []string `json:"params,omitempty"`

	Page approute.AppPage `json:"page"`
	Path approute.AppPath `json:"path"`
}

// Manifest is the ordered list of route entries.
type Manifest struct {
	Version int     `json:"version"`
	Entries []Entry `json:"routes"`
}

// BuildOption configures Build.
type BuildOption func(*buildConfig)

type buildConfig struct {
	root string
}

// RelativeTo records entry files relative to root.
func RelativeTo(root string) BuildOption {
	return func(c *buildConfig) {
		c.root = root
	}
}

// Build creates a manifest from routes, ordered by specificity. routes is
// not modified.
func Build(routes []router.ScannedRoute, opts ...BuildOption) *Manifest {
	var cfg buildConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	sorted := slices.Clone(routes)
	router.SortBySpecificity(sorted)

	m := &Manifest{
		Version: Version,
		Entries: make([]Entry, 0, len(sorted)),
	}
	for _, r := range sorted {
		m.Entries = append(m.Entries, Entry{
			ID:       fmt.Sprintf("%016x", r.Page.Hash()),
			Pathname: r.Path.String(),
			Pattern:  r.Path.Pattern(),
			Type:     r.Type,
			File:     relativeFile(cfg.root, r.FilePath),
			Slots:    r.Slots(),
			Params:   r.Path.Params(),
			Page:     r.Page,
			Path:     r.Path,
		})
	}
	return m
}

func relativeFile(root, file string) string {
	if root == "" {
		return filepath.ToSlash(file)
	}
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return filepath.ToSlash(file)
	}
	return filepath.ToSlash(rel)
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	return len(m.Entries)
}

// Hash returns a digest of the entries' pages and files in order. Two
// scans of an unchanged tree hash equal.
func (m *Manifest) Hash() uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, e := range m.Entries {
		binary.LittleEndian.PutUint64(buf[:], e.Page.Hash())
		d.Write(buf[:])
		d.WriteString(e.File)
		d.Write([]byte{0})
	}
	return d.Sum64()
}

// HashString returns Hash as 16 hex digits.
func (m *Manifest) HashString() string {
	return fmt.Sprintf("%016x", m.Hash())
}

// Routes rebuilds scanned routes from the entries, for use with
// router.NewMatcher.
func (m *Manifest) Routes() ([]router.ScannedRoute, error) {
	routes := make([]router.ScannedRoute, 0, len(m.Entries))
	for _, e := range m.Entries {
		r, err := router.NewRoute(e.Page, e.File)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.ID, err)
		}
		routes = append(routes, r)
	}
	return routes, nil
}

// Encode writes m to w as indented JSON.
func (m *Manifest) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// Decode reads a manifest from r.
func Decode(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	if m.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, m.Version)
	}
	for _, e := range m.Entries {
		if !e.Path.Equal(e.Page.Path()) {
			return nil, fmt.Errorf("%w: %s", ErrInconsistentEntry, e.Page)
		}
		if t, ok := e.Page.PageType(); !ok || t != e.Type {
			return nil, fmt.Errorf("%w: %s has no %s marker", ErrInconsistentEntry, e.Page, e.Type)
		}
	}
	return &m, nil
}
