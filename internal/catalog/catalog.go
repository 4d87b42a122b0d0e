// Package catalog holds the genre catalog and resolves genre ids to labels.
//
// A Catalog is built once at startup and never mutated, so it can be shared
// by any number of concurrent pipeline runs without locking.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/submission-digest-api/internal/models"
	"gopkg.in/yaml.v3"
)

// Separator joins resolved labels
const Separator = ", "

//go:embed genres.yaml
var defaultCatalog []byte

// Catalog is an immutable id -> label lookup
type Catalog struct {
	options []models.GenreOption
	labels  map[int]string
}

type catalogFile struct {
	Genres []models.GenreOption `yaml:"genres"`
}

// Build creates a catalog from options. When ids collide the later entry wins.
func Build(options []models.GenreOption) *Catalog {
	c := &Catalog{
		options: make([]models.GenreOption, len(options)),
		labels:  make(map[int]string, len(options)),
	}
	copy(c.options, options)
	for _, opt := range options {
		c.labels[opt.ID] = opt.Label
	}
	return c
}

// Parse decodes a YAML catalog document
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse genre catalog: %w", err)
	}
	if len(file.Genres) == 0 {
		return nil, fmt.Errorf("parse genre catalog: no genres defined")
	}
	return Build(file.Genres), nil
}

// Default returns the catalog compiled into the binary
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from path, or the default catalog when path is empty
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read genre catalog %s: %w", path, err)
	}
	return Parse(raw)
}

// Label returns the label for id
func (c *Catalog) Label(id int) (string, bool) {
	label, ok := c.labels[id]
	return label, ok
}

// Len returns the number of distinct ids
func (c *Catalog) Len() int {
	return len(c.labels)
}

// Options returns a copy of the entries the catalog was built from
func (c *Catalog) Options() []models.GenreOption {
	out := make([]models.GenreOption, len(c.options))
	copy(out, c.options)
	return out
}

// Resolve joins the labels of ids in input order
func (c *Catalog) Resolve(ids []int) string {
	joined, _ := c.ResolveReport(ids)
	return joined
}

// ResolveReport is Resolve that also returns the ids missing from the catalog.
// An unknown id keeps its position as an empty segment, so the result always
// has len(ids) segments.
func (c *Catalog) ResolveReport(ids []int) (string, []int) {
	if len(ids) == 0 {
		return "", nil
	}

	var unknown []int
	segments := make([]string, len(ids))
	for i, id := range ids {
		label, ok := c.labels[id]
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		segments[i] = label
	}
	return strings.Join(segments, Separator), unknown
}
