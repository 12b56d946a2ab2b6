package repository

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/iliyamo/pathfinder-api/internal/model"
)

//go:embed data/colleges.json
var embeddedCatalog []byte

// CatalogStore is the read-only view of the college catalog used by the
// catalog service.
type CatalogStore interface {
	// Streams returns the partitions present in the catalog in
	// model.StreamOrder.
	Streams() []model.Stream
	// ListByStream returns the colleges of one stream.  The boolean is false
	// when the stream is not part of the catalog.
	ListByStream(stream model.Stream) ([]model.College, bool)
}

// CatalogRepo holds the catalog in memory.  It is immutable after
// construction and safe for concurrent readers.
type CatalogRepo struct {
	streams  []model.Stream
	byStream map[model.Stream][]model.College
}

var _ CatalogStore = (*CatalogRepo)(nil)

// NewCatalogRepo validates data and builds a repository from it.  Every key
// must be one of model.StreamOrder and college ids must be unique across the
// whole catalog so lookup by id is unambiguous.
func NewCatalogRepo(data map[model.Stream][]model.College) (*CatalogRepo, error) {
	for stream := range data {
		if !slices.Contains(model.StreamOrder, stream) {
			return nil, fmt.Errorf("catalog: unknown stream %q", stream)
		}
	}

	r := &CatalogRepo{byStream: make(map[model.Stream][]model.College, len(data))}
	seen := make(map[int]model.Stream)
	for _, stream := range model.StreamOrder {
		colleges, ok := data[stream]
		if !ok {
			continue
		}
		for _, c := range colleges {
			if prev, dup := seen[c.ID]; dup {
				return nil, fmt.Errorf("catalog: duplicate college id %d in %s and %s", c.ID, prev, stream)
			}
			seen[c.ID] = stream
		}
		r.streams = append(r.streams, stream)
		r.byStream[stream] = slices.Clone(colleges)
	}
	return r, nil
}

// LoadCatalog decodes a JSON object keyed by stream name.
func LoadCatalog(rd io.Reader) (*CatalogRepo, error) {
	var data map[model.Stream][]model.College
	if err := json.NewDecoder(rd).Decode(&data); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	return NewCatalogRepo(data)
}

// LoadEmbeddedCatalog builds the repository from the catalog compiled into
// the binary.
func LoadEmbeddedCatalog() (*CatalogRepo, error) {
	var data map[model.Stream][]model.College
	if err := json.Unmarshal(embeddedCatalog, &data); err != nil {
		return nil, fmt.Errorf("catalog: decode embedded data: %w", err)
	}
	return NewCatalogRepo(data)
}

func (r *CatalogRepo) Streams() []model.Stream {
	return slices.Clone(r.streams)
}

func (r *CatalogRepo) ListByStream(stream model.Stream) ([]model.College, bool) {
	colleges, ok := r.byStream[stream]
	if !ok {
		return nil, false
	}
	return slices.Clone(colleges), true
}
