// Package search offers lexical symbol search over extracted project
// structure, so a shell can answer "where is model X" without walking the
// snapshot itself.
package search

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"

	"github.com/djangolens/djangolens/internal/project"
)

// Hit is one search result pointing back into the source tree.
type Hit struct {
	Name  string  `json:"name"`
	Kind  string  `json:"kind"` // "model", "field", "url", "admin", "setting"
	Path  string  `json:"path"`
	Line  int     `json:"line"`
	Score float64 `json:"score"`
}

// symbolDoc is the indexed representation of one entity. Indexed as a
// map so the field names seen by the index mapping are exactly these keys.
type symbolDoc struct {
	Name string
	Kind string
	Path string
	Line int
}

func (d symbolDoc) fields() map[string]interface{} {
	return map[string]interface{}{
		"name": d.Name,
		"kind": d.Kind,
		"path": d.Path,
		"line": d.Line,
	}
}

// Index is an in-memory symbol index over one snapshot.
type Index struct {
	idx bleve.Index
}

// NewIndex builds an in-memory index from a snapshot.
func NewIndex(snap *project.Snapshot) (*Index, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create symbol index: %w", err)
	}

	batch := idx.NewBatch()
	n := 0
	add := func(doc symbolDoc) error {
		n++
		return batch.Index(fmt.Sprintf("%s:%s:%d:%d", doc.Kind, doc.Path, doc.Line, n), doc.fields())
	}

	for _, fr := range snap.Files {
		for _, m := range fr.Models {
			if err := add(symbolDoc{Name: m.Name, Kind: "model", Path: fr.Path, Line: m.Line}); err != nil {
				return nil, err
			}
			for _, f := range m.Fields {
				if err := add(symbolDoc{Name: f.Name, Kind: "field", Path: fr.Path, Line: f.Line}); err != nil {
					return nil, err
				}
			}
		}
		for _, u := range fr.URLs {
			if err := add(symbolDoc{Name: u.Pattern + " " + u.ViewName, Kind: "url", Path: fr.Path, Line: u.Line}); err != nil {
				return nil, err
			}
		}
		for _, a := range fr.Admins {
			if err := add(symbolDoc{Name: a.ClassName, Kind: "admin", Path: fr.Path, Line: a.Line}); err != nil {
				return nil, err
			}
		}
		for _, st := range fr.Settings {
			if err := add(symbolDoc{Name: st.Key, Kind: "setting", Path: fr.Path, Line: st.Line}); err != nil {
				return nil, err
			}
		}
	}

	if err := idx.Batch(batch); err != nil {
		idx.Close()
		return nil, fmt.Errorf("failed to index snapshot: %w", err)
	}
	return &Index{idx: idx}, nil
}

// Close releases the index.
func (x *Index) Close() error {
	return x.idx.Close()
}

// Query runs a match query against symbol names and returns up to limit
// hits by score.
func (x *Index) Query(q string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 10
	}
	query := bleve.NewMatchQuery(q)
	query.SetField("name")

	req := bleve.NewSearchRequestOptions(query, limit, 0, false)
	req.Fields = []string{"name", "kind", "path", "line"}

	res, err := x.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("symbol search failed: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hit := Hit{Score: h.Score}
		if v, ok := h.Fields["name"].(string); ok {
			hit.Name = v
		}
		if v, ok := h.Fields["kind"].(string); ok {
			hit.Kind = v
		}
		if v, ok := h.Fields["path"].(string); ok {
			hit.Path = v
		}
		if v, ok := h.Fields["line"].(float64); ok {
			hit.Line = int(v)
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
