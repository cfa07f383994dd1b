package memory

import (
	"context"
	"time"

	"github.com/steveyegge/beads/internal/storage"
	"github.com/steveyegge/beads/internal/types"
)

// PutLink inserts a canonical link.
func (t *tx) PutLink(ctx context.Context, link types.Link) error {
	key := linkKey{from: link.From, to: link.To, typ: link.Type}
	if _, exists := t.store.links[key]; exists {
		return storage.ErrAlreadyExists
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}
	t.store.links[key] = link
	return nil
}

// DeleteLink removes a canonical link.
func (t *tx) DeleteLink(ctx context.Context, from, to string, typ types.LinkType) error {
	key := linkKey{from: from, to: to, typ: typ}
	if _, exists := t.store.links[key]; !exists {
		return storage.ErrLinkNotFound
	}
	delete(t.store.links, key)
	return nil
}

// LinksFrom returns every link whose From is id.
func (t *tx) LinksFrom(ctx context.Context, id string) ([]types.Link, error) {
	var out []types.Link
	for key, link := range t.store.links {
		if key.from == id {
			out = append(out, link)
		}
	}
	return out, nil
}

// LinksTo returns every link whose To is id.
func (t *tx) LinksTo(ctx context.Context, id string) ([]types.Link, error) {
	var out []types.Link
	for key, link := range t.store.links {
		if key.to == id {
			out = append(out, link)
		}
	}
	return out, nil
}

// AllLinks returns every stored link.
func (t *tx) AllLinks(ctx context.Context) ([]types.Link, error) {
	out := make([]types.Link, 0, len(t.store.links))
	for _, link := range t.store.links {
		out = append(out, link)
	}
	return out, nil
}
