package commands

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rios0rios0/git-import-commit/internal/domain/entities"
)

type presenceKey struct {
	hash entities.Hash
	kind entities.ObjectKind
}

// presenceIndex remembers hashes known to exist in the destination store.
// Objects are never removed from a store, so a hit is always correct and a
// miss only costs a lookup. A nil cache disables the index.
type presenceIndex struct {
	cache *lru.Cache[presenceKey, struct{}]
}

func newPresenceIndex(size int) (*presenceIndex, error) {
	if size <= 0 {
		return &presenceIndex{}, nil
	}
	cache, err := lru.New[presenceKey, struct{}](size)
	if err != nil {
		return nil, err
	}
	return &presenceIndex{cache: cache}, nil
}

func (p *presenceIndex) contains(hash entities.Hash, kind entities.ObjectKind) bool {
	if p.cache == nil {
		return false
	}
	return p.cache.Contains(presenceKey{hash: hash, kind: kind})
}

func (p *presenceIndex) add(hash entities.Hash, kind entities.ObjectKind) {
	if p.cache == nil {
		return
	}
	p.cache.Add(presenceKey{hash: hash, kind: kind}, struct{}{})
}
