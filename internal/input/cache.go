package input

import (
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// PayloadCache keeps uploads addressable by ID so their bytes stay
// re-readable across runs within a session: a later run can reuse an
// upload without the client sending the file again. Bounded LRU; an
// evicted upload just means it must be sent again.
type PayloadCache struct {
	cache *lru.Cache[uuid.UUID, RawInput]
}

func NewPayloadCache(size int) (*PayloadCache, error) {
	if size <= 0 {
		size = 128
	}
	c, err := lru.New[uuid.UUID, RawInput](size)
	if err != nil {
		return nil, err
	}
	return &PayloadCache{cache: c}, nil
}

func (p *PayloadCache) Put(in RawInput) {
	p.cache.Add(in.ID, in)
}

func (p *PayloadCache) Get(id uuid.UUID) (RawInput, bool) {
	return p.cache.Get(id)
}

func (p *PayloadCache) Len() int { return p.cache.Len() }
