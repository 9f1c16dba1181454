package snapshot

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"positionScope/internal/model"
)

// TokenCache caches token identity records by address. Token records are
// immutable once fetched.
type TokenCache struct {
	mu   sync.RWMutex
	data map[common.Address]model.Token
}

func NewTokenCache() *TokenCache {
	return &TokenCache{data: make(map[common.Address]model.Token)}
}

func (c *TokenCache) Get(address common.Address) (model.Token, bool) {
	c.mu.RLock()
	token, ok := c.data[address]
	c.mu.RUnlock()
	return token, ok
}

func (c *TokenCache) Set(address common.Address, token model.Token) {
	c.mu.Lock()
	c.data[address] = token
	c.mu.Unlock()
}
