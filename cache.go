package pdftemplar

import (
	"sync"

	"github.com/expr-lang/expr/vm"
)

// DefaultCacheSize — предел числа закэшированных программ.
const DefaultCacheSize = 512

// programCache — потокобезопасный кэш скомпилированных выражений, ключ —
// текст выражения. Хранится только результат разбора (vm.Program), никогда —
// связанный результат: одна программа выполняется против разных окружений.
// Промах кэша всегда полноценен, поэтому при переполнении кэш просто
// сбрасывается целиком.
type programCache struct {
	mu  sync.RWMutex
	max int
	m   map[string]*vm.Program
}

func newProgramCache(max int) *programCache {
	if max <= 0 {
		max = DefaultCacheSize
	}
	return &programCache{max: max, m: make(map[string]*vm.Program)}
}

func (c *programCache) get(key string) (*vm.Program, bool) {
	c.mu.RLock()
	p, ok := c.m[key]
	c.mu.RUnlock()
	return p, ok
}

func (c *programCache) put(key string, p *vm.Program) {
	c.mu.Lock()
	if len(c.m) >= c.max {
		c.m = make(map[string]*vm.Program)
	}
	c.m[key] = p
	c.mu.Unlock()
}

func (c *programCache) size() int {
	c.mu.RLock()
	n := len(c.m)
	c.mu.RUnlock()
	return n
}
