package keypath

import (
	"github.com/kolkov/keypath/internal/compiler"
	"github.com/kolkov/keypath/internal/semantic"
)

// Cache compiles patterns and remembers every stage by pattern text:
// token lists, parsed programs, and getter and setter closures.
// Compiling the same text twice reuses all of them.
//
// A Cache is safe for concurrent use.
type Cache struct {
	config   Config
	compiler *compiler.Compiler
}

// CacheStats reports cache usage.
type CacheStats struct {
	Hits     uint64 // Lookups served from the cache
	Misses   uint64 // Lookups that had to lex, parse or compile
	Patterns int    // Distinct pattern texts tokenized
	Programs int    // Compiled closures, counting getter and setter separately
}

// NewCache creates an empty cache. If config is nil, defaults are used.
func NewCache(config *Config) *Cache {
	var cfg Config
	if config != nil {
		cfg = *config
	}
	cfg.applyDefaults()

	return &Cache{
		config:   cfg,
		compiler: compiler.New(cfg.Logger),
	}
}

// Compile parses and compiles a pattern.
// The getter is always compiled eagerly; the setter too unless
// Config.LazySetter is set.
func (c *Cache) Compile(pattern string) (*Expression, error) {
	toks, err := c.compiler.Tokens(pattern)
	if err != nil {
		return nil, convertError(err)
	}

	prog, err := c.compiler.Parse(pattern)
	if err != nil {
		return nil, convertError(err)
	}

	getter, err := c.compiler.CompileText(pattern, compiler.Get)
	if err != nil {
		return nil, convertError(err)
	}

	e := &Expression{
		pattern: pattern,
		tokens:  toks,
		program: prog,
		info:    semantic.Analyze(prog),
		getter:  getter,
		cache:   c,
	}

	if !c.config.LazySetter {
		if _, err := e.compileSetter(); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Stats returns a snapshot of cache usage.
func (c *Cache) Stats() CacheStats {
	s := c.compiler.Stats()
	return CacheStats{
		Hits:     s.Hits,
		Misses:   s.Misses,
		Patterns: s.Tokens,
		Programs: s.Funcs,
	}
}

// Reset empties the cache. Expressions compiled earlier keep working.
func (c *Cache) Reset() {
	c.compiler.Reset()
}
