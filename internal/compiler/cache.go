package compiler

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/kolkov/keypath/internal/ast"
	"github.com/kolkov/keypath/internal/lexer"
	"github.com/kolkov/keypath/internal/parser"
	"github.com/kolkov/keypath/internal/token"
)

// Compiler compiles patterns and caches every stage by pattern text:
// token lists, programs, and closures per (text, mode).
//
// A Compiler is safe for concurrent use. Concurrent requests for the same
// entry share one computation.
type Compiler struct {
	logger *slog.Logger

	mu       sync.RWMutex
	tokens   map[string][]token.Token
	programs map[string]*ast.Program
	funcs    map[cacheKey]Func

	group  singleflight.Group
	hits   atomic.Uint64
	misses atomic.Uint64
}

type cacheKey struct {
	text string
	mode Mode
}

// Stats reports cache usage.
type Stats struct {
	Hits     uint64 // Lookups served from the cache
	Misses   uint64 // Lookups that had to lex, parse or compile
	Tokens   int    // Cached token lists
	Programs int    // Cached programs
	Funcs    int    // Cached closures
}

// New creates a Compiler. A nil logger discards all output.
func New(logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Compiler{
		logger:   logger,
		tokens:   make(map[string][]token.Token),
		programs: make(map[string]*ast.Program),
		funcs:    make(map[cacheKey]Func),
	}
}

// Tokens returns the token list of text.
// The returned slice is shared and must not be modified.
func (c *Compiler) Tokens(text string) ([]token.Token, error) {
	c.mu.RLock()
	toks, ok := c.tokens[text]
	c.mu.RUnlock()
	if ok {
		c.hit("tokens", text)
		return toks, nil
	}
	c.miss("tokens", text)

	v, err, _ := c.group.Do("lex\x00"+text, func() (any, error) {
		toks, err := lexer.Lex(text)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.tokens[text] = toks
		c.mu.Unlock()
		return toks, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]token.Token), nil
}

// Parse returns the program of text.
// The returned program is shared and must not be modified.
func (c *Compiler) Parse(text string) (*ast.Program, error) {
	toks, err := c.Tokens(text)
	if err != nil {
		return nil, err
	}
	return c.parseTokens(text, toks)
}

func (c *Compiler) parseTokens(text string, toks []token.Token) (*ast.Program, error) {
	c.mu.RLock()
	prog, ok := c.programs[text]
	c.mu.RUnlock()
	if ok {
		c.hit("program", text)
		return prog, nil
	}
	c.miss("program", text)

	v, err, _ := c.group.Do("parse\x00"+text, func() (any, error) {
		prog, err := parser.ParseTokens(toks)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.programs[text] = prog
		c.mu.Unlock()
		return prog, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*ast.Program), nil
}

// CompileText compiles text for mode. Each (text, mode) pair is compiled
// at most once per Compiler.
func (c *Compiler) CompileText(text string, mode Mode) (Func, error) {
	return c.compileCached(text, mode, func() (*ast.Program, error) {
		return c.Parse(text)
	})
}

// compileTokens compiles a pre-tokenized pattern cached under text.
func (c *Compiler) compileTokens(text string, toks []token.Token, mode Mode) (Func, error) {
	return c.compileCached(text, mode, func() (*ast.Program, error) {
		return c.parseTokens(text, toks)
	})
}

func (c *Compiler) compileCached(text string, mode Mode, parse func() (*ast.Program, error)) (Func, error) {
	key := cacheKey{text: text, mode: mode}

	c.mu.RLock()
	fn, ok := c.funcs[key]
	c.mu.RUnlock()
	if ok {
		c.hit(mode.String(), text)
		return fn, nil
	}
	c.miss(mode.String(), text)

	v, err, shared := c.group.Do(mode.String()+"\x00"+text, func() (any, error) {
		prog, err := parse()
		if err != nil {
			return nil, err
		}
		fn, err := c.Compile(prog, mode)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.funcs[key] = fn
		c.mu.Unlock()
		c.logger.Debug("compiled pattern", "pattern", text, "mode", mode.String())
		return fn, nil
	})
	if err != nil {
		c.logger.Debug("compile failed", "pattern", text, "mode", mode.String(), "error", err)
		return nil, err
	}
	if shared {
		c.logger.Debug("shared compilation", "pattern", text, "mode", mode.String())
	}
	return v.(Func), nil
}

// Stats returns a snapshot of cache usage.
func (c *Compiler) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Tokens:   len(c.tokens),
		Programs: len(c.programs),
		Funcs:    len(c.funcs),
	}
}

// Reset empties the cache. Closures already handed out keep working.
func (c *Compiler) Reset() {
	c.mu.Lock()
	clear(c.tokens)
	clear(c.programs)
	clear(c.funcs)
	c.mu.Unlock()
	c.hits.Store(0)
	c.misses.Store(0)
}

func (c *Compiler) hit(stage, text string) {
	c.hits.Add(1)
	c.logger.Debug("cache hit", "stage", stage, "pattern", text)
}

func (c *Compiler) miss(stage, text string) {
	c.misses.Add(1)
	c.logger.Debug("cache miss", "stage", stage, "pattern", text)
}
