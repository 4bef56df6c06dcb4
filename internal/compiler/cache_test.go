package compiler

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kolkov/keypath/internal/types"
)

func TestCacheReusesEntries(t *testing.T) {
	c := New(nil)

	first, err := c.Tokens("a.b")
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Tokens("a.b")
	if err != nil {
		t.Fatal(err)
	}
	if &first[0] != &second[0] {
		t.Error("token list was not reused")
	}

	p1, _ := c.Parse("a.b")
	p2, _ := c.Parse("a.b")
	if p1 != p2 {
		t.Error("program was not reused")
	}

	if _, err := c.CompileText("a.b", Get); err != nil {
		t.Fatal(err)
	}
	if _, err := c.CompileText("a.b", Set); err != nil {
		t.Fatal(err)
	}
	if _, err := c.CompileText("a.b", Get); err != nil {
		t.Fatal(err)
	}

	stats := c.Stats()
	want := Stats{Tokens: 1, Programs: 1, Funcs: 2}
	got := Stats{Tokens: stats.Tokens, Programs: stats.Programs, Funcs: stats.Funcs}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Stats mismatch (-want +got):\n%s", diff)
	}
	if stats.Hits == 0 || stats.Misses == 0 {
		t.Errorf("Stats = %+v, want hits and misses", stats)
	}
}

func TestCacheDoesNotStoreFailures(t *testing.T) {
	c := New(nil)
	if _, err := c.CompileText("a[", Get); err == nil {
		t.Fatal("expected error")
	}
	if s := c.Stats(); s.Funcs != 0 || s.Programs != 0 {
		t.Errorf("Stats = %+v, want no programs or funcs", s)
	}
}

func TestCacheSharesBlocks(t *testing.T) {
	c := New(nil)
	fn, err := c.CompileText("a.{k}; b.{k}", Get)
	if err != nil {
		t.Fatal(err)
	}

	root := types.FromGo(map[string]any{
		"k": "x",
		"a": map[string]any{"x": 1},
		"b": map[string]any{"x": 2},
	})
	v, err := fn.Run(root, types.Undefined(), types.Undefined())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]any{1.0, 2.0}, types.ToGo(v)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	// One closure for the pattern, one for the shared block.
	if s := c.Stats(); s.Funcs != 2 {
		t.Errorf("Funcs = %d, want 2", s.Funcs)
	}
}

func TestCacheReset(t *testing.T) {
	c := New(nil)
	fn, err := c.CompileText("a", Get)
	if err != nil {
		t.Fatal(err)
	}
	c.Reset()

	if s := c.Stats(); s != (Stats{}) {
		t.Errorf("Stats after Reset = %+v, want zero", s)
	}
	if _, err := fn.Run(types.FromGo(map[string]any{"a": 1}), types.Undefined(), types.Undefined()); err != nil {
		t.Errorf("closure failed after Reset: %v", err)
	}
}

func TestCacheConcurrent(t *testing.T) {
	c := New(nil)
	root := types.FromGo(map[string]any{"a": map[string]any{"b": 1}})

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn, err := c.CompileText("a.b", Get)
			if err != nil {
				errs <- err
				return
			}
			if _, err := fn.Run(root, types.Undefined(), types.Undefined()); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	if s := c.Stats(); s.Funcs != 1 {
		t.Errorf("Funcs = %d, want 1", s.Funcs)
	}
}

func TestCacheLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := New(logger)

	if _, err := c.CompileText("a.b", Get); err != nil {
		t.Fatal(err)
	}
	if _, err := c.CompileText("a.b", Get); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"cache miss", "compiled pattern", "cache hit", "pattern=a.b"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestCompileWarningsLogged(t *testing.T) {
	var buf bytes.Buffer
	c := New(slog.New(slog.NewTextHandler(&buf, nil)))

	if _, err := c.CompileText("a.%0", Get); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "suspicious pattern") {
		t.Errorf("expected warning in log, got:\n%s", buf.String())
	}
}
