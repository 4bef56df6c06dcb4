package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/kolkov/keypath"
	"github.com/kolkov/keypath/internal/types"
)

// readDocument decodes a YAML or JSON document from path, or from stdin
// when path is "-". Key order is kept. An empty document is an empty map
// so that set can build on it.
func readDocument(stdin io.Reader, path string) (keypath.Value, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return types.Undefined(), err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return types.FromMap(types.NewMap()), nil
	}

	var x any
	if err := yaml.UnmarshalWithOptions(data, &x, yaml.UseOrderedMap()); err != nil {
		return types.Undefined(), fmt.Errorf("cannot decode %s: %w", path, err)
	}
	return fromYAML(x), nil
}

// parseValue decodes a command-line value as YAML, so 1 is a number,
// true is a bool and {a: 1} is a map. Text that does not decode is a string.
func parseValue(s string) (keypath.Value, error) {
	if strings.TrimSpace(s) == "" {
		return types.Str(s), nil
	}
	var x any
	if err := yaml.UnmarshalWithOptions([]byte(s), &x, yaml.UseOrderedMap()); err != nil {
		return types.Str(s), nil
	}
	return fromYAML(x), nil
}

// argValues converts positional arguments into a list lookup.
func argValues(args []string) keypath.Value {
	l := types.NewList()
	for _, a := range args {
		v, _ := parseValue(a)
		l.Append(v)
	}
	return types.FromList(l)
}

// lookupValue returns the explicit --lookup value when given, or the
// positional arguments otherwise.
func lookupValue(lookup string, args []string) (keypath.Value, error) {
	if lookup == "" {
		return argValues(args), nil
	}
	if len(args) > 0 {
		return types.Undefined(), errors.New("--lookup cannot be combined with positional arguments")
	}
	var x any
	if err := yaml.UnmarshalWithOptions([]byte(lookup), &x, yaml.UseOrderedMap()); err != nil {
		return types.Undefined(), fmt.Errorf("invalid --lookup: %w", err)
	}
	return fromYAML(x), nil
}

func fromYAML(x any) keypath.Value {
	switch x := x.(type) {
	case yaml.MapSlice:
		m := types.NewMap()
		for _, item := range x {
			m.Set(yamlKey(item.Key), fromYAML(item.Value))
		}
		return types.FromMap(m)
	case []any:
		l := types.NewList()
		for _, e := range x {
			l.Append(fromYAML(e))
		}
		return types.FromList(l)
	default:
		return types.FromGo(x)
	}
}

func yamlKey(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	if k == nil {
		return "null"
	}
	return fmt.Sprint(k)
}

// toYAML converts v into values goccy/go-yaml encodes in order.
func toYAML(v keypath.Value) any {
	switch v.Kind() {
	case types.KindMap:
		out := yaml.MapSlice{}
		v.Map().Range(func(k string, x types.Value) bool {
			out = append(out, yaml.MapItem{Key: k, Value: toYAML(x)})
			return true
		})
		return out
	case types.KindList:
		items := v.List().Items()
		out := make([]any, len(items))
		for i, x := range items {
			out[i] = toYAML(x)
		}
		return out
	case types.KindBool:
		return v.AsBool()
	case types.KindNum:
		n := v.AsNum()
		if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
			return int64(n)
		}
		return n
	case types.KindStr:
		return v.AsStr()
	default:
		return nil
	}
}

// writeValue encodes v to w in the given format.
func writeValue(ctx context.Context, w io.Writer, v keypath.Value, format string) error {
	if format == "yaml" {
		data, err := yaml.MarshalContext(ctx, toYAML(v), yaml.Indent(2))
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	var b bytes.Buffer
	if err := writeJSON(&b, v, 0); err != nil {
		return err
	}
	b.WriteByte('\n')
	_, err := b.WriteTo(w)
	return err
}

// writeJSON writes v as indented JSON, keeping map key order.
func writeJSON(b *bytes.Buffer, v keypath.Value, depth int) error {
	switch v.Kind() {
	case types.KindMap:
		m := v.Map()
		if m.Len() == 0 {
			b.WriteString("{}")
			return nil
		}
		b.WriteString("{\n")
		var err error
		i := 0
		m.Range(func(k string, x types.Value) bool {
			if i > 0 {
				b.WriteString(",\n")
			}
			i++
			indent(b, depth+1)
			if err = writeJSONString(b, k); err != nil {
				return false
			}
			b.WriteString(": ")
			err = writeJSON(b, x, depth+1)
			return err == nil
		})
		if err != nil {
			return err
		}
		b.WriteByte('\n')
		indent(b, depth)
		b.WriteByte('}')
	case types.KindList:
		items := v.List().Items()
		if len(items) == 0 {
			b.WriteString("[]")
			return nil
		}
		b.WriteString("[\n")
		for i, x := range items {
			if i > 0 {
				b.WriteString(",\n")
			}
			indent(b, depth+1)
			if err := writeJSON(b, x, depth+1); err != nil {
				return err
			}
		}
		b.WriteByte('\n')
		indent(b, depth)
		b.WriteByte(']')
	case types.KindBool:
		b.WriteString(strconv.FormatBool(v.AsBool()))
	case types.KindNum:
		n := v.AsNum()
		if math.IsNaN(n) || math.IsInf(n, 0) {
			b.WriteString("null")
		} else {
			b.WriteString(types.FormatNum(n))
		}
	case types.KindStr:
		return writeJSONString(b, v.AsStr())
	default:
		b.WriteString("null")
	}
	return nil
}

func writeJSONString(b *bytes.Buffer, s string) error {
	enc := json.NewEncoder(b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates with a newline.
	b.Truncate(b.Len() - 1)
	return nil
}

func indent(b *bytes.Buffer, depth int) {
	for range depth {
		b.WriteString("  ")
	}
}
