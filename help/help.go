// Package help implements command introspection (spec §4.I): children,
// siblings, and related enumeration over a command tree, deterministic
// pagination, a CBOR snapshot export for tooling (mirroring the teacher's
// binary plan serialization), and a JSON-Schema export of parameter
// descriptors for machine-readable docs.
package help

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/aledsdavies/lamp/tree"
	"github.com/fxamacker/cbor/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

func isStrictPrefix(prefix, full []string) bool {
	if len(full) <= len(prefix) {
		return false
	}
	for i, seg := range prefix {
		if full[i] != seg {
			return false
		}
	}
	return true
}

func samePath(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Children returns the ExecutableCommands in all whose path has c's path
// as a strict prefix, in all's order (spec §4.I).
func Children(all []*tree.ExecutableCommand, c *tree.ExecutableCommand) []*tree.ExecutableCommand {
	var out []*tree.ExecutableCommand
	for _, cmd := range all {
		if cmd == c {
			continue
		}
		if isStrictPrefix(c.Path, cmd.Path) {
			out = append(out, cmd)
		}
	}
	return out
}

// Siblings returns the ExecutableCommands in all sharing c's parent path
// (c.Path without its last segment) and differing only in the last
// segment (spec §4.I).
func Siblings(all []*tree.ExecutableCommand, c *tree.ExecutableCommand) []*tree.ExecutableCommand {
	if len(c.Path) == 0 {
		return nil
	}
	parent := c.Path[:len(c.Path)-1]
	var out []*tree.ExecutableCommand
	for _, cmd := range all {
		if cmd == c || len(cmd.Path) != len(c.Path) {
			continue
		}
		if samePath(cmd.Path[:len(cmd.Path)-1], parent) {
			out = append(out, cmd)
		}
	}
	return out
}

// Related returns the union of Children and Siblings (spec §4.I).
func Related(all []*tree.ExecutableCommand, c *tree.ExecutableCommand) []*tree.ExecutableCommand {
	return append(Children(all, c), Siblings(all, c)...)
}

// Paginate returns page k (1-indexed) of size s from items — the slice
// [(k-1)*s, k*s), clamped to items' bounds (spec §4.I).
func Paginate[T any](items []T, page, size int) []T {
	if size <= 0 || page <= 0 {
		return nil
	}
	start := (page - 1) * size
	if start >= len(items) {
		return nil
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// commandSnapshot and treeSnapshot are the CBOR wire shapes for Export.
type commandSnapshot struct {
	Path       []string `cbor:"path"`
	Parameters []string `cbor:"parameters"`
}

type treeSnapshot struct {
	Commands []commandSnapshot `cbor:"commands"`
}

// Export serializes every command in t to CBOR, mirroring the teacher's
// binary plan snapshot used by external tooling.
func Export(t *tree.Tree) ([]byte, error) {
	snap := treeSnapshot{}
	for _, cmd := range t.AllCommands() {
		names := make([]string, len(cmd.Parameters))
		for i, p := range cmd.Parameters {
			names[i] = p.Name
		}
		snap.Commands = append(snap.Commands, commandSnapshot{Path: cmd.Path, Parameters: names})
	}
	return cbor.Marshal(snap)
}

// ParameterJSONSchema renders desc as a JSON Schema document describing
// its accepted shape, compiling it to catch a malformed schema before it
// is handed to documentation tooling.
func ParameterJSONSchema(desc tree.ParameterDescriptor) (map[string]any, error) {
	schema := map[string]any{
		"$schema":     "https://json-schema.org/draft/2020-12/schema",
		"title":       desc.Name,
		"type":        jsonTypeFor(desc.Type),
		"description": fmt.Sprintf("parameter %q of type %s", desc.Name, desc.Type),
	}
	if desc.Optional {
		schema["description"] = schema["description"].(string) + " (optional)"
	}

	data, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	url := desc.Name + ".json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	if _, err := compiler.Compile(url); err != nil {
		return nil, err
	}
	return schema, nil
}

func jsonTypeFor(t reflect.Type) string {
	if t == nil {
		return "string"
	}
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	default:
		return "string"
	}
}
