package instructions

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/layerstack/pkg/errors"
)

//go:embed schema.cue
var schemaSource []byte

// MaxFileSize bounds instruction files read from disk.
const MaxFileSize = 16 << 20

// Format is an instruction file syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatCUE  Format = "cue"
)

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".cue":
		return FormatCUE, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported instruction file %s (want .toml, .yaml, .json or .cue)", path)
}

// Load reads, validates and decodes an instruction file.
func Load(path string) (*File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "instructions %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "stat %s", path)
	}
	if info.Size() > MaxFileSize {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s: file size %d bytes exceeds maximum %d bytes", path, info.Size(), MaxFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	return Parse(data, format, path)
}

// Parse validates and decodes instruction file content.
//
// TOML and YAML documents are first read into a generic tree by their own
// parsers. Every document is then unified with the #File schema and
// decoded from the unified value, so constraints apply identically to
// every format.
func Parse(data []byte, format Format, filename string) (*File, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if schema.Err() != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, schema.Err(), "compile instruction schema")
	}
	root := schema.LookupPath(cue.ParsePath("#File"))
	if root.Err() != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, root.Err(), "schema definition #File not found")
	}

	var doc cue.Value
	switch format {
	case FormatCUE, FormatJSON:
		// JSON is a subset of CUE. Compiling it directly keeps integers
		// as ints for the int-typed grid fields.
		doc = ctx.CompileBytes(data, cue.Filename(filename))
	case FormatTOML, FormatYAML:
		tree, err := decodeTree(data, format)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s", filename)
		}
		doc = ctx.Encode(tree)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported instruction format %q", format)
	}
	if doc.Err() != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, formatCUEError(doc.Err()), "%s", filename)
	}

	unified := root.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, formatCUEError(err), "%s does not match the instruction schema", filename)
	}

	var f File
	if err := unified.Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, formatCUEError(err), "decode %s", filename)
	}
	return &f, nil
}

func decodeTree(data []byte, format Format) (map[string]any, error) {
	tree := make(map[string]any)
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &tree)
	case FormatYAML:
		err = yaml.Unmarshal(data, &tree)
	}
	return tree, err
}

// formatCUEError flattens CUE's error list into one line per problem,
// each prefixed with the offending path (stacks[0].layers[1].thickness).
func formatCUEError(err error) error {
	list := cueerrors.Errors(err)
	if len(list) == 0 {
		return err
	}
	lines := make([]string, 0, len(list))
	for _, e := range list {
		path := formatPath(cueerrors.Path(e))
		msg := e.Error()
		if path != "" && strings.HasPrefix(msg, path) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, path), ":"))
		}
		if path != "" {
			msg = path + ": " + msg
		}
		lines = append(lines, msg)
	}
	if len(lines) == 1 {
		return fmt.Errorf("%s", lines[0])
	}
	return fmt.Errorf("%d problems:\n  %s", len(lines), strings.Join(lines, "\n  "))
}

func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		if isIndex(part) && i > 0 {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteString(".")
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
