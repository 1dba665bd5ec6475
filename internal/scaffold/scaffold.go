// Package scaffold renders DTO skeletons for the dt0 command.
package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"go/format"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed stubs/*.stub
var stubs embed.FS

// Stub file names. A file with the same name under <dir>/stubs overrides
// the built-in one.
const (
	StubPlain     = "dt0.stub"
	StubValidated = "dt0.validated.stub"
)

var (
	// ErrExists indicates the target file is already present.
	ErrExists = errors.New("file already exists")

	// ErrInvalidName indicates the DTO name is not an exported Go identifier.
	ErrInvalidName = errors.New("invalid DTO name")
)

// Options configures one generated file.
type Options struct {
	Name      string // Exported Go type name
	Package   string // Go package clause; defaults to the base of Dir
	Dir       string // Output directory
	StubDir   string // Directory searched for custom stubs; defaults to Dir/../stubs
	Validated bool   // Render the validated stub
	Force     bool   // Overwrite an existing file
}

type stubData struct {
	Name    string
	Package string
}

// Path returns the file Generate writes for opts.
func Path(opts Options) string {
	return filepath.Join(opts.Dir, strings.ToLower(opts.Name)+".go")
}

// Generate renders the stub for opts and writes it, returning the path.
// An existing file is left untouched unless Force is set.
func Generate(opts Options) (string, error) {
	if err := check(&opts); err != nil {
		return "", err
	}

	path := Path(opts)
	if !opts.Force {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("%w: %s", ErrExists, path)
		}
	}

	src, err := loadStub(opts)
	if err != nil {
		return "", err
	}
	out, err := Render(src, opts)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil { //nolint:gosec // generated source is world readable
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return path, nil
}

// Render executes stub against opts and gofmts the result.
func Render(stub string, opts Options) ([]byte, error) {
	if err := check(&opts); err != nil {
		return nil, err
	}

	tmpl, err := template.New("dt0").Parse(stub)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stub: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, stubData{Name: opts.Name, Package: opts.Package}); err != nil {
		return nil, fmt.Errorf("failed to render stub: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("rendered stub is not valid Go: %w", err)
	}
	return src, nil
}

func check(opts *Options) error {
	if !token.IsIdentifier(opts.Name) || !token.IsExported(opts.Name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, opts.Name)
	}
	if opts.Dir == "" {
		opts.Dir = "dto"
	}
	if opts.Package == "" {
		opts.Package = strings.ToLower(filepath.Base(filepath.Clean(opts.Dir)))
	}
	if !token.IsIdentifier(opts.Package) {
		return fmt.Errorf("%w: package %q", ErrInvalidName, opts.Package)
	}
	return nil
}

func loadStub(opts Options) (string, error) {
	name := StubPlain
	if opts.Validated {
		name = StubValidated
	}

	dir := opts.StubDir
	if dir == "" {
		dir = filepath.Join(filepath.Dir(filepath.Clean(opts.Dir)), "stubs")
	}
	if data, err := os.ReadFile(filepath.Join(dir, name)); err == nil {
		return string(data), nil
	}

	data, err := stubs.ReadFile("stubs/" + name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
