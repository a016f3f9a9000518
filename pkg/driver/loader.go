package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/FANNYMU/blood-language/pkg/ast"
	"github.com/FANNYMU/blood-language/pkg/interpreter"
	"github.com/FANNYMU/blood-language/pkg/parser"
)

// DefaultCacheSize is the number of parsed scripts a Loader keeps.
const DefaultCacheSize = 64

// SourceError attaches the script path to a failure while loading or running it.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Program is a parsed script.
type Program struct {
	Path string
	AST  *ast.Program
}

type cachedProgram struct {
	modTime time.Time
	size    int64
	program *Program
}

// Loader reads and parses scripts. Parsed programs are cached by absolute
// path and reused while the file's size and modification time are unchanged.
type Loader struct {
	cache *lru.Cache[string, cachedProgram]
}

// NewLoader returns a loader caching up to size programs. A size of zero
// selects DefaultCacheSize.
func NewLoader(size int) (*Loader, error) {
	if size == 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, cachedProgram](size)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	return &Loader{cache: cache}, nil
}

// Load parses the script at path.
func (l *Loader) Load(path string) (*Program, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("loader: resolve %s: %w", path, err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, &SourceError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &SourceError{Path: path, Err: fmt.Errorf("is a directory")}
	}
	if cached, ok := l.cache.Get(absPath); ok && cached.size == info.Size() && cached.modTime.Equal(info.ModTime()) {
		return cached.program, nil
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, &SourceError{Path: path, Err: err}
	}
	tree, err := parser.ParseSource(string(data))
	if err != nil {
		return nil, &SourceError{Path: path, Err: err}
	}
	program := &Program{Path: absPath, AST: tree}
	l.cache.Add(absPath, cachedProgram{modTime: info.ModTime(), size: info.Size(), program: program})
	return program, nil
}

// Run loads the script at path and executes it on a fresh interpreter.
func (l *Loader) Run(path string, opts interpreter.Options) error {
	program, err := l.Load(path)
	if err != nil {
		return err
	}
	if err := interpreter.NewWithOptions(opts).Interpret(program.AST); err != nil {
		return &SourceError{Path: path, Err: err}
	}
	return nil
}
