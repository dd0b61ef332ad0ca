// Package store is the single entry point for reading and writing
// ledger files. A Store turns a path into a decoded ledger.Book and
// persists mutations back through two primitives: appends for new
// entries and atomic whole-file rewrites for updates and deletes.
//
// Mutations on the same path serialize on a per-path mutex, and every
// rewrite goes through a temp-file-plus-rename so a crash mid-write
// can never leave a truncated ledger. Reads take no lock; the rename
// discipline guarantees they see either the old or the new content.
package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sjlouji/friday/ast"
	"github.com/sjlouji/friday/formatter"
	"github.com/sjlouji/friday/ledger"
	"github.com/sjlouji/friday/parser"
)

// sizeWarnThreshold is the file size above which Load logs a warning.
// Whole-file decode-then-rewrite gets slow past this point.
const sizeWarnThreshold = 10 << 20

// Config carries the explicit settings a Store needs. There is no
// package-level default path.
type Config struct {
	// DefaultPath is the ledger used when an operation passes an
	// empty path.
	DefaultPath string

	// DefaultCurrency seeds the operating_currency header of newly
	// created files and is the fallback currency for new accounts.
	// Defaults to INR.
	DefaultCurrency string

	// Logger receives operational logging. Defaults to slog.Default.
	Logger *slog.Logger
}

// Store reads and mutates ledger files.
type Store struct {
	defaultPath     string
	defaultCurrency string
	logger          *slog.Logger
	formatter       *formatter.Formatter

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Store from explicit configuration.
func New(cfg Config) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	currency := cfg.DefaultCurrency
	if currency == "" {
		currency = "INR"
	}

	return &Store{
		defaultPath:     cfg.DefaultPath,
		defaultCurrency: currency,
		logger:          logger,
		formatter:       formatter.New(),
		locks:           make(map[string]*sync.Mutex),
	}
}

// DefaultPath returns the configured default ledger path.
func (s *Store) DefaultPath() string { return s.defaultPath }

// DefaultCurrency returns the configured default currency.
func (s *Store) DefaultCurrency() string { return s.defaultCurrency }

// ResolvePath expands a leading ~ and makes the path absolute. An
// empty path resolves to the configured default.
func (s *Store) ResolvePath(path string) (string, error) {
	if path == "" {
		path = s.defaultPath
	}
	if path == "" {
		return "", fmt.Errorf("no ledger path given and no default path configured")
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to expand %s: %w", path, err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	return filepath.Abs(path)
}

// pathLock returns the mutex serializing mutations of filename. The
// registry lives for the life of the Store; ledgers are few.
func (s *Store) pathLock(filename string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[filename]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[filename] = lock
	}
	return lock
}

// Load reads, parses, and books the ledger at path. A missing or
// non-regular file is ErrNotFound; decode problems do not fail the
// load, they surface as error strings on the returned Book.
func (s *Store) Load(path string) (*ledger.Book, error) {
	result, err := s.decode(path)
	if err != nil {
		return nil, err
	}
	return ledger.NewBook(result), nil
}

// decode reads and parses the file without building the record view.
// Mutations work on the parse tree directly.
func (s *Store) decode(path string) (*parser.Result, error) {
	filename, err := s.ResolvePath(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", filename, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", filename, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file: %w", filename, ErrNotFound)
	}
	if info.Size() > sizeWarnThreshold {
		s.logger.Warn("ledger file is large, operations rewrite it wholesale",
			"path", filename, "bytes", info.Size())
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	return parser.ParseBytes(data, filename), nil
}

// Source returns the raw file content for the editor surface.
func (s *Store) Source(path string) (string, []byte, error) {
	filename, err := s.ResolvePath(path)
	if err != nil {
		return "", nil, err
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("%s: %w", filename, ErrNotFound)
		}
		return "", nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	return filename, data, nil
}

// WriteSource replaces the whole file with content, atomically and
// under the path lock.
func (s *Store) WriteSource(path, content string) error {
	filename, err := s.ResolvePath(path)
	if err != nil {
		return err
	}

	lock := s.pathLock(filename)
	lock.Lock()
	defer lock.Unlock()

	return writeFileAtomic(filename, []byte(content))
}

// AppendRaw appends text to the ledger, creating parent directories
// and the file itself (with a default header) when missing. Appends
// on the same path serialize on the path lock.
func (s *Store) AppendRaw(path, text string) error {
	filename, err := s.ResolvePath(path)
	if err != nil {
		return err
	}

	lock := s.pathLock(filename)
	lock.Lock()
	defer lock.Unlock()

	return s.appendLocked(filename, text)
}

// appendLocked performs the append. Caller holds the path lock.
func (s *Store) appendLocked(filename, text string) error {
	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		header := fmt.Sprintf("option %q %q\n", "operating_currency", s.defaultCurrency)
		text = header + strings.TrimPrefix(text, "\n")
	}

	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filename, err)
	}
	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to append to %s: %w", filename, err)
	}
	return f.Close()
}

// RewriteAll replaces the file with the canonical rendering of tree,
// entries in tree order. Atomic and under the path lock.
func (s *Store) RewriteAll(path string, tree *ast.AST) error {
	filename, err := s.ResolvePath(path)
	if err != nil {
		return err
	}

	lock := s.pathLock(filename)
	lock.Lock()
	defer lock.Unlock()

	return s.rewriteLocked(filename, tree)
}

// rewriteLocked renders and atomically replaces. Caller holds the
// path lock.
func (s *Store) rewriteLocked(filename string, tree *ast.AST) error {
	return writeFileAtomic(filename, []byte(s.formatter.FormatString(tree)))
}

// writeFileAtomic writes data to a temp file in the target's directory,
// fsyncs, and renames it over the target. A crash at any point leaves
// either the old file or the new one, never a mix.
func writeFileAtomic(filename string, data []byte) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".friday-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, filename); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", filename, err)
	}
	return nil
}
