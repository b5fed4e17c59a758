package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/uuid"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Split ratio bounds, in percent of the main area. Both are exclusive.
const (
	MinEditorWidth     = 30.0
	MaxEditorWidth     = 80.0
	DefaultEditorWidth = 65.0
)

// Tab is the pane shown in tabbed layout.
type Tab int

const (
	TabCode Tab = iota
	TabOutput
)

func (t Tab) String() string {
	if t == TabOutput {
		return "output"
	}
	return "code"
}

// File is the single workspace file.
// File представляет единственный файл рабочего пространства.
type File struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Workspace is the whole persisted editor state.
// Workspace представляет всё сохраняемое состояние редактора.
type Workspace struct {
	Language    Language `json:"language"`
	Files       []File   `json:"files"`
	EditorWidth float64  `json:"editorWidth"`
	ActiveTab   Tab      `json:"-"`
}

// NewFile creates the starter file for lang.
func NewFile(lang Language) File {
	t, ok := LookupTemplate(lang)
	if !ok {
		t, _ = LookupTemplate(DefaultLanguage)
	}
	return File{
		ID:   newFileID(),
		Name: t.FileName(),
		Code: t.Source,
	}
}

func newFileID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return "1"
	}
	return id.String()
}

// DefaultWorkspace returns the compiled-in default state.
func DefaultWorkspace() Workspace {
	return Workspace{
		Language:    DefaultLanguage,
		Files:       []File{NewFile(DefaultLanguage)},
		EditorWidth: DefaultEditorWidth,
		ActiveTab:   TabCode,
	}
}

// ActiveFile returns the file being edited.
func (w *Workspace) ActiveFile() File {
	if len(w.Files) == 0 {
		w.Files = []File{NewFile(w.Language)}
	}
	return w.Files[0]
}

// SetLanguage switches language and replaces the file with the starter for lang.
// This is the only place that changes the language, which keeps name and language aligned.
func (w *Workspace) SetLanguage(lang Language) error {
	if _, ok := LookupTemplate(lang); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	w.Language = lang
	w.Files = []File{NewFile(lang)}
	return nil
}

// SetCode replaces the code of the active file.
func (w *Workspace) SetCode(code string) {
	f := w.ActiveFile()
	f.Code = code
	w.Files = []File{f}
}

// SetEditorWidth commits ratio if it lies strictly inside the allowed range.
func (w *Workspace) SetEditorWidth(ratio float64) bool {
	if !ratioInRange(ratio) {
		return false
	}
	w.EditorWidth = ratio
	return true
}

func ratioInRange(ratio float64) bool {
	return ratio > MinEditorWidth && ratio < MaxEditorWidth
}

// valid reports whether a decoded record keeps the workspace invariants.
func (w *Workspace) valid() bool {
	t, ok := LookupTemplate(w.Language)
	if !ok || len(w.Files) != 1 {
		return false
	}
	return w.Files[0].Name == t.FileName()
}

// Store persists the workspace as one JSON record.
// Store сохраняет рабочее пространство одной JSON-записью.
type Store struct {
	fs     afero.Fs
	path   string
	logger *zap.Logger
}

// NewStore creates a store writing to path on fs.
func NewStore(fs afero.Fs, path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{fs: fs, path: path, logger: logger}
}

// Path returns the location of the persisted record.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted record. Missing fields are defaulted; a missing or
// corrupt record yields DefaultWorkspace.
func (s *Store) Load() Workspace {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Debug("workspace unreadable, using defaults", zap.String("path", s.path), zap.Error(err))
		}
		return DefaultWorkspace()
	}

	var w Workspace
	if err := json.Unmarshal(data, &w); err != nil {
		s.logger.Debug("workspace corrupt, using defaults", zap.String("path", s.path), zap.Error(err))
		return DefaultWorkspace()
	}

	if w.Language == "" {
		w.Language = DefaultLanguage
	}
	if len(w.Files) == 0 {
		w.Files = []File{NewFile(w.Language)}
	}
	if w.Files[0].ID == "" {
		w.Files[0].ID = newFileID()
	}
	if !ratioInRange(w.EditorWidth) {
		w.EditorWidth = DefaultEditorWidth
	}
	if !w.valid() {
		s.logger.Debug("workspace inconsistent, using defaults", zap.String("path", s.path))
		return DefaultWorkspace()
	}
	w.ActiveTab = TabCode
	return w
}

// Save overwrites the persisted record with w.
func (s *Store) Save(w Workspace) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encode workspace: %w", err)
	}
	return writeFileAtomic(s.fs, s.path, data)
}

// Reset removes the persisted record and returns the default workspace.
func (s *Store) Reset() (Workspace, error) {
	if err := s.fs.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return DefaultWorkspace(), fmt.Errorf("remove workspace: %w", err)
	}
	return DefaultWorkspace(), nil
}

// writeFileAtomic writes data to a temp file next to path and renames it into place.
func writeFileAtomic(fs afero.Fs, path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, fs.Remove(tmp.Name()))
		}
	}()

	_, werr := tmp.Write(data)
	err = multierr.Append(werr, tmp.Close())
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = fs.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
