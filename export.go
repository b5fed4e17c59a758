package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Exporter writes workspace files into a directory.
// Exporter сохраняет файлы рабочего пространства в каталог.
type Exporter struct {
	fs     afero.Fs
	dir    string
	logger *zap.Logger
}

// NewExporter creates an exporter writing into dir on fs.
func NewExporter(fs afero.Fs, dir string, logger *zap.Logger) *Exporter {
	if dir == "" {
		dir = "."
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{fs: fs, dir: dir, logger: logger}
}

// Dir returns the export directory.
func (x *Exporter) Dir() string {
	return x.dir
}

// Export writes f.Code verbatim to dir/f.Name and returns the path.
// The content goes through a temp file that is renamed into place, so nothing
// transient is left behind whether or not the export succeeds.
func (x *Exporter) Export(f File) (string, error) {
	name := filepath.Base(filepath.Clean("/" + f.Name))
	if name == "/" || name == "." {
		return "", fmt.Errorf("export: invalid file name %q", f.Name)
	}
	path := filepath.Join(x.dir, name)
	if err := writeFileAtomic(x.fs, path, []byte(f.Code)); err != nil {
		return "", fmt.Errorf("export %s: %w", name, err)
	}
	x.logger.Info("file exported", zap.String("path", path), zap.Int("bytes", len(f.Code)))
	return path, nil
}
