package greenview

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mwiater/greenview/internal/export"
	"github.com/mwiater/greenview/internal/views"
)

func writeExport(path string, model *views.Model, format export.Format) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.Write(f, model, format); err != nil {
		_ = f.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	return f.Close()
}
