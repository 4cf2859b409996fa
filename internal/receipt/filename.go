package receipt

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joao-fontenele/pos-receipts/internal/domain"
)

// NextFileName returns a path in dir named {kind}_{yyyyMMdd}_{HHmm}.{ext},
// adding _1, _2, ... only when that name is already taken.
func NextFileName(dir, kind string, t time.Time, ext string) (string, error) {
	base := fmt.Sprintf("%s_%s", kind, t.Format("20060102_1504"))

	for n := 0; ; n++ {
		name := base + "." + ext
		if n > 0 {
			name = fmt.Sprintf("%s_%d.%s", base, n, ext)
		}

		path := filepath.Join(dir, name)
		_, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return path, nil
		}
		if err != nil {
			return "", fmt.Errorf("%w: stat %s: %w", domain.ErrIO, path, err)
		}
	}
}
