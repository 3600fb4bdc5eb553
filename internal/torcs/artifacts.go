package torcs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
)

// ResultsDir возвращает директорию, в которую симулятор складывает
// протоколы заездов для данного файла конфигурации: поддиректория
// базовой директории результатов, названная по имени файла
// конфигурации без расширения.
func ResultsDir(base, configPath string) string {
	name := filepath.Base(configPath)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(base, stem)
}

// NewestResult находит самый свежий протокол в директории результатов.
// Симулятор пишет по одному файлу на заезд, свежесть определяется
// временем модификации.
func NewestResult(ctx context.Context, fs afs.Service, dir string) (storage.Object, error) {
	exists, err := fs.Exists(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("check results dir %s: %w", dir, err)
	}
	if !exists {
		return nil, fmt.Errorf("results dir %s: %w", dir, ErrNoResults)
	}

	objects, err := fs.List(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("list results dir %s: %w", dir, err)
	}

	var newest storage.Object
	for _, obj := range objects {
		if obj.IsDir() {
			continue
		}
		if newest == nil || obj.ModTime().After(newest.ModTime()) {
			newest = obj
		}
	}
	if newest == nil {
		return nil, fmt.Errorf("results dir %s: %w", dir, ErrNoResults)
	}

	return newest, nil
}
