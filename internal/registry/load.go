package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/bstgraph/internal/ctxlog"
	"github.com/vk/bstgraph/internal/fsutil"
	"github.com/vk/bstgraph/internal/loaderr"
)

// KindSuffix is the extension of project-local kind definition files.
const KindSuffix = ".yaml"

// LoadKindsDir registers one kind per "<name>.yaml" file below dir. A local
// kind may not shadow a compiled-in one.
func (r *Registry) LoadKindsDir(ctx context.Context, dir string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Registry loading kinds from path...", "path", dir)

	filePaths, err := fsutil.FindFilesByExtension(dir, KindSuffix)
	if err != nil {
		return fmt.Errorf("failed to walk kinds directory %s: %w", dir, err)
	}

	if len(filePaths) == 0 {
		logger.Warn("No kind files found in path", "path", dir)
		return nil
	}

	for _, rel := range filePaths {
		name := strings.TrimSuffix(rel, KindSuffix)
		full := filepath.Join(dir, filepath.FromSlash(rel))
		if _, exists := r.kinds[name]; exists {
			return loaderr.Malformed("", "kind '%s' is already defined", name).At(full)
		}
		data, err := os.ReadFile(full)
		if err != nil {
			return fmt.Errorf("failed to read kind file %s: %w", full, err)
		}
		kind, err := ParseKind(name, full, data)
		if err != nil {
			return err
		}
		r.RegisterKind(kind)
	}

	logger.Debug("Kinds loaded.", "count", len(filePaths))
	return nil
}
