package seedfile

import (
	"context"
	"fmt"

	"github.com/linkhaven/linkhaven/internal/logger"
	"github.com/linkhaven/linkhaven/internal/remote"
)

// Importer loads a seed file and bulk-saves its bookmarks through the
// remote service.
type Importer struct {
	loader *Loader
	mapper *Mapper
	remote *remote.Service
	logger logger.Logger
}

// NewImporter wires a loader and mapper to the remote service.
func NewImporter(filePath string, svc *remote.Service, log logger.Logger) *Importer {
	return &Importer{
		loader: NewLoader(filePath),
		mapper: NewMapper(),
		remote: svc,
		logger: log,
	}
}

// Run imports the seed file for one owner and returns the number of
// imported bookmarks.
func (i *Importer) Run(ctx context.Context, owner string) (int, error) {
	config, err := i.loader.Load()
	if err != nil {
		return 0, err
	}

	records, err := i.mapper.MapBookmarks(config, owner)
	if err != nil {
		return 0, err
	}

	if err := i.remote.SaveMany(ctx, records); err != nil {
		return 0, fmt.Errorf("failed to import seed bookmarks: %w", err)
	}

	i.logger.Info("seed bookmarks imported",
		logger.String("owner", owner),
		logger.Int("count", len(records)))
	return len(records), nil
}
