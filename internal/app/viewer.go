package app

import (
	"context"
	"log/slog"
	"time"

	"trendsview/internal"
	"trendsview/internal/config"
	"trendsview/internal/logging"
	"trendsview/internal/view"
)

// RowLoader produces the normalized dataset.
type RowLoader interface {
	Load(ctx context.Context, rawURL string) ([]internal.TrendRow, error)
}

// Viewer runs one page load: fetch the dataset, then build the view state.
type Viewer struct {
	loader   RowLoader
	dataURL  string
	defaults view.Options
	timeout  time.Duration
	logger   *slog.Logger
}

func NewViewer(cfg config.Config, loader RowLoader, logger *slog.Logger) *Viewer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Viewer{
		loader:  loader,
		dataURL: cfg.DataURL,
		defaults: view.Options{
			DefaultCategory: cfg.DefaultCategory,
			PageLength:      cfg.PageLength,
			ExportTitle:     cfg.ExportTitle,
		},
		timeout: time.Duration(cfg.FetchTimeoutMs) * time.Millisecond,
		logger:  logger,
	}
}

// Open loads the dataset and initializes the view with urlCategory as the
// requested category. Load failures are logged and returned; no state is
// built for them.
func (v *Viewer) Open(ctx context.Context, urlCategory string) (*view.State, error) {
	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	opts := v.defaults
	opts.URLCategory = urlCategory
	state, err := Initialize(ctx, v.loader, v.dataURL, opts)
	if err != nil {
		v.logger.Error("load dataset", "url", v.dataURL, "error", err)
		return nil, err
	}
	v.logger.Debug("view initialized", "rows", len(state.Rows), "categories", len(state.Categories))
	return state, nil
}

// Initialize loads dataURL and builds the view from it. The view is only
// built once loading succeeded.
func Initialize(ctx context.Context, loader RowLoader, dataURL string, opts view.Options) (*view.State, error) {
	rows, err := loader.Load(ctx, dataURL)
	if err != nil {
		return nil, err
	}
	return view.Initialize(rows, opts), nil
}
