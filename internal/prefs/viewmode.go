package prefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/lombahub/internal/kv"
	"github.com/MrSnakeDoc/lombahub/internal/logger"
)

// ViewMode is the layout of the result list.
type ViewMode string

const (
	ViewGrid   ViewMode = "grid"
	ViewPoster ViewMode = "poster"
)

// ErrInvalidViewMode is returned by Set and ParseViewMode for unknown tokens.
var ErrInvalidViewMode = errors.New("invalid view mode")

// ParseViewMode validates a view mode token.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ViewGrid, ViewPoster:
		return ViewMode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidViewMode, s)
	}
}

// DefaultViewMode returns the layout used before the user picks one:
// poster on mobile devices, grid otherwise.
func DefaultViewMode(mobile bool) ViewMode {
	if mobile {
		return ViewPoster
	}
	return ViewGrid
}

// ViewModePreference is the persisted layout choice of one session.
// Like BookmarkStore it degrades to memory-only when storage fails.
// It is not safe for concurrent use.
type ViewModePreference struct {
	store kv.Store
	key   string
	log   logger.Logger

	mode     ViewMode
	degraded bool
}

// NewViewModePreference reads the stored mode once. The device-class flag is
// only consulted here, when no usable value is stored.
func NewViewModePreference(ctx context.Context, store kv.Store, key string, mobile bool, log logger.Logger) *ViewModePreference {
	p := &ViewModePreference{
		store:    store,
		key:      key,
		log:      log,
		mode:     DefaultViewMode(mobile),
		degraded: store == nil,
	}
	if p.degraded {
		return p
	}

	getCtx, cancel := storageContext(ctx)
	raw, err := store.Get(getCtx, key)
	cancel()
	switch {
	case errors.Is(err, kv.ErrNotFound):
		return p
	case err != nil:
		log.Warn("View mode storage unavailable, using default",
			logger.String("key", key), logger.Error(err))
		p.degraded = true
		return p
	}

	mode, err := ParseViewMode(raw)
	if err != nil {
		log.Warn("Ignoring unknown stored view mode",
			logger.String("key", key), logger.String("value", raw))
		return p
	}
	p.mode = mode
	return p
}

// Get returns the current layout.
func (p *ViewModePreference) Get() ViewMode {
	return p.mode
}

// Set switches the layout and persists it. Only unknown modes are reported;
// storage failures are logged.
func (p *ViewModePreference) Set(ctx context.Context, mode ViewMode) error {
	if _, err := ParseViewMode(string(mode)); err != nil {
		return err
	}
	p.mode = mode

	if p.degraded {
		return nil
	}
	setCtx, cancel := storageContext(ctx)
	defer cancel()
	if err := p.store.Set(setCtx, p.key, string(mode)); err != nil {
		p.log.Warn("View mode storage failed, keeping it in memory",
			logger.String("key", p.key), logger.Error(err))
		p.degraded = true
	}
	return nil
}

// Degraded reports whether the preference is no longer persisted.
func (p *ViewModePreference) Degraded() bool {
	return p.degraded
}
