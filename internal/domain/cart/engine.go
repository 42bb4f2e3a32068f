package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// EngineConfig tunes an Engine. Zero values fall back to defaults.
type EngineConfig struct {
	Retention time.Duration
	Now       func() time.Time
}

// Engine is one session's cart: a read-through cache of the backend snapshot
// with a selection overlay on top. Mutations go to the backend first and the
// view only changes once a fresh snapshot confirms them.
type Engine struct {
	backendMu sync.RWMutex
	backend   Backend

	logger    *zap.Logger
	now       func() time.Time
	retention time.Duration

	// cmdMu serializes backend commands together with their confirming
	// re-fetch so two mutations never interleave.
	cmdMu sync.Mutex

	mu        sync.RWMutex
	loaded    bool
	snapshot  []Line          // normalized backend lines, store order preserved
	selection map[string]bool // line id -> selected
	view      View
}

// NewEngine creates an engine over backend.
func NewEngine(backend Backend, cfg EngineConfig, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Retention <= 0 {
		cfg.Retention = DefaultRetention
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Engine{
		backend:   backend,
		logger:    logger,
		now:       cfg.Now,
		retention: cfg.Retention,
		selection: make(map[string]bool),
		view:      View{Groups: []StoreGroup{}},
	}
}

// Load fetches the whole cart and rebuilds the view. On failure the previous
// view is kept.
func (e *Engine) Load(ctx context.Context) error {
	e.cmdMu.Lock()
	defer e.cmdMu.Unlock()
	backend := e.client()

	snaps, err := backend.ListStores(ctx)
	if err != nil {
		e.logger.Warn("cart load failed", zap.Error(err))
		return err
	}

	fetchedAt := e.now()
	var lines []Line
	for _, s := range snaps {
		ls, warnings := Normalize(s, fetchedAt)
		e.reportWarnings(warnings)
		lines = append(lines, ls...)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.snapshot = lines
	e.loaded = true
	e.rebuildLocked()
	return nil
}

// Refresh re-runs expiry filtering and grouping over the cached snapshot.
func (e *Engine) Refresh() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rebuildLocked()
	return e.view
}

// View returns the current view and whether a snapshot was ever loaded.
func (e *Engine) View() (View, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.view, e.loaded
}

// SelectLine toggles selection of one line. Lines that are not ACTIVE are
// left alone without error.
func (e *Engine) SelectLine(lineID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	lines := e.view.Lines()
	if _, ok := e.view.FindLine(lineID); !ok {
		return ErrLineNotFound
	}
	if !SelectLine(lines, lineID) {
		e.logger.Debug("selection ignored for ineligible line", zap.String("line_id", lineID))
		return nil
	}
	e.captureSelectionLocked(lines)
	e.rebuildLocked()
	return nil
}

// SelectStore sets selection on every ACTIVE line of a store.
func (e *Engine) SelectStore(storeID string, value bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.view.FindGroup(storeID); !ok {
		return ErrStoreNotFound
	}
	lines := e.view.Lines()
	SelectStore(lines, storeID, value)
	e.captureSelectionLocked(lines)
	e.rebuildLocked()
	return nil
}

// SelectAll sets selection on every ACTIVE line of the cart.
func (e *Engine) SelectAll(value bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	lines := e.view.Lines()
	SelectAll(lines, value)
	e.captureSelectionLocked(lines)
	e.rebuildLocked()
}

// SetQuantity clamps the requested quantity, sends it to the backend and
// rebuilds the view from the confirmed store snapshot. Requests for lines
// that are not ACTIVE, or that would not change anything, are dropped.
func (e *Engine) SetQuantity(ctx context.Context, lineID string, quantity int) error {
	e.cmdMu.Lock()
	defer e.cmdMu.Unlock()
	backend := e.client()

	line, ok := e.lookupLine(lineID)
	if !ok {
		return ErrLineNotFound
	}
	q, ok := ClampQuantity(line, quantity)
	if !ok {
		e.logger.Debug("quantity change ignored for ineligible line",
			zap.String("line_id", lineID),
			zap.String("lifecycle", string(line.Lifecycle)),
		)
		return nil
	}
	if q == line.Quantity {
		return nil
	}

	if err := backend.UpdateQuantity(ctx, line.StoreID, lineID, q); err != nil {
		e.logger.Warn("quantity update failed",
			zap.String("store_id", line.StoreID),
			zap.String("line_id", lineID),
			zap.Int("quantity", q),
			zap.Error(err),
		)
		return err
	}
	return e.refetchLocked(ctx, backend, line.StoreID)
}

// AddItem puts a product into a store cart and re-fetches that store.
func (e *Engine) AddItem(ctx context.Context, storeID string, item NewItem) error {
	if storeID == "" || item.ItemID == "" {
		return ErrInvalidItem
	}
	if item.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidItem)
	}

	e.cmdMu.Lock()
	defer e.cmdMu.Unlock()
	backend := e.client()

	if err := backend.AddItem(ctx, storeID, item); err != nil {
		e.logger.Warn("add item failed",
			zap.String("store_id", storeID),
			zap.String("item_id", item.ItemID),
			zap.Error(err),
		)
		return err
	}
	return e.refetchLocked(ctx, backend, storeID)
}

// RemoveLine deletes one line.
func (e *Engine) RemoveLine(ctx context.Context, lineID string) error {
	e.cmdMu.Lock()
	defer e.cmdMu.Unlock()
	backend := e.client()

	line, ok := e.lookupLine(lineID)
	if !ok {
		return ErrLineNotFound
	}
	if err := backend.RemoveItem(ctx, line.StoreID, lineID); err != nil {
		e.logger.Warn("remove line failed",
			zap.String("store_id", line.StoreID),
			zap.String("line_id", lineID),
			zap.Error(err),
		)
		return err
	}
	return e.refetchLocked(ctx, backend, line.StoreID)
}

// RemoveSelected deletes every ACTIVE selected line, store by store. The view
// is only rebuilt when every removal succeeded; otherwise a *RemovalError
// names the lines that are still in the cart.
func (e *Engine) RemoveSelected(ctx context.Context) error {
	e.cmdMu.Lock()
	defer e.cmdMu.Unlock()
	backend := e.client()

	e.mu.RLock()
	groups := e.view.Groups
	e.mu.RUnlock()

	var (
		stores []string
		failed []string
		errs   []error
	)
	for gi, g := range groups {
		selected := countedLines(g.Lines)
		if len(selected) == 0 {
			continue
		}
		stores = append(stores, g.StoreID)
		for i, l := range selected {
			err := backend.RemoveItem(ctx, g.StoreID, l.LineID)
			if err == nil {
				continue
			}
			e.logger.Warn("remove selected line failed",
				zap.String("store_id", g.StoreID),
				zap.String("line_id", l.LineID),
				zap.Error(err),
			)
			failed = append(failed, l.LineID)
			errs = append(errs, err)
			if errors.Is(err, ErrSessionExpired) {
				for _, rest := range selected[i+1:] {
					failed = append(failed, rest.LineID)
				}
				for _, later := range groups[gi+1:] {
					for _, rest := range countedLines(later.Lines) {
						failed = append(failed, rest.LineID)
					}
				}
				return &RemovalError{Failed: failed, Err: errors.Join(errs...)}
			}
		}
	}

	if len(stores) == 0 {
		return nil
	}
	if len(failed) > 0 {
		return &RemovalError{Failed: failed, Err: errors.Join(errs...)}
	}
	return e.refetchLocked(ctx, backend, stores...)
}

// ClearStore empties one store's cart.
func (e *Engine) ClearStore(ctx context.Context, storeID string) error {
	e.cmdMu.Lock()
	defer e.cmdMu.Unlock()
	backend := e.client()

	e.mu.RLock()
	_, ok := e.view.FindGroup(storeID)
	e.mu.RUnlock()
	if !ok {
		return ErrStoreNotFound
	}

	if err := backend.ClearStore(ctx, storeID); err != nil {
		e.logger.Warn("clear store failed", zap.String("store_id", storeID), zap.Error(err))
		return err
	}
	return e.refetchLocked(ctx, backend, storeID)
}

// Checkout builds the checkout summary from the current view.
func (e *Engine) Checkout() (*Summary, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return BuildSummary(e.view)
}

// rebind swaps the backend credential. A command already in flight finishes
// with the backend it started with.
func (e *Engine) rebind(backend Backend) {
	e.backendMu.Lock()
	defer e.backendMu.Unlock()
	e.backend = backend
}

func (e *Engine) client() Backend {
	e.backendMu.RLock()
	defer e.backendMu.RUnlock()
	return e.backend
}

func (e *Engine) lookupLine(lineID string) (Line, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.view.FindLine(lineID)
}

// refetchLocked reloads the given stores and splices them into the snapshot.
// Callers hold cmdMu. Nothing changes unless every fetch succeeds.
func (e *Engine) refetchLocked(ctx context.Context, backend Backend, storeIDs ...string) error {
	fetchedAt := e.now()
	fresh := make(map[string][]Line, len(storeIDs))
	for _, id := range storeIDs {
		snap, err := backend.FetchStore(ctx, id)
		if err != nil {
			e.logger.Warn("store re-fetch failed", zap.String("store_id", id), zap.Error(err))
			return err
		}
		if snap == nil {
			fresh[id] = nil
			continue
		}
		if snap.StoreID == "" {
			snap.StoreID = id
		}
		lines, warnings := Normalize(*snap, fetchedAt)
		e.reportWarnings(warnings)
		fresh[id] = lines
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.snapshot = spliceStores(e.snapshot, fresh, storeIDs)
	e.loaded = true
	e.rebuildLocked()
	return nil
}

// rebuildLocked derives the view from the snapshot. Callers hold mu.
func (e *Engine) rebuildLocked() {
	now := e.now()
	live := FilterExpired(e.snapshot, now, e.retention)

	seen := make(map[string]bool, len(live))
	for i := range live {
		l := &live[i]
		seen[l.LineID] = true
		if !l.Eligible() {
			e.selection[l.LineID] = false
			l.IsSelected = false
			continue
		}
		selected, ok := e.selection[l.LineID]
		if !ok {
			selected = true
			e.selection[l.LineID] = selected
		}
		l.IsSelected = selected
	}
	for id := range e.selection {
		if !seen[id] {
			delete(e.selection, id)
		}
	}

	e.view = BuildView(live)
	e.view.BuiltAt = now
}

func (e *Engine) captureSelectionLocked(lines []Line) {
	for _, l := range lines {
		e.selection[l.LineID] = l.Eligible() && l.IsSelected
	}
}

func (e *Engine) reportWarnings(warnings []IntegrityWarning) {
	for _, w := range warnings {
		e.logger.Warn("cart data integrity warning",
			zap.String("store_id", w.StoreID),
			zap.String("line_id", w.LineID),
			zap.String("reason", w.Reason),
		)
	}
}

// spliceStores replaces the lines of the given stores, keeping each store at
// its first-seen position. Stores new to the snapshot go last.
func spliceStores(current []Line, fresh map[string][]Line, order []string) []Line {
	out := make([]Line, 0, len(current))
	placed := make(map[string]bool, len(fresh))
	for _, l := range current {
		lines, replaced := fresh[l.StoreID]
		if !replaced {
			out = append(out, l)
			continue
		}
		if placed[l.StoreID] {
			continue
		}
		placed[l.StoreID] = true
		out = append(out, lines...)
	}
	for _, id := range order {
		if placed[id] {
			continue
		}
		placed[id] = true
		out = append(out, fresh[id]...)
	}
	return out
}
