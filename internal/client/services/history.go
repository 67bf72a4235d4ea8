package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/visionaq/internal/client/models"
	"github.com/dmitrijs2005/visionaq/internal/client/repositories/kvstore"
	"github.com/dmitrijs2005/visionaq/internal/common"
)

// HistoryStore owns the result history (newest first, never trimmed or
// deduplicated) and the current-result slot read by the results view.
type HistoryStore struct {
	mu    sync.Mutex
	store kvstore.Store
}

func NewHistoryStore(store kvstore.Store) *HistoryStore {
	return &HistoryStore{store: store}
}

// Append prepends r and persists the whole sequence.
func (h *HistoryStore) Append(ctx context.Context, r models.AnalysisResult) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	raw, err := h.prepend(ctx, r)
	if err != nil {
		return err
	}
	if err := h.store.Set(ctx, common.KeyResultHistory, raw); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// All returns an independent copy of the history, newest first.
func (h *HistoryStore) All(ctx context.Context) ([]models.AnalysisResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load(ctx)
}

// Latest returns the newest entry.
func (h *HistoryStore) Latest(ctx context.Context) (models.AnalysisResult, bool, error) {
	all, err := h.All(ctx)
	if err != nil || len(all) == 0 {
		return models.AnalysisResult{}, false, err
	}
	return all[0], true, nil
}

// SetCurrent overwrites the current-result slot.
func (h *HistoryStore) SetCurrent(ctx context.Context, cur models.CurrentResult) error {
	raw, err := json.Marshal(cur)
	if err != nil {
		return fmt.Errorf("encode current result: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.store.Set(ctx, common.KeyCurrentResult, raw); err != nil {
		return fmt.Errorf("save current result: %w", err)
	}
	return nil
}

// Current reads the slot without consuming it.
func (h *HistoryStore) Current(ctx context.Context) (models.CurrentResult, bool, error) {
	h.mu.Lock()
	raw, err := h.store.Get(ctx, common.KeyCurrentResult)
	h.mu.Unlock()

	if err != nil {
		return models.CurrentResult{}, false, fmt.Errorf("load current result: %w", err)
	}
	if raw == nil {
		return models.CurrentResult{}, false, nil
	}

	var cur models.CurrentResult
	if err := json.Unmarshal(raw, &cur); err != nil {
		return models.CurrentResult{}, false, fmt.Errorf("decode current result: %w", err)
	}
	return cur, true, nil
}

// Record prepends r to the history and makes it the current result in one
// write, so the two keys never disagree.
func (h *HistoryStore) Record(ctx context.Context, r models.AnalysisResult, imageRef string) (models.CurrentResult, error) {
	cur := models.CurrentResult{AnalysisResult: r, ImageRef: imageRef}
	curRaw, err := json.Marshal(cur)
	if err != nil {
		return models.CurrentResult{}, fmt.Errorf("encode current result: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	histRaw, err := h.prepend(ctx, r)
	if err != nil {
		return models.CurrentResult{}, err
	}

	if err := h.store.SetMany(ctx, map[string][]byte{
		common.KeyResultHistory: histRaw,
		common.KeyCurrentResult: curRaw,
	}); err != nil {
		return models.CurrentResult{}, fmt.Errorf("record result: %w", err)
	}
	return cur, nil
}

// must be called with h.mu held
func (h *HistoryStore) load(ctx context.Context) ([]models.AnalysisResult, error) {
	raw, err := h.store.Get(ctx, common.KeyResultHistory)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if raw == nil {
		return []models.AnalysisResult{}, nil
	}

	var out []models.AnalysisResult
	if err := json.Unmarshal(raw, &out); err != nil {
		// stored entries must never be replaced by a fresh list
		return nil, fmt.Errorf("decode history: %w", err)
	}
	if out == nil {
		out = []models.AnalysisResult{}
	}
	return out, nil
}

// must be called with h.mu held
func (h *HistoryStore) prepend(ctx context.Context, r models.AnalysisResult) ([]byte, error) {
	all, err := h.load(ctx)
	if err != nil {
		return nil, err
	}

	next := make([]models.AnalysisResult, 0, len(all)+1)
	next = append(next, r)
	next = append(next, all...)

	raw, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("encode history: %w", err)
	}
	return raw, nil
}
