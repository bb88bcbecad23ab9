package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/facetag/internal/core/domain"
	"github.com/custodia-labs/facetag/internal/core/ports/driven"
	"github.com/custodia-labs/facetag/internal/core/ports/driving"
	"github.com/custodia-labs/facetag/internal/logger"
)

// Ensure CacheService implements the interface.
var _ driving.CacheService = (*CacheService)(nil)

// PromptClearCache is the confirmation asked before clearing the cache.
const PromptClearCache = "Are you sure you want to clear the thumbnail cache?"

// CacheService clears the document store's thumbnail cache.
type CacheService struct {
	store driven.DocumentStore
	pages *Paginator
}

// NewCacheService creates a cache service that reloads pages after clearing.
func NewCacheService(store driven.DocumentStore, pages *Paginator) *CacheService {
	return &CacheService{
		store: store,
		pages: pages,
	}
}

// Clear confirms, clears the cache and reloads page 1 of the current search.
// The list is reloaded whenever the store answered, even with an error,
// because thumbnails may have been partially removed.
func (c *CacheService) Clear(ctx context.Context, confirm driving.ConfirmFunc) (string, error) {
	if c.store == nil {
		return "", domain.ErrNotImplemented
	}
	if confirm == nil || !confirm(PromptClearCache) {
		return "", domain.ErrCancelled
	}

	msg, err := c.store.ClearCache(ctx)
	if err != nil && domain.IsNetwork(err) {
		return "", fmt.Errorf("clear cache: %w", err)
	}

	if c.pages != nil {
		if _, loadErr := c.pages.SetSearchTerm(ctx, c.pages.SearchTerm()); loadErr != nil {
			logger.Warn("Reload after cache clear failed: %v", loadErr)
		}
	}

	if err != nil {
		return "", fmt.Errorf("clear cache: %w", err)
	}
	return msg, nil
}
