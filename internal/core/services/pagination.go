package services

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/custodia-labs/facetag/internal/core/domain"
	"github.com/custodia-labs/facetag/internal/core/ports/driving"
	"github.com/custodia-labs/facetag/internal/logger"
)

// Ensure Paginator implements the interface.
var _ driving.PaginationService = (*Paginator)(nil)

// Paginator tracks the current page and search term and drives list reloads.
// Page bounds are only ever taken from a successful list response.
type Paginator struct {
	list *DocumentList

	mu         sync.Mutex
	page       int
	totalPages int
	search     string

	// applied is the request token of the response the bounds came from.
	applied uint64
}

// NewPaginator creates a paginator positioned on page 1 of 1.
func NewPaginator(list *DocumentList) *Paginator {
	return &Paginator{
		list:       list,
		page:       1,
		totalPages: 1,
	}
}

// GoToPage loads page n with the current search term.
// Returns domain.ErrPageOutOfRange without side effects when n is outside
// [1, totalPages].
func (p *Paginator) GoToPage(ctx context.Context, n int) (domain.ListState, error) {
	p.mu.Lock()
	if n < 1 || n > p.totalPages {
		p.mu.Unlock()
		logger.Debug("Rejected page %d (total %d)", n, p.totalPages)
		return p.list.State(), domain.ErrPageOutOfRange
	}
	search := p.search
	p.mu.Unlock()

	return p.load(ctx, domain.PageQuery{Page: n, Search: search})
}

// GoToPageInput parses the page number typed by the user and loads it.
func (p *Paginator) GoToPageInput(ctx context.Context, input string) (domain.ListState, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return p.list.State(), domain.ErrInvalidPage
	}
	return p.GoToPage(ctx, n)
}

// SetSearchTerm sets the search term and loads its first page.
func (p *Paginator) SetSearchTerm(ctx context.Context, term string) (domain.ListState, error) {
	term = strings.TrimSpace(term)

	p.mu.Lock()
	p.search = term
	p.page = 1
	p.mu.Unlock()

	return p.load(ctx, domain.PageQuery{Page: 1, Search: term})
}

// Reload reloads the current page with the current search term.
func (p *Paginator) Reload(ctx context.Context) (domain.ListState, error) {
	p.mu.Lock()
	query := domain.PageQuery{Page: p.page, Search: p.search}
	p.mu.Unlock()

	return p.load(ctx, query)
}

// load issues the list request and adopts the page bounds of an applied response.
func (p *Paginator) load(ctx context.Context, query domain.PageQuery) (domain.ListState, error) {
	res := p.list.load(ctx, query)
	if res.page == nil {
		return res.state, res.err
	}

	total := max(res.page.TotalPages, 1)
	current := min(max(res.page.Page, 1), total)

	p.mu.Lock()
	if res.token > p.applied {
		p.applied = res.token
		p.page = current
		p.totalPages = total
	}
	p.mu.Unlock()

	return res.state, res.err
}

// Navigation rebuilds the whole navigation bar from the latest page pair.
func (p *Paginator) Navigation() domain.NavBar {
	p.mu.Lock()
	defer p.mu.Unlock()
	return domain.NewNavBar(p.page, p.totalPages)
}

// SearchTerm returns the current search term.
func (p *Paginator) SearchTerm() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.search
}
