package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/leadroute/leadadmin/internal/ui/client"
	"github.com/leadroute/leadadmin/internal/ui/normalize"
	"github.com/leadroute/leadadmin/internal/ui/types"
)

// ListLeads returns one page of leads. A non-positive limit uses the service page size.
func (s *Service) ListLeads(ctx context.Context, limit, offset int) (*types.LeadPage, error) {
	if limit <= 0 {
		limit = s.pageSize
	}
	offset = max(offset, 0)

	body, err := s.api.ListLeads(ctx, client.ListLeadsParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}

	page, err := normalize.LeadPage(body, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("normalizing leads: %w", err)
	}
	return page, nil
}

// GetLead returns a lead with its original payload
func (s *Service) GetLead(ctx context.Context, id string) (*types.LeadDetail, error) {
	if id == "" {
		return nil, ErrMissingID
	}

	body, err := s.api.GetLead(ctx, id)
	if err != nil {
		return nil, err
	}

	detail, err := normalize.LeadDetail(body)
	if err != nil {
		return nil, fmt.Errorf("normalizing lead %s: %w", id, err)
	}
	return detail, nil
}

// LeadPager pages through leads by offset.
//
// Loads are serialized, so a page requested after another always replaces it and a slow
// earlier response can not overwrite a newer one.
type LeadPager struct {
	svc *Service

	mu      sync.Mutex
	limit   int
	offset  int
	current *types.LeadPage
}

// NewLeadPager starts a pager at offset using the service page size
func (s *Service) NewLeadPager(offset int) *LeadPager {
	return &LeadPager{
		svc:    s,
		limit:  s.pageSize,
		offset: max(offset, 0),
	}
}

// Offset returns the offset of the page the pager points at
func (p *LeadPager) Offset() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.offset
}

// Current returns the last page loaded, or nil
func (p *LeadPager) Current() *types.LeadPage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Refresh re-fetches the page at the current offset
func (p *LeadPager) Refresh(ctx context.Context) (*types.LeadPage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadLocked(ctx)
}

// Next moves forward one page. Without paging metadata from the backend this is plain offset
// arithmetic; when the backend reported that there are no more leads ErrNoMorePages is returned and
// the offset is left unchanged.
func (p *LeadPager) Next(ctx context.Context) (*types.LeadPage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil && p.current.HasMore != nil && !*p.current.HasMore {
		return p.current, ErrNoMorePages
	}
	p.offset += p.limit
	return p.loadLocked(ctx)
}

// Prev moves back one page, never below offset 0
func (p *LeadPager) Prev(ctx context.Context) (*types.LeadPage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.offset = max(p.offset-p.limit, 0)
	return p.loadLocked(ctx)
}

// Follow re-issues the current page every time a value arrives on changes (e.g. a credential change
// from auth.Credentials.Subscribe) and hands the result to fn. It returns when ctx is cancelled or
// changes is closed.
func (p *LeadPager) Follow(ctx context.Context, changes <-chan struct{}, fn func(*types.LeadPage, error)) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			fn(p.Refresh(ctx))
		}
	}
}

func (p *LeadPager) loadLocked(ctx context.Context) (*types.LeadPage, error) {
	page, err := p.svc.ListLeads(ctx, p.limit, p.offset)
	if err != nil {
		return nil, err
	}
	p.current = page
	return page, nil
}
