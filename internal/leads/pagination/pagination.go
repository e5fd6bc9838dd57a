// Package pagination orders the filtered queue and slices it into pages of
// fixed size.
package pagination

import (
	"sort"

	"leadqueue_backend/internal/leads/domain"
	"leadqueue_backend/platform/datefmt"
)

// PageSize is the fixed number of leads per page.
const PageSize = 10

// Sort returns leads ordered by CreatedAt, newest first. Empty or unparsable
// timestamps sort as the oldest. Ties keep their input order.
func Sort(leads []domain.Lead) []domain.Lead {
	type keyed struct {
		lead domain.Lead
		key  int64
	}
	items := make([]keyed, len(leads))
	for i, lead := range leads {
		items[i].lead = lead
		if t := datefmt.ParseTimestamp(lead.CreatedAt); !t.IsZero() {
			items[i].key = t.UnixNano()
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].key > items[j].key
	})

	out := make([]domain.Lead, len(items))
	for i := range items {
		out[i] = items[i].lead
	}
	return out
}

// Page describes the current window over the filtered set.
type Page struct {
	Index      int `json:"index"`
	Size       int `json:"size"`
	TotalPages int `json:"totalPages"`
	TotalItems int `json:"totalItems"`
}

// Pager holds the current page index. The zero value is not ready; use
// NewPager.
type Pager struct {
	index int
	total int
}

// NewPager returns a pager on page 1 of an empty set.
func NewPager() *Pager {
	return &Pager{index: 1}
}

// TotalPages returns max(1, ceil(n/PageSize)).
func TotalPages(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}

// Recompute records a new filtered-set size and clamps the index into
// [1, TotalPages(n)].
func (p *Pager) Recompute(n int) {
	if n < 0 {
		n = 0
	}
	p.total = n
	p.clamp()
}

// Reset returns to page 1.
func (p *Pager) Reset() {
	p.index = 1
}

// Next advances one page, stopping at the last page.
func (p *Pager) Next() {
	p.index++
	p.clamp()
}

// Prev goes back one page, stopping at page 1.
func (p *Pager) Prev() {
	p.index--
	p.clamp()
}

// Page returns the current page description.
func (p *Pager) Page() Page {
	return Page{
		Index:      p.index,
		Size:       PageSize,
		TotalPages: TotalPages(p.total),
		TotalItems: p.total,
	}
}

// Slice returns the leads on the current page. leads must be the set the
// pager was last recomputed with.
func (p *Pager) Slice(leads []domain.Lead) []domain.Lead {
	start := (p.index - 1) * PageSize
	if start >= len(leads) {
		return []domain.Lead{}
	}
	end := start + PageSize
	if end > len(leads) {
		end = len(leads)
	}
	out := make([]domain.Lead, end-start)
	copy(out, leads[start:end])
	return out
}

func (p *Pager) clamp() {
	last := TotalPages(p.total)
	if p.index > last {
		p.index = last
	}
	if p.index < 1 {
		p.index = 1
	}
}
