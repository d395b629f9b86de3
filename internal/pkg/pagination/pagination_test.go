package pagination

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name      string
		page      int
		limit     int
		wantPage  int
		wantLimit int
	}{
		{name: "defaults", page: 0, limit: 0, wantPage: 1, wantLimit: 20},
		{name: "negative_page", page: -3, limit: 10, wantPage: 1, wantLimit: 10},
		{name: "limit_over_cap", page: 2, limit: 500, wantPage: 2, wantLimit: 100},
		{name: "limit_at_cap", page: 1, limit: 100, wantPage: 1, wantLimit: 100},
		{name: "passthrough", page: 4, limit: 25, wantPage: 4, wantLimit: 25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.page, tc.limit)
			if got.Page != tc.wantPage || got.Limit != tc.wantLimit {
				t.Fatalf("Normalize(%d, %d) = %+v, want page=%d limit=%d",
					tc.page, tc.limit, got, tc.wantPage, tc.wantLimit)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	p := Normalize(3, 20)
	if p.Offset() != 40 {
		t.Fatalf("Offset: got %d, want 40", p.Offset())
	}
}

func TestNewEnvelope(t *testing.T) {
	p := Normalize(2, 20)
	env := NewEnvelope([]int{1, 2, 3}, p, 45)
	if env.Pagination.TotalPages != 3 {
		t.Fatalf("TotalPages: got %d, want 3", env.Pagination.TotalPages)
	}
	if !env.Pagination.HasNext {
		t.Fatalf("HasNext: expected true on page 2 of 3")
	}
	if !env.Pagination.HasPrev {
		t.Fatalf("HasPrev: expected true on page 2")
	}

	last := NewEnvelope(nil, Normalize(3, 20), 45)
	if last.Pagination.HasNext {
		t.Fatalf("HasNext: expected false on last page")
	}

	empty := NewEnvelope(nil, Normalize(1, 20), 0)
	if empty.Pagination.TotalPages != 0 || empty.Pagination.HasNext || empty.Pagination.HasPrev {
		t.Fatalf("empty dataset: unexpected pagination %+v", empty.Pagination)
	}
}

// Walking every page of an N-record dataset must cover exactly N records.
func TestPageCoverage(t *testing.T) {
	const total = 103
	p := Normalize(1, 20)
	seen := 0
	env := NewEnvelope(nil, p, total)
	for page := 1; page <= env.Pagination.TotalPages; page++ {
		params := Normalize(page, 20)
		remaining := total - params.Offset()
		if remaining > params.Limit {
			remaining = params.Limit
		}
		if remaining < 0 {
			remaining = 0
		}
		seen += remaining
	}
	if seen != total {
		t.Fatalf("page coverage: got %d, want %d", seen, total)
	}
}
