package directory

import (
	"fmt"
	"testing"

	"mindconnect/internal/domain"
)

func numbered(n int) []domain.Psychologist {
	out := make([]domain.Psychologist, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, profile(int64(i), fmt.Sprintf("P %03d", i), i%20, nil, nil, ""))
	}
	return out
}

func TestPaginate_EmptyHasOnePage(t *testing.T) {
	page := Paginate(nil, 1, 12)

	if page.Items == nil || len(page.Items) != 0 {
		t.Errorf("Items = %#v, want empty slice", page.Items)
	}
	if page.CurrentPage != 1 || page.TotalPages != 1 || page.TotalMatches != 0 {
		t.Errorf("got page=%d total_pages=%d total=%d, want 1/1/0", page.CurrentPage, page.TotalPages, page.TotalMatches)
	}
}

func TestPaginate_ClampsOutOfRange(t *testing.T) {
	records := numbered(30)

	tests := []struct {
		name      string
		page      int
		wantPage  int
		wantFirst int64
		wantLen   int
	}{
		{"first", 1, 1, 1, 12},
		{"middle", 2, 2, 13, 12},
		{"last partial", 3, 3, 25, 6},
		{"beyond end", 999, 3, 25, 6},
		{"zero", 0, 1, 1, 12},
		{"negative", -4, 1, 1, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Paginate(records, tt.page, 12)
			if page.CurrentPage != tt.wantPage {
				t.Errorf("CurrentPage = %d, want %d", page.CurrentPage, tt.wantPage)
			}
			if page.TotalPages != 3 {
				t.Errorf("TotalPages = %d, want 3", page.TotalPages)
			}
			if len(page.Items) != tt.wantLen {
				t.Fatalf("len(Items) = %d, want %d", len(page.Items), tt.wantLen)
			}
			if page.Items[0].ID != tt.wantFirst {
				t.Errorf("first item = %d, want %d", page.Items[0].ID, tt.wantFirst)
			}
		})
	}
}

func TestPaginate_DefaultPageSize(t *testing.T) {
	page := Paginate(numbered(13), 1, 0)

	if page.PageSize != domain.DefaultPageSize {
		t.Errorf("PageSize = %d, want %d", page.PageSize, domain.DefaultPageSize)
	}
	if page.TotalPages != 2 || len(page.Items) != 12 {
		t.Errorf("got %d pages, %d items", page.TotalPages, len(page.Items))
	}
}

func TestPaginate_ExactMultiple(t *testing.T) {
	page := Paginate(numbered(24), 2, 12)
	if page.TotalPages != 2 || len(page.Items) != 12 || page.Items[11].ID != 24 {
		t.Errorf("unexpected page: pages=%d len=%d", page.TotalPages, len(page.Items))
	}
}

func TestPaginate_ItemsDoNotAliasInput(t *testing.T) {
	records := numbered(5)
	page := Paginate(records, 1, 12)

	page.Items[0].Name = "changed"
	if records[0].Name == "changed" {
		t.Fatal("page items alias the input slice")
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct{ matches, size, want int }{
		{0, 12, 1},
		{1, 12, 1},
		{12, 12, 1},
		{13, 12, 2},
		{30, 12, 3},
		{30, -1, 3},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.matches, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.matches, tt.size, got, tt.want)
		}
	}
}
