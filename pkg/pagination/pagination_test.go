package pagination

import (
	"net/url"
	"testing"
)

func testConfig() Config {
	return Config{DefaultPageSize: 20, MaxPageSize: 100}
}

func TestFromQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		page     int
		pageSize int
	}{
		{"defaults", "", 1, 20},
		{"explicit", "page=3&page_size=50", 3, 50},
		{"clamped to max", "page_size=500", 1, 100},
		{"negative page", "page=-1", 1, 20},
		{"garbage", "page=abc&page_size=xyz", 1, 20},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tc.query)
			req := FromQuery(values, testConfig())

			if req.Page != tc.page {
				t.Errorf("page: got %d, expected %d", req.Page, tc.page)
			}
			if req.PageSize != tc.pageSize {
				t.Errorf("page_size: got %d, expected %d", req.PageSize, tc.pageSize)
			}
		})
	}
}

func TestFromQuerySearchAndSort(t *testing.T) {
	values, _ := url.ParseQuery("search=wifi&sort=-created_at")
	req := FromQuery(values, testConfig())

	if req.Search == nil || *req.Search != "wifi" {
		t.Errorf("search not captured: %v", req.Search)
	}
	if len(req.Sort) != 1 || req.Sort[0].Field != "created_at" || !req.Sort[0].Descending {
		t.Errorf("sort not parsed: %v", req.Sort)
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		pageSize   int
		totalPages int
	}{
		{"exact division", 40, 20, 2},
		{"remainder rounds up", 41, 20, 3},
		{"empty still one page", 0, 20, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := NewPageResult([]int{}, tc.total, 1, tc.pageSize)
			if result.TotalPages != tc.totalPages {
				t.Errorf("total_pages: got %d, expected %d", result.TotalPages, tc.totalPages)
			}
		})
	}
}

func TestNewPageResultNilData(t *testing.T) {
	result := NewPageResult[int](nil, 0, 1, 20)
	if result.Data == nil {
		t.Error("expected empty slice, got nil")
	}
}
