package formatting

import (
	"errors"
	"testing"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    payload
		wantErr bool
	}{
		{
			name:    "direct json",
			content: `{"name": "a", "count": 2}`,
			want:    payload{Name: "a", Count: 2},
		},
		{
			name:    "fenced json",
			content: "```json\n{\"name\": \"b\", \"count\": 3}\n```",
			want:    payload{Name: "b", Count: 3},
		},
		{
			name:    "fenced without language",
			content: "```\n{\"name\": \"c\"}\n```",
			want:    payload{Name: "c"},
		},
		{
			name:    "surrounding whitespace",
			content: "  {\"name\": \"d\"}  ",
			want:    payload{Name: "d"},
		},
		{
			name:    "unparseable",
			content: "not json at all",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseJSON[payload](tc.content)
			if tc.wantErr {
				if !errors.Is(err, ErrParseFailed) {
					t.Fatalf("expected ErrParseFailed, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %+v, expected %+v", got, tc.want)
			}
		})
	}
}
