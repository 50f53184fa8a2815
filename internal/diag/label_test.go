package diag

import (
	"errors"
	"testing"

	"caret/internal/source"
)

func TestSortLabelsTieBreak(t *testing.T) {
	tests := []struct {
		name  string
		in    []Label
		order []string // messages in expected order
	}{
		{
			name: "start offset ascending",
			in: []Label{
				Primary(source.Span{Start: 10, End: 12}, "later"),
				Primary(source.Span{Start: 2, End: 4}, "earlier"),
			},
			order: []string{"earlier", "later"},
		},
		{
			name: "primary before secondary at same start",
			in: []Label{
				Secondary(source.Span{Start: 5, End: 9}, "second"),
				Primary(source.Span{Start: 5, End: 9}, "first"),
			},
			order: []string{"first", "second"},
		},
		{
			name: "longer range first at same start and style",
			in: []Label{
				Primary(source.Span{Start: 5, End: 7}, "short"),
				Primary(source.Span{Start: 5, End: 20}, "long"),
			},
			order: []string{"long", "short"},
		},
		{
			name: "equal labels keep caller order",
			in: []Label{
				Primary(source.Span{Start: 5, End: 7}, "a"),
				Primary(source.Span{Start: 5, End: 7}, "b"),
			},
			order: []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			labels := append([]Label(nil), tt.in...)
			SortLabels(labels)
			for i, want := range tt.order {
				if labels[i].Message != want {
					t.Errorf("position %d: got %q, want %q", i, labels[i].Message, want)
				}
			}
		})
	}
}

func TestLabelValidate(t *testing.T) {
	if err := Primary(source.Span{Start: 3, End: 3}, "empty is fine").Validate(); err != nil {
		t.Errorf("empty span should be valid, got %v", err)
	}
	if err := Primary(source.Span{Start: 3, End: 8}, "").Validate(); err != nil {
		t.Errorf("normal span should be valid, got %v", err)
	}

	err := Primary(source.Span{Start: 8, End: 3}, "").Validate()
	if err == nil {
		t.Fatal("expected error for inverted span")
	}
	var rangeErr *source.RangeError
	if !errors.As(err, &rangeErr) || !rangeErr.Inverted {
		t.Fatalf("expected inverted *source.RangeError, got %T: %v", err, err)
	}
}
