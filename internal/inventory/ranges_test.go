package inventory

import (
	"reflect"
	"testing"
)

func TestParseLotRanges(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []int
		wantErr  bool
	}{
		{"single", []string{"12"}, []int{12}, false},
		{"range", []string{"1-3"}, []int{1, 2, 3}, false},
		{"mixed and duplicated", []string{"5", " 2 - 4 ", "3"}, []int{2, 3, 4, 5}, false},
		{"blank entries", []string{"", " "}, []int{}, false},
		{"reversed", []string{"8-1"}, nil, true},
		{"not a number", []string{"abc"}, nil, true},
		{"open range", []string{"4-"}, nil, true},
		{"oversized range", []string{"1-2000000000"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLotRanges(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ParseLotRanges(%v) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseLotRangesWidestSpan(t *testing.T) {
	got, err := ParseLotRanges([]string{"1-1000"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != maxRangeSpan || got[0] != 1 || got[len(got)-1] != 1000 {
		t.Errorf("unexpected expansion of %d lots", len(got))
	}
}
