package calc

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestParseShardSizes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int
		wantErr error
	}{
		{name: "list", input: "2,4,6,8,10,16", want: []int{2, 4, 6, 8, 10, 16}},
		{name: "spaces", input: " 2, 4 ,8 ", want: []int{2, 4, 8}},
		{name: "single", input: "16", want: []int{16}},
		{name: "range", input: "2-5", want: []int{2, 3, 4, 5}},
		{name: "range with step", input: "2-16:2", want: []int{2, 4, 6, 8, 10, 12, 14, 16}},
		{name: "step overshoots end", input: "2-9:4", want: []int{2, 6}},
		{name: "mixed", input: "2-4,16", want: []int{2, 3, 4, 16}},
		{name: "keeps order and duplicates", input: "8,2,8", want: []int{8, 2, 8}},
		{name: "trailing comma", input: "2,4,", want: []int{2, 4}},
		{name: "empty", input: "", wantErr: ErrInvalidShardList},
		{name: "only commas", input: ",,", wantErr: ErrInvalidShardList},
		{name: "not a number", input: "2,four", wantErr: ErrInvalidShardList},
		{name: "zero", input: "0", wantErr: ErrInvalidShardSize},
		{name: "negative", input: "-3", wantErr: ErrInvalidShardSize},
		{name: "negative in list", input: "2,-8", wantErr: ErrInvalidShardSize},
		{name: "range without start", input: "-3-5", wantErr: ErrInvalidShardList},
		{name: "range near max int", input: fmt.Sprintf("%d-%d:5", math.MaxInt-7, math.MaxInt), want: []int{math.MaxInt - 7, math.MaxInt - 2}},
		{name: "range ending at max int", input: fmt.Sprintf("%d-%d", math.MaxInt-1, math.MaxInt), want: []int{math.MaxInt - 1, math.MaxInt}},
		{name: "descending range", input: "16-2", wantErr: ErrInvalidShardList},
		{name: "zero step", input: "2-8:0", wantErr: ErrInvalidShardSize},
		{name: "huge range", input: "1-1000000", wantErr: ErrInvalidShardList},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseShardSizes(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseShardSizes(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseShardSizes(%q) unexpected error = %v", tt.input, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseShardSizes(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseShardSizes(%q)[%d] = %d, want %d", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}
