// ABOUTME: Tests for fuzzy filtering
// ABOUTME: Verifies ranking, misses and the blank-pattern passthrough

package fuzzy

import "testing"

type labels []string

func (l labels) String(i int) string { return l[i] }
func (l labels) Len() int            { return len(l) }

func TestFilter(t *testing.T) {
	t.Parallel()

	items := []string{"Clock", "Calendar (Small)", "Calendar (Large)", "Stock Ticker"}

	tests := []struct {
		name    string
		pattern string
		want    []int
	}{
		{name: "blank keeps order", pattern: "  ", want: []int{0, 1, 2, 3}},
		{name: "no match", pattern: "zzz", want: []int{}},
		{name: "single", pattern: "stock", want: []int{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Filter(tt.pattern, items)
			if len(got) != len(tt.want) {
				t.Fatalf("Filter(%q) = %d matches, want %d", tt.pattern, len(got), len(tt.want))
			}
			for i, m := range got {
				if m.Index != tt.want[i] {
					t.Errorf("match %d index = %d, want %d", i, m.Index, tt.want[i])
				}
			}
		})
	}
}

func TestFilter_RanksCalendars(t *testing.T) {
	t.Parallel()

	got := Filter("cal", []string{"Clock", "Calendar (Small)", "Email"})
	if len(got) == 0 || got[0].Str != "Calendar (Small)" {
		t.Errorf("Filter(cal) = %+v; want the calendar first", got)
	}
}

func TestFilterFrom(t *testing.T) {
	t.Parallel()

	src := labels{"Notes", "Drive"}
	if got := FilterFrom("", src); len(got) != 2 || got[1].Str != "Drive" {
		t.Errorf("FilterFrom blank = %+v", got)
	}
	if got := FilterFrom("drv", src); len(got) != 1 || got[0].Index != 1 {
		t.Errorf("FilterFrom(drv) = %+v", got)
	}
}
