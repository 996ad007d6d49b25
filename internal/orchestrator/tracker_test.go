package orchestrator

import "testing"

func TestTracker(t *testing.T) {
	tc := []struct {
		name string
		ids  []int64
		want []bool
	}{
		{name: "first zero is not a change", ids: []int64{0}, want: []bool{false}},
		{name: "first champion is a change", ids: []int64{103}, want: []bool{true}},
		{name: "steady", ids: []int64{103, 103, 103}, want: []bool{true, false, false}},
		{name: "switch and clear", ids: []int64{103, 1, 0, 0}, want: []bool{true, true, true, false}},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			var tr Tracker
			for i, id := range tt.ids {
				if got := tr.Observe(id); got != tt.want[i] {
					t.Errorf("Observe(%d) at step %d = %v, want %v", id, i, got, tt.want[i])
				}
			}
			if tr.Current() != tt.ids[len(tt.ids)-1] {
				t.Errorf("Current() = %d, want %d", tr.Current(), tt.ids[len(tt.ids)-1])
			}
		})
	}
}
