package orchestrator

import "testing"

func TestIconViewState(t *testing.T) {
	tc := []struct {
		name string
		view IconView
		want IconState
	}{
		{name: "no path", view: IconView{}, want: IconNone},
		{name: "loading", view: IconView{Path: "/a.png", Loading: true}, want: IconSpinner},
		{name: "loaded", view: IconView{Path: "/a.png", Loaded: true, Bytes: []byte("png")}, want: IconImage},
		{name: "loaded with no bytes", view: IconView{Path: "/a.png", Loaded: true}, want: IconImage},
		{name: "failed", view: IconView{Path: "/a.png"}, want: IconNone},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.view.State(); got != tt.want {
				t.Errorf("State() = %v, want %v", got, tt.want)
			}
		})
	}
}
