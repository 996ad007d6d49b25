package ui

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/champr/internal/async"
	"github.com/desertthunder/champr/internal/models"
	"github.com/desertthunder/champr/internal/orchestrator"
	"github.com/desertthunder/champr/internal/state"
)

var (
	testAuth = models.AuthContext{BaseURL: "https://127.0.0.1:51234", Password: "pw", Port: 51234, PID: 42, InstallDir: "/games/client"}

	runeMid     = models.Rune{Alias: "Ahri", Name: "Ahri", Position: "mid", PickCount: 900, WinRate: "51.0", PrimaryStyleID: 8100, SubStyleID: 8200, SelectedPerkIDs: []int64{8112}}
	runeSupport = models.Rune{Alias: "Ahri", Name: "Ahri", Position: "support", PickCount: 100, WinRate: "49.5", PrimaryStyleID: 8100, SubStyleID: 8200, SelectedPerkIDs: []int64{8112}}
)

type stubClient struct{}

func (stubClient) ListAllPerks(context.Context, models.AuthContext) ([]models.Perk, error) {
	return []models.Perk{{ID: 8112, Name: "Electrocute", IconPath: "/perk.png"}}, nil
}

func (stubClient) CurrentSummoner(context.Context, models.AuthContext) (*models.Summoner, error) {
	return &models.Summoner{SummonerID: 7}, nil
}

func (stubClient) ListAvailableChampions(context.Context, models.AuthContext, int64) ([]models.Champion, error) {
	return []models.Champion{{ID: 103, Name: "Ahri", Alias: "Ahri"}}, nil
}

func (stubClient) ListAllStyles(context.Context, models.AuthContext) ([]models.RuneStyle, error) {
	return []models.RuneStyle{{ID: 8200, Name: "Sorcery", IconPath: "/sorcery.png"}}, nil
}

func (stubClient) FetchIcon(context.Context, models.AuthContext, string) ([]byte, error) {
	return make([]byte, 2048), nil
}

type stubBuilds struct{}

func (stubBuilds) FetchSources(context.Context) ([]models.SourceDescriptor, error) {
	return []models.SourceDescriptor{
		{Label: "OP.GG", Value: "op.gg"},
		{Label: "U.GG", Value: "u.gg"},
		{Label: "OP.GG ARAM", Value: "op.gg-aram", IsARAM: true},
	}, nil
}

func (stubBuilds) ListBuildsByAlias(_ context.Context, source, alias string) ([]models.BuildSection, error) {
	return []models.BuildSection{{Alias: alias, Name: alias, Position: "mid", Runes: []models.Rune{runeMid, runeSupport}}}, nil
}

type recordingApplier struct {
	mu    sync.Mutex
	runes []models.Rune
	bulk  []models.BulkApplyRequest
}

func (a *recordingApplier) ApplyRune(_ context.Context, _ models.AuthContext, page models.Rune) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.runes = append(a.runes, page)
	return nil
}

func (a *recordingApplier) ApplyBuildsFromSource(_ context.Context, req models.BulkApplyRequest, _ string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.bulk = append(a.bulk, req)
	return nil
}

type harness struct {
	model   *Model
	store   *state.Store
	spawner *async.Spawner
	applier *recordingApplier
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	logger := log.New(io.Discard)
	spawner := async.NewSpawner(ctx, async.SpawnerOpts{Logger: logger})
	t.Cleanup(func() {
		cancel()
		spawner.Wait()
	})

	store := state.NewStore()
	applier := &recordingApplier{}
	orch := orchestrator.New(orchestrator.Options{
		Client:  stubClient{},
		Builds:  stubBuilds{},
		Applier: applier,
		Spawner: spawner,
		Logger:  logger,
	})

	return &harness{
		model:   NewModel(Options{Orchestrator: orch, Store: store, Logger: logger}),
		store:   store,
		spawner: spawner,
		applier: applier,
	}
}

// settle wakes the model until every spawned task has resolved into the frame.
func (h *harness) settle() {
	for range 6 {
		h.model.Update(Wake())
		h.spawner.Wait()
	}
	h.model.Update(Wake())
}

func (h *harness) press(keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		h.model.Update(msg)
	}
}

func TestModel(t *testing.T) {
	t.Run("Waits for the client", func(t *testing.T) {
		h := newHarness(t)
		h.model.Init()

		if h.model.Frame().Connected {
			t.Fatal("expected disconnected frame")
		}
		if view := h.model.View(); !strings.Contains(view, "Waiting for the game client") {
			t.Errorf("unexpected view:\n%s", view)
		}
	})

	t.Run("Renders builds for the current champion", func(t *testing.T) {
		h := newHarness(t)
		h.store.SetAuth(testAuth)
		h.store.SetChampion(103)
		h.settle()

		view := h.model.View()
		for _, want := range []string{"Connected on port 51234", "Ahri", "Source: op.gg SR", "Ahri mid", "Ahri support", "[2.0 kB]"} {
			if !strings.Contains(view, want) {
				t.Errorf("view missing %q:\n%s", want, view)
			}
		}
	})

	t.Run("Enter applies the highlighted rune", func(t *testing.T) {
		h := newHarness(t)
		h.store.SetAuth(testAuth)
		h.store.SetChampion(103)
		h.settle()

		h.press("down", "enter")
		h.settle()

		h.applier.mu.Lock()
		defer h.applier.mu.Unlock()
		if len(h.applier.runes) != 1 || !h.applier.runes[0].Equal(runeSupport) {
			t.Fatalf("expected support rune applied once, got %+v", h.applier.runes)
		}
		if !strings.Contains(h.model.notice, "Ahri support") {
			t.Errorf("expected applied notice, got %q", h.model.notice)
		}
	})

	t.Run("Source picker filters and selects", func(t *testing.T) {
		h := newHarness(t)
		h.store.SetAuth(testAuth)
		h.settle()

		h.press("s", "a", "r", "m")
		if !h.model.picker.open {
			t.Fatal("picker should be open")
		}
		if view := h.model.View(); !strings.Contains(view, "op.gg-aram") || strings.Contains(view, "u.gg") {
			t.Errorf("expected filtered picker, got:\n%s", view)
		}

		h.press("enter")
		if h.model.picker.open {
			t.Error("picker should close after selecting")
		}
		if got := h.model.Frame().Sources.Selected; got != "op.gg-aram" {
			t.Errorf("expected op.gg-aram selected, got %q", got)
		}
	})

	t.Run("Escape closes the picker without changing source", func(t *testing.T) {
		h := newHarness(t)
		h.store.SetAuth(testAuth)
		h.settle()

		h.press("s", "u", "backspace", "esc")
		if h.model.picker.open {
			t.Error("picker should be closed")
		}
		if got := h.model.Frame().Sources.Selected; got != "op.gg" {
			t.Errorf("expected op.gg to stay selected, got %q", got)
		}
	})

	t.Run("Bulk apply uses the selected source", func(t *testing.T) {
		h := newHarness(t)
		h.store.SetAuth(testAuth)
		h.store.SetChampion(103)
		h.settle()

		h.press("a")
		h.settle()

		h.applier.mu.Lock()
		defer h.applier.mu.Unlock()
		if len(h.applier.bulk) != 1 || h.applier.bulk[0].Source != "op.gg" || h.applier.bulk[0].InstallDir != testAuth.InstallDir {
			t.Errorf("unexpected bulk calls %+v", h.applier.bulk)
		}
	})

	t.Run("Toggle hides and shows", func(t *testing.T) {
		h := newHarness(t)
		h.store.SetAuth(testAuth)
		h.settle()

		h.press("t")
		if !h.model.Frame().Hidden {
			t.Fatal("expected hidden frame")
		}
		if view := h.model.View(); !strings.Contains(view, "hidden") {
			t.Errorf("unexpected hidden view %q", view)
		}

		h.press("s")
		if h.model.picker.open {
			t.Error("keys other than toggle and quit are ignored while hidden")
		}

		h.press("t")
		if h.model.Frame().Hidden {
			t.Error("expected visible frame")
		}
	})

	t.Run("Quit", func(t *testing.T) {
		h := newHarness(t)
		_, cmd := h.model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}

func TestSourcePicker(t *testing.T) {
	items := []models.SourceDescriptor{
		{Label: "OP.GG", Value: "op.gg"},
		{Label: "U.GG", Value: "u.gg"},
		{Label: "OP.GG ARAM", Value: "op.gg-aram", IsARAM: true},
	}

	tc := []struct {
		query string
		want  []string
	}{
		{query: "", want: []string{"op.gg", "u.gg", "op.gg-aram"}},
		{query: "aram", want: []string{"op.gg-aram"}},
		{query: "UGG", want: []string{"u.gg"}},
		{query: "zzz", want: nil},
	}

	for _, tt := range tc {
		t.Run("query "+tt.query, func(t *testing.T) {
			p := sourcePicker{query: tt.query}
			got := p.matches(items)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %+v", tt.want, got)
			}
			for i, w := range tt.want {
				if got[i].Value != w {
					t.Errorf("match %d: expected %s, got %s", i, w, got[i].Value)
				}
			}
		})
	}

	t.Run("cursor wraps", func(t *testing.T) {
		p := sourcePicker{}
		p.move(-1, 3)
		if p.cursor != 2 {
			t.Errorf("expected 2, got %d", p.cursor)
		}
		p.move(1, 3)
		if p.cursor != 0 {
			t.Errorf("expected 0, got %d", p.cursor)
		}
	})
}
