package orchestrator

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/champr/internal/async"
	"github.com/desertthunder/champr/internal/models"
	"github.com/desertthunder/champr/internal/state"
)

var (
	testAuth = models.AuthContext{BaseURL: "https://127.0.0.1:51234", Password: "pw", Port: 51234, PID: 42, InstallDir: "/games/client"}

	ahri  = models.Champion{ID: 103, Name: "Ahri", Alias: "Ahri"}
	annie = models.Champion{ID: 1, Name: "Annie", Alias: "Annie"}

	electrocute = models.Perk{ID: 8112, Name: "Electrocute", IconPath: "/lol-game-data/assets/v1/perk-images/Styles/Domination/Electrocute/Electrocute.png"}
	domination  = models.RuneStyle{ID: 8100, Name: "Domination", IconPath: "/lol-game-data/assets/v1/perk-images/Styles/7200_Domination.png"}
	sorcery     = models.RuneStyle{ID: 8200, Name: "Sorcery", IconPath: "/lol-game-data/assets/v1/perk-images/Styles/7202_Sorcery.png"}

	runeMid     = models.Rune{Alias: "Ahri", Name: "Ahri", Position: "mid", PrimaryStyleID: 8100, SubStyleID: 8200, SelectedPerkIDs: []int64{8112, 8139, 8138, 8135, 8210, 8237}}
	runeSupport = models.Rune{Alias: "Ahri", Name: "Ahri", Position: "support", PrimaryStyleID: 8100, SubStyleID: 8200, SelectedPerkIDs: []int64{8112, 8126, 8138, 8105, 8226, 8210}}

	errBoom = errors.New("boom")
)

func ahriSections() []models.BuildSection {
	return []models.BuildSection{{
		Alias:    "Ahri",
		Name:     "Ahri",
		Position: "mid",
		Runes:    []models.Rune{runeMid, runeSupport},
	}}
}

type fakeClient struct {
	mu sync.Mutex

	perks        []models.Perk
	champions    []models.Champion
	styles       []models.RuneStyle
	perksErr     error
	summonerErr  error
	championsErr error
	stylesErr    error

	emptyIcons map[string]bool

	calls      int
	perksCalls int
	iconCalls  map[string]int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		perks:     []models.Perk{electrocute},
		champions: []models.Champion{ahri, annie},
		styles:    []models.RuneStyle{domination, sorcery},
		iconCalls: make(map[string]int),
	}
}

func (c *fakeClient) ListAllPerks(ctx context.Context, auth models.AuthContext) ([]models.Perk, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.perksCalls++
	return c.perks, c.perksErr
}

func (c *fakeClient) CurrentSummoner(ctx context.Context, auth models.AuthContext) (*models.Summoner, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.summonerErr != nil {
		return nil, c.summonerErr
	}
	return &models.Summoner{SummonerID: 7}, nil
}

func (c *fakeClient) ListAvailableChampions(ctx context.Context, auth models.AuthContext, summonerID int64) ([]models.Champion, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.champions, c.championsErr
}

func (c *fakeClient) ListAllStyles(ctx context.Context, auth models.AuthContext) ([]models.RuneStyle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.styles, c.stylesErr
}

func (c *fakeClient) FetchIcon(ctx context.Context, auth models.AuthContext, path string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.iconCalls[path]++
	if c.emptyIcons[path] {
		return []byte{}, nil
	}
	return []byte("img:" + path), nil
}

func (c *fakeClient) iconCount(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.iconCalls[path]
}

func (c *fakeClient) totalCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func (c *fakeClient) perkCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.perksCalls
}

type fakeBuilds struct {
	mu sync.Mutex

	sources      []models.SourceDescriptor
	sourcesErr   error
	sourcesCalls int

	sections   map[BuildKey][]models.BuildSection
	failNext   int
	buildCalls map[BuildKey]int
	gate       chan struct{}
}

func newFakeBuilds() *fakeBuilds {
	return &fakeBuilds{
		sources: []models.SourceDescriptor{
			{Label: "OP.GG", Value: "op.gg"},
			{Label: "U.GG", Value: "u.gg"},
		},
		sections: map[BuildKey][]models.BuildSection{
			{Source: "op.gg", Alias: "Ahri"}:  ahriSections(),
			{Source: "u.gg", Alias: "Ahri"}:   ahriSections(),
			{Source: "op.gg", Alias: "Annie"}: {{Alias: "Annie", Name: "Annie", Position: "mid"}},
		},
		buildCalls: make(map[BuildKey]int),
	}
}

func (b *fakeBuilds) FetchSources(ctx context.Context) ([]models.SourceDescriptor, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sourcesCalls++
	return b.sources, b.sourcesErr
}

func (b *fakeBuilds) ListBuildsByAlias(ctx context.Context, source, alias string) ([]models.BuildSection, error) {
	key := BuildKey{Source: source, Alias: alias}

	b.mu.Lock()
	b.buildCalls[key]++
	gate := b.gate
	fail := b.failNext > 0
	if fail {
		b.failNext--
	}
	b.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if fail {
		return nil, errBoom
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sections[key], nil
}

func (b *fakeBuilds) calls(source, alias string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buildCalls[BuildKey{Source: source, Alias: alias}]
}

func (b *fakeBuilds) totalBuildCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for _, n := range b.buildCalls {
		total += n
	}
	return total
}

type bulkCall struct {
	req   models.BulkApplyRequest
	alias string
}

type fakeApplier struct {
	mu sync.Mutex

	gates    map[string]chan struct{}
	errs     map[string]error
	calls    []models.Rune
	applied  []models.Rune
	bulk     []bulkCall
	bulkGate chan struct{}
	bulkErr  error
}

func newFakeApplier() *fakeApplier {
	return &fakeApplier{gates: make(map[string]chan struct{}), errs: make(map[string]error)}
}

func (a *fakeApplier) ApplyRune(ctx context.Context, auth models.AuthContext, page models.Rune) error {
	a.mu.Lock()
	a.calls = append(a.calls, page)
	gate := a.gates[page.PageName()]
	err := a.errs[page.PageName()]
	a.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.applied = append(a.applied, page)
	a.mu.Unlock()
	return nil
}

func (a *fakeApplier) ApplyBuildsFromSource(ctx context.Context, req models.BulkApplyRequest, alias string) error {
	a.mu.Lock()
	a.bulk = append(a.bulk, bulkCall{req: req, alias: alias})
	gate := a.bulkGate
	err := a.bulkErr
	a.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return err
}

func (a *fakeApplier) runeCalls() []models.Rune {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.Rune(nil), a.calls...)
}

func (a *fakeApplier) appliedRunes() []models.Rune {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.Rune(nil), a.applied...)
}

func (a *fakeApplier) bulkCalls() []bulkCall {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]bulkCall(nil), a.bulk...)
}

type harness struct {
	t        *testing.T
	o        *Orchestrator
	spawner  *async.Spawner
	client   *fakeClient
	builds   *fakeBuilds
	applier  *fakeApplier
	store    *state.Store
	wakes    chan struct{}
	releases []func()
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		t:       t,
		client:  newFakeClient(),
		builds:  newFakeBuilds(),
		applier: newFakeApplier(),
		store:   state.NewStore(),
		wakes:   make(chan struct{}, 1024),
	}
	logger := log.New(io.Discard)
	h.spawner = async.NewSpawner(context.Background(), async.SpawnerOpts{
		MaxConcurrent: 64,
		Wake:          func() { h.wakes <- struct{}{} },
		Logger:        logger,
	})
	h.o = New(Options{
		Client:  h.client,
		Builds:  h.builds,
		Applier: h.applier,
		Spawner: h.spawner,
		Logger:  logger,
	})
	h.store.SetAuth(testAuth)

	t.Cleanup(func() {
		for _, release := range h.releases {
			release()
		}
		h.spawner.Wait()
	})
	return h
}

// gate returns a channel to hand to a fake and the func that opens it.
func (h *harness) gate() (chan struct{}, func()) {
	ch := make(chan struct{})
	var once sync.Once
	release := func() { once.Do(func() { close(ch) }) }
	h.releases = append(h.releases, release)
	return ch, release
}

func (h *harness) cycle(in Input) Frame {
	return h.o.Cycle(h.store.Snapshot(), in)
}

// settle runs in, then keeps cycling until every started operation has finished and been observed.
func (h *harness) settle(in Input) Frame {
	f := h.cycle(in)
	for range 4 {
		h.spawner.Wait()
		h.drainWakes()
		f = h.cycle(Input{})
	}
	return f
}

func (h *harness) drainWakes() {
	for {
		select {
		case <-h.wakes:
		default:
			return
		}
	}
}

func (h *harness) waitWake() {
	h.t.Helper()
	select {
	case <-h.wakes:
	case <-time.After(2 * time.Second):
		h.t.Fatal("timed out waiting for an operation to finish")
	}
}

// eventually polls cond until it holds or a deadline passes.
func (h *harness) eventually(cond func() bool) {
	h.t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			h.t.Fatal("condition not met before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}
