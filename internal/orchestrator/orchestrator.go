package orchestrator

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/desertthunder/champr/internal/async"
	"github.com/desertthunder/champr/internal/cache"
	"github.com/desertthunder/champr/internal/models"
	"github.com/desertthunder/champr/internal/state"
)

// DefaultAvatarURL is the champion avatar template; %s is the champion alias.
const DefaultAvatarURL = "https://game.gtimg.cn/images/lol/act/img/champion/%s.png"

// Input carries the user actions gathered since the previous cycle.
type Input struct {
	SelectSource string
	ApplyRune    *models.Rune
	BulkApply    bool
}

// Catalog is the result of the compound perk, champion and style fetch.
// Each collection succeeds or fails on its own.
type Catalog struct {
	Perks     async.Result[[]models.Perk]
	Champions async.Result[[]models.Champion]
	Styles    async.Result[[]models.RuneStyle]
}

// BuildKey identifies one build-list fetch.
type BuildKey struct {
	Source string
	Alias  string
}

type pendingRune struct {
	rune models.Rune
	seq  uint64
}

type applyTask struct {
	seq    uint64
	handle *async.Handle[struct{}]
}

type bulkTask struct {
	source string
	alias  string
	handle *async.Handle[struct{}]
}

// Options configures an [Orchestrator].
type Options struct {
	Client    ClientAPI
	Builds    BuildSource
	Applier   Applier
	Spawner   *async.Spawner
	AvatarURL string
	InboxSize int
	Logger    *log.Logger
}

// Orchestrator owns the session state of the build viewer.
type Orchestrator struct {
	client  ClientAPI
	builds  BuildSource
	applier Applier
	spawner *async.Spawner
	logger  *log.Logger

	avatarURL string
	inbox     chan Command

	authKey string
	hidden  bool

	catalog   cache.Singleton[Catalog]
	perks     []models.Perk
	champions []models.Champion
	styles    []models.RuneStyle

	sources        cache.Singleton[[]models.SourceDescriptor]
	selectedSource string

	tracker   Tracker
	buildList *cache.Keyed[BuildKey, []models.BuildSection]
	icons     *cache.Keyed[string, []byte]

	seq     uint64
	pending *pendingRune
	apply   *applyTask

	bulkRequested bool
	bulkSource    string
	bulk          *bulkTask
}

// New creates an Orchestrator. Client, Builds, Applier and Spawner are required.
func New(opts Options) *Orchestrator {
	if opts.AvatarURL == "" {
		opts.AvatarURL = DefaultAvatarURL
	}
	if opts.InboxSize <= 0 {
		opts.InboxSize = 16
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return &Orchestrator{
		client:    opts.Client,
		builds:    opts.Builds,
		applier:   opts.Applier,
		spawner:   opts.Spawner,
		logger:    opts.Logger.With("component", "orchestrator"),
		avatarURL: opts.AvatarURL,
		inbox:     make(chan Command, opts.InboxSize),
		buildList: cache.NewKeyed[BuildKey, []models.BuildSection](),
		icons:     cache.NewKeyed[string, []byte](),
	}
}

// Post queues cmd for the next cycle. It never blocks; when the inbox is full the command is dropped.
func (o *Orchestrator) Post(cmd Command) bool {
	select {
	case o.inbox <- cmd:
		return true
	default:
		o.logger.Warn("inbox full, dropping command", "command", fmt.Sprintf("%T", cmd))
		return false
	}
}

// Hidden reports whether the window is toggled off.
func (o *Orchestrator) Hidden() bool {
	return o.hidden
}

// SelectedSource returns the selected source value.
func (o *Orchestrator) SelectedSource() string {
	return o.selectedSource
}

// SelectSource switches sources, invalidating the build list and any bulk apply.
// Selecting the current source does nothing.
func (o *Orchestrator) SelectSource(value string) {
	if value == "" || value == o.selectedSource {
		return
	}
	o.logger.Debug("source changed", "from", o.selectedSource, "to", value)
	o.selectedSource = value
	o.buildList.Clear()
	o.bulk = nil
}

// ResetCatalog allows the perk, champion and style catalog to be fetched again.
// A failed source list is retried as well.
func (o *Orchestrator) ResetCatalog() {
	o.logger.Debug("catalog reset")
	o.catalog.Reset()
	if snap := o.sources.Peek(); snap.Err != nil {
		o.sources.Reset()
	}
}

// Cycle runs one reconciliation pass and describes the result.
func (o *Orchestrator) Cycle(snap state.Snapshot, in Input) Frame {
	o.drainInbox()

	if !snap.Auth.Connected() {
		if o.bulkRequested {
			o.logger.Warn("bulk apply ignored, client not connected")
			o.bulkRequested = false
		}
		return Frame{Connected: false, Hidden: o.hidden}
	}

	auth := snap.Auth
	if key := authKey(auth); key != o.authKey {
		if o.authKey != "" {
			o.logger.Info("client connection changed, reloading catalog", "port", auth.Port)
			o.ResetCatalog()
		}
		o.authKey = key
	}

	cid := snap.CurrentChampion()
	frame := Frame{
		Connected:       true,
		Hidden:          o.hidden,
		Port:            auth.Port,
		AlternateRegion: auth.IsAlternateRegion,
	}

	o.cycleCatalog(auth, cid, &frame)
	o.cycleSources(in, &frame)

	if o.tracker.Observe(cid) {
		o.invalidateChampion(cid)
	}

	if o.cycleBuilds(auth, cid, in, &frame) {
		o.cycleApplyRune(auth, &frame)
	}
	o.cycleBulk(auth, cid, in, &frame)

	return frame
}

func (o *Orchestrator) drainInbox() {
	for {
		select {
		case cmd := <-o.inbox:
			switch c := cmd.(type) {
			case ToggleVisibility:
				o.hidden = !o.hidden
			case TriggerBulkApply:
				o.bulkRequested = true
				o.bulkSource = c.Source
			}
		default:
			return
		}
	}
}

func authKey(auth models.AuthContext) string {
	return fmt.Sprintf("%s|%d|%s", auth.BaseURL, auth.PID, auth.Password)
}

func (o *Orchestrator) cycleCatalog(auth models.AuthContext, cid int64, frame *Frame) {
	snap := o.catalog.GetOrStart(func() *async.Handle[Catalog] {
		return async.Go(o.spawner, func(ctx context.Context) (Catalog, error) {
			return o.fetchCatalog(ctx, auth), nil
		})
	})

	frame.Catalog.Pending = snap.Pending
	if snap.Has {
		o.mergeCatalog(snap.Value, snap.Pending, frame)
	}
	frame.Catalog.Perks = len(o.perks)
	frame.Catalog.Champions = len(o.champions)
	frame.Catalog.Styles = len(o.styles)

	frame.Champion.ID = cid
	if cid <= 0 {
		return
	}
	champ, ok := models.FindChampion(o.champions, cid)
	if !ok {
		return
	}

	frame.Champion.Name = champ.Name
	frame.Champion.Alias = champ.Alias
	frame.Champion.Resolved = true
	frame.Champion.Avatar = o.icon(auth, fmt.Sprintf(o.avatarURL, champ.Alias), AvatarIconSize)
}

func (o *Orchestrator) fetchCatalog(ctx context.Context, auth models.AuthContext) Catalog {
	var (
		out Catalog
		g   errgroup.Group
	)

	g.Go(func() error {
		v, err := o.client.ListAllPerks(ctx, auth)
		out.Perks = async.Result[[]models.Perk]{Value: v, Err: err}
		return nil
	})
	g.Go(func() error {
		summoner, err := o.client.CurrentSummoner(ctx, auth)
		if err != nil {
			out.Champions.Err = err
			return nil
		}
		v, err := o.client.ListAvailableChampions(ctx, auth, summoner.SummonerID)
		out.Champions = async.Result[[]models.Champion]{Value: v, Err: err}
		return nil
	})
	g.Go(func() error {
		v, err := o.client.ListAllStyles(ctx, auth)
		out.Styles = async.Result[[]models.RuneStyle]{Value: v, Err: err}
		return nil
	})

	_ = g.Wait()
	return out
}

// mergeCatalog folds each collection in independently. While a reset refetch
// is pending the previous value is shown without its error labels.
func (o *Orchestrator) mergeCatalog(c Catalog, refetching bool, frame *Frame) {
	if c.Perks.OK() {
		o.perks = c.Perks.Value
	} else if !refetching {
		frame.Catalog.Errors = append(frame.Catalog.Errors, fmt.Sprintf("Failed to list perks: %v", c.Perks.Err))
	}

	if c.Champions.OK() {
		o.champions = c.Champions.Value
	} else if !refetching {
		frame.Catalog.Errors = append(frame.Catalog.Errors, fmt.Sprintf("Failed to list owned champions: %v", c.Champions.Err))
	}

	if c.Styles.OK() {
		o.styles = c.Styles.Value
	} else if !refetching {
		frame.Catalog.Errors = append(frame.Catalog.Errors, fmt.Sprintf("Failed to list styles: %v", c.Styles.Err))
	}
}

func (o *Orchestrator) cycleSources(in Input, frame *Frame) {
	snap := o.sources.GetOrStart(func() *async.Handle[[]models.SourceDescriptor] {
		return async.Go(o.spawner, o.builds.FetchSources)
	})

	if snap.Has && o.selectedSource == "" && len(snap.Value) > 0 {
		o.selectedSource = snap.Value[0].Value
	}
	o.SelectSource(in.SelectSource)

	frame.Sources = SourcesView{
		Pending:  snap.Pending,
		Err:      snap.Err,
		Items:    snap.Value,
		Selected: o.selectedSource,
	}
}

// invalidateChampion drops everything derived from the previous champion.
func (o *Orchestrator) invalidateChampion(cid int64) {
	o.logger.Debug("champion changed", "champion_id", cid)
	o.buildList.Clear()
	o.pending = nil
	o.apply = nil
	o.bulk = nil
}

// cycleBuilds reports whether a source and a resolvable champion are selected.
// The pending rune is only applied while that holds.
func (o *Orchestrator) cycleBuilds(auth models.AuthContext, cid int64, in Input, frame *Frame) bool {
	if o.selectedSource == "" || cid <= 0 {
		return false
	}

	champ, ok := models.FindChampion(o.champions, cid)
	if !ok {
		return false
	}

	key := BuildKey{Source: o.selectedSource, Alias: champ.Alias}
	entry := o.buildList.GetOrStart(key, func() *async.Handle[[]models.BuildSection] {
		return async.Go(o.spawner, func(ctx context.Context) ([]models.BuildSection, error) {
			return o.builds.ListBuildsByAlias(ctx, key.Source, key.Alias)
		})
	})

	frame.Builds = BuildsView{
		Visible: true,
		Pending: entry.Pending,
		Err:     entry.Err,
		Source:  key.Source,
		Alias:   key.Alias,
	}

	if in.ApplyRune != nil {
		o.setPending(*in.ApplyRune)
	}

	if !entry.Has {
		return true
	}

	for _, section := range entry.Value {
		sv := SectionView{Section: section, Runes: make([]RuneView, 0, len(section.Runes))}
		for _, r := range section.Runes {
			sv.Runes = append(sv.Runes, RuneView{
				Rune:    r,
				Primary: o.perkIcon(auth, r),
				Sub:     o.styleIcon(auth, r),
				Pending: o.pending != nil && o.pending.rune.Equal(r),
			})
		}
		frame.Builds.Sections = append(frame.Builds.Sections, sv)
	}
	return true
}

func (o *Orchestrator) perkIcon(auth models.AuthContext, r models.Rune) IconView {
	perk, ok := models.FindPerk(o.perks, r.PrimaryPerkID())
	if !ok || perk.IconPath == "" {
		return IconView{Size: PrimaryIconSize}
	}
	return o.icon(auth, perk.IconPath, PrimaryIconSize)
}

func (o *Orchestrator) styleIcon(auth models.AuthContext, r models.Rune) IconView {
	style, ok := models.FindStyle(o.styles, r.SubStyleID)
	if !ok || style.IconPath == "" {
		return IconView{Size: SubIconSize}
	}
	return o.icon(auth, style.IconPath, SubIconSize)
}

func (o *Orchestrator) icon(auth models.AuthContext, path string, size int) IconView {
	entry := o.icons.GetOrStart(path, func() *async.Handle[[]byte] {
		return async.Go(o.spawner, func(ctx context.Context) ([]byte, error) {
			return o.client.FetchIcon(ctx, auth, path)
		})
	})
	if entry.Err != nil && !entry.Pending {
		o.logger.Debug("icon fetch failed", "path", path, "err", entry.Err)
	}
	return IconView{Path: path, Size: size, Loading: entry.Pending, Loaded: entry.Has, Bytes: entry.Value}
}

// setPending replaces the pending rune. Every call starts a new attempt, even for identical data.
func (o *Orchestrator) setPending(r models.Rune) {
	o.seq++
	o.pending = &pendingRune{rune: r, seq: o.seq}
}

func (o *Orchestrator) cycleApplyRune(auth models.AuthContext, frame *Frame) {
	if o.pending == nil {
		return
	}

	target := o.pending
	if o.apply == nil || o.apply.seq != target.seq {
		if o.apply != nil {
			o.logger.Debug("abandoning stale rune apply", "seq", o.apply.seq)
		}
		page := target.rune
		o.apply = &applyTask{
			seq: target.seq,
			handle: async.Go(o.spawner, func(ctx context.Context) (struct{}, error) {
				return struct{}{}, o.applier.ApplyRune(ctx, auth, page)
			}),
		}
	}

	r := target.rune
	frame.ApplyRune.Target = &r

	res, done := o.apply.handle.Poll()
	switch {
	case !done:
		frame.ApplyRune.Pending = true
	case res.Err != nil:
		frame.ApplyRune.Err = res.Err
	default:
		o.logger.Info("rune page applied", "name", r.PageName())
		frame.ApplyRune.Applied = r.PageName()
		o.pending = nil
		o.apply = nil
	}
}

func (o *Orchestrator) cycleBulk(auth models.AuthContext, cid int64, in Input, frame *Frame) {
	if o.bulk != nil {
		if res, done := o.bulk.handle.Poll(); done {
			if res.Err != nil {
				o.logger.Error("bulk apply failed", "source", o.bulk.source, "alias", o.bulk.alias, "err", res.Err)
			} else {
				o.logger.Info("bulk apply finished", "source", o.bulk.source, "alias", o.bulk.alias)
			}
			o.bulk = nil
		}
	}

	if in.BulkApply {
		o.bulkRequested = true
	}

	if o.bulkRequested {
		o.bulkRequested = false
		source := o.bulkSource
		o.bulkSource = ""
		o.startBulk(auth, cid, source)
	}

	if o.bulk != nil {
		frame.Bulk = BulkView{Pending: true, Source: o.bulk.source}
	}
}

func (o *Orchestrator) startBulk(auth models.AuthContext, cid int64, source string) {
	if o.bulk != nil {
		o.logger.Debug("bulk apply already running")
		return
	}
	if source == "" {
		source = o.selectedSource
	}
	if source == "" {
		o.logger.Warn("bulk apply ignored, no source selected")
		return
	}

	champ, ok := models.FindChampion(o.champions, cid)
	if cid <= 0 || !ok {
		o.logger.Warn("bulk apply ignored, no champion selected", "champion_id", cid)
		return
	}

	req := models.BulkApplyRequest{
		Source:            source,
		InstallDir:        auth.InstallDir,
		IsAlternateRegion: auth.IsAlternateRegion,
	}
	alias := champ.Alias

	o.logger.Info("bulk apply started", "source", source, "alias", alias)
	o.bulk = &bulkTask{
		source: source,
		alias:  alias,
		handle: async.Go(o.spawner, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, o.applier.ApplyBuildsFromSource(ctx, req, alias)
		}),
	}
}
