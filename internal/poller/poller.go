package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/amishk599/jobwatch/internal/diff"
	"github.com/amishk599/jobwatch/internal/model"
)

// State is the step a cycle is currently in.
type State int32

const (
	Idle State = iota
	Loading
	Fetching
	Diffing
	Dispatching
	Persisting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Fetching:
		return "fetching"
	case Diffing:
		return "diffing"
	case Dispatching:
		return "dispatching"
	case Persisting:
		return "persisting"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Dispatcher sends new postings and returns the ids that were delivered.
type Dispatcher interface {
	DispatchAll(ctx context.Context, postings []model.Posting) model.SeenSet
}

// Report summarises one cycle.
type Report struct {
	CycleID  string
	Fetched  int
	Filtered int // dropped by the posting filter
	New      int
	Sent     int
	Failed   int
	Seeded   bool // first run: ids recorded without notifying
	Saved    bool // durable state was written
}

// Options holds optional poller behaviour.
type Options struct {
	// Filter drops postings before diffing. Nil keeps everything.
	Filter model.PostingFilter
	// SeedOnFirstRun records every fetched posting without notifying when the
	// seen set is empty, so a fresh install does not flood the channel.
	SeedOnFirstRun bool
}

// Poller owns the full cycle for one search:
// load seen → fetch → diff → dispatch → persist.
type Poller struct {
	fetcher    model.PostingFetcher
	store      model.SeenStore
	dispatcher Dispatcher
	opts       Options
	logger     *slog.Logger

	running sync.Mutex
	state   atomic.Int32
}

// NewPoller creates a poller wired with all its dependencies.
func NewPoller(
	fetcher model.PostingFetcher,
	store model.SeenStore,
	dispatcher Dispatcher,
	opts Options,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		fetcher:    fetcher,
		store:      store,
		dispatcher: dispatcher,
		opts:       opts,
		logger:     logger,
	}
}

// State returns the step the current cycle is in, or Idle.
func (p *Poller) State() State {
	return State(p.state.Load())
}

func (p *Poller) enter(s State) {
	p.state.Store(int32(s))
}

// Poll runs one cycle. Only ids whose notification was delivered are added to
// the durable seen set, so a failed notification is retried next cycle.
// If another cycle is already running, Poll returns ErrCycleInProgress
// without doing anything.
func (p *Poller) Poll(ctx context.Context) (Report, error) {
	if !p.running.TryLock() {
		return Report{}, model.ErrCycleInProgress
	}
	defer p.running.Unlock()
	defer p.enter(Idle)

	report := Report{CycleID: uuid.NewString()}
	logger := p.logger.With("cycle_id", report.CycleID)

	seen, fetched, corrupt, err := p.gather(ctx, &report, logger)
	if err != nil {
		return report, err
	}

	// A corrupt store is not a first run.
	if p.opts.SeedOnFirstRun && !corrupt && seen.Len() == 0 && len(fetched) > 0 {
		if err := p.seed(seen, fetched, &report); err != nil {
			return report, err
		}
		logger.Info("first run, recorded current postings without notifying", "seeded", len(fetched))
		return report, nil
	}

	p.enter(Diffing)
	fresh := diff.New(fetched, seen)
	report.New = len(fresh)

	if len(fresh) > 0 {
		p.enter(Dispatching)
		sent := p.dispatcher.DispatchAll(ctx, fresh)
		report.Sent = sent.Len()
		report.Failed = len(fresh) - sent.Len()

		if sent.Len() > 0 {
			p.enter(Persisting)
			if err := p.store.Save(seen.Union(sent)); err != nil {
				return report, fmt.Errorf("saving seen set: %w", err)
			}
			report.Saved = true
		}
	}

	logger.Info("cycle complete",
		"fetched", report.Fetched,
		"filtered", report.Filtered,
		"new", report.New,
		"sent", report.Sent,
		"failed", report.Failed,
	)

	return report, nil
}

// Seed runs a cycle that records every fetched posting as seen without
// notifying. It shares the in-flight guard with Poll.
func (p *Poller) Seed(ctx context.Context) (Report, error) {
	if !p.running.TryLock() {
		return Report{}, model.ErrCycleInProgress
	}
	defer p.running.Unlock()
	defer p.enter(Idle)

	report := Report{CycleID: uuid.NewString()}
	logger := p.logger.With("cycle_id", report.CycleID)

	seen, fetched, _, err := p.gather(ctx, &report, logger)
	if err != nil {
		return report, err
	}
	if len(fetched) == 0 {
		logger.Info("nothing to seed")
		return report, nil
	}
	if err := p.seed(seen, fetched, &report); err != nil {
		return report, err
	}
	logger.Info("seeded seen set", "fetched", report.Fetched, "total", seen.Len())
	return report, nil
}

// gather loads the seen set and fetches the current, filtered postings.
// corrupt reports that the stored set was unreadable and replaced by an empty one.
func (p *Poller) gather(ctx context.Context, report *Report, logger *slog.Logger) (seen model.SeenSet, fetched []model.Posting, corrupt bool, err error) {
	p.enter(Loading)
	seen, err = p.store.Load()
	if errors.Is(err, model.ErrStoreCorrupt) {
		logger.Warn("seen store unreadable, starting from an empty set", "error", err)
		seen, err, corrupt = model.NewSeenSet(), nil, true
	}
	if err != nil {
		return nil, nil, false, fmt.Errorf("loading seen set: %w", err)
	}

	p.enter(Fetching)
	fetched, err = p.fetcher.FetchAll(ctx)
	if err != nil {
		return nil, nil, false, fmt.Errorf("fetching postings: %w", err)
	}
	report.Fetched = len(fetched)

	if p.opts.Filter != nil {
		kept := fetched[:0:0]
		for _, posting := range fetched {
			if p.opts.Filter.Match(posting) {
				kept = append(kept, posting)
			}
		}
		report.Filtered = len(fetched) - len(kept)
		fetched = kept
	}
	return seen, fetched, corrupt, nil
}

func (p *Poller) seed(seen model.SeenSet, fetched []model.Posting, report *Report) error {
	p.enter(Persisting)
	for _, posting := range fetched {
		seen.Add(posting.ID)
	}
	if err := p.store.Save(seen); err != nil {
		return fmt.Errorf("seeding seen set: %w", err)
	}
	report.Seeded, report.Saved = true, true
	return nil
}
