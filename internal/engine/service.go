package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"

	"questboard/internal/calendar"
	"questboard/internal/storage"
)

// Service is one owner's session: the in-memory State plus the gateway it is
// mirrored to. Mutations are serialized; reads see the optimistic state while
// a write is in flight.
type Service struct {
	gw      storage.Gateway
	ownerID string

	cal    calendar.Calendar
	now    func() time.Time
	rng    RandSource
	locale language.Tag
	logger *slog.Logger

	opMu sync.Mutex
	mu   sync.RWMutex

	state  State
	loaded bool
}

type Option func(*Service)

func WithCalendar(cal calendar.Calendar) Option {
	return func(s *Service) { s.cal = cal }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithRand(rng RandSource) Option {
	return func(s *Service) { s.rng = rng }
}

// WithSeed makes loot rolls reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Service) { s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

func WithLocale(tag language.Tag) Option {
	return func(s *Service) { s.locale = tag }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

func NewService(gw storage.Gateway, ownerID string, opts ...Option) *Service {
	s := &Service{
		gw:      gw,
		ownerID: ownerID,
		cal:     calendar.Local(),
		now:     time.Now,
		rng:     globalRand{},
		locale:  language.Und,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("owner", ownerID)
	return s
}

func (s *Service) OwnerID() string             { return s.ownerID }
func (s *Service) Calendar() calendar.Calendar { return s.cal }
func (s *Service) Gateway() storage.Gateway    { return s.gw }
func (s *Service) Now() time.Time              { return s.now() }

// DefaultSettings is the row created for an owner on first load.
func DefaultSettings() storage.Settings {
	return storage.Settings{
		DailyGoalXP: DefaultDailyGoalXP,
		BonusXP:     0,
		Claimed:     map[string]storage.ClaimRecord{},
	}
}

// Load makes sure the owner has a settings row, then replaces the session
// state with what the gateway holds.
func (s *Service) Load(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.gw.UpsertSettings(ctx, s.ownerID, DefaultSettings()); err != nil {
		return &PersistenceError{Op: "load settings", Err: err}
	}
	settings, err := s.gw.GetSettings(ctx, s.ownerID)
	if err != nil {
		return &PersistenceError{Op: "load settings", Err: err}
	}
	if settings.Claimed == nil {
		settings.Claimed = map[string]storage.ClaimRecord{}
	}
	tasks, err := s.gw.ListTasks(ctx, s.ownerID)
	if err != nil {
		return &PersistenceError{Op: "load tasks", Err: err}
	}

	s.setState(State{Tasks: tasks, Settings: settings})
	s.mu.Lock()
	s.loaded = true
	s.mu.Unlock()

	s.logger.Debug("session loaded", "tasks", len(tasks), "claims", len(settings.Claimed))
	return nil
}

// State returns a copy of the current session state.
func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *Service) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *Service) current() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Stats aggregates the current state at the session clock's now.
func (s *Service) Stats() Stats {
	return Aggregate(s.current(), s.cal, s.now())
}

type Dashboard struct {
	Stats  Stats
	Quests []QuestState
	Badges []Badge
}

func (s *Service) Dashboard() Dashboard {
	st := s.current()
	stats := Aggregate(st, s.cal, s.now())
	return Dashboard{
		Stats:  stats,
		Quests: EvaluateQuests(st, stats),
		Badges: NewBadgeChecker(stats).Earned(),
	}
}

// View returns the filtered, sorted task list.
func (s *Service) View(f Filter) []storage.Task {
	return FilteredSortedView(s.current().Tasks, f, s.cal, s.now())
}

// Tags returns the distinct tags in the session's collation order.
func (s *Service) Tags() []string {
	return DistinctTags(s.current().Tasks, s.locale)
}

// FindTask resolves a full task id or a unique id prefix.
func (s *Service) FindTask(idOrPrefix string) (storage.Task, error) {
	needle := strings.TrimSpace(strings.ToLower(idOrPrefix))
	if needle == "" {
		return storage.Task{}, ValidationError{Field: "id", Reason: "id is required"}
	}
	var matches []storage.Task
	for _, t := range s.current().Tasks {
		id := strings.ToLower(t.ID)
		if id == needle {
			return t.Clone(), nil
		}
		if strings.HasPrefix(id, needle) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return storage.Task{}, NotFoundError{TaskID: idOrPrefix}
	case 1:
		return matches[0].Clone(), nil
	default:
		return storage.Task{}, ValidationError{Field: "id", Reason: fmt.Sprintf("prefix %q matches %d tasks", idOrPrefix, len(matches))}
	}
}

// attempt runs one optimistic mutation. mutate builds the next state from a
// private copy of the current one; a mutate error aborts with nothing applied.
// The next state is published before persist runs, and the previous state is
// restored if persist fails. Callers must hold opMu.
func (s *Service) attempt(ctx context.Context, op string, mutate func(st State) (State, error), persist func(ctx context.Context) error) error {
	if !s.isLoaded() {
		return fmt.Errorf("%s: session not loaded", op)
	}
	snapshot := s.current()
	next, err := mutate(snapshot.Clone())
	if err != nil {
		return err
	}

	s.setState(next)
	if err := persist(ctx); err != nil {
		s.setState(snapshot)
		s.logger.Warn("write failed, rolled back", "op", op, "error", err)
		return &PersistenceError{Op: op, Err: err}
	}
	return nil
}

func (s *Service) isLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// refreshSettings re-reads settings after a lost claim race. Failures are
// logged only; the session keeps its rolled back settings.
func (s *Service) refreshSettings(ctx context.Context) {
	settings, err := s.gw.GetSettings(ctx, s.ownerID)
	if err != nil {
		s.logger.Warn("settings refresh failed", "error", err)
		return
	}
	if settings.Claimed == nil {
		settings.Claimed = map[string]storage.ClaimRecord{}
	}
	s.mu.Lock()
	s.state.Settings = settings
	s.mu.Unlock()
}

func isAlreadyClaimed(err error) bool {
	return errors.Is(err, storage.ErrAlreadyClaimed)
}
