package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/rajaryan190/world-map/internal/domain/entities"
	"github.com/rajaryan190/world-map/internal/geo"
	"github.com/rajaryan190/world-map/internal/quiz"
	"github.com/rajaryan190/world-map/internal/scheduler"
	"github.com/rajaryan190/world-map/internal/storage"
)

var (
	ErrSessionNotFound  = errors.New("game session not found")
	ErrNoCountryAtPoint = errors.New("no country at this point")
	ErrUnknownCountry   = errors.New("unknown country")
)

const recordTimeout = 5 * time.Second

// Player identifies who a session belongs to.
type Player struct {
	ID   string
	Name string
}

// session is one player's live game.
type session struct {
	player  Player
	engine  *quiz.Engine
	options *OptionGenerator
	matcher *CountryMatcher
	stop    func()

	mu           sync.Mutex
	lastActive   time.Time
	recordedGens map[uint64]struct{}
	subs         map[int]func(entities.Snapshot)
	nextSub      int
}

func (s *session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = now
}

func (s *session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// markRecorded reports true the first time it sees a generation.
func (s *session) markRecorded(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recordedGens[gen]; ok {
		return false
	}
	s.recordedGens[gen] = struct{}{}
	return true
}

func (s *session) subscribe(fn func(entities.Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSub++
	id := s.nextSub
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *session) publish(snap entities.Snapshot) {
	s.mu.Lock()
	subs := make([]func(entities.Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (s *session) close() {
	s.stop()
	s.engine.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.subs)
}

// GameService owns the live quiz sessions of all players.
type GameService struct {
	landmarks LandmarkRepository
	atlas     *geo.Atlas
	rules     quiz.Config
	recorder  ResultRecorder
	sessions  *storage.SessionStorage[*session]
	logger    *zap.Logger

	newScheduler func() scheduler.Scheduler
	newRand      func() *rand.Rand
	now          func() time.Time
	idleTTL      time.Duration

	writes sync.WaitGroup
}

type Option func(*GameService)

// WithScheduler sets the factory for per-session schedulers.
func WithScheduler(fn func() scheduler.Scheduler) Option {
	return func(s *GameService) { s.newScheduler = fn }
}

// WithSeed makes every new session shuffle with the same seed. Zero keeps clock seeding.
func WithSeed(seed int64) Option {
	return func(s *GameService) {
		if seed != 0 {
			s.newRand = func() *rand.Rand { return rand.New(rand.NewSource(seed)) }
		}
	}
}

// WithClock overrides the time source used for idle tracking and results.
func WithClock(now func() time.Time) Option {
	return func(s *GameService) { s.now = now }
}

// WithIdleTTL sets how long an untouched session survives a sweep.
func WithIdleTTL(d time.Duration) Option {
	return func(s *GameService) { s.idleTTL = d }
}

// NewGameService creates a new GameService. recorder and atlas may be nil.
func NewGameService(
	landmarks LandmarkRepository,
	atlas *geo.Atlas,
	rules quiz.Config,
	recorder ResultRecorder,
	logger *zap.Logger,
	opts ...Option,
) (*GameService, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("game rules: %w", err)
	}

	s := &GameService{
		landmarks:    landmarks,
		atlas:        atlas,
		rules:        rules,
		recorder:     recorder,
		sessions:     storage.NewSessionStorage[*session](),
		logger:       logger,
		newScheduler: func() scheduler.Scheduler { return scheduler.NewTimers() },
		newRand:      func() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) },
		now:          time.Now,
		idleTTL:      30 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Start begins a fresh game for the player, replacing any game in progress.
func (s *GameService) Start(ctx context.Context, player Player) (entities.Snapshot, error) {
	landmarks, err := s.landmarks.GetAll(ctx)
	if err != nil {
		return entities.Snapshot{}, fmt.Errorf("load landmarks: %w", err)
	}

	engine, err := quiz.NewEngine(landmarks, s.rules, s.newRand(), s.newScheduler())
	if err != nil {
		return entities.Snapshot{}, fmt.Errorf("new engine: %w", err)
	}

	sess := &session{
		player:       player,
		engine:       engine,
		options:      NewOptionGenerator(landmarks, DefaultOptionCount),
		matcher:      NewCountryMatcher(s.atlas.Names(), countriesOf(landmarks)),
		lastActive:   s.now(),
		recordedGens: make(map[uint64]struct{}),
		subs:         make(map[int]func(entities.Snapshot)),
	}
	sess.stop = engine.OnChange(func(snap entities.Snapshot) {
		s.handleChange(sess, snap)
	})

	if prev, replaced := s.sessions.Store(player.ID, sess); replaced {
		prev.close()
	}

	s.logger.Info("game started",
		zap.String("player_id", player.ID),
		zap.Int("landmarks", len(landmarks)),
	)

	return engine.Snapshot(), nil
}

// Guess submits a country name. Without a clicked point the country's centroid is
// used for the distance hint.
func (s *GameService) Guess(_ context.Context, playerID, country string, clicked *orb.Point) (entities.Snapshot, error) {
	sess, err := s.get(playerID)
	if err != nil {
		return entities.Snapshot{}, err
	}

	name := strings.TrimSpace(country)
	if canonical, ok := s.atlas.Lookup(name); ok {
		name = canonical
	}
	if clicked == nil {
		if c, ok := s.atlas.Centroid(name); ok {
			clicked = &c
		}
	}

	sess.engine.SubmitGuess(name, clicked)
	return sess.engine.Snapshot(), nil
}

// GuessText submits free text typed by the player. The text is resolved to the
// closest known country first; ErrUnknownCountry is returned when nothing is close.
func (s *GameService) GuessText(ctx context.Context, playerID, text string) (entities.Snapshot, error) {
	sess, err := s.get(playerID)
	if err != nil {
		return entities.Snapshot{}, err
	}

	country, ok := sess.matcher.Match(text)
	if !ok {
		return sess.engine.Snapshot(), ErrUnknownCountry
	}
	return s.Guess(ctx, playerID, country, nil)
}

// GuessAt hit-tests a map click. Clicks outside every country are ignored and
// reported with ErrNoCountryAtPoint.
func (s *GameService) GuessAt(_ context.Context, playerID string, p orb.Point) (entities.Snapshot, error) {
	sess, err := s.get(playerID)
	if err != nil {
		return entities.Snapshot{}, err
	}

	name, ok := s.atlas.Locate(p)
	if !ok {
		return sess.engine.Snapshot(), ErrNoCountryAtPoint
	}

	clicked := p
	if c, ok := s.atlas.Centroid(name); ok {
		clicked = c
	}

	sess.engine.SubmitGuess(name, &clicked)
	return sess.engine.Snapshot(), nil
}

func (s *GameService) Hint(_ context.Context, playerID string) (entities.Snapshot, error) {
	sess, err := s.get(playerID)
	if err != nil {
		return entities.Snapshot{}, err
	}
	sess.engine.RequestHint()
	return sess.engine.Snapshot(), nil
}

func (s *GameService) DismissHint(_ context.Context, playerID string) (entities.Snapshot, error) {
	sess, err := s.get(playerID)
	if err != nil {
		return entities.Snapshot{}, err
	}
	sess.engine.DismissHint()
	return sess.engine.Snapshot(), nil
}

func (s *GameService) Restart(_ context.Context, playerID string) (entities.Snapshot, error) {
	sess, err := s.get(playerID)
	if err != nil {
		return entities.Snapshot{}, err
	}
	sess.engine.Restart()
	return sess.engine.Snapshot(), nil
}

func (s *GameService) Snapshot(_ context.Context, playerID string) (entities.Snapshot, error) {
	sess, err := s.get(playerID)
	if err != nil {
		return entities.Snapshot{}, err
	}
	return sess.engine.Snapshot(), nil
}

// Options returns the multiple choice countries for snap, which must come from the
// player's current game. It returns nil when the game is gone or not asking a question.
func (s *GameService) Options(playerID string, snap entities.Snapshot) []string {
	sess, ok := s.sessions.Get(playerID)
	if !ok {
		return nil
	}
	return sess.options.GenerateOptions(snap)
}

// End discards the player's game and cancels its pending timers.
func (s *GameService) End(_ context.Context, playerID string) error {
	sess, ok := s.sessions.Delete(playerID)
	if !ok {
		return ErrSessionNotFound
	}
	sess.close()

	s.logger.Info("game ended", zap.String("player_id", playerID))
	return nil
}

// Subscribe calls fn with every snapshot the player's game produces, including
// timer-driven ones. The returned func unsubscribes.
func (s *GameService) Subscribe(playerID string, fn func(entities.Snapshot)) (func(), error) {
	sess, ok := s.sessions.Get(playerID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess.subscribe(fn), nil
}

// Active returns the number of live sessions.
func (s *GameService) Active() int {
	return s.sessions.Len()
}

// SweepIdle ends every session untouched for longer than the idle TTL.
func (s *GameService) SweepIdle() int {
	if s.idleTTL <= 0 {
		return 0
	}

	cutoff := s.now().Add(-s.idleTTL)
	removed := s.sessions.DeleteFunc(func(_ string, sess *session) bool {
		return sess.idleSince().Before(cutoff)
	})
	for _, sess := range removed {
		sess.close()
	}

	return len(removed)
}

// StartSweeper evicts idle sessions on the cron spec until ctx is done.
func (s *GameService) StartSweeper(ctx context.Context, spec string) error {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(spec, func() {
		if n := s.SweepIdle(); n > 0 {
			s.logger.Info("idle sessions evicted", zap.Int("count", n))
		}
	})
	if err != nil {
		return fmt.Errorf("add sweep job: %w", err)
	}

	c.Start()
	s.logger.Info("session sweeper started", zap.String("spec", spec))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("session sweeper stopped")
	return nil
}

func (s *GameService) get(playerID string) (*session, error) {
	sess, ok := s.sessions.Get(playerID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.touch(s.now())
	return sess, nil
}

func (s *GameService) handleChange(sess *session, snap entities.Snapshot) {
	if snap.Phase == entities.PhaseGameOver && sess.markRecorded(snap.Generation) {
		// listeners run in the engine's notification order; storage must not hold it up
		s.writes.Add(1)
		go func() {
			defer s.writes.Done()
			s.record(sess.player, snap)
		}()
	}
	sess.publish(snap)
}

// Wait blocks until every pending result write has finished.
func (s *GameService) Wait() {
	s.writes.Wait()
}

func (s *GameService) record(player Player, snap entities.Snapshot) {
	if s.recorder == nil {
		return
	}

	res := &entities.GameResult{
		ID:           uuid.NewString(),
		PlayerID:     player.ID,
		PlayerName:   player.Name,
		Score:        snap.Score,
		LevelReached: snap.Level + 1,
		LevelName:    snap.LevelName,
		Answered:     min(snap.QuestionIndex+1, snap.DatasetSize),
		FinishedAt:   s.now().UTC(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := s.recorder.Record(ctx, res); err != nil {
		s.logger.Error("failed to record game result",
			zap.String("player_id", player.ID),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("game finished",
		zap.String("player_id", player.ID),
		zap.Int("score", res.Score),
		zap.Int("level", res.LevelReached),
	)
}

func countriesOf(landmarks []entities.Landmark) []string {
	out := make([]string, 0, len(landmarks))
	for _, l := range landmarks {
		out = append(out, l.Country)
	}
	return out
}
