// Package quiz implements the landmark quiz state machine: question sequencing
// across levels, scoring, timed feedback and hints.
//
// An Engine never returns errors for player events. Events that do not apply to
// the current state are ignored.
package quiz

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/paulmach/orb"

	"github.com/rajaryan190/world-map/internal/domain/entities"
	"github.com/rajaryan190/world-map/internal/geo"
	"github.com/rajaryan190/world-map/internal/scheduler"
)

// Scheduled task names.
const (
	TaskClearFeedback = "clearFeedback"
	TaskAdvanceLevel  = "advanceLevel"
)

// Config holds the tunable rules of a game.
type Config struct {
	Levels             entities.Levels
	HintsPerLevel      int
	CorrectDelay       time.Duration
	IncorrectDelay     time.Duration
	LevelCompleteDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		Levels:             entities.DefaultLevels(),
		HintsPerLevel:      3,
		CorrectDelay:       1500 * time.Millisecond,
		IncorrectDelay:     2000 * time.Millisecond,
		LevelCompleteDelay: 2000 * time.Millisecond,
	}
}

func (c Config) Validate() error {
	if err := c.Levels.Validate(); err != nil {
		return err
	}
	if c.HintsPerLevel < 0 {
		return fmt.Errorf("hints per level must not be negative, got %d", c.HintsPerLevel)
	}
	if c.CorrectDelay < 0 || c.IncorrectDelay < 0 || c.LevelCompleteDelay < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	return nil
}

// Engine is one player's game session.
type Engine struct {
	mu sync.Mutex

	// notifications are numbered under mu and delivered in that order
	notifyMu  sync.Mutex
	notified  *sync.Cond
	issued    uint64
	delivered uint64

	cfg     Config
	dataset []entities.Landmark
	rng     *rand.Rand
	sched   scheduler.Scheduler

	generation uint64
	questions  []entities.Landmark
	index      int
	level      int
	score      int
	revealed   []string
	isRevealed map[string]struct{}
	feedback   entities.Feedback
	phase      entities.Phase
	hintBudget int
	shownHints map[entities.HintCategory]struct{}
	activeHint *entities.Hint
	notice     string

	listeners  map[int]func(entities.Snapshot)
	listenerID int
}

// NewEngine starts a fresh session over the dataset. A nil rng is seeded from the
// clock and a nil scheduler falls back to wall-clock timers.
func NewEngine(dataset []entities.Landmark, cfg Config, rng *rand.Rand, sched scheduler.Scheduler) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if sched == nil {
		sched = scheduler.NewTimers()
	}

	e := &Engine{
		cfg:       cfg,
		dataset:   append([]entities.Landmark(nil), dataset...),
		rng:       rng,
		sched:     sched,
		listeners: make(map[int]func(entities.Snapshot)),
	}
	e.notified = sync.NewCond(&e.notifyMu)
	e.reset()

	return e, nil
}

// OnChange registers fn to receive a snapshot after every state change. Listeners
// are called in order of mutation without the state lock held, so they may read
// Snapshot. They must not call mutating Engine methods synchronously, and slow work
// delays every later notification. The returned func removes the listener.
func (e *Engine) OnChange(fn func(entities.Snapshot)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.listenerID++
	id := e.listenerID
	e.listeners[id] = fn

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.listeners, id)
	}
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() entities.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// SubmitGuess handles a country click. clicked is the (longitude, latitude) of the
// clicked country, used for the distance hint on a wrong answer.
func (e *Engine) SubmitGuess(country string, clicked *orb.Point) {
	e.update(func() bool {
		name := strings.TrimSpace(country)
		if name == "" {
			return false
		}
		if e.phase != entities.PhasePlaying || e.feedback.Active() {
			return false
		}
		if _, ok := e.isRevealed[normalize(name)]; ok {
			return false
		}
		q := e.currentLocked()
		if q == nil {
			return false
		}

		// the guess outcome replaces any clue on screen
		e.activeHint = nil

		gen := e.generation
		if strings.EqualFold(name, strings.TrimSpace(q.Country)) {
			e.score++
			e.reveal(q.Country)
			e.feedback = entities.Feedback{
				Status:  entities.FeedbackCorrect,
				Message: correctMessage(q.Name, q.Country),
			}
			e.sched.Schedule(TaskClearFeedback, e.cfg.CorrectDelay, func() {
				e.update(func() bool {
					if e.generation != gen {
						return false
					}
					e.feedback = entities.Feedback{}
					e.advance()
					return true
				})
			})
			return true
		}

		msg := genericIncorrectMessage
		if q.HasCoordinates() && clicked != nil {
			km := geo.DistanceKm(clicked.Lat(), clicked.Lon(), *q.Latitude, *q.Longitude)
			dir := geo.CompassDirection(geo.BearingDegrees(clicked.Lat(), clicked.Lon(), *q.Latitude, *q.Longitude))
			msg = incorrectMessage(name, km, dir)
		}
		e.feedback = entities.Feedback{Status: entities.FeedbackIncorrect, Message: msg}
		e.sched.Schedule(TaskClearFeedback, e.cfg.IncorrectDelay, func() {
			e.update(func() bool {
				if e.generation != gen {
					return false
				}
				e.feedback = entities.Feedback{}
				return true
			})
		})
		return true
	})
}

// RequestHint reveals one unused clue about the current question's country.
func (e *Engine) RequestHint() {
	e.update(func() bool {
		if e.phase != entities.PhasePlaying || e.hintBudget <= 0 || e.activeHint != nil {
			return false
		}
		q := e.currentLocked()
		if q == nil {
			return false
		}

		h, ok := PickHint(q, e.shownHints, e.rng)
		if !ok {
			return false
		}
		e.hintBudget--
		e.shownHints[h.Category] = struct{}{}
		e.activeHint = &h
		return true
	})
}

// DismissHint closes the active hint so another one can be requested. Categories
// already shown stay used for the current question.
func (e *Engine) DismissHint() {
	e.update(func() bool {
		if e.activeHint == nil {
			return false
		}
		e.activeHint = nil
		return true
	})
}

// Restart reshuffles the dataset and resets the session. Pending tasks of the
// previous session are cancelled and ignored if they fire anyway.
func (e *Engine) Restart() {
	e.update(func() bool {
		e.sched.CancelAll()
		e.generation++
		e.reset()
		return true
	})
}

// Close cancels pending tasks. The engine must not be used afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.sched.CancelAll()
	e.generation++
	clear(e.listeners)
}

func (e *Engine) reset() {
	e.questions = Shuffle(e.dataset, e.rng)
	e.index = 0
	e.level = 0
	e.score = 0
	e.revealed = nil
	e.isRevealed = make(map[string]struct{})
	e.feedback = entities.Feedback{}
	e.phase = entities.PhasePlaying
	e.hintBudget = e.cfg.HintsPerLevel
	e.shownHints = make(map[entities.HintCategory]struct{})
	e.activeHint = nil
	e.notice = ""

	if len(e.questions) == 0 {
		e.gameOver()
	}
}

// advance moves past a correctly answered question.
func (e *Engine) advance() {
	if e.index != e.cfg.Levels.LastIndex(e.level) {
		e.setIndex(e.index + 1)
		return
	}

	if !e.cfg.Levels.CanAdvance(e.level, len(e.questions)) {
		e.gameOver()
		return
	}

	e.phase = entities.PhaseLevelComplete
	e.hintBudget += e.cfg.HintsPerLevel
	e.level++

	gen := e.generation
	e.sched.Schedule(TaskAdvanceLevel, e.cfg.LevelCompleteDelay, func() {
		e.update(func() bool {
			if e.generation != gen || e.phase != entities.PhaseLevelComplete {
				return false
			}
			e.phase = entities.PhasePlaying
			e.setIndex(e.index + 1)
			return true
		})
	})
}

// setIndex moves to another question, ending the game past the last one.
func (e *Engine) setIndex(i int) {
	e.index = i
	e.activeHint = nil
	e.shownHints = make(map[entities.HintCategory]struct{})

	if e.index >= len(e.questions) {
		e.index = len(e.questions)
		e.gameOver()
	}
}

func (e *Engine) gameOver() {
	e.phase = entities.PhaseGameOver
	e.activeHint = nil

	cum := e.cfg.Levels.Cumulative()
	if len(e.questions) < cum[len(cum)-1] {
		e.notice = shortfallNotice
	}
}

func (e *Engine) reveal(country string) {
	key := normalize(country)
	if _, ok := e.isRevealed[key]; ok {
		return
	}
	e.isRevealed[key] = struct{}{}
	e.revealed = append(e.revealed, country)
}

func (e *Engine) currentLocked() *entities.Landmark {
	if e.index < 0 || e.index >= len(e.questions) {
		return nil
	}
	return &e.questions[e.index]
}

func (e *Engine) snapshotLocked() entities.Snapshot {
	s := entities.Snapshot{
		Generation:        e.generation,
		Phase:             e.phase,
		QuestionIndex:     e.index,
		Score:             e.score,
		Level:             e.level,
		LevelName:         e.cfg.Levels.NameOf(e.level),
		RevealedCountries: append([]string{}, e.revealed...),
		Feedback:          e.feedback,
		HintBudget:        e.hintBudget,
		Notice:            e.notice,
		DatasetSize:       len(e.questions),
	}

	if e.phase != entities.PhaseGameOver {
		start := e.cfg.Levels.StartIndex(e.level)
		s.TotalQuestionsInLevel = max(0, min(e.cfg.Levels[e.level].Count, len(e.questions)-start))
		s.QuestionNumberInLevel = max(0, e.index-start+1)
	}

	if e.phase == entities.PhasePlaying {
		if q := e.currentLocked(); q != nil {
			cp := *q
			s.Question = &cp
		}
	}

	if e.activeHint != nil {
		h := *e.activeHint
		s.ActiveHint = &h
	}

	return s
}

// update applies fn under the state lock and, if it reports a change, hands the
// resulting snapshot to every listener in mutation order. Delivery happens after the
// state lock is released.
func (e *Engine) update(fn func() bool) {
	e.mu.Lock()
	if !fn() {
		e.mu.Unlock()
		return
	}
	snap := e.snapshotLocked()
	listeners := make([]func(entities.Snapshot), 0, len(e.listeners))
	for _, l := range e.listeners {
		listeners = append(listeners, l)
	}
	e.issued++
	ticket := e.issued
	e.mu.Unlock()

	e.notifyMu.Lock()
	for e.delivered != ticket-1 {
		e.notified.Wait()
	}
	e.notifyMu.Unlock()

	defer func() {
		e.notifyMu.Lock()
		e.delivered = ticket
		e.notifyMu.Unlock()
		e.notified.Broadcast()
	}()

	for _, l := range listeners {
		l(snap)
	}
}

func normalize(country string) string {
	return strings.ToLower(strings.TrimSpace(country))
}
