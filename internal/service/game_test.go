package service

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/rajaryan190/world-map/internal/domain/entities"
	"github.com/rajaryan190/world-map/internal/geo"
	"github.com/rajaryan190/world-map/internal/quiz"
	"github.com/rajaryan190/world-map/internal/scheduler"
	"github.com/rajaryan190/world-map/internal/storage"
)

type staticLandmarks []entities.Landmark

func (s staticLandmarks) GetAll(context.Context) ([]entities.Landmark, error) {
	return append([]entities.Landmark(nil), s...), nil
}

type failingRecorder struct{ calls int }

func (r *failingRecorder) Record(context.Context, *entities.GameResult) error {
	r.calls++
	return errors.New("disk full")
}

type blockingRecorder struct {
	release chan struct{}
	calls   atomic.Int32
}

func (r *blockingRecorder) Record(context.Context, *entities.GameResult) error {
	r.calls.Add(1)
	<-r.release
	return nil
}

func square(minX, minY, size float64) orb.Polygon {
	return orb.Polygon{{
		{minX, minY}, {minX + size, minY}, {minX + size, minY + size}, {minX, minY + size}, {minX, minY},
	}}
}

func testAtlas(t *testing.T) *geo.Atlas {
	t.Helper()

	fc := geojson.NewFeatureCollection()
	for i, name := range []string{"Alpha", "Beta", "Gamma", "Delta"} {
		f := geojson.NewFeature(square(float64(i*20), 0, 10))
		f.Properties["name"] = name
		fc.Append(f)
	}

	a, err := geo.NewAtlas(fc)
	assert.NilError(t, err)
	return a
}

func fp(f float64) *float64 { return &f }

func testDataset() staticLandmarks {
	return staticLandmarks{
		{ID: 1, Name: "Alpha Tower", Country: "Alpha", CountryCode: "aa", Continent: "Europe", ImageURL: "a.jpg", Latitude: fp(5), Longitude: fp(5)},
		{ID: 2, Name: "Beta Bridge", Country: "Beta", CountryCode: "bb", Continent: "Europe", ImageURL: "b.jpg", Latitude: fp(5), Longitude: fp(25)},
		{ID: 3, Name: "Gamma Gate", Country: "Gamma", CountryCode: "cc", Continent: "Asia", ImageURL: "c.jpg", Latitude: fp(5), Longitude: fp(45)},
		{ID: 4, Name: "Delta Dome", Country: "Delta", CountryCode: "dd", Continent: "Asia", ImageURL: "d.jpg", Latitude: fp(5), Longitude: fp(65)},
	}
}

func testRules() quiz.Config {
	return quiz.Config{
		Levels:             entities.Levels{{Count: 2, Name: "Easy"}, {Count: 2, Name: "Hard"}},
		HintsPerLevel:      1,
		CorrectDelay:       time.Second,
		IncorrectDelay:     time.Second,
		LevelCompleteDelay: time.Second,
	}
}

type gameFixture struct {
	svc     *GameService
	results *storage.MemoryResults
	sched   *scheduler.Manual
	now     time.Time
}

func newGameFixture(t *testing.T, recorder ResultRecorder, opts ...Option) *gameFixture {
	t.Helper()

	fx := &gameFixture{
		results: storage.NewMemoryResults(),
		now:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	if recorder == nil {
		recorder = NewLeaderboardService(fx.results, nil, zap.NewNop())
	}

	base := []Option{
		WithSeed(7),
		WithClock(func() time.Time { return fx.now }),
		WithScheduler(func() scheduler.Scheduler {
			fx.sched = scheduler.NewManual()
			return fx.sched
		}),
	}

	svc, err := NewGameService(testDataset(), testAtlas(t), testRules(), recorder, zap.NewNop(), append(base, opts...)...)
	assert.NilError(t, err)
	fx.svc = svc
	return fx
}

// answerCorrectly guesses the current country by name and lets the feedback expire.
func (fx *gameFixture) answerCorrectly(t *testing.T, playerID string) entities.Snapshot {
	t.Helper()
	ctx := context.Background()

	snap, err := fx.svc.Snapshot(ctx, playerID)
	assert.NilError(t, err)
	assert.Assert(t, snap.Question != nil, "no question in phase %s", snap.Phase)

	_, err = fx.svc.Guess(ctx, playerID, snap.Question.Country, nil)
	assert.NilError(t, err)
	fx.sched.Advance(time.Second)

	snap, err = fx.svc.Snapshot(ctx, playerID)
	assert.NilError(t, err)
	return snap
}

func (fx *gameFixture) playToEnd(t *testing.T, playerID string) entities.Snapshot {
	t.Helper()

	fx.answerCorrectly(t, playerID)
	snap := fx.answerCorrectly(t, playerID)
	assert.Equal(t, snap.Phase, entities.PhaseLevelComplete)
	fx.sched.Advance(time.Second)

	fx.answerCorrectly(t, playerID)
	snap = fx.answerCorrectly(t, playerID)
	fx.svc.Wait()
	return snap
}

func TestNewGameService_InvalidRules(t *testing.T) {
	_, err := NewGameService(testDataset(), nil, quiz.Config{}, nil, zap.NewNop())
	assert.ErrorIs(t, err, entities.ErrInvalidLevels)
}

func TestGameService_Start(t *testing.T) {
	fx := newGameFixture(t, nil)

	snap, err := fx.svc.Start(context.Background(), Player{ID: "p1", Name: "Ann"})
	assert.NilError(t, err)

	assert.Equal(t, snap.Phase, entities.PhasePlaying)
	assert.Equal(t, snap.DatasetSize, 4)
	assert.Equal(t, snap.LevelName, "Easy")
	assert.Equal(t, snap.HintBudget, 1)
	assert.Check(t, snap.Question != nil)
	assert.Equal(t, fx.svc.Active(), 1)
}

func TestGameService_UnknownPlayer(t *testing.T) {
	fx := newGameFixture(t, nil)
	ctx := context.Background()

	_, err := fx.svc.Guess(ctx, "ghost", "Alpha", nil)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = fx.svc.GuessAt(ctx, "ghost", orb.Point{5, 5})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = fx.svc.Hint(ctx, "ghost")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = fx.svc.Restart(ctx, "ghost")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = fx.svc.Subscribe("ghost", func(entities.Snapshot) {})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.ErrorIs(t, fx.svc.End(ctx, "ghost"), ErrSessionNotFound)
}

func TestGameService_GuessCanonicalizesName(t *testing.T) {
	fx := newGameFixture(t, nil)
	ctx := context.Background()

	snap, err := fx.svc.Start(ctx, Player{ID: "p1"})
	assert.NilError(t, err)

	guess := "  " + snap.Question.Country + "  "
	snap, err = fx.svc.Guess(ctx, "p1", guess, nil)
	assert.NilError(t, err)

	assert.Equal(t, snap.Score, 1)
	assert.Equal(t, snap.Feedback.Status, entities.FeedbackCorrect)
	assert.DeepEqual(t, snap.RevealedCountries, []string{snap.Question.Country})
}

func TestGameService_GuessText(t *testing.T) {
	fx := newGameFixture(t, nil)
	ctx := context.Background()

	snap, err := fx.svc.Start(ctx, Player{ID: "p1"})
	assert.NilError(t, err)

	snap, err = fx.svc.GuessText(ctx, "p1", "Zzzz")
	assert.ErrorIs(t, err, ErrUnknownCountry)
	assert.Equal(t, snap.Phase, entities.PhasePlaying)
	assert.Equal(t, snap.Feedback.Status, entities.FeedbackNone)

	typed := strings.ReplaceAll(strings.ToLower(snap.Question.Country), "a", "á")
	snap, err = fx.svc.GuessText(ctx, "p1", typed)
	assert.NilError(t, err)
	assert.Equal(t, snap.Score, 1)

	_, err = fx.svc.GuessText(ctx, "nobody", "Alpha")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestGameService_GuessAt(t *testing.T) {
	fx := newGameFixture(t, nil)
	ctx := context.Background()

	snap, err := fx.svc.Start(ctx, Player{ID: "p1"})
	assert.NilError(t, err)

	t.Run("outside every country", func(t *testing.T) {
		got, err := fx.svc.GuessAt(ctx, "p1", orb.Point{15, 5})
		assert.ErrorIs(t, err, ErrNoCountryAtPoint)
		assert.Equal(t, got.Score, 0)
		assert.Check(t, !got.Feedback.Active())
	})

	t.Run("wrong country", func(t *testing.T) {
		target := snap.Question.Country
		wrong := orb.Point{5, 5}
		if target == "Alpha" {
			wrong = orb.Point{25, 5}
		}

		got, err := fx.svc.GuessAt(ctx, "p1", wrong)
		assert.NilError(t, err)
		assert.Equal(t, got.Feedback.Status, entities.FeedbackIncorrect)
		assert.Check(t, is.Contains(got.Feedback.Message, "km"))
		assert.Equal(t, got.Score, 0)

		fx.sched.Advance(time.Second)
	})

	t.Run("right country", func(t *testing.T) {
		var p orb.Point
		for i, name := range []string{"Alpha", "Beta", "Gamma", "Delta"} {
			if name == snap.Question.Country {
				p = orb.Point{float64(i*20) + 5, 5}
			}
		}

		got, err := fx.svc.GuessAt(ctx, "p1", p)
		assert.NilError(t, err)
		assert.Equal(t, got.Feedback.Status, entities.FeedbackCorrect)
		assert.Equal(t, got.Score, 1)
	})
}

func TestGameService_HintAndDismiss(t *testing.T) {
	fx := newGameFixture(t, nil)
	ctx := context.Background()

	_, err := fx.svc.Start(ctx, Player{ID: "p1"})
	assert.NilError(t, err)

	snap, err := fx.svc.Hint(ctx, "p1")
	assert.NilError(t, err)
	assert.Assert(t, snap.ActiveHint != nil)
	assert.Equal(t, snap.HintBudget, 0)

	snap, err = fx.svc.DismissHint(ctx, "p1")
	assert.NilError(t, err)
	assert.Check(t, snap.ActiveHint == nil)

	snap, err = fx.svc.Hint(ctx, "p1")
	assert.NilError(t, err)
	assert.Check(t, snap.ActiveHint == nil, "budget exhausted")
}

func TestGameService_RecordsFinishedGameOnce(t *testing.T) {
	fx := newGameFixture(t, nil)
	ctx := context.Background()

	_, err := fx.svc.Start(ctx, Player{ID: "p1", Name: "Ann"})
	assert.NilError(t, err)

	snap := fx.playToEnd(t, "p1")
	assert.Equal(t, snap.Phase, entities.PhaseGameOver)
	assert.Equal(t, snap.Score, 4)

	// no-op events after game over must not record again
	_, err = fx.svc.DismissHint(ctx, "p1")
	assert.NilError(t, err)
	_, err = fx.svc.Hint(ctx, "p1")
	assert.NilError(t, err)

	stats, err := fx.results.Stats(ctx, "p1")
	assert.NilError(t, err)
	assert.Equal(t, stats.GamesPlayed, 1)
	assert.Equal(t, stats.BestScore, 4)
	assert.Equal(t, stats.PlayerName, "Ann")

	top, err := fx.results.Top(ctx, 10)
	assert.NilError(t, err)
	assert.Assert(t, is.Len(top, 1))
	assert.Equal(t, top[0].PlayerID, "p1")

	_, err = fx.svc.Restart(ctx, "p1")
	assert.NilError(t, err)
	fx.playToEnd(t, "p1")

	stats, err = fx.results.Stats(ctx, "p1")
	assert.NilError(t, err)
	assert.Equal(t, stats.GamesPlayed, 2)
	assert.Equal(t, stats.TotalScore, 8)
}

func TestGameService_RecorderFailureKeepsGame(t *testing.T) {
	rec := &failingRecorder{}
	fx := newGameFixture(t, rec)

	_, err := fx.svc.Start(context.Background(), Player{ID: "p1"})
	assert.NilError(t, err)

	snap := fx.playToEnd(t, "p1")
	assert.Equal(t, snap.Phase, entities.PhaseGameOver)
	assert.Equal(t, rec.calls, 1)
	assert.Equal(t, fx.svc.Active(), 1)
}

func TestGameService_SlowRecorderDoesNotBlockGame(t *testing.T) {
	rec := &blockingRecorder{release: make(chan struct{})}
	fx := newGameFixture(t, rec)
	ctx := context.Background()

	_, err := fx.svc.Start(ctx, Player{ID: "p1"})
	assert.NilError(t, err)

	fx.answerCorrectly(t, "p1")
	fx.answerCorrectly(t, "p1")
	fx.sched.Advance(time.Second)
	fx.answerCorrectly(t, "p1")

	done := make(chan entities.Snapshot, 1)
	go func() {
		snap, _ := fx.svc.Snapshot(ctx, "p1")
		_, _ = fx.svc.Guess(ctx, "p1", snap.Question.Country, nil)
		fx.sched.Advance(time.Second)

		snap, _ = fx.svc.Snapshot(ctx, "p1")
		done <- snap
	}()

	select {
	case snap := <-done:
		assert.Equal(t, snap.Phase, entities.PhaseGameOver)
	case <-time.After(2 * time.Second):
		t.Fatal("game blocked on result storage")
	}

	snap, err := fx.svc.Restart(ctx, "p1")
	assert.NilError(t, err)
	assert.Equal(t, snap.Phase, entities.PhasePlaying)

	close(rec.release)
	fx.svc.Wait()
	assert.Equal(t, rec.calls.Load(), int32(1))
}

func TestGameService_Subscribe(t *testing.T) {
	fx := newGameFixture(t, nil)
	ctx := context.Background()

	_, err := fx.svc.Start(ctx, Player{ID: "p1"})
	assert.NilError(t, err)

	var got []entities.Snapshot
	unsubscribe, err := fx.svc.Subscribe("p1", func(s entities.Snapshot) {
		got = append(got, s)
	})
	assert.NilError(t, err)

	fx.answerCorrectly(t, "p1")
	assert.Assert(t, is.Len(got, 2))
	assert.Equal(t, got[0].Feedback.Status, entities.FeedbackCorrect)
	assert.Check(t, !got[1].Feedback.Active(), "timer-driven clear is published")
	assert.Equal(t, got[1].QuestionIndex, 1)

	unsubscribe()
	fx.answerCorrectly(t, "p1")
	assert.Check(t, is.Len(got, 2))
}

func TestGameService_StartReplacesSession(t *testing.T) {
	fx := newGameFixture(t, nil)
	ctx := context.Background()

	snap, err := fx.svc.Start(ctx, Player{ID: "p1"})
	assert.NilError(t, err)
	_, err = fx.svc.Guess(ctx, "p1", snap.Question.Country, nil)
	assert.NilError(t, err)
	old := fx.sched

	snap, err = fx.svc.Start(ctx, Player{ID: "p1"})
	assert.NilError(t, err)

	assert.Check(t, is.Len(old.Pending(), 0), "old session timers cancelled")
	assert.Equal(t, snap.Score, 0)
	assert.Equal(t, fx.svc.Active(), 1)
}

func TestGameService_End(t *testing.T) {
	fx := newGameFixture(t, nil)
	ctx := context.Background()

	snap, err := fx.svc.Start(ctx, Player{ID: "p1"})
	assert.NilError(t, err)
	_, err = fx.svc.Guess(ctx, "p1", snap.Question.Country, nil)
	assert.NilError(t, err)

	assert.NilError(t, fx.svc.End(ctx, "p1"))
	assert.Check(t, is.Len(fx.sched.Pending(), 0))
	assert.Equal(t, fx.svc.Active(), 0)

	_, err = fx.svc.Snapshot(ctx, "p1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestGameService_SweepIdle(t *testing.T) {
	fx := newGameFixture(t, nil, WithIdleTTL(time.Minute))
	ctx := context.Background()

	_, err := fx.svc.Start(ctx, Player{ID: "idle"})
	assert.NilError(t, err)

	fx.now = fx.now.Add(2 * time.Minute)
	_, err = fx.svc.Start(ctx, Player{ID: "busy"})
	assert.NilError(t, err)

	assert.Equal(t, fx.svc.SweepIdle(), 1)
	assert.Equal(t, fx.svc.Active(), 1)

	_, err = fx.svc.Snapshot(ctx, "idle")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = fx.svc.Snapshot(ctx, "busy")
	assert.NilError(t, err)
}

func TestGameService_StartSweeperBadSpec(t *testing.T) {
	fx := newGameFixture(t, nil)

	err := fx.svc.StartSweeper(context.Background(), "not a cron spec")
	assert.ErrorContains(t, err, "add sweep job")
}
