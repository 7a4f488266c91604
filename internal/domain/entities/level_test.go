package entities

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestLevels_Cumulative(t *testing.T) {
	ls := DefaultLevels()
	assert.DeepEqual(t, ls.Cumulative(), []int{10, 35, 75})
	assert.Equal(t, ls.StartIndex(0), 0)
	assert.Equal(t, ls.StartIndex(1), 10)
	assert.Equal(t, ls.StartIndex(2), 35)
	assert.Equal(t, ls.LastIndex(0), 9)
	assert.Equal(t, ls.LastIndex(2), 74)
	assert.Equal(t, ls.LastIndex(3), -1)
}

func TestLevels_CanAdvance(t *testing.T) {
	ls := DefaultLevels()
	assert.Check(t, ls.CanAdvance(0, 35))
	assert.Check(t, !ls.CanAdvance(0, 34))
	assert.Check(t, !ls.CanAdvance(0, 10))
	assert.Check(t, ls.CanAdvance(1, 75))
	assert.Check(t, !ls.CanAdvance(2, 1000))
}

func TestLevels_Validate(t *testing.T) {
	assert.NilError(t, DefaultLevels().Validate())
	assert.ErrorIs(t, Levels{}.Validate(), ErrInvalidLevels)
	assert.ErrorIs(t, Levels{{Count: 5}, {Count: 0}}.Validate(), ErrInvalidLevels)
}

func TestLevels_NameOf(t *testing.T) {
	ls := Levels{{Count: 1, Name: "Warmup"}, {Count: 2}}
	assert.Equal(t, ls.NameOf(0), "Warmup")
	assert.Equal(t, ls.NameOf(1), "Level 2")
	assert.Equal(t, ls.NameOf(5), "Level 6")
}

func TestSnapshot_ShowFeedback(t *testing.T) {
	s := Snapshot{Feedback: Feedback{Status: FeedbackIncorrect, Message: "no"}}
	assert.Check(t, s.ShowFeedback())

	s.ActiveHint = &Hint{Category: HintContinent}
	assert.Check(t, !s.ShowFeedback())
}

func TestPlayerStats_Apply(t *testing.T) {
	var st PlayerStats
	st.Apply(GameResult{PlayerName: "ann", Score: 7})
	st.Apply(GameResult{Score: 3})

	assert.Equal(t, st.GamesPlayed, 2)
	assert.Equal(t, st.TotalScore, 10)
	assert.Equal(t, st.BestScore, 7)
	assert.Equal(t, st.PlayerName, "ann")
}
