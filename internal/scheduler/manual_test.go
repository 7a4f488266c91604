package scheduler

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestManual_FiresOnlyWhenDue(t *testing.T) {
	m := NewManual()
	fired := 0
	m.Schedule("a", time.Second, func() { fired++ })

	m.Advance(999 * time.Millisecond)
	assert.Equal(t, fired, 0)
	assert.DeepEqual(t, m.Pending(), []string{"a"})

	m.Advance(time.Millisecond)
	assert.Equal(t, fired, 1)
	assert.Equal(t, len(m.Pending()), 0)

	m.Advance(time.Hour)
	assert.Equal(t, fired, 1)
}

func TestManual_RunsInDueOrder(t *testing.T) {
	m := NewManual()
	var order []string
	m.Schedule("late", 3*time.Second, func() { order = append(order, "late") })
	m.Schedule("early", time.Second, func() { order = append(order, "early") })
	m.Schedule("tie", time.Second, func() { order = append(order, "tie") })

	assert.DeepEqual(t, m.Pending(), []string{"early", "tie", "late"})

	m.Advance(5 * time.Second)
	assert.DeepEqual(t, order, []string{"early", "tie", "late"})
	assert.Equal(t, m.Now(), 5*time.Second)
}

func TestManual_ReplaceAndCancel(t *testing.T) {
	m := NewManual()
	var got []string
	m.Schedule("x", time.Second, func() { got = append(got, "first") })
	m.Schedule("x", 2*time.Second, func() { got = append(got, "second") })
	m.Schedule("y", time.Second, func() { got = append(got, "y") })
	m.Cancel("y")

	m.Advance(time.Second)
	assert.Equal(t, len(got), 0)

	m.Advance(time.Second)
	assert.DeepEqual(t, got, []string{"second"})

	m.Schedule("z", time.Second, func() { got = append(got, "z") })
	m.CancelAll()
	m.Flush()
	assert.DeepEqual(t, got, []string{"second"})
}

func TestManual_ChainedTasks(t *testing.T) {
	m := NewManual()
	var got []string
	m.Schedule("first", time.Second, func() {
		got = append(got, "first")
		m.Schedule("second", time.Second, func() { got = append(got, "second") })
	})

	m.Advance(2 * time.Second)
	assert.DeepEqual(t, got, []string{"first", "second"})
}

func TestManual_Flush(t *testing.T) {
	m := NewManual()
	count := 0
	m.Schedule("a", time.Minute, func() {
		count++
		m.Schedule("b", time.Hour, func() { count++ })
	})

	m.Flush()
	assert.Equal(t, count, 2)
	assert.Equal(t, m.Now(), time.Minute+time.Hour)
}
