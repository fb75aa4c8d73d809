package core

import (
	"fmt"
	"testing"

	"github.com/dkeye/Lobby/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msg(i int) domain.Message {
	return domain.Message{ID: fmt.Sprintf("m%d", i), Text: fmt.Sprintf("text %d", i), TS: int64(i)}
}

func ids(ms []domain.Message) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}

func TestHistoryDefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultHistoryCapacity, NewHistory(0).Cap())
	assert.Equal(t, 3, NewHistory(3).Cap())
}

func TestHistoryAppendBelowCapacity(t *testing.T) {
	h := NewHistory(5)
	assert.Empty(t, h.Snapshot())

	for i := 1; i <= 3; i++ {
		assert.False(t, h.Append(msg(i)))
	}
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []string{"m1", "m2", "m3"}, ids(h.Snapshot()))
}

func TestHistoryEvictsOldestFirst(t *testing.T) {
	h := NewHistory(3)
	for i := 1; i <= 3; i++ {
		require.False(t, h.Append(msg(i)))
	}

	assert.True(t, h.Append(msg(4)))
	assert.Equal(t, []string{"m2", "m3", "m4"}, ids(h.Snapshot()))

	assert.True(t, h.Append(msg(5)))
	assert.True(t, h.Append(msg(6)))
	assert.True(t, h.Append(msg(7)))
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []string{"m5", "m6", "m7"}, ids(h.Snapshot()))
}

func TestHistoryNeverExceedsCapacity(t *testing.T) {
	h := NewHistory(DefaultHistoryCapacity)
	for i := 1; i <= 175; i++ {
		h.Append(msg(i))
		require.LessOrEqual(t, h.Len(), DefaultHistoryCapacity)
	}

	snap := h.Snapshot()
	require.Len(t, snap, DefaultHistoryCapacity)
	assert.Equal(t, "m126", snap[0].ID)
	assert.Equal(t, "m175", snap[len(snap)-1].ID)
}

func TestHistorySnapshotIsCopy(t *testing.T) {
	h := NewHistory(2)
	h.Append(msg(1))
	snap := h.Snapshot()
	snap[0].Text = "mutated"
	assert.Equal(t, "text 1", h.Snapshot()[0].Text)
}
