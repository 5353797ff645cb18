package shelf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"WANT_TO_READ":     StatusWantToRead,
		"reading":          StatusReading,
		" READ ":           StatusRead,
		"wantToRead":       StatusWantToRead,
		"currentlyReading": StatusReading,
		"finished":         StatusRead,
	}
	for raw, want := range cases {
		got, err := ParseStatus(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"", "DONE", "want to read"} {
		_, err := ParseStatus(raw)
		assert.ErrorIs(t, err, ErrInvalidStatus, raw)
	}
}

func TestRecord_Kind(t *testing.T) {
	added := time.Now()
	assert.Equal(t, RecordStructured, Record{RawStatus: "READ", AddedAt: &added}.Kind())
	assert.Equal(t, RecordMissingAddedAt, Record{RawStatus: "READ"}.Kind())
	assert.Equal(t, RecordLegacyStatus, Record{RawStatus: "finished", AddedAt: &added}.Kind())
	assert.Equal(t, RecordLegacyRef, Record{}.Kind())
	assert.Equal(t, RecordLegacyRef, Record{RawStatus: "garbage"}.Kind())
}

func TestRecord_Normalize(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	earlier := now.Add(-48 * time.Hour)

	t.Run("裸引用升级为WANT_TO_READ", func(t *testing.T) {
		e, changed := Record{ID: 7, UserID: 1, BookID: 2}.Normalize(now)
		assert.True(t, changed)
		assert.Equal(t, StatusWantToRead, e.Status)
		assert.Equal(t, now, e.AddedAt)
		assert.Equal(t, uint(7), e.ID)
	})

	t.Run("旧版状态映射并保留加入时间", func(t *testing.T) {
		e, changed := Record{RawStatus: "currentlyReading", AddedAt: &earlier, CurrentPage: 30}.Normalize(now)
		assert.True(t, changed)
		assert.Equal(t, StatusReading, e.Status)
		assert.Equal(t, earlier, e.AddedAt)
		assert.Equal(t, 30, e.CurrentPage)
	})

	t.Run("补齐加入时间", func(t *testing.T) {
		e, changed := Record{RawStatus: "READ"}.Normalize(now)
		assert.True(t, changed)
		assert.Equal(t, StatusRead, e.Status)
		assert.Equal(t, now, e.AddedAt)
	})

	t.Run("结构化记录幂等", func(t *testing.T) {
		r := Record{RawStatus: "READING", AddedAt: &earlier, CurrentPage: 12}
		e, changed := r.Normalize(now)
		assert.False(t, changed)
		assert.Equal(t, earlier, e.AddedAt)

		again := Record{RawStatus: string(e.Status), AddedAt: &e.AddedAt, CurrentPage: e.CurrentPage}
		_, changed = again.Normalize(now.Add(time.Hour))
		assert.False(t, changed)
	})
}

func TestBreakdown_Add(t *testing.T) {
	var b Breakdown
	b.Add("READ", 2)
	b.Add("finished", 1)
	b.Add("", 3)
	b.Add("READING", 1)

	assert.Equal(t, Breakdown{WantToRead: 3, Reading: 1, Read: 3, Total: 7}, b)
}
