package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-5))
	assert.Equal(t, 10, NormalizeLimit(10))
	assert.Equal(t, MaxLimit, NormalizeLimit(5000))
}

func TestCursorRoundTrip(t *testing.T) {
	in := Cursor{
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC),
		ID:        uuid.New(),
	}

	out, err := ParseCursor(EncodeCursor(in))
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt))
	assert.Equal(t, in.ID, out.ID)
}

func TestParseCursorEmpty(t *testing.T) {
	out, err := ParseCursor("   ")
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestParseCursorGarbage(t *testing.T) {
	_, err := ParseCursor("not-base64!!")
	assert.Error(t, err)
}

func TestNewPage(t *testing.T) {
	type row struct {
		createdAt time.Time
		id        uuid.UUID
	}
	rows := make([]row, 4)
	for i := range rows {
		rows[i] = row{createdAt: time.Now().Add(time.Duration(i) * time.Second), id: uuid.New()}
	}

	page := NewPage(rows, 3, func(r row) Cursor {
		return Cursor{CreatedAt: r.createdAt, ID: r.id}
	})
	require.Len(t, page.Items, 3)
	require.NotNil(t, page.NextCursor)

	cur, err := ParseCursor(*page.NextCursor)
	require.NoError(t, err)
	assert.Equal(t, rows[2].id, cur.ID)

	full := NewPage(rows[:2], 3, func(r row) Cursor {
		return Cursor{CreatedAt: r.createdAt, ID: r.id}
	})
	assert.Len(t, full.Items, 2)
	assert.Nil(t, full.NextCursor)
}
