package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venuebook/models"
)

func availability(date string, slots ...models.Slot) models.Availability {
	return models.Availability{Date: date, PricePerHour: 10000000, Slots: slots}
}

var day = []models.Slot{
	{StartTime: "09:00", EndTime: "10:00", IsAvailable: true},
	{StartTime: "10:00", EndTime: "11:00", IsAvailable: true},
	{StartTime: "11:00", EndTime: "12:00", IsAvailable: false},
}

func TestBoardClickFlow(t *testing.T) {
	var b Board
	ticket := b.Reset(3, "2026-10-20")
	ok, err := b.Apply(ticket, availability("2026-10-20", day...))
	require.NoError(t, err)
	require.True(t, ok)

	changed, err := b.Click("09:00")
	require.NoError(t, err)
	assert.True(t, changed)

	_, err = b.Click("10:00:00")
	require.NoError(t, err)

	changed, err = b.Click("11:00")
	require.NoError(t, err)
	assert.False(t, changed)

	v := b.View()
	assert.Equal(t, KindRange, v.Kind)
	assert.Equal(t, "09:00", v.Start)
	assert.Equal(t, "11:00", v.End)
	assert.Equal(t, int64(200000), v.TotalPrice.Units())
	require.Len(t, v.Slots, 3)
	assert.True(t, v.Slots[0].Selected)
	assert.True(t, v.Slots[1].Selected)
	assert.False(t, v.Slots[2].Selected)
}

func TestBoardDropsStaleResponse(t *testing.T) {
	var b Board
	first := b.Reset(3, "2026-10-20")
	second := b.Reset(3, "2026-10-21")

	ok, err := b.Apply(first, availability("2026-10-20", day...))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, b.Loaded)
	assert.False(t, b.Fail(first))

	ok, err = b.Apply(second, availability("2026-10-21", day...))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2026-10-21", b.Date)
}

func TestBoardResetClearsSelection(t *testing.T) {
	var b Board
	ticket := b.Reset(3, "2026-10-20")
	_, err := b.Apply(ticket, availability("2026-10-20", day...))
	require.NoError(t, err)
	_, err = b.Click("09:00")
	require.NoError(t, err)

	b.Reset(3, "2026-10-22")
	assert.True(t, b.Selection.IsEmpty())
	assert.Empty(t, b.Slots)
}

func TestBoardClickErrors(t *testing.T) {
	var b Board
	_, err := b.Click("09:00")
	assert.ErrorIs(t, err, ErrNotLoaded)

	ticket := b.Reset(3, "2026-10-20")
	_, err = b.Apply(ticket, availability("2026-10-20", day...))
	require.NoError(t, err)

	_, err = b.Click("15:00")
	assert.ErrorIs(t, err, ErrUnknownSlot)
	_, err = b.Click("later")
	assert.ErrorIs(t, err, ErrUnknownSlot)
}

func TestBoardFailInstallsEmptyDay(t *testing.T) {
	var b Board
	ticket := b.Reset(3, "2026-10-20")
	assert.True(t, b.Fail(ticket))
	assert.True(t, b.Loaded)
	assert.Empty(t, b.View().Slots)
}

func TestBoardClear(t *testing.T) {
	var b Board
	ticket := b.Reset(3, "2026-10-20")
	_, err := b.Apply(ticket, availability("2026-10-20", day...))
	require.NoError(t, err)

	b.Clear()
	assert.Zero(t, b.VenueID)
	assert.Empty(t, b.Date)
	assert.True(t, b.Selection.IsEmpty())
	assert.False(t, b.Current(ticket))
}
