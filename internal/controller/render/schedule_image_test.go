package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/Freeeeeet/practiceroom_bot/internal/model"
	"github.com/Freeeeeet/practiceroom_bot/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleImage(t *testing.T) {
	cal := schedule.NewCalendar()
	_, err := schedule.NewReservationEngine(cal, schedule.DefaultQuotaHours).Reserve(model.Room1, "alice", 0, 2)
	require.NoError(t, err)
	_, err = schedule.NewRaidEngine(cal).AddRaid(100, 1)
	require.NoError(t, err)

	grid := schedule.NewResolver(cal).Grid("alice")
	data, err := ScheduleImage(grid, 5)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, ImageWidth, img.Bounds().Dx())
	assert.Equal(t, ImageHeight, img.Bounds().Dy())

	// Центр ячейки первого слота недели: понедельник 19:30, своя бронь в первой комнате
	x, y := cellOrigin(0, model.SplitSlot)
	r, g, b, _ := img.At(int(x)+cellSize/2, int(y)+cellSize/2).RGBA()
	want := StateColor(model.DisplayOwnRoom1)
	assert.Equal(t, []uint8{want.R, want.G, want.B}, []uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)})

	// Понедельник утром - артефакт поворота
	x, y = cellOrigin(0, 10)
	r, g, b, _ = img.At(int(x)+cellSize/2, int(y)+cellSize/2).RGBA()
	assert.Equal(t, []uint8{0, 0, 0}, []uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)})
}

func TestScheduleImage_NoHighlight(t *testing.T) {
	var grid schedule.Grid
	data, err := ScheduleImage(grid, -1)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestStateColor_Unknown(t *testing.T) {
	assert.Equal(t, StateColor(model.DisplayBackground), StateColor(model.DisplayState(99)))
}
