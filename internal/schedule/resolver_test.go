package schedule

import (
	"testing"

	"github.com/Freeeeeet/practiceroom_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorOf_Precedence(t *testing.T) {
	cal, res, raids, rec := newEngines()
	resolver := NewResolver(cal)

	// 10: только рейд, 12: рейд и бронь в первой комнате, 14: рейд и бронь во второй
	_, err := raids.AddRaid(10, 3)
	require.NoError(t, err)
	_, err = res.Reserve(model.Room1, "alice", 12, 0.5)
	require.NoError(t, err)
	_, err = res.Reserve(model.Room2, "bob", 14, 0.5)
	require.NoError(t, err)
	// 20: обе комнаты заняты
	_, err = res.Reserve(model.Room1, "alice", 20, 0.5)
	require.NoError(t, err)
	_, err = res.Reserve(model.Room2, "bob", 20, 0.5)
	require.NoError(t, err)
	// 30: запись
	_, err = rec.AddSession(30, 0.5)
	require.NoError(t, err)

	tests := []struct {
		name   string
		index  int
		viewer string
		want   model.DisplayState
	}{
		{name: "below week", index: -1, want: model.DisplayBackground},
		{name: "far past week", index: 338, want: model.DisplayBackground},
		{name: "boundary 336", index: 336, want: model.DisplayBlackout},
		{name: "boundary 337", index: 337, want: model.DisplayBlackout},
		{name: "recording", index: 30, viewer: "alice", want: model.DisplayRecording},
		{name: "raid only", index: 10, want: model.DisplayRaided},
		{name: "raid under room 1", index: 12, want: model.DisplayRoom1Occupied},
		{name: "raid under own room 1", index: 12, viewer: "alice", want: model.DisplayOwnRoom1},
		{name: "raid with room 2", index: 14, want: model.DisplayRoom2Occupied},
		{name: "own room 2", index: 14, viewer: "bob", want: model.DisplayOwnRoom2},
		{name: "both occupied anonymous", index: 20, want: model.DisplayBothOccupied},
		{name: "both occupied viewer in room 1", index: 20, viewer: "alice", want: model.DisplayOwnRoom1},
		{name: "both occupied stranger", index: 20, viewer: "carol", want: model.DisplayBothOccupied},
		{name: "vacant", index: 100, want: model.DisplayVacant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolver.ColorOf(tt.index, tt.viewer))
		})
	}
}

func TestGrid_BlackoutCells(t *testing.T) {
	resolver := NewResolver(NewCalendar())
	grid := resolver.Grid("")

	for col := 0; col < model.SlotsPerDay; col++ {
		if col < model.SplitSlot {
			assert.Equal(t, model.DisplayBlackout, grid[0][col], "first monday col %d", col)
			assert.Equal(t, model.DisplayVacant, grid[GridRows-1][col], "second monday col %d", col)
		} else {
			assert.Equal(t, model.DisplayVacant, grid[0][col], "first monday col %d", col)
			assert.Equal(t, model.DisplayBlackout, grid[GridRows-1][col], "second monday col %d", col)
		}
	}
	assert.True(t, IsBlackoutCell(0, 0))
	assert.False(t, IsBlackoutCell(3, 0))
}

func TestGrid_MatchesColorOf(t *testing.T) {
	cal, res, raids, _ := newEngines()
	resolver := NewResolver(cal)

	_, err := res.Reserve(model.Room1, "alice", 0, 2)
	require.NoError(t, err)
	_, err = res.Reserve(model.Room2, "bob", 300, 1)
	require.NoError(t, err)
	_, err = raids.AddRaid(150, 2)
	require.NoError(t, err)

	grid := resolver.Grid("alice")
	for row := 0; row < GridRows; row++ {
		for col := 0; col < model.SlotsPerDay; col++ {
			if IsBlackoutCell(row, col) {
				continue
			}
			index := row*model.SlotsPerDay + col - model.SplitSlot
			assert.Equal(t, resolver.ColorOf(index, "alice"), grid[row][col], "row %d col %d", row, col)
			assert.Equal(t, grid[row][col], resolver.Cell(row, col, "alice"))
		}
	}

	// Понедельник 19:30 - первый слот недели
	assert.Equal(t, model.DisplayOwnRoom1, grid[0][model.SplitSlot])
	assert.Equal(t, model.DisplayBackground, resolver.Cell(GridRows, 0, ""))
}
