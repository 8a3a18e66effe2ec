package render

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/Freeeeeet/practiceroom_bot/internal/model"
	"github.com/Freeeeeet/practiceroom_bot/internal/schedule"
	"github.com/Freeeeeet/practiceroom_bot/internal/timeslot"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Константы размеров и отступов
const (
	cellSize        = 24
	cellGap         = 1.0
	leftLabelsWidth = 120
	headerHeight    = 40
	legendHeight    = 90
	legendBoxSize   = 14.0
	legendColumns   = 4

	ImageWidth  = leftLabelsWidth + model.SlotsPerDay*cellSize
	ImageHeight = headerHeight + schedule.GridRows*cellSize + legendHeight
)

// Цветовая схема
var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 255}
	gridLineColor  = color.RGBA{150, 150, 150, 255}
	hourLineColor  = color.RGBA{90, 90, 90, 255}
	currentCellClr = color.RGBA{255, 80, 80, 255}

	stateColors = map[model.DisplayState]color.RGBA{
		model.DisplayBackground:    {255, 255, 255, 255},
		model.DisplayBlackout:      {0, 0, 0, 255},
		model.DisplayRecording:     {0, 128, 0, 255},
		model.DisplayOwnRoom1:      {128, 0, 128, 255},
		model.DisplayOwnRoom2:      {255, 192, 203, 255},
		model.DisplayBothOccupied:  {0, 0, 255, 255},
		model.DisplayRoom1Occupied: {255, 0, 0, 255},
		model.DisplayRoom2Occupied: {255, 255, 0, 255},
		model.DisplayRaided:        {255, 165, 0, 255},
		model.DisplayVacant:        {255, 255, 255, 255},
	}

	legendItems = []struct {
		label string
		state model.DisplayState
	}{
		{"Vacant", model.DisplayVacant},
		{"Room 1 taken", model.DisplayRoom1Occupied},
		{"Room 2 taken", model.DisplayRoom2Occupied},
		{"Both taken", model.DisplayBothOccupied},
		{"Yours, room 1", model.DisplayOwnRoom1},
		{"Yours, room 2", model.DisplayOwnRoom2},
		{"Recording", model.DisplayRecording},
		{"Raided", model.DisplayRaided},
	}
)

// StateColor цвет ячейки для состояния
func StateColor(state model.DisplayState) color.RGBA {
	if c, ok := stateColors[state]; ok {
		return c
	}
	return stateColors[model.DisplayBackground]
}

// ScheduleImage рисует сетку расписания в PNG. current - канонический индекс текущего
// получаса, отрицательное значение отключает подсветку.
func ScheduleImage(grid schedule.Grid, current int) ([]byte, error) {
	dc := createCanvas()

	drawHourLabels(dc)
	drawDayLabels(dc)
	drawCells(dc, grid)
	drawHourLines(dc)
	drawCurrentCell(dc, current)
	drawLegend(dc)

	return encodeImage(dc)
}

func createCanvas() *gg.Context {
	dc := gg.NewContext(ImageWidth, ImageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)
	return dc
}

// drawHourLabels подписи часов над сеткой: 12, 1, ..., 11, 12, 1, ..., 11
func drawHourLabels(dc *gg.Context) {
	dc.SetColor(textColor)
	for hour := 0; hour < 24; hour++ {
		label := fmt.Sprintf("%d", (hour+11)%12+1)
		x := float64(leftLabelsWidth + hour*2*cellSize)
		dc.DrawStringAnchored(label, x, float64(headerHeight)/2, 0.5, 0.5)
	}
}

// drawDayLabels подписи строк: понедельник, ..., воскресенье, понедельник
func drawDayLabels(dc *gg.Context) {
	dc.SetColor(textColor)
	for row := 0; row < schedule.GridRows; row++ {
		label := timeslot.DayName(row % model.DaysPerWeek)
		y := float64(headerHeight + row*cellSize + cellSize/2)
		dc.DrawStringAnchored(label, 8, y, 0, 0.5)
	}
}

func drawCells(dc *gg.Context, grid schedule.Grid) {
	for row := 0; row < schedule.GridRows; row++ {
		for col := 0; col < model.SlotsPerDay; col++ {
			x, y := cellOrigin(row, col)
			dc.SetColor(StateColor(grid[row][col]))
			dc.DrawRectangle(x, y, cellSize, cellSize)
			dc.Fill()

			dc.SetColor(gridLineColor)
			dc.SetLineWidth(cellGap)
			dc.DrawRectangle(x, y, cellSize, cellSize)
			dc.Stroke()
		}
	}
}

// drawHourLines жирные линии на каждом часе
func drawHourLines(dc *gg.Context) {
	dc.SetColor(hourLineColor)
	dc.SetLineWidth(2)
	top := float64(headerHeight)
	bottom := float64(headerHeight + schedule.GridRows*cellSize)
	for hour := 0; hour <= 24; hour++ {
		x := float64(leftLabelsWidth + hour*2*cellSize)
		dc.DrawLine(x, top, x, bottom)
		dc.Stroke()
	}
}

// drawCurrentCell обводит текущий получас
func drawCurrentCell(dc *gg.Context, current int) {
	if current < 0 || current >= model.SlotsPerWeek {
		return
	}

	// Канонический индекс в ячейку: сдвиг на 19:30 первого понедельника
	cell := current + model.SplitSlot
	x, y := cellOrigin(cell/model.SlotsPerDay, cell%model.SlotsPerDay)

	dc.SetColor(currentCellClr)
	dc.SetLineWidth(3)
	dc.DrawRectangle(x+1, y+1, cellSize-2, cellSize-2)
	dc.Stroke()
}

func drawLegend(dc *gg.Context) {
	top := float64(headerHeight+schedule.GridRows*cellSize) + 16
	columnWidth := float64(ImageWidth-leftLabelsWidth) / legendColumns

	for i, item := range legendItems {
		x := float64(leftLabelsWidth) + float64(i%legendColumns)*columnWidth
		y := top + float64(i/legendColumns)*(legendBoxSize+14)

		dc.SetColor(StateColor(item.state))
		dc.DrawRectangle(x, y, legendBoxSize, legendBoxSize)
		dc.Fill()
		dc.SetColor(gridLineColor)
		dc.SetLineWidth(1)
		dc.DrawRectangle(x, y, legendBoxSize, legendBoxSize)
		dc.Stroke()

		dc.SetColor(textColor)
		dc.DrawStringAnchored(item.label, x+legendBoxSize+8, y+legendBoxSize/2, 0, 0.5)
	}
}

func cellOrigin(row, col int) (float64, float64) {
	return float64(leftLabelsWidth + col*cellSize), float64(headerHeight + row*cellSize)
}

// encodeImage кодирует изображение в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
