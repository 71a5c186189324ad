package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconFolder = "📁"
	IconError  = "❌"
	IconDone   = "✔"
	IconSkip   = "⏭"
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%d%%"
)

// Window sizing
const (
	MainWindowWidth   float32 = 1100
	MainWindowHeight  float32 = 650
	LogWindowWidth    float32 = 600
	LogWindowHeight   float32 = 500
	TasksWindowWidth  float32 = 600
	TasksWindowHeight float32 = 400
	DialogWidth       float32 = 480
	DialogHeight      float32 = 520
)

// Layout sizing (results table / task rows)
const (
	ColumnWidth       float32 = 120
	WideColumnWidth   float32 = 200
	NarrowColumnWidth float32 = 60
	InfoPanelOffset           = 0.72

	TargetEntryWidth  float32 = 220
	StatusLabelWidth  float32 = 96
	RowMinWidth       float32 = 400
	InstrumentColumns         = 3
)

// Debounce durations
const (
	UIUpdateDebounce = 100 * time.Millisecond
)
