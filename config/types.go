package config

// MeterMode selects how a header meter is drawn.
type MeterMode string

const (
	MeterBar    MeterMode = "Bar"
	MeterText   MeterMode = "Text"
	MeterGraph  MeterMode = "Graph"
	MeterHidden MeterMode = "Hidden"
)

// Next cycles Bar, Text, Graph, Hidden and back to Bar.
func (m MeterMode) Next() MeterMode {
	switch m {
	case MeterBar:
		return MeterText
	case MeterText:
		return MeterGraph
	case MeterGraph:
		return MeterHidden
	default:
		return MeterBar
	}
}

func (m MeterMode) valid() bool {
	switch m {
	case MeterBar, MeterText, MeterGraph, MeterHidden:
		return true
	}
	return false
}

// ColorSchemes lists the recognised color_scheme values.
var ColorSchemes = []string{
	"Default",
	"Monochrome",
	"BlackOnWhite",
	"LightTerminal",
	"Midnight",
	"Blacknight",
	"BrokenGray",
	"Nord",
}

// RefreshRates is the cycle offered by the setup dialog, in milliseconds.
var RefreshRates = []int{100, 250, 500, 1000, 1500, 2000, 5000}

type Config struct {
	RefreshRateMs         int       `json:"refresh_rate_ms"`
	TreeViewDefault       bool      `json:"tree_view_default"`
	ColorScheme           string    `json:"color_scheme"`
	ShowKernelThreads     bool      `json:"show_kernel_threads"`
	ShowUserThreads       bool      `json:"show_user_threads"`
	ShowProgramPath       bool      `json:"show_program_path"`
	HighlightRunning      bool      `json:"highlight_running"`
	HighlightLargeNumbers bool      `json:"highlight_large_numbers"`
	HighlightNewProcesses bool      `json:"highlight_new_processes"`
	HighlightDurationMs   int       `json:"highlight_duration_ms"`
	HighlightBasename     bool      `json:"highlight_basename"`
	CPUMeterMode          MeterMode `json:"cpu_meter_mode"`
	MemoryMeterMode       MeterMode `json:"memory_meter_mode"`
	VisibleColumns        []string  `json:"visible_columns"`
	MouseEnabled          bool      `json:"mouse_enabled"`
	ReadOnly              bool      `json:"readonly"`
	ConfirmKill           bool      `json:"confirm_kill"`
}
