package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// ANSI palette indices.
var (
	black    = lipgloss.Color("0")
	red      = lipgloss.Color("1")
	green    = lipgloss.Color("2")
	yellow   = lipgloss.Color("3")
	blue     = lipgloss.Color("4")
	magenta  = lipgloss.Color("5")
	cyan     = lipgloss.Color("6")
	gray     = lipgloss.Color("7")
	darkGray = lipgloss.Color("8")
	white    = lipgloss.Color("15")
)

func rgb(r, g, b uint8) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))
}

// Theme is one colour scheme.
type Theme struct {
	Name string

	CPULow, CPUMid, CPUHigh    lipgloss.Color
	MemLow, MemMid, MemHigh    lipgloss.Color
	SwapLow, SwapMid, SwapHigh lipgloss.Color

	Border  lipgloss.Color
	Text    lipgloss.Color
	TextDim lipgloss.Color
	Label   lipgloss.Color

	SelectionBG lipgloss.Color
	SelectionFG lipgloss.Color
	SearchMatch lipgloss.Color
	Tagged      lipgloss.Color

	StatusRunning  lipgloss.Color
	StatusSleeping lipgloss.Color
	StatusDiskWait lipgloss.Color
	StatusZombie   lipgloss.Color
	StatusStopped  lipgloss.Color

	KeyBG lipgloss.Color
	KeyFG lipgloss.Color

	NewProcess  lipgloss.Color
	LargeNumber lipgloss.Color
	Basename    lipgloss.Color
}

func defaultTheme() Theme {
	return Theme{
		Name:   "Default",
		CPULow: green, CPUMid: yellow, CPUHigh: red,
		MemLow: green, MemMid: yellow, MemHigh: red,
		SwapLow: blue, SwapMid: yellow, SwapHigh: red,
		Border: white, Text: white, TextDim: darkGray, Label: cyan,
		SelectionBG: cyan, SelectionFG: black, SearchMatch: yellow, Tagged: yellow,
		StatusRunning: green, StatusSleeping: darkGray, StatusDiskWait: yellow,
		StatusZombie: red, StatusStopped: cyan,
		KeyBG: cyan, KeyFG: black,
		NewProcess: green, LargeNumber: magenta, Basename: cyan,
	}
}

func monochromeTheme() Theme {
	return Theme{
		Name:   "Monochrome",
		CPULow: white, CPUMid: white, CPUHigh: white,
		MemLow: white, MemMid: white, MemHigh: white,
		SwapLow: white, SwapMid: white, SwapHigh: white,
		Border: white, Text: white, TextDim: gray, Label: white,
		SelectionBG: white, SelectionFG: black, SearchMatch: white, Tagged: white,
		StatusRunning: white, StatusSleeping: gray, StatusDiskWait: white,
		StatusZombie: white, StatusStopped: gray,
		KeyBG: white, KeyFG: black,
		NewProcess: white, LargeNumber: white, Basename: white,
	}
}

func blackOnWhiteTheme() Theme {
	darkYellow := rgb(200, 150, 0)
	return Theme{
		Name:   "BlackOnWhite",
		CPULow: green, CPUMid: darkYellow, CPUHigh: red,
		MemLow: green, MemMid: darkYellow, MemHigh: red,
		SwapLow: blue, SwapMid: darkYellow, SwapHigh: red,
		Border: black, Text: black, TextDim: darkGray, Label: blue,
		SelectionBG: blue, SelectionFG: white, SearchMatch: darkYellow, Tagged: magenta,
		StatusRunning: green, StatusSleeping: darkGray, StatusDiskWait: darkYellow,
		StatusZombie: red, StatusStopped: blue,
		KeyBG: blue, KeyFG: white,
		NewProcess: green, LargeNumber: magenta, Basename: blue,
	}
}

func lightTerminalTheme() Theme {
	g, y, r, b := rgb(0, 150, 0), rgb(180, 140, 0), rgb(180, 0, 0), rgb(0, 0, 180)
	return Theme{
		Name:   "LightTerminal",
		CPULow: g, CPUMid: y, CPUHigh: r,
		MemLow: g, MemMid: y, MemHigh: r,
		SwapLow: b, SwapMid: y, SwapHigh: r,
		Border: darkGray, Text: black, TextDim: darkGray, Label: b,
		SelectionBG: b, SelectionFG: white, SearchMatch: y, Tagged: magenta,
		StatusRunning: g, StatusSleeping: darkGray, StatusDiskWait: y,
		StatusZombie: r, StatusStopped: b,
		KeyBG: b, KeyFG: white,
		NewProcess: g, LargeNumber: magenta, Basename: b,
	}
}

func midnightTheme() Theme {
	g, y, r := rgb(0, 255, 0), rgb(255, 255, 0), rgb(255, 0, 0)
	lav, dim, pink := rgb(150, 150, 255), rgb(100, 100, 150), rgb(255, 150, 255)
	return Theme{
		Name:   "Midnight",
		CPULow: g, CPUMid: y, CPUHigh: r,
		MemLow: g, MemMid: y, MemHigh: r,
		SwapLow: rgb(100, 100, 255), SwapMid: y, SwapHigh: r,
		Border: rgb(100, 100, 200), Text: rgb(200, 200, 255), TextDim: dim, Label: lav,
		SelectionBG: rgb(100, 100, 200), SelectionFG: white, SearchMatch: y, Tagged: pink,
		StatusRunning: g, StatusSleeping: dim, StatusDiskWait: y,
		StatusZombie: r, StatusStopped: lav,
		KeyBG: rgb(100, 100, 200), KeyFG: white,
		NewProcess: g, LargeNumber: pink, Basename: lav,
	}
}

func blacknightTheme() Theme {
	accent, dim := rgb(100, 100, 255), rgb(100, 100, 100)
	return Theme{
		Name:   "Blacknight",
		CPULow: green, CPUMid: yellow, CPUHigh: red,
		MemLow: green, MemMid: yellow, MemHigh: red,
		SwapLow: rgb(80, 80, 255), SwapMid: yellow, SwapHigh: red,
		Border: rgb(80, 80, 80), Text: rgb(200, 200, 200), TextDim: dim, Label: accent,
		SelectionBG: rgb(60, 60, 120), SelectionFG: white, SearchMatch: yellow, Tagged: magenta,
		StatusRunning: green, StatusSleeping: dim, StatusDiskWait: yellow,
		StatusZombie: red, StatusStopped: accent,
		KeyBG: rgb(60, 60, 120), KeyFG: white,
		NewProcess: green, LargeNumber: magenta, Basename: accent,
	}
}

func brokenGrayTheme() Theme {
	return Theme{
		Name:   "BrokenGray",
		CPULow: rgb(120, 120, 120), CPUMid: rgb(180, 180, 180), CPUHigh: rgb(240, 240, 240),
		MemLow: rgb(120, 120, 120), MemMid: rgb(180, 180, 180), MemHigh: rgb(240, 240, 240),
		SwapLow: rgb(100, 100, 120), SwapMid: rgb(160, 160, 180), SwapHigh: rgb(220, 220, 240),
		Border: rgb(150, 150, 150), Text: rgb(220, 220, 220), TextDim: rgb(120, 120, 120),
		Label: rgb(200, 200, 200),
		SelectionBG: rgb(100, 100, 100), SelectionFG: white,
		SearchMatch: rgb(255, 255, 200), Tagged: rgb(200, 200, 255),
		StatusRunning: rgb(200, 200, 200), StatusSleeping: rgb(100, 100, 100),
		StatusDiskWait: rgb(180, 180, 180), StatusZombie: rgb(255, 200, 200),
		StatusStopped: rgb(150, 150, 200),
		KeyBG: rgb(100, 100, 100), KeyFG: white,
		NewProcess: rgb(200, 255, 200), LargeNumber: rgb(200, 200, 255),
		Basename: rgb(200, 200, 200),
	}
}

func nordTheme() Theme {
	var (
		nord3  = rgb(76, 86, 106)
		nord4  = rgb(216, 222, 233)
		nord6  = rgb(236, 239, 244)
		nord7  = rgb(143, 188, 187)
		nord8  = rgb(136, 192, 208)
		nord9  = rgb(129, 161, 193)
		nord10 = rgb(94, 129, 172)
		nord11 = rgb(191, 97, 106)
		nord12 = rgb(208, 135, 112)
		nord13 = rgb(235, 203, 139)
		nord14 = rgb(163, 190, 140)
		nord15 = rgb(180, 142, 173)
	)
	return Theme{
		Name:   "Nord",
		CPULow: nord14, CPUMid: nord13, CPUHigh: nord11,
		MemLow: nord14, MemMid: nord13, MemHigh: nord11,
		SwapLow: nord9, SwapMid: nord13, SwapHigh: nord11,
		Border: nord3, Text: nord4, TextDim: nord3, Label: nord8,
		SelectionBG: nord10, SelectionFG: nord6, SearchMatch: nord13, Tagged: nord15,
		StatusRunning: nord14, StatusSleeping: nord3, StatusDiskWait: nord12,
		StatusZombie: nord11, StatusStopped: nord9,
		KeyBG: nord10, KeyFG: nord6,
		NewProcess: nord14, LargeNumber: nord15, Basename: nord7,
	}
}

var themes = map[string]func() Theme{
	"Default":       defaultTheme,
	"Monochrome":    monochromeTheme,
	"BlackOnWhite":  blackOnWhiteTheme,
	"LightTerminal": lightTerminalTheme,
	"Midnight":      midnightTheme,
	"Blacknight":    blacknightTheme,
	"BrokenGray":    brokenGrayTheme,
	"Nord":          nordTheme,
}

// ThemeByName returns the named scheme, falling back to Default.
func ThemeByName(name string) Theme {
	if f, ok := themes[name]; ok {
		return f()
	}
	return defaultTheme()
}

func tier(pct float64, low, mid, high lipgloss.Color) lipgloss.Color {
	switch {
	case pct < 50:
		return low
	case pct < 80:
		return mid
	default:
		return high
	}
}

func (t Theme) cpuColor(pct float64) lipgloss.Color  { return tier(pct, t.CPULow, t.CPUMid, t.CPUHigh) }
func (t Theme) memColor(pct float64) lipgloss.Color  { return tier(pct, t.MemLow, t.MemMid, t.MemHigh) }
func (t Theme) swapColor(pct float64) lipgloss.Color { return tier(pct, t.SwapLow, t.SwapMid, t.SwapHigh) }

func (t Theme) statusColor(s byte) lipgloss.Color {
	switch s {
	case 'R':
		return t.StatusRunning
	case 'S', 'I':
		return t.StatusSleeping
	case 'D':
		return t.StatusDiskWait
	case 'Z':
		return t.StatusZombie
	case 'T':
		return t.StatusStopped
	default:
		return t.Text
	}
}

// Cell styles shared by the renderers.
func (t Theme) text() Style    { return Style{FG: t.Text} }
func (t Theme) dim() Style     { return Style{FG: t.TextDim} }
func (t Theme) label() Style   { return Style{FG: t.Label, Bold: true} }
func (t Theme) key() Style     { return Style{FG: t.KeyFG, BG: t.KeyBG} }
func (t Theme) columns() Style { return Style{FG: black, BG: t.CPULow} }
func (t Theme) sortedColumn() Style {
	return Style{FG: black, BG: t.Basename, Bold: true}
}
func (t Theme) errorText() Style { return Style{FG: white, BG: red, Bold: true} }
