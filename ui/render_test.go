package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faratech/htop-win/model"
)

func TestCanvasWideRunes(t *testing.T) {
	c := NewCanvas(5, 1)
	n := c.Text(0, 0, "a日本", Style{}, 4)
	assert.Equal(t, 4, n)
	assert.Equal(t, "a日  ", c.Row(0))

	c = NewCanvas(4, 2)
	c.Text(2, 1, "abcdef", Style{}, 10)
	assert.Equal(t, "    ", c.Row(0))
	assert.Equal(t, "  ab", c.Row(1))
	assert.Equal(t, "", c.Row(2))
}

func TestCanvasRenderKeepsRows(t *testing.T) {
	c := NewCanvas(3, 2)
	c.Text(0, 0, "abc", Style{}, 3)
	c.Text(0, 1, "xyz", Style{}, 3)
	assert.Equal(t, "abc\nxyz", c.Render())
}

func TestBoundsHitTestLastWins(t *testing.T) {
	b := &Bounds{}
	b.Add(Rect{X: 0, Y: 0, W: 10, H: 10}, Element{Kind: ElemHeader})
	b.Add(Rect{X: 2, Y: 2, W: 2, H: 1}, Element{Kind: ElemCPUMeter, Index: 3})
	b.Add(Rect{X: 5, Y: 5, W: 0, H: 1}, Element{Kind: ElemFooter})

	el, ok := b.HitTest(3, 2)
	require.True(t, ok)
	assert.Equal(t, Element{Kind: ElemCPUMeter, Index: 3}, el)

	el, ok = b.HitTest(9, 9)
	require.True(t, ok)
	assert.Equal(t, ElemHeader, el.Kind)

	_, ok = b.HitTest(20, 0)
	assert.False(t, ok)
	assert.Zero(t, b.Count(ElemFooter))
}

func TestFormatters(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{FormatBytes(512), "512B"},
		{FormatBytes(2 * kib), "2K"},
		{FormatBytes(300 * mib), "300M"},
		{FormatBytes(3 * gib / 2), "1.5G"},
		{FormatBytes(2 * tib), "2.0T"},
		{FormatMeterBytes(12 * gib), "12.00G"},
		{FormatRate(1536), "1.5K/s"},
		{FormatRate(10), "10B/s"},
		{FormatTime(90*time.Second + 250*time.Millisecond), " 1:30.25"},
		{FormatTime(2*time.Hour + 5*time.Minute), " 2h05:00"},
		{FormatTime(50 * time.Hour), "  2d02h"},
		{FormatUptime(3661), "01:01:01"},
		{FormatUptime(86400 + 60), "1 day, 00:01:00"},
		{FormatUptime(3 * 86400), "3 days, 00:00:00"},
		{FormatStart(0, 100), "-"},
		{FormatStart(70, 100), "30s"},
		{FormatStart(1000, 1000+3*3600+120), "3h2m"},
		{FormatStart(1, 1+200*86400), "200d"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.got)
	}
}

func TestHeaderMetersLayout(t *testing.T) {
	left, right := headerMeters(8)
	require.Len(t, left, 6)
	require.Len(t, right, 9)
	assert.Equal(t, meter{kind: meterCPU, core: 3}, left[3])
	assert.Equal(t, meter{kind: meterMem}, left[4])
	assert.Equal(t, meter{kind: meterSwap}, left[5])
	assert.Equal(t, meter{kind: meterCPU, core: 4}, right[0])
	assert.Equal(t, meter{kind: meterBattery}, right[8])

	left, right = headerMeters(3)
	assert.Len(t, left, 4)
	assert.Len(t, right, 6)
}

func TestLayoutColumnsCommandTakesRest(t *testing.T) {
	cols := layoutColumns([]model.Column{model.ColPID, model.ColCommand}, 60)
	require.Len(t, cols, 2)
	assert.Equal(t, 0, cols[0].x)
	assert.Equal(t, 7, cols[1].x)
	assert.Equal(t, 53, cols[1].w)

	cols = layoutColumns([]model.Column{model.ColPID, model.ColUser, model.ColCommand}, 10)
	require.Len(t, cols, 2)
	assert.Equal(t, 3, cols[1].w)
}

func TestFrameRegistersBounds(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m = m.Apply(testSnapshot(sampleRecords(60)...))
	frame := m.Frame()

	lines := strings.Split(frame, "\n")
	assert.Len(t, lines, 40)

	for _, r := range m.bounds.Rects() {
		assert.False(t, r.Empty())
	}
	assert.Equal(t, len(m.columns), m.bounds.Count(ElemColumnHeader))
	assert.Equal(t, m.tableHeight(), m.bounds.Count(ElemProcessRow))
	assert.Equal(t, 4, m.bounds.Count(ElemCPUMeter))
	assert.Equal(t, 10, m.bounds.Count(ElemFunctionKey))
	assert.Equal(t, 1, m.bounds.Count(ElemHeader))
	assert.Equal(t, 1, m.bounds.Count(ElemFooter))

	_, ok := m.bounds.Find(Element{Kind: ElemMemMeter})
	assert.True(t, ok)
	_, ok = m.bounds.Find(Element{Kind: ElemColumnHeader, Index: int(model.ColCommand)})
	assert.True(t, ok)
}

func TestHiddenHeaderGivesRowsToTable(t *testing.T) {
	m, _ := newTestModel(t, Options{HideMeters: true})
	m = m.Apply(testSnapshot(sampleRecords(60)...))
	m.Frame()
	assert.Zero(t, m.bounds.Count(ElemHeader))
	assert.Equal(t, 40-1-footerHeight, m.bounds.Count(ElemProcessRow))
}

func TestRowStylePriority(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	now := testNow.Unix()
	p := record(10, "x", 0)
	p.StartTime = now

	st, uniform := m.rowStyle(&p, false, now)
	assert.True(t, uniform)
	assert.Equal(t, m.theme.NewProcess, st.BG)

	p.MatchesSearch = true
	st, uniform = m.rowStyle(&p, false, now)
	assert.False(t, uniform)
	assert.Equal(t, m.theme.SearchMatch, st.BG)

	st, uniform = m.rowStyle(&p, true, now)
	assert.True(t, uniform)
	assert.Equal(t, m.theme.SelectionBG, st.BG)
}

func TestCommandSpansDimSystemPrefix(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m.view.ShowProgramPath = true
	p := record(10, "svchost", 0)
	p.ExePath = `C:\Windows\System32\svchost.exe`

	spans := m.commandSpans(&p)
	require.Len(t, spans, 2)
	assert.Equal(t, `C:\Windows\System32\`, spans[0].text)
	assert.Equal(t, m.theme.dim(), spans[0].st)
	assert.Equal(t, "svchost.exe", spans[1].text)

	p.ExeDeleted = true
	spans = m.commandSpans(&p)
	assert.Equal(t, " (deleted)", spans[len(spans)-1].text)
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, []string{"abc", "def", "g"}, wrapText("abcdefg", 3))
	assert.Equal(t, []string{""}, wrapText("", 3))
	assert.Nil(t, wrapText("abc", 0))
}
