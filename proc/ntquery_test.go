package proc

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faratech/htop-win/model"
)

const fakeBase = 0x7ff600000000

type fakeEntry struct {
	pid, ppid      uint64
	threads        uint32
	basePriority   int32
	create         uint64
	kernel, user   uint64
	workingSet     uint64
	workingSetPriv uint64
	pagefile       uint64
	name           string
}

// buildBuffer lays entries out back to back, each followed by its UTF-16
// image name, the way the kernel does.
func buildBuffer(entries []fakeEntry) []byte {
	le := binary.LittleEndian
	var buf []byte
	starts := make([]int, len(entries))
	for i, e := range entries {
		starts[i] = len(buf)
		rec := make([]byte, processEntrySize)
		name := encodeUTF16(e.name)

		le.PutUint32(rec[offThreadCount:], e.threads)
		le.PutUint64(rec[offWorkingSetPriv:], e.workingSetPriv)
		le.PutUint64(rec[offCreateTime:], e.create)
		le.PutUint64(rec[offUserTime:], e.user)
		le.PutUint64(rec[offKernelTime:], e.kernel)
		le.PutUint32(rec[offBasePriority:], uint32(e.basePriority))
		le.PutUint64(rec[offUniqueProcessID:], e.pid)
		le.PutUint64(rec[offParentProcessID:], e.ppid)
		le.PutUint64(rec[offWorkingSetSize:], e.workingSet)
		le.PutUint64(rec[offPagefileUsage:], e.pagefile)
		if len(name) > 0 {
			le.PutUint16(rec[offImageNameLength:], uint16(len(name)))
			le.PutUint64(rec[offImageNameBuffer:], uint64(fakeBase+starts[i]+processEntrySize))
		}
		buf = append(buf, rec...)
		buf = append(buf, name...)
		// keep entries 8-byte aligned
		for len(buf)%8 != 0 {
			buf = append(buf, 0)
		}
	}
	for i := 0; i < len(entries)-1; i++ {
		le.PutUint32(buf[starts[i]+offNextEntry:], uint32(starts[i+1]-starts[i]))
	}
	return buf
}

func TestParseProcessBuffer(t *testing.T) {
	buf := buildBuffer([]fakeEntry{
		{pid: 0, threads: 8},
		{pid: 4, threads: 200, basePriority: 8},
		{
			pid: 1234, ppid: 4, threads: 3, basePriority: 13,
			create: 116444736000000000 + 50_000_000, kernel: 100, user: 250,
			workingSet: 4096 * 10, workingSetPriv: 4096 * 4, pagefile: 8192,
			name: "notepad.exe",
		},
	})

	recs := ParseProcessBuffer(buf, fakeBase)
	require.Len(t, recs, 3)

	assert.Equal(t, "System Idle Process", recs[0].Name)
	assert.Equal(t, "System", recs[1].Name)

	p := recs[2]
	assert.Equal(t, uint32(1234), p.PID)
	assert.Equal(t, uint32(4), p.ParentPID)
	assert.Equal(t, "notepad.exe", p.Name)
	assert.Equal(t, "notepad.exe", p.NameLower)
	assert.Equal(t, "notepad.exe", p.Command)
	assert.Equal(t, uint32(3), p.ThreadCount)
	assert.Equal(t, uint64(100), p.KernelTime)
	assert.Equal(t, uint64(250), p.UserTime)
	assert.Equal(t, int64(5), p.StartTime)
	assert.Equal(t, uint64(8192), p.VirtualBytes)
	assert.Equal(t, uint64(4096*10), p.ResidentBytes)
	assert.Equal(t, uint64(4096*6), p.SharedBytes)
	assert.Equal(t, model.PriorityHigh.Nice(), p.Nice)
	assert.Equal(t, model.PriorityHigh.HtopPriority(), p.Priority)
}

func TestParseProcessBufferNonASCIIName(t *testing.T) {
	buf := buildBuffer([]fakeEntry{{pid: 77, name: "Überprüfung.exe"}})
	recs := ParseProcessBuffer(buf, fakeBase)
	require.Len(t, recs, 1)
	assert.Equal(t, "Überprüfung.exe", recs[0].Name)
	assert.Equal(t, "überprüfung.exe", recs[0].NameLower)
}

func TestParseProcessBufferTruncated(t *testing.T) {
	buf := buildBuffer([]fakeEntry{{pid: 1, name: "a.exe"}, {pid: 2, name: "b.exe"}})

	assert.Empty(t, ParseProcessBuffer(nil, fakeBase))
	assert.Empty(t, ParseProcessBuffer(buf[:processEntrySize-1], fakeBase))

	// The second entry is cut off, so only the first survives.
	recs := ParseProcessBuffer(buf[:processEntrySize+16], fakeBase)
	require.Len(t, recs, 1)
	assert.Equal(t, uint32(1), recs[0].PID)
}

func TestParseProcessBufferNamePointerOutOfRange(t *testing.T) {
	buf := buildBuffer([]fakeEntry{{pid: 9, name: "x.exe"}})
	// A base above the pointer makes the name unreachable.
	recs := ParseProcessBuffer(buf, fakeBase+0x1000)
	require.Len(t, recs, 1)
	assert.Equal(t, "System", recs[0].Name)
}

func TestProbeReportsEmptyTableOnUnsupported(t *testing.T) {
	p := NewProbe(nil)
	recs, _ := p.Processes()
	assert.NotNil(t, recs)
}
