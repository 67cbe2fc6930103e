//go:build windows

package proc

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/faratech/htop-win/model"
)

const systemProcessInformation = 5

func (p *Probe) query() ([]model.ProcessRecord, error) {
	if unsafe.Sizeof(uintptr(0)) != 8 {
		return nil, fmt.Errorf("%w: 32-bit process layout", ErrUnsupported)
	}
	if len(p.buf) == 0 {
		p.buf = make([]byte, initialBufferSize)
	}

	for attempt := 0; ; attempt++ {
		var returned uint32
		err := windows.NtQuerySystemInformation(
			systemProcessInformation,
			unsafe.Pointer(&p.buf[0]),
			uint32(len(p.buf)),
			&returned)
		if err == nil {
			break
		}
		if errors.Is(err, windows.STATUS_INFO_LENGTH_MISMATCH) && attempt < maxQueryAttempts {
			size := int(returned) + bufferSlack
			if size <= len(p.buf) {
				size = len(p.buf) * 2
			}
			p.buf = make([]byte, size)
			p.metrics.BufferGrowth()
			continue
		}
		return nil, fmt.Errorf("%w: %v", ErrProbeFailed, err)
	}

	return ParseProcessBuffer(p.buf, uintptr(unsafe.Pointer(&p.buf[0]))), nil
}
