package mmap

import (
	"fmt"
	"os"
	"unsafe"

	mmapgo "github.com/edsrzf/mmap-go"
)

// Memory based on a file-backed mapping, the heap image persists across
// attaches as long as the file does.
type Memory struct {
	filepath string
	bytes    uint64
	file     *os.File
	region   mmapgo.MMap
	basep    unsafe.Pointer
}

func NewMemory(filepath string, bytes uint64) *Memory {
	return &Memory{filepath: filepath, bytes: bytes}
}

func (m *Memory) Attach() (err error) {
	if m.basep != nil {
		return nil
	}

	m.file, err = os.OpenFile(m.filepath, os.O_RDWR|os.O_CREATE, 0666)
	if err != nil {
		return err
	}

	if err = m.file.Truncate(int64(m.bytes)); err != nil {
		_ = m.file.Close()
		m.file = nil
		return err
	}

	m.region, err = mmapgo.MapRegion(m.file, int(m.bytes), mmapgo.RDWR, 0, 0)
	if err != nil {
		_ = m.file.Close()
		m.file = nil
		return err
	}

	m.basep = unsafe.Pointer(unsafe.SliceData(m.region))
	return nil
}

func (m *Memory) Detach() error {
	if m.region != nil {
		if err := m.region.Flush(); err != nil {
			return err
		}
		if err := m.region.Unmap(); err != nil {
			return err
		}
		m.region = nil
		m.basep = unsafe.Pointer(nil)
	}

	if m.file != nil {
		err := m.file.Close()
		m.file = nil
		return err
	}

	return nil
}

func (m *Memory) Ptr() unsafe.Pointer {
	return m.basep
}

func (m *Memory) Size() uint64 {
	return m.bytes
}

func (m *Memory) PtrOffset(offset uint64) unsafe.Pointer {
	if offset >= m.bytes {
		panic(fmt.Errorf("offset overflow: %d > %d", offset, m.bytes))
	}
	return unsafe.Pointer(uintptr(m.basep) + uintptr(offset))
}

func (m *Memory) Travel(skipOffset uint64, fn func(ptr unsafe.Pointer, size uint64) uint64) {
	for skipOffset < m.bytes {
		if advanceBytes := fn(m.PtrOffset(skipOffset), m.bytes-skipOffset); advanceBytes > 0 {
			skipOffset += advanceBytes
			continue
		}
		break
	}
}
