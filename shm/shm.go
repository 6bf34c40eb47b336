package shm

import (
	"fmt"
	"hash/crc32"
	"unsafe"
)

const shmAccess = 0600

func NewMemory(key string, bytes uint64, createIfNotExists bool) *Memory {
	return &Memory{
		createIfNotExists: createIfNotExists,
		shmkey:            key,
		bytes:             bytes,
	}
}

// Memory based on SysV shared memory
type Memory struct {
	createIfNotExists bool   // create shm if not exists
	shmkey            string // shared memory key
	shmid             int    // shared memory handle
	bytes             uint64 // shared memory size
	data              []byte // attached segment
	basep             unsafe.Pointer
}

func (m *Memory) Key() string {
	return m.shmkey
}

func (m *Memory) Handle() int {
	return m.shmid
}

func (m *Memory) Size() uint64 {
	return m.bytes
}

func (m *Memory) Ptr() unsafe.Pointer {
	return m.basep
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

// ipcKey derives the SysV key from the string key, same role as ftok.
func (m *Memory) ipcKey() int {
	return int(int32(crc32.ChecksumIEEE([]byte(m.shmkey))))
}
