package heapfit

import (
	"path/filepath"
	"runtime"
	"testing"
	"unsafe"

	"github.com/heapfit/heapfit/gom"
	"github.com/heapfit/heapfit/mmap"
	"github.com/heapfit/heapfit/shm"
	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	size := uint64(4 * KB)

	typs := []MemoryType{GO, SHM, MMAP}
	for _, typ := range typs {
		var mem Memory
		switch typ {
		case GO:
			mem = gom.NewMemory(size)
		case SHM:
			if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
				continue
			}
			mem = shm.NewMemory("TestMemory.test", size, true)
		case MMAP:
			mem = mmap.NewMemory(filepath.Join(t.TempDir(), "TestMemory.test"), size)
		}
		if err := mem.Attach(); nil != err {
			t.Fatal(err)
		}

		p1 := (*uint32)(mem.Ptr())
		*p1 = 1234567

		p2 := (*uint32)(mem.PtrOffset(0))

		if *p1 != *p2 {
			t.Fatal("not equal:", *p1, "!=", *p2)
		}

		steps := 0
		mem.Travel(size-64, func(ptr unsafe.Pointer, remain uint64) uint64 {
			steps++
			return 16
		})
		assert.Equal(t, 4, steps)

		assert.Equal(t, size, mem.Size())
		assert.Panics(t, func() {
			_ = (*uint32)(mem.PtrOffset(size + 1))
		})

		if err := mem.Detach(); nil != err {
			t.Fatal(err)
		}
	}
}
