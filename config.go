package heapfit

type MemoryType int

const (
	GO   MemoryType = 1
	SHM             = 2
	MMAP            = 3
)

type Config struct {
	// memory type in GO SHM MMAP
	MemoryType MemoryType
	// shared memory key or mmap file path
	MemoryKey string
	// free-block search policy, held for the heap's lifetime
	SearchMode SearchMode
	// serialize Alloc/Free/Reset through the in-region lock
	Concurrent bool
	// verify the per-block canary on Free
	DetectCorruption bool
}

func DefaultConfig() *Config {
	return &Config{
		MemoryType: GO,
		SearchMode: FirstFit,
	}
}

func mergeConfig(c *Config) *Config {
	merged := DefaultConfig()
	if c == nil {
		return merged
	}
	if c.MemoryType != 0 {
		merged.MemoryType = c.MemoryType
	}
	if c.SearchMode != 0 {
		merged.SearchMode = c.SearchMode
	}
	merged.MemoryKey = c.MemoryKey
	merged.Concurrent = c.Concurrent
	merged.DetectCorruption = c.DetectCorruption
	return merged
}
