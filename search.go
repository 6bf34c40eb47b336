package heapfit

import "fmt"

// SearchMode selects the free-block search policy.
type SearchMode uint32

const (
	FirstFit SearchMode = 1
	NextFit  SearchMode = 2
	BestFit  SearchMode = 3
)

func (m SearchMode) String() string {
	switch m {
	case FirstFit:
		return "first-fit"
	case NextFit:
		return "next-fit"
	case BestFit:
		return "best-fit"
	default:
		return fmt.Sprintf("SearchMode(%d)", uint32(m))
	}
}

// searcher scans the block chain for a free block of at least want payload
// bytes and returns its header offset, 0 on a miss. Splitting is the caller's
// concern, a searcher only locates.
type searcher interface {
	find(h *heap, want uint64) uint64
}

func newSearcher(mode SearchMode) (searcher, error) {
	switch mode {
	case FirstFit:
		return firstFitSearch{}, nil
	case NextFit:
		return nextFitSearch{}, nil
	case BestFit:
		return bestFitSearch{}, nil
	default:
		return nil, ErrInvalidSearchMode
	}
}

// firstFitSearch returns the first free block that fits, even when it is much
// larger than requested.
type firstFitSearch struct{}

func (firstFitSearch) find(h *heap, want uint64) uint64 {
	for off := h.meta.HeapStart; off != 0; {
		hdr := h.header(off)
		if hdr.Used == 0 && hdr.Size >= want {
			return off
		}
		off = hdr.Next
	}
	return 0
}

// nextFitSearch is the circular first fit: it resumes where the previous
// successful search left off instead of rescanning the known-unsuitable
// prefix, trading tail fragmentation for average scan time.
type nextFitSearch struct{}

func (nextFitSearch) find(h *heap, want uint64) uint64 {
	start := h.meta.Cursor
	if start == 0 {
		start = h.meta.HeapStart
	}
	if start == 0 {
		return 0
	}

	off := start
	wrapped := false
	for {
		hdr := h.header(off)
		if hdr.Used == 0 && hdr.Size >= want {
			h.meta.Cursor = off
			return off
		}

		off = hdr.Next
		if off == 0 {
			// Wrap once to the head, a second wrap would loop forever.
			if wrapped {
				return 0
			}
			wrapped = true
			off = h.meta.HeapStart
		}
		if off == start {
			return 0
		}
	}
}

// bestFitSearch scans the whole chain for the tightest admissible block,
// short-circuiting on an exact match since it cannot improve.
type bestFitSearch struct{}

func (bestFitSearch) find(h *heap, want uint64) uint64 {
	var best uint64
	for off := h.meta.HeapStart; off != 0; {
		hdr := h.header(off)
		if hdr.Used == 0 && hdr.Size >= want {
			if hdr.Size == want {
				return off
			}
			if best == 0 || hdr.Size < h.header(best).Size {
				best = off
			}
		}
		off = hdr.Next
	}
	return best
}
