package heapfit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHeap(t *testing.T, mode SearchMode) *heap {
	h, err := New(64*KB, &Config{MemoryType: GO, SearchMode: mode})
	require.NoError(t, err)
	return h.(*heap)
}

func TestSearchModeString(t *testing.T) {
	assert.Equal(t, "first-fit", FirstFit.String())
	assert.Equal(t, "next-fit", NextFit.String())
	assert.Equal(t, "best-fit", BestFit.String())
	assert.Equal(t, "SearchMode(9)", SearchMode(9).String())
}

func TestNewSearcherInvalidMode(t *testing.T) {
	_, err := newSearcher(SearchMode(0))
	assert.ErrorIs(t, err, ErrInvalidSearchMode)
}

func TestSearchEmptyRegistry(t *testing.T) {
	for _, mode := range []SearchMode{FirstFit, NextFit, BestFit} {
		h := newTestHeap(t, mode)
		assert.Equal(t, uint64(0), h.searcher.find(h, 8), mode.String())
	}
}

func TestSearchNoFit(t *testing.T) {
	for _, mode := range []SearchMode{FirstFit, NextFit, BestFit} {
		h := newTestHeap(t, mode)
		off, err := h.Alloc(8)
		require.NoError(t, err)
		require.NoError(t, h.Free(off))
		// The only free block is smaller than the request.
		assert.Equal(t, uint64(0), h.searcher.find(h, 64), mode.String())
	}
}

// Given free blocks {64, 8, 16}, best-fit must pick the exact 16 and never
// the 64.
func TestBestFitExactness(t *testing.T) {
	h := newTestHeap(t, BestFit)

	a, err := h.Alloc(64)
	require.NoError(t, err)
	b, err := h.Alloc(8)
	require.NoError(t, err)
	c, err := h.Alloc(16)
	require.NoError(t, err)

	require.NoError(t, h.Free(a))
	require.NoError(t, h.Free(b))
	require.NoError(t, h.Free(c))

	got, err := h.Alloc(16)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

// Same layout under first-fit takes the 64 block at the head instead.
func TestFirstFitTakesFirst(t *testing.T) {
	h := newTestHeap(t, FirstFit)

	a, err := h.Alloc(64)
	require.NoError(t, err)
	b, err := h.Alloc(8)
	require.NoError(t, err)
	c, err := h.Alloc(16)
	require.NoError(t, err)

	require.NoError(t, h.Free(a))
	require.NoError(t, h.Free(b))
	require.NoError(t, h.Free(c))

	got, err := h.Alloc(16)
	require.NoError(t, err)
	assert.Equal(t, a, got)
	assert.Equal(t, uint64(16), h.SizeOf(got)) // split off the 64 block
}

// Best-fit without an exact match settles for the tightest admissible block.
func TestBestFitTightest(t *testing.T) {
	h := newTestHeap(t, BestFit)

	a, err := h.Alloc(64)
	require.NoError(t, err)
	b, err := h.Alloc(32)
	require.NoError(t, err)
	_, err = h.Alloc(8) // keep the tail used so free blocks stay distinct
	require.NoError(t, err)

	require.NoError(t, h.Free(a))
	require.NoError(t, h.Free(b))

	got, err := h.Alloc(16)
	require.NoError(t, err)
	assert.Equal(t, b, got)
}

func TestNextFitCursorAdvance(t *testing.T) {
	h := newTestHeap(t, NextFit)

	for i := 0; i < 3; i++ {
		_, err := h.Alloc(8)
		require.NoError(t, err)
	}
	o1, err := h.Alloc(16)
	require.NoError(t, err)
	o2, err := h.Alloc(16)
	require.NoError(t, err)

	require.NoError(t, h.Free(o1))
	require.NoError(t, h.Free(o2))

	// First search starts at the head and lands on o1's block, the cursor
	// now remembers it.
	o3, err := h.Alloc(16)
	require.NoError(t, err)
	assert.Equal(t, o1, o3)
	assert.Equal(t, headerOf(o3), h.meta.Cursor)

	// The next search resumes at the cursor, not the head, and lands on o2.
	o4, err := h.Alloc(16)
	require.NoError(t, err)
	assert.Equal(t, o2, o4)
	assert.Equal(t, headerOf(o4), h.meta.Cursor)
}

func TestNextFitWrapsOnce(t *testing.T) {
	h := newTestHeap(t, NextFit)

	o1, err := h.Alloc(16)
	require.NoError(t, err)
	o2, err := h.Alloc(16)
	require.NoError(t, err)

	// Move the cursor to the tail block, then free the block before it.
	require.NoError(t, h.Free(o2))
	got, err := h.Alloc(16)
	require.NoError(t, err)
	require.Equal(t, o2, got)
	require.Equal(t, headerOf(o2), h.meta.Cursor)

	require.NoError(t, h.Free(o1))

	// The scan starts past o1, wraps to the head and still finds it.
	got, err = h.Alloc(16)
	require.NoError(t, err)
	assert.Equal(t, o1, got)
}

func TestNextFitTerminatesWithoutFit(t *testing.T) {
	h := newTestHeap(t, NextFit)

	o1, err := h.Alloc(16)
	require.NoError(t, err)
	require.NoError(t, h.Free(o1))
	got, err := h.Alloc(16)
	require.NoError(t, err)
	require.Equal(t, o1, got)

	// Cursor set, every block used: the circular scan must come back to its
	// starting point and report a miss, which grows the arena instead.
	o2, err := h.Alloc(16)
	require.NoError(t, err)
	assert.NotEqual(t, o1, o2)
}
