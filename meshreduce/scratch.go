package meshreduce

import "sync"

// denseScratch holds the one-TestTriangle-per-input-triangle storage
// used by reduceDense. Pooled exactly like gjk.SimplexPool and epa's
// polytopeBuilderPool, to avoid allocating per invocation.
type denseScratch struct {
	triangles []testTriangle
}

func (s *denseScratch) reset() {
	s.triangles = s.triangles[:0]
}

var denseScratchPool = sync.Pool{
	New: func() any {
		return &denseScratch{triangles: make([]testTriangle, 0, denseSparseThreshold)}
	},
}

// triangleSlots is a growable, insertion-ordered map from a mesh
// triangle index (key) to its TestTriangle. Callers that need pointer
// stability across a batch of insertions must call ensureCapacity with
// the batch's worst-case final size before taking any pointers via
// getOrAllocate, exactly as spec.md §4.6 step 4 requires.
type triangleSlots struct {
	order []int
	index map[int]int
	slots []testTriangle
}

func (s *triangleSlots) reset() {
	s.order = s.order[:0]
	s.slots = s.slots[:0]
	if s.index == nil {
		s.index = make(map[int]int)
	} else {
		clear(s.index)
	}
}

// ensureCapacity grows the backing slots array, if needed, so that at
// least n total insertions can happen without another reallocation.
func (s *triangleSlots) ensureCapacity(n int) {
	if cap(s.slots) >= n {
		return
	}
	grown := make([]testTriangle, len(s.slots), n)
	copy(grown, s.slots)
	s.slots = grown
}

// getOrAllocate returns the slot for key, allocating a zero-value one if
// absent. The second return reports whether the slot was newly
// allocated. The returned pointer remains valid for the lifetime of this
// triangleSlots as long as ensureCapacity was called with a sufficient
// bound before this (and any other) insertion in the same batch.
func (s *triangleSlots) getOrAllocate(key int) (*testTriangle, bool) {
	if i, ok := s.index[key]; ok {
		return &s.slots[i], false
	}

	s.slots = append(s.slots, testTriangle{})
	i := len(s.slots) - 1
	s.index[key] = i
	s.order = append(s.order, key)

	return &s.slots[i], true
}

// sparseScratch holds the neighbor-index scratch list and the
// triangleSlots mapping used by reduceSparse.
type sparseScratch struct {
	neighbors []int
	slots     triangleSlots
}

func (s *sparseScratch) reset() {
	s.neighbors = s.neighbors[:0]
	s.slots.reset()
}

var sparseScratchPool = sync.Pool{
	New: func() any {
		return &sparseScratch{neighbors: make([]int, 0, 2*denseSparseThreshold)}
	},
}
