package field

import (
	"runtime"
)

// NumCores is the number of workers used by Map.
var NumCores = runtime.NumCPU()

// minChunk is the smallest range worth handing to its own worker.
const minChunk = 1 << 10

// Map calls fn on contiguous sub-ranges of [0, n) that together cover the
// whole range exactly once. The sub-ranges may run concurrently and in any
// order, so fn must only write to indices inside the range it was given and
// must not read values written by other calls in the same pass. Map returns
// after every call has finished.
func Map(n int, fn func(lo, hi int)) {
	workers := NumCores
	if workers > n/minChunk {
		workers = n / minChunk
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	out := make(chan int, workers)
	chunk := n / workers

	for id := 0; id < workers-1; id++ {
		go func(id int) {
			fn(id*chunk, (id+1)*chunk)
			out <- id
		}(id)
	}
	fn((workers-1)*chunk, n)

	for i := 0; i < workers-1; i++ {
		<-out
	}
}
