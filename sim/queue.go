// Implements the WaitQueue, which holds the guests waiting at a facility.
// Guests are enqueued when they arrive at the facility's entrance.

package sim

import (
	"fmt"
	"strings"
)

// WaitQueue is a FIFO queue of guest IDs waiting for service at one facility.
type WaitQueue struct {
	queue []int
}

// NewWaitQueue creates a queue holding ids in order.
func NewWaitQueue(ids ...int) *WaitQueue {
	return &WaitQueue{queue: append([]int(nil), ids...)}
}

// Enqueue adds a guest to the back of the queue.
func (wq *WaitQueue) Enqueue(id int) {
	wq.queue = append(wq.queue, id)
}

func (wq *WaitQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, id := range wq.queue {
		sb.WriteString(fmt.Sprint(id))
		if i < len(wq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of waiting guests.
func (wq *WaitQueue) Len() int {
	return len(wq.queue)
}

// Peek returns the guest at the front without removing it, or -1 if empty.
func (wq *WaitQueue) Peek() int {
	if len(wq.queue) == 0 {
		return -1
	}
	return wq.queue[0]
}

// Items returns a copy of the queue contents, front first.
func (wq *WaitQueue) Items() []int {
	return append([]int(nil), wq.queue...)
}

// DequeueN removes and returns up to n guests from the front.
func (wq *WaitQueue) DequeueN(n int) []int {
	if n <= 0 {
		panic(fmt.Sprintf("DequeueN: n must be positive, got %d", n))
	}
	n = min(n, len(wq.queue))
	batch := append([]int(nil), wq.queue[:n]...)
	wq.queue = wq.queue[n:]
	return batch
}

// Remove deletes id wherever it sits in the queue. Reports whether it was present.
func (wq *WaitQueue) Remove(id int) bool {
	for i, x := range wq.queue {
		if x == id {
			wq.queue = append(wq.queue[:i], wq.queue[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the queue and returns what it held.
func (wq *WaitQueue) Clear() []int {
	held := wq.queue
	wq.queue = nil
	return held
}
