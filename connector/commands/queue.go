package commands

import (
	"container/heap"
	"sync"
	"time"

	pb "github.com/busbridge/busbridge/gen/command"
)

// Initial backing-array size. The queue itself is unbounded; the capacity
// only buys growth hysteresis under bursts.
const queueInitialCapacity = 1000

type queueItem struct {
	cmd      *pb.Command
	priority int64
	seq      uint64
}

// commandHeap orders by descending priority, FIFO on ties.
type commandHeap []*queueItem

func (h commandHeap) Len() int { return len(h) }

func (h commandHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority > h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h commandHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *commandHeap) Push(x interface{}) {
	*h = append(*h, x.(*queueItem))
}

func (h *commandHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// priorityQueue is a blocking priority queue of inbound commands, safe for
// many producers and many consumers.
type priorityQueue struct {
	mu     sync.Mutex
	items  commandHeap
	seq    uint64
	notify chan struct{}
}

func newPriorityQueue() *priorityQueue {
	return &priorityQueue{
		items:  make(commandHeap, 0, queueInitialCapacity),
		notify: make(chan struct{}, 1),
	}
}

// Offer enqueues cmd. It never blocks.
func (q *priorityQueue) Offer(cmd *pb.Command) {
	q.mu.Lock()
	q.seq++
	heap.Push(&q.items, &queueItem{cmd: cmd, priority: commandPriority(cmd), seq: q.seq})
	q.mu.Unlock()

	queueDepth.Inc()
	q.wake()
}

// Poll returns the highest-priority command, blocking up to timeout. It
// returns nil when the timeout elapses with the queue empty.
func (q *priorityQueue) Poll(timeout time.Duration) *pb.Command {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			item := heap.Pop(&q.items).(*queueItem)
			remaining := len(q.items)
			q.mu.Unlock()
			queueDepth.Dec()
			// The notify channel holds at most one token; hand the
			// wakeup on so a sibling consumer is not left sleeping.
			if remaining > 0 {
				q.wake()
			}
			return item.cmd
		}
		q.mu.Unlock()

		select {
		case <-q.notify:
		case <-timer.C:
			return nil
		}
	}
}

func (q *priorityQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *priorityQueue) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}
