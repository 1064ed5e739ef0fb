package util

import (
	"golang.org/x/exp/constraints"
)

type pq_item[T any, P constraints.Ordered] struct {
	value    T
	priority P
}

// Binary min-heap keyed on priority. Items with equal priority are
// dequeued in unspecified order.
type PriorityQueue[T any, P constraints.Ordered] struct {
	items *[]pq_item[T, P]
}

func NewPriorityQueue[T any, P constraints.Ordered](capacity int) PriorityQueue[T, P] {
	items := make([]pq_item[T, P], 0, capacity)
	return PriorityQueue[T, P]{
		items: &items,
	}
}

func (self PriorityQueue[T, P]) Enqueue(value T, priority P) {
	heap := *self.items
	heap = append(heap, pq_item[T, P]{value, priority})
	index := len(heap) - 1
	for index > 0 {
		parent := (index - 1) / 2
		if heap[parent].priority <= heap[index].priority {
			break
		}
		heap[parent], heap[index] = heap[index], heap[parent]
		index = parent
	}
	*self.items = heap
}

func (self PriorityQueue[T, P]) Dequeue() (T, bool) {
	heap := *self.items
	if len(heap) == 0 {
		var value T
		return value, false
	}
	top := heap[0].value
	last := len(heap) - 1
	heap[0] = heap[last]
	heap = heap[:last]
	index := 0
	for {
		left := 2*index + 1
		right := 2*index + 2
		smallest := index
		if left < len(heap) && heap[left].priority < heap[smallest].priority {
			smallest = left
		}
		if right < len(heap) && heap[right].priority < heap[smallest].priority {
			smallest = right
		}
		if smallest == index {
			break
		}
		heap[index], heap[smallest] = heap[smallest], heap[index]
		index = smallest
	}
	*self.items = heap
	return top, true
}

func (self PriorityQueue[T, P]) Len() int {
	return len(*self.items)
}
