// Package mpsc
// @Description: 无锁多生产者单消费者队列

package mpsc

import (
	"sync/atomic"
)

type node[T any] struct {
	next atomic.Pointer[node[T]]
	val  T
}

// Queue 多个协程可以同时 Push，只允许一个协程 Pop
type Queue[T any] struct {
	head atomic.Pointer[node[T]]
	tail *node[T]
	size atomic.Int64
}

func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	stub := &node[T]{}
	q.head.Store(stub)
	q.tail = stub
	return q
}

func (q *Queue[T]) Push(x T) {
	n := &node[T]{val: x}
	q.size.Add(1)
	prev := q.head.Swap(n)
	prev.next.Store(n)
}

// Pop 仅由消费者调用
func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	tail := q.tail
	next := tail.next.Load()
	if next == nil {
		return zero, false
	}
	q.tail = next
	v := next.val
	next.val = zero
	q.size.Add(-1)
	return v, true
}

func (q *Queue[T]) Empty() bool {
	return q.tail.next.Load() == nil
}

// Len 近似长度，生产者尚未链接的节点也计算在内
func (q *Queue[T]) Len() int {
	return int(q.size.Load())
}
