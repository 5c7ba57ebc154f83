package util

// Stack is a LIFO used for view history. Pop and Peek on an empty stack return the zero value.
type Stack[T any] struct {
	items []T
}

func (s *Stack[T]) Push(item T) {
	s.items = append(s.items, item)
}

func (s *Stack[T]) Pop() (item T) {
	if item = s.Peek(); len(s.items) > 0 {
		s.items = s.items[:len(s.items)-1]
	}
	return
}

func (s *Stack[T]) Peek() (item T) {
	if n := len(s.items); n > 0 {
		item = s.items[n-1]
	}
	return
}

func (s *Stack[T]) Len() int {
	return len(s.items)
}

func (s *Stack[T]) Clear() {
	s.items = nil
}
