package tasks

// List is an ordered in-memory copy of a user's tasks. It is not safe for
// concurrent use; the Controller serialises access.
type List struct {
	items []Task
}

func NewList(items []Task) *List {
	l := &List{items: make([]Task, len(items))}
	copy(l.items, items)
	return l
}

// Items returns a copy of the sequence.
func (l *List) Items() []Task {
	out := make([]Task, len(l.items))
	copy(out, l.items)
	return out
}

func (l *List) Len() int {
	return len(l.items)
}

func (l *List) Append(t Task) {
	l.items = append(l.items, t)
}

// Replace swaps the task with t.ID in place and reports whether it was found.
func (l *List) Replace(t Task) bool {
	i := l.index(t.ID)
	if i < 0 {
		return false
	}
	l.items[i] = t
	return true
}

// Remove drops the task with the given id, keeping the order of the rest.
func (l *List) Remove(id string) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.items = append(l.items[:i:i], l.items[i+1:]...)
	return true
}

func (l *List) Find(id string) (Task, bool) {
	i := l.index(id)
	if i < 0 {
		return Task{}, false
	}
	return l.items[i], true
}

func (l *List) index(id string) int {
	for i := range l.items {
		if l.items[i].ID == id {
			return i
		}
	}
	return -1
}
