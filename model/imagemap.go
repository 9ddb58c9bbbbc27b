package model

// QuestionImageMap maps question numbers to the image files that belong to
// them. Numbers keep first-insertion order and paths keep append order.
// The zero value is ready to use.
type QuestionImageMap struct {
	order []int
	paths map[int][]string
}

// NewQuestionImageMap returns an empty map.
func NewQuestionImageMap() *QuestionImageMap {
	return &QuestionImageMap{}
}

// Append records path under number, creating the entry if needed.
func (m *QuestionImageMap) Append(number int, path string) {
	if m.paths == nil {
		m.paths = make(map[int][]string)
	}
	if _, ok := m.paths[number]; !ok {
		m.order = append(m.order, number)
	}
	m.paths[number] = append(m.paths[number], path)
}

// Get returns the paths recorded under number. The returned slice must not
// be modified.
func (m *QuestionImageMap) Get(number int) []string {
	if m == nil {
		return nil
	}
	return m.paths[number]
}

// Numbers returns the question numbers in first-insertion order.
func (m *QuestionImageMap) Numbers() []int {
	if m == nil {
		return nil
	}
	return append([]int(nil), m.order...)
}

// Len returns the number of distinct question numbers.
func (m *QuestionImageMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Total returns the number of recorded paths across all questions.
func (m *QuestionImageMap) Total() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, p := range m.paths {
		n += len(p)
	}
	return n
}
