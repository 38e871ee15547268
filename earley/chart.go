package earley

// Cell holds the states ending at one input position in insertion order. A cell is processed as a
// worklist; states appended while it is processed are processed in the same pass.
type Cell struct {
	pos    int
	states []*State
	index  map[stateKey]*State
}

func newCell(pos int) *Cell {
	return &Cell{
		pos:   pos,
		index: map[stateKey]*State{},
	}
}

func (c *Cell) Pos() int {
	return c.pos
}

func (c *Cell) Len() int {
	return len(c.states)
}

func (c *Cell) State(i int) *State {
	return c.states[i]
}

func (c *Cell) States() []*State {
	return c.states
}

// add appends a state unless the cell already has an equal one.
func (c *Cell) add(s *State, key stateKey) bool {
	if _, ok := c.index[key]; ok {
		return false
	}
	c.index[key] = s
	c.states = append(c.states, s)
	return true
}

// Chart has len(input)+1 cells. The chart of a finished parse stays inspectable even when the input was
// rejected.
type Chart struct {
	cells      []*Cell
	stateCount int
}

func newChart(inputLen int) *Chart {
	cells := make([]*Cell, inputLen+1)
	for i := range cells {
		cells[i] = newCell(i)
	}
	return &Chart{
		cells: cells,
	}
}

func (c *Chart) Cell(pos int) *Cell {
	return c.cells[pos]
}

func (c *Chart) Len() int {
	return len(c.cells)
}

func (c *Chart) StateCount() int {
	return c.stateCount
}

// insert assigns the next ID to a state and appends it to the cell at s.end.
func (c *Chart) insert(s *State, withBackPointers bool) bool {
	ok := c.cells[s.end].add(s, s.key(withBackPointers))
	if !ok {
		return false
	}
	s.id = c.stateCount
	c.stateCount++
	return true
}
