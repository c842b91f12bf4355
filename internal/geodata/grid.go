package geodata

// Grid is a boolean table sharing the key layout of a Table.
type Grid struct {
	table *Table
	cells [][]bool
}

// NewGrid returns an all-false grid shaped like t.
func NewGrid(t *Table) *Grid {
	cells := make([][]bool, len(t.entities))
	for i := range cells {
		cells[i] = make([]bool, len(t.attributes))
	}
	return &Grid{table: t, cells: cells}
}

// Get returns the flag for a cell; unknown keys yield false.
func (g *Grid) Get(entity, attribute string) bool {
	i, okE := g.table.entityIdx[entity]
	j, okA := g.table.attrIdx[attribute]
	if !okE || !okA {
		return false
	}
	return g.cells[i][j]
}

// Set writes a flag. Unknown keys are ignored.
func (g *Grid) Set(entity, attribute string, v bool) {
	i, okE := g.table.entityIdx[entity]
	j, okA := g.table.attrIdx[attribute]
	if okE && okA {
		g.cells[i][j] = v
	}
}

// Count returns the number of true cells.
func (g *Grid) Count() int {
	var n int
	for _, row := range g.cells {
		for _, v := range row {
			if v {
				n++
			}
		}
	}
	return n
}

// AllEntity reports whether every cell of the entity row is true.
func (g *Grid) AllEntity(entity string) bool {
	i, ok := g.table.entityIdx[entity]
	if !ok {
		return false
	}
	for _, v := range g.cells[i] {
		if !v {
			return false
		}
	}
	return true
}

// AllAttribute reports whether every cell of the attribute column is true.
func (g *Grid) AllAttribute(attribute string) bool {
	j, ok := g.table.attrIdx[attribute]
	if !ok {
		return false
	}
	for _, row := range g.cells {
		if !row[j] {
			return false
		}
	}
	return true
}
