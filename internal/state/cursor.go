package state

// MoveCursor moves the selection by delta rows, clamped to the list.
func (m *Model) MoveCursor(delta int) bool {
	return m.moveTo(m.cursor + delta)
}

// First selects the first row.
func (m *Model) First() bool {
	return m.moveTo(0)
}

// Last selects the last row.
func (m *Model) Last() bool {
	return m.moveTo(len(m.rows) - 1)
}

// PageUp moves the cursor up by the given page size.
func (m *Model) PageUp(maxVisible int) bool {
	return m.moveTo(m.cursor - m.pageSize(maxVisible))
}

// PageDown moves the cursor down by the given page size.
func (m *Model) PageDown(maxVisible int) bool {
	return m.moveTo(m.cursor + m.pageSize(maxVisible))
}

func (m *Model) moveTo(idx int) bool {
	if len(m.rows) == 0 {
		m.cursor = 0
		return false
	}
	old := m.cursor
	m.cursor = clamp(idx, 0, len(m.rows)-1)
	m.selected = m.rows[m.cursor].Name()
	return m.cursor != old
}

func (m *Model) pageSize(maxVisible int) int {
	total := len(m.rows)
	if total == 0 {
		return 0
	}
	size := maxVisible
	if size <= 0 || size > total {
		size = total
	}
	if size < 1 {
		size = 1
	}
	return size
}

// Offset returns the first visible row index.
func (m *Model) Offset() int {
	return m.offset
}

// EnsureCursorVisible adjusts the viewport offset so the cursor stays visible.
func (m *Model) EnsureCursorVisible(maxVisible int) {
	if len(m.rows) == 0 {
		m.cursor = 0
		m.offset = 0
		return
	}
	m.cursor = clamp(m.cursor, 0, len(m.rows)-1)
	if maxVisible <= 0 {
		m.offset = 0
		return
	}
	maxOffset := len(m.rows) - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	m.offset = clamp(m.offset, 0, maxOffset)
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if upper := m.offset + maxVisible - 1; m.cursor > upper {
		m.offset = clamp(m.cursor-maxVisible+1, 0, maxOffset)
	}
}
