package tui

// paneLayout holds calculated widths for the View
type paneLayout struct {
	listWidth      int
	inspectorWidth int // 0 if not shown
}

// calculateLayout splits the width between the list and the inspector.
// Narrow terminals drop the inspector.
func calculateLayout(availableWidth int) paneLayout {
	if availableWidth < 2*MinColumnWidth {
		return paneLayout{listWidth: availableWidth}
	}
	list := max(availableWidth*ListColumnPercent/100, MinColumnWidth)
	return paneLayout{
		listWidth:      list,
		inspectorWidth: availableWidth - list,
	}
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	contentHeight := max(m.Height-ChromeHeight, 3)
	layout := calculateLayout(m.Width)

	for _, col := range m.Columns {
		col.SetSize(layout.listWidth, contentHeight)
	}
	if layout.inspectorWidth > 0 {
		m.Inspector.SetSize(layout.inspectorWidth, contentHeight)
	}
	m.Help.Width = m.Width
}
