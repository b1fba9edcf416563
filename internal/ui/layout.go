package ui

// Terminal size thresholds.
const (
	// LayoutCompactWidth is the threshold below which panes stack vertically.
	LayoutCompactWidth = 80

	// minImageWidth keeps the image pane readable on narrow terminals.
	minImageWidth = 24

	// fieldLabelWidth aligns the form labels in the detail pane.
	fieldLabelWidth = 14
)

// Input limits.
const (
	priceCharLimit = 16
	noteCharLimit  = 280
)
