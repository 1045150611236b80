package model

// Centralized icons for the UI components
// Using simple single-width characters for consistent terminal rendering
const (
	IconConflict  = "≈" // Almost equal (redeclared binding)
	IconShadow    = "»" // Multi part binding hidden behind a single chord
	IconMultiPart = "→" // Right arrow (chord sequence)
	IconFailure   = "✗" // Thin X (file or entry skipped)
	IconOK        = " " // Space (OK - no icon to reduce noise)
	IconContext   = "◆" // Diamond for bindings with a context
)
