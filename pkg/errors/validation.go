package errors

// ValidateCoordinate validates a 1-based grid coordinate.
// Both row and column must be at least 1.
func ValidateCoordinate(row, col int) error {
	if row < 1 {
		return New(ErrCodeInvalidCoordinate, "row must be >= 1, got %d", row)
	}
	if col < 1 {
		return New(ErrCodeInvalidCoordinate, "col must be >= 1, got %d", col)
	}
	return nil
}

// ValidateMargin validates a clustering expansion margin.
// Margins must be positive; the engine uses 2 for top-level block detection
// and 1 for sub-cluster detection.
func ValidateMargin(margin int) error {
	if margin < 1 {
		return New(ErrCodeInvalidMargin, "margin must be >= 1, got %d", margin)
	}
	return nil
}
