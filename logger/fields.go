package logger

// Standard field names for structured logging.
const (
	// Frames
	FieldFrame      = "frame"
	FieldFrames     = "frames"
	FieldCandidates = "candidates"
	FieldSource     = "source"

	// Coins
	FieldCoin        = "coin"
	FieldCoinType    = "coin_type"
	FieldFamily      = "family"
	FieldDiameter    = "diameter"
	FieldArea        = "area"
	FieldCircularity = "circularity"
	FieldPartial     = "partial"
	FieldPosition    = "position"
	FieldSlot        = "slot"

	// Totals
	FieldTally = "tally"
	FieldTotal = "total"
	FieldValue = "value_eur"

	// Errors
	FieldError = "error"
)
