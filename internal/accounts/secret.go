package accounts

// Secret is a resolved field value paired with its sensitivity flag. The
// disclosure channels decide how much protection to apply based on
// IsSecret; the label is the only part that may reach a log sink.
type Secret struct {
	Value    string
	IsSecret bool
	Label    string
}
