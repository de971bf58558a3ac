package models

// ImportRequest is a deck upload waiting to be parsed into a set. Format is
// the raw format name; the importer validates it.
type ImportRequest struct {
	UserID string
	SetID  string
	Format string
	Data   []byte
}

// ImportResult summarizes one import run.
type ImportResult struct {
	SetID    string `json:"set_id"`
	Format   string `json:"format"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}
