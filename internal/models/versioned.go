package models

// Versioned carries the optimistic-lock counter. Embed it anonymously;
// every write path compares and bumps it inside the repository transaction.
type Versioned struct {
	RowVersion int64 `json:"row_version"`
}
