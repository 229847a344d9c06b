// ABOUTME: UserPreference key/value record
// ABOUTME: Holds small persisted settings such as the last search criteria
package models

// Preference is one row of user_preferences.
type Preference struct {
	Key       string `db:"key" json:"key"`
	Value     string `db:"value" json:"value"`
	UpdatedAt string `db:"updated_at" json:"updated_at"`
}

// PrefLastSearch stores the JSON-encoded criteria of the most recent search.
const PrefLastSearch = "last_search"
