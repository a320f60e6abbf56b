package model

// Account is the slice of the account entity the order core touches: the
// loyalty point balance. Registration and authentication live elsewhere.
type Account struct {
	ID     string `json:"id" db:"id"`
	Email  string `json:"email" db:"email"`
	Points int    `json:"points" db:"points"`
}
