package model

// Room is a row of the `habitaciones` table.  Rooms are keyed by their
// business code; there is no surrogate id in the API.  Type is a free
// category label such as "doble" and Value is the nightly price.
//
// Every attribute is a pointer: a field the client leaves out is written
// as NULL and a NULL column is returned as JSON null.
type Room struct {
	Code   *string  `db:"código" json:"código"`
	Number *int     `db:"número" json:"número"`
	Type   *string  `db:"tipo" json:"tipo"`
	Value  *float64 `db:"valor" json:"valor"`
}
