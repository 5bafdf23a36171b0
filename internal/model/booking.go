package model

// Booking is a row of the `reservas` table.  RoomCode refers to a room's
// code but nothing checks that the room exists, and the three dates are
// stored exactly as the client sent them.
type Booking struct {
	Code          *string `db:"código" json:"código"`
	RoomCode      *string `db:"código_habitación" json:"código_habitación"`
	CustomerName  *string `db:"Nombre_cliente" json:"Nombre_cliente"`
	CustomerPhone *string `db:"telefono_cliente" json:"telefono_cliente"`
	ReservedOn    *string `db:"fecha_reservación" json:"fecha_reservación"`
	CheckIn       *string `db:"fecha_entrada" json:"fecha_entrada"`
	CheckOut      *string `db:"fecha_salida" json:"fecha_salida"`
}
