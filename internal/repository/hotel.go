package repository

import (
	"github.com/iliyamo/hotel-booking-api/internal/database"
	"github.com/iliyamo/hotel-booking-api/internal/model"
)

// RoomSchema maps model.Room onto the habitaciones table.
var RoomSchema = Schema{
	Table:   "habitaciones",
	Key:     "código",
	Columns: []string{"código", "número", "tipo", "valor"},
	Updates: []string{"número", "tipo", "valor"},
}

// BookingSchema maps model.Booking onto the reservas table.
var BookingSchema = Schema{
	Table: "reservas",
	Key:   "código",
	Columns: []string{
		"código", "código_habitación", "Nombre_cliente", "telefono_cliente",
		"fecha_reservación", "fecha_entrada", "fecha_salida",
	},
	Updates: []string{
		"código_habitación", "Nombre_cliente", "telefono_cliente",
		"fecha_reservación", "fecha_entrada", "fecha_salida",
	},
}

func NewRoomTable(db database.Gateway) *Table[model.Room] {
	return NewTable[model.Room](db, RoomSchema)
}

func NewBookingTable(db database.Gateway) *Table[model.Booking] {
	return NewTable[model.Booking](db, BookingSchema)
}
