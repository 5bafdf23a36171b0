package handler

import (
	"github.com/iliyamo/hotel-booking-api/internal/model"
	"github.com/iliyamo/hotel-booking-api/internal/service"
)

// RoomMessages and BookingMessages are the response texts clients already
// depend on; keep them byte for byte.
var (
	RoomMessages = Messages{
		NotFound: "Habitación no encontrada",
		Created:  "Habitación creada exitosamente",
		Updated:  "Habitación actualizada exitosamente",
		Deleted:  "Habitación eliminada exitosamente",
	}
	BookingMessages = Messages{
		NotFound: "Reserva no encontrada",
		Created:  "Reserva creada exitosamente",
		Updated:  "Reserva actualizada exitosamente",
		Deleted:  "Reserva eliminada exitosamente",
	}
)

// NewRooms returns the room handlers.
func NewRooms(store Store[model.Room], events service.Publisher) *Resource[model.Room] {
	return NewResource("rooms", store, RoomMessages, events)
}

// NewBookings returns the booking handlers.
func NewBookings(store Store[model.Booking], events service.Publisher) *Resource[model.Booking] {
	return NewResource("bookings", store, BookingMessages, events)
}
