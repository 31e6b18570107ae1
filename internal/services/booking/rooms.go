// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package booking

// Room is a bookable room category. Price is per night and guest, in rupees.
type Room struct {
	Code  string
	Name  string
	Price int64
}

// Rooms lists the room categories in display order.
var Rooms = []Room{
	{Code: "single", Name: "Single Room", Price: 1200},
	{Code: "deluxe", Name: "Deluxe Room", Price: 4500},
	{Code: "suite", Name: "Suite", Price: 6000},
	{Code: "luxury", Name: "Luxury Room", Price: 8500},
	{Code: "dorm", Name: "Dormitory", Price: 1200},
	{Code: "ocean", Name: "Ocean View Room", Price: 9000},
	{Code: "executive", Name: "Executive Room", Price: 6500},
	{Code: "luxury_villa", Name: "Luxury Villa", Price: 12000},
}

// LookupRoom finds a room category by code.
func LookupRoom(code string) (Room, bool) {
	for _, r := range Rooms {
		if r.Code == code {
			return r, true
		}
	}
	return Room{}, false
}
