package model

// RoomImage is a picture attached to a room.
type RoomImage struct {
	ID       uint64 `json:"ID"`
	ImageURL string `json:"ImageURL"`
}

// Room is a bookable hotel room.
type Room struct {
	ID           uint64      `json:"ID"`
	RoomNumber   string      `json:"RoomNumber"`
	Type         string      `json:"Type"`
	Description  string      `json:"Description,omitempty"`
	Price        float64     `json:"Price"`
	MaxOccupancy int         `json:"MaxOccupancy"`
	Status       string      `json:"Status,omitempty"`
	Images       []RoomImage `json:"Images,omitempty"`
}

// RoomInput is the admin create/update body.
type RoomInput struct {
	RoomNumber   string  `json:"room_number"`
	Type         string  `json:"type"`
	Description  string  `json:"description,omitempty"`
	Price        float64 `json:"price"`
	MaxOccupancy int     `json:"max_occupancy"`
	Status       string  `json:"status,omitempty"`
}
