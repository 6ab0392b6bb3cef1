package catalog

import (
	"strings"

	"github.com/iliyamo/hotel-booking-web/internal/model"
)

// RoomFilter narrows the room list.  Zero values disable a criterion.
type RoomFilter struct {
	Type     string  `query:"type"`
	MinPrice float64 `query:"min_price"`
	MaxPrice float64 `query:"max_price"`
	Capacity int     `query:"capacity"`
}

// FilterRooms keeps rooms whose type contains f.Type (case-insensitively),
// whose price lies within the bounds and that sleep at least f.Capacity.
func FilterRooms(rooms []model.Room, f RoomFilter) []model.Room {
	typ := strings.ToLower(strings.TrimSpace(f.Type))
	out := make([]model.Room, 0, len(rooms))
	for _, r := range rooms {
		if typ != "" && !strings.Contains(strings.ToLower(r.Type), typ) {
			continue
		}
		if f.MinPrice > 0 && r.Price < f.MinPrice {
			continue
		}
		if f.MaxPrice > 0 && r.Price > f.MaxPrice {
			continue
		}
		if f.Capacity > 0 && r.MaxOccupancy < f.Capacity {
			continue
		}
		out = append(out, r)
	}
	return out
}
