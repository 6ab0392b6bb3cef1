package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-web/internal/apperr"
	"github.com/iliyamo/hotel-booking-web/internal/catalog"
	"github.com/iliyamo/hotel-booking-web/internal/form"
	"github.com/iliyamo/hotel-booking-web/internal/gateway"
	"github.com/iliyamo/hotel-booking-web/internal/middleware"
	"github.com/iliyamo/hotel-booking-web/internal/model"
)

// featuredRooms is how many rooms the home page shows.
const featuredRooms = 3

// PublicHandler serves the catalog pages open to everyone.
type PublicHandler struct {
	GW     *gateway.Client
	Logger *slog.Logger
}

// NewPublicHandler constructs a PublicHandler over gw.
func NewPublicHandler(gw *gateway.Client, logger *slog.Logger) *PublicHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PublicHandler{GW: gw, Logger: logger.With("component", "public")}
}

func (h *PublicHandler) Home(c echo.Context) error {
	rooms, err := h.GW.ListRooms(c.Request().Context())
	if err != nil {
		return err
	}
	if len(rooms) > featuredRooms {
		rooms = rooms[:featuredRooms]
	}
	body := echo.Map{"featured_rooms": rooms}
	if s := middleware.CurrentSession(c); s != nil {
		body["user"] = s.User
	}
	return c.JSON(http.StatusOK, body)
}

// Rooms lists the catalog filtered by ?type, ?min_price, ?max_price and
// ?capacity, paginated by ?page.
func (h *PublicHandler) Rooms(c echo.Context) error {
	var f catalog.RoomFilter
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &f); err != nil {
		return apperr.Validation("invalid filter", nil)
	}
	rooms, err := h.GW.ListRooms(c.Request().Context())
	if err != nil {
		return err
	}
	page := catalog.Paginate(catalog.FilterRooms(rooms, f), pageParam(c), catalog.RoomsPerPage)
	return c.JSON(http.StatusOK, echo.Map{"filter": f, "rooms": page})
}

type roomDetail struct {
	Room          model.Room     `json:"room"`
	Reviews       []model.Review `json:"reviews"`
	AverageRating float64        `json:"average_rating"`
	Quote         *form.Quote    `json:"quote,omitempty"`
}

// Room shows one room with its reviews.  With ?checkin and ?checkout the
// price of the stay is quoted.
func (h *PublicHandler) Room(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	room, err := h.GW.GetRoom(ctx, id)
	if err != nil {
		if gateway.IsNotFound(err) {
			return apperr.NotFound("room not found")
		}
		return err
	}
	reviews, err := h.GW.RoomReviews(ctx, id)
	if err != nil {
		h.Logger.Warn("load room reviews failed", "room_id", id, "err", err)
		reviews = nil
	}
	d := roomDetail{Room: room, Reviews: reviews, AverageRating: averageRating(reviews)}
	if in, out := c.QueryParam("checkin"), c.QueryParam("checkout"); in != "" && out != "" {
		q := form.QuoteFor(room, in, out)
		d.Quote = &q
	}
	return c.JSON(http.StatusOK, d)
}

func averageRating(reviews []model.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}

type availabilityForm struct {
	CheckIn  string `json:"checkin" form:"checkin"`
	CheckOut string `json:"checkout" form:"checkout"`
	Guests   int    `json:"guests" form:"guests"`
}

// Available searches rooms free for the given stay.
func (h *PublicHandler) Available(c echo.Context) error {
	var f availabilityForm
	if err := bindForm(c, &f); err != nil {
		return err
	}
	fields := map[string]string{}
	in, inErr := model.ParseDate(f.CheckIn)
	out, outErr := model.ParseDate(f.CheckOut)
	if inErr != nil {
		fields["checkin"] = "must be a date (YYYY-MM-DD)"
	}
	if outErr != nil {
		fields["checkout"] = "must be a date (YYYY-MM-DD)"
	}
	if inErr == nil && outErr == nil && !out.After(in.Time) {
		fields["checkout"] = "must be after check-in date"
	}
	if f.Guests < 0 {
		fields["guests"] = "must be at least 1"
	}
	if len(fields) > 0 {
		return apperr.Validation("please correct the highlighted fields", fields)
	}
	rooms, err := h.GW.AvailableRooms(c.Request().Context(), gateway.AvailabilityQuery{
		CheckInDate:  in.String(),
		CheckOutDate: out.String(),
		Guests:       f.Guests,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"checkin": in, "checkout": out, "rooms": rooms})
}
