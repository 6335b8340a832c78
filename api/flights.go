package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/solnguyen93/flightcast/internal/domain"
	"github.com/solnguyen93/flightcast/internal/service/bookmarks"
	"github.com/solnguyen93/flightcast/internal/service/flights"
)

type FlightHandler struct {
	search    flights.SearchUseCase
	bookmarks bookmarks.BookmarkUseCase
	log       *logrus.Logger
}

func NewFlightHandler(search flights.SearchUseCase, bookmarks bookmarks.BookmarkUseCase, log *logrus.Logger) *FlightHandler {
	return &FlightHandler{search: search, bookmarks: bookmarks, log: log}
}

func (h *FlightHandler) Register(router gin.IRoutes) {
	router.GET("/", h.home)
	router.GET("/token", h.token)
	router.POST("/search", h.submitSearch)
	router.POST("/flights/:id", h.save)
	router.DELETE("/flights/:id", h.delete)
}

type searchRequest struct {
	DepartureLocation string  `json:"departure_location" binding:"required,min=3,max=30"`
	ArrivalLocation   string  `json:"arrival_location" binding:"required,min=3,max=30"`
	DepartureName     string  `json:"departure_name"`
	ArrivalName       string  `json:"arrival_name"`
	DepartureLat      float64 `json:"departure_lat"`
	DepartureLong     float64 `json:"departure_long"`
	ArrivalLat        float64 `json:"arrival_lat"`
	ArrivalLong       float64 `json:"arrival_long"`
	DepartDate        string  `json:"depart_date" binding:"required,datetime=2006-01-02"`
	ReturnDate        string  `json:"return_date" binding:"required,datetime=2006-01-02"`
	Passengers        int     `json:"passengers" binding:"required,min=1,max=9"`
}

type savedFlightResponse struct {
	ID            int64  `json:"id"`
	OfferID       string `json:"offer_id"`
	DepartureCode string `json:"departure_code"`
	ArrivalCode   string `json:"arrival_code"`
	DepartDate    string `json:"depart_date"`
	ReturnDate    string `json:"return_date"`
	Passengers    int    `json:"passengers"`
	NumStops      int    `json:"num_stops"`
	TotalDuration string `json:"total_duration"`
	Price         string `json:"price"`
}

// home lists the latest saved flights and drops any cached search results,
// matching the original landing-page behavior.
func (h *FlightHandler) home(c *gin.Context) {
	sess := SessionFrom(c)
	sess.ClearSearch()

	saved, err := h.bookmarks.ListRecent(c.Request.Context(), 5)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"saved_flights": toSavedFlightResponses(saved),
		"notices":       sess.PopFlashes(),
	})
}

// token exposes the credential gate directly: return the session token,
// fetching one when the session has none.
func (h *FlightHandler) token(c *gin.Context) {
	sess := SessionFrom(c)
	token, err := h.search.EnsureToken(c.Request.Context(), sess)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to fetch token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *FlightHandler) submitSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}
	if msg, ok := validateDates(req.DepartDate, req.ReturnDate); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": msg})
		return
	}

	sess := SessionFrom(c)
	offers, err := h.search.Search(c.Request.Context(), sess, flights.SearchInput{
		DepartureCode: req.DepartureLocation,
		ArrivalCode:   req.ArrivalLocation,
		DepartureName: req.DepartureName,
		ArrivalName:   req.ArrivalName,
		DepartureLat:  req.DepartureLat,
		DepartureLong: req.DepartureLong,
		ArrivalLat:    req.ArrivalLat,
		ArrivalLong:   req.ArrivalLong,
		DepartDate:    req.DepartDate,
		ReturnDate:    req.ReturnDate,
		Passengers:    req.Passengers,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": offers})
}

func (h *FlightHandler) save(c *gin.Context) {
	sess := SessionFrom(c)
	user := UserFrom(c)

	flight, err := h.bookmarks.Save(c.Request.Context(), sess, user, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "message": "Flight saved", "id": flight.ID})
}

func (h *FlightHandler) delete(c *gin.Context) {
	user := UserFrom(c)
	if user == nil {
		h.fail(c, domain.ErrUnauthenticated)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "failure", "message": "invalid id"})
		return
	}

	if err := h.bookmarks.Delete(c.Request.Context(), user.ID, id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Flight data deleted"})
}

// validateDates enforces the two cross-field form rules: departure is
// tomorrow or later, return is after departure.
func validateDates(depart, ret string) (string, bool) {
	departDate, err := time.Parse("2006-01-02", depart)
	if err != nil {
		return "Invalid date format. Please use yyyy-mm-dd", false
	}
	returnDate, err := time.Parse("2006-01-02", ret)
	if err != nil {
		return "Invalid date format. Please use yyyy-mm-dd", false
	}

	today := time.Now().Truncate(24 * time.Hour)
	if !departDate.After(today) {
		return "Departure date must be tomorrow or later.", false
	}
	if !returnDate.After(departDate) {
		return "Return date must be after departure date.", false
	}
	return "", true
}

func toSavedFlightResponses(saved []domain.SavedFlight) []savedFlightResponse {
	out := make([]savedFlightResponse, 0, len(saved))
	for _, f := range saved {
		out = append(out, savedFlightResponse{
			ID:            f.ID,
			OfferID:       f.OfferID,
			DepartureCode: f.DepartureCode,
			ArrivalCode:   f.ArrivalCode,
			DepartDate:    f.DepartDate.Format(time.RFC3339),
			ReturnDate:    f.ReturnDate.Format(time.RFC3339),
			Passengers:    f.Passengers,
			NumStops:      f.NumStops,
			TotalDuration: f.TotalDuration,
			Price:         f.Price,
		})
	}
	return out
}
