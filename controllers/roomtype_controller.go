package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"guesthouse-backend/models"
	"guesthouse-backend/services"
	"guesthouse-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type CreateRoomTypePayload struct {
	Name               string   `json:"name" binding:"required"`
	Description        string   `json:"description"`
	Price              string   `json:"price" binding:"required"`
	MaxGuests          int      `json:"maxGuests" binding:"required"`
	Amenities          []string `json:"amenities"`
	Images             []string `json:"images"`
	Features           []string `json:"features"`
	Size               string   `json:"size"`
	BedType            string   `json:"bedType"`
	View               string   `json:"view"`
	CleaningFee        float64  `json:"cleaningFee"`
	CancellationPolicy string   `json:"cancellationPolicy"`
	MinStay            int      `json:"minStay"`
	MaxStay            int      `json:"maxStay"`
	UnitCount          int      `json:"unitCount"`
}

type AddUnitPayload struct {
	UnitNumber      string   `json:"unitNumber" binding:"required"`
	UnitName        string   `json:"unitName"`
	Floor           string   `json:"floor"`
	SpecialFeatures []string `json:"specialFeatures"`
	Notes           string   `json:"notes"`
}

type SeasonalPricingPayload struct {
	Name            string  `json:"name" binding:"required"`
	StartDate       string  `json:"startDate" binding:"required"`
	EndDate         string  `json:"endDate" binding:"required"`
	PriceMultiplier float64 `json:"priceMultiplier" binding:"required"`
}

type BlackoutDatePayload struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
	Reason    string `json:"reason"`
}

type RoomTypeController struct {
	RoomTypes *services.RoomTypeService
}

func NewRoomTypeController(roomTypes *services.RoomTypeService) *RoomTypeController {
	return &RoomTypeController{RoomTypes: roomTypes}
}

// ---------------------------
// Public catalog
// ---------------------------

// List handles GET /api/room-types
func (rc *RoomTypeController) List(c *gin.Context) {
	roomTypes, err := rc.RoomTypes.ListActive()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, roomTypes)
}

// Get handles GET /api/room-types/:id
func (rc *RoomTypeController) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	rt, err := rc.RoomTypes.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !rt.IsActive {
		utils.JSONError(c, http.StatusNotFound, "Room type not found")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rt)
}

// ---------------------------
// Admin catalog management
// ---------------------------

// ListAll handles GET /api/admin/room-types
func (rc *RoomTypeController) ListAll(c *gin.Context) {
	roomTypes, err := rc.RoomTypes.ListAll()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, roomTypes)
}

// Create handles POST /api/admin/room-types
func (rc *RoomTypeController) Create(c *gin.Context) {
	var payload CreateRoomTypePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "name, price and maxGuests are required")
		return
	}

	rt := models.RoomType{
		Name:               payload.Name,
		Description:        payload.Description,
		Price:              payload.Price,
		MaxGuests:          payload.MaxGuests,
		Amenities:          toJSONArray(payload.Amenities),
		Images:             toJSONArray(payload.Images),
		Features:           toJSONArray(payload.Features),
		Size:               payload.Size,
		BedType:            payload.BedType,
		View:               payload.View,
		CleaningFee:        payload.CleaningFee,
		CancellationPolicy: payload.CancellationPolicy,
		MinStay:            payload.MinStay,
		MaxStay:            payload.MaxStay,
	}

	created, err := rc.RoomTypes.Create(&rt, payload.UnitCount)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, created)
}

// Update handles PUT /api/admin/room-types/:id
func (rc *RoomTypeController) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	rt, err := rc.RoomTypes.Update(id, updates)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rt)
}

// Deactivate handles DELETE /api/admin/room-types/:id
func (rc *RoomTypeController) Deactivate(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := rc.RoomTypes.Deactivate(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deactivated": true})
}

// ---------------------------
// Units
// ---------------------------

// ListUnits handles GET /api/admin/room-types/:id/units
func (rc *RoomTypeController) ListUnits(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	units, err := rc.RoomTypes.ListUnits(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, units)
}

// AddUnit handles POST /api/admin/room-types/:id/units
func (rc *RoomTypeController) AddUnit(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var payload AddUnitPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "unitNumber is required")
		return
	}

	unit := models.RoomUnit{
		UnitNumber:      payload.UnitNumber,
		UnitName:        payload.UnitName,
		Floor:           payload.Floor,
		SpecialFeatures: toJSONArray(payload.SpecialFeatures),
		Notes:           payload.Notes,
	}
	created, err := rc.RoomTypes.AddUnit(id, &unit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, created)
}

// UpdateUnit handles PATCH /api/admin/room-units/:id
func (rc *RoomTypeController) UpdateUnit(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	unit, err := rc.RoomTypes.UpdateUnit(id, updates)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, unit)
}

// ---------------------------
// Pricing rules and blackouts
// ---------------------------

// AddSeasonalPricing handles POST /api/admin/room-types/:id/seasonal-pricing
func (rc *RoomTypeController) AddSeasonalPricing(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var payload SeasonalPricingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "name, startDate, endDate and priceMultiplier are required")
		return
	}
	start, end, ok := parseDateRange(c, payload.StartDate, payload.EndDate)
	if !ok {
		return
	}

	rule := models.SeasonalPricing{
		Name:            payload.Name,
		StartDate:       start,
		EndDate:         end,
		PriceMultiplier: payload.PriceMultiplier,
	}
	created, err := rc.RoomTypes.AddSeasonalPricing(id, &rule)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, created)
}

// AddBlackoutDate handles POST /api/admin/room-types/:id/blackout-dates
func (rc *RoomTypeController) AddBlackoutDate(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var payload BlackoutDatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "startDate and endDate are required")
		return
	}
	start, end, ok := parseDateRange(c, payload.StartDate, payload.EndDate)
	if !ok {
		return
	}

	blackout := models.BlackoutDate{
		StartDate: start,
		EndDate:   end,
		Reason:    payload.Reason,
	}
	created, err := rc.RoomTypes.AddBlackoutDate(id, &blackout)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, created)
}

func parseDateRange(c *gin.Context, startStr, endStr string) (time.Time, time.Time, bool) {
	start, err := parseDate(startStr)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "startDate must be YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	end, err := parseDate(endStr)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "endDate must be YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func toJSONArray(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	raw, _ := json.Marshal(values)
	return datatypes.JSON(raw)
}
