package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"guesthouse-backend/services"
	"guesthouse-backend/utils"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

func queryID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, name+" is required")
		return 0, false
	}
	return uint(id), true
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

// respondServiceError translates service errors into HTTP responses using
// the {"message": ...} envelope.
func respondServiceError(c *gin.Context, err error) {
	var (
		validationErr *services.ValidationError
		capacityErr   *services.CapacityError
		conflictErr   *services.ConflictError
		gatewayErr    *services.GatewayError
		stateErr      *services.StateError
	)

	switch {
	case errors.Is(err, services.ErrRoomTypeNotFound):
		utils.JSONError(c, http.StatusNotFound, "Room type not found")
	case errors.Is(err, services.ErrRoomUnitNotFound):
		utils.JSONError(c, http.StatusNotFound, "Room unit not found")
	case errors.Is(err, services.ErrBookingNotFound):
		utils.JSONError(c, http.StatusNotFound, "Booking not found")
	case errors.Is(err, services.ErrContactNotFound):
		utils.JSONError(c, http.StatusNotFound, "Contact message not found")
	case errors.Is(err, services.ErrInvalidLogin):
		utils.JSONError(c, http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, services.ErrInvalidSession):
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required")
	case errors.As(err, &validationErr):
		utils.JSONError(c, http.StatusBadRequest, validationErr.Reason)
	case errors.As(err, &capacityErr):
		utils.JSONError(c, http.StatusBadRequest, capacityErr.Reason)
	case errors.As(err, &conflictErr):
		utils.JSONError(c, http.StatusConflict, conflictErr.Reason)
	case errors.As(err, &stateErr):
		utils.JSONError(c, http.StatusConflict, stateErr.Error())
	case errors.As(err, &gatewayErr):
		log.Printf("payment gateway error: %v", err)
		utils.JSONError(c, http.StatusBadGateway, "Payment provider error, please try again")
	default:
		log.Printf("internal error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "Internal server error")
	}
}
