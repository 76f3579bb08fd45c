package controllers

import (
	"net/http"

	"guesthouse-backend/models"
	"guesthouse-backend/services"
	"guesthouse-backend/utils"

	"github.com/gin-gonic/gin"
)

type ContactPayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Subject   string `json:"subject"`
	Message   string `json:"message" binding:"required"`
}

type ContactController struct {
	Contacts *services.ContactService
}

func NewContactController(contacts *services.ContactService) *ContactController {
	return &ContactController{Contacts: contacts}
}

// Create handles POST /api/contact
func (cc *ContactController) Create(c *gin.Context) {
	var payload ContactPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "email and message are required")
		return
	}

	msg := models.ContactMessage{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Phone:     payload.Phone,
		Subject:   payload.Subject,
		Message:   payload.Message,
	}
	if err := cc.Contacts.Create(&msg); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, msg)
}

// List handles GET /api/admin/contact-messages
func (cc *ContactController) List(c *gin.Context) {
	messages, err := cc.Contacts.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, messages)
}

// MarkRead handles PATCH /api/admin/contact-messages/:id/read
func (cc *ContactController) MarkRead(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	msg, err := cc.Contacts.MarkRead(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, msg)
}
