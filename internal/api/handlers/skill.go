package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/craftfolio/server/internal/models"
	"github.com/craftfolio/server/internal/utils"
)

// POST /api/skills/{portfolioId}
func (h *Handler) CreateSkill(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.JSONResponse(w, http.StatusMethodNotAllowed, utils.Payload{
			Success: false,
			Message: "Method not allowed",
		})
		return
	}

	userID, ok := callerID(r)
	if !ok {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Unauthorized",
		})
		return
	}

	portfolioID, err := uuid.Parse(r.PathValue("portfolioId"))
	if err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid portfolio id",
		})
		return
	}

	var input struct {
		Name  string `json:"name"`
		Level string `json:"level"`
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return
	}

	if input.Name == "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Name is required",
		})
		return
	}

	if _, ok := h.loadOwnedPortfolio(w, r, portfolioID, userID); !ok {
		return
	}

	skill := models.Skill{
		PortfolioID: portfolioID,
		Name:        input.Name,
		Level:       input.Level,
	}

	if err := h.DB.WithContext(r.Context()).Create(&skill).Error; err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database insert failed",
		})
		return
	}

	h.invalidatePublicListing()

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "Skill added successfully",
		Data:    skill,
	})
}
