package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/craftfolio/server/internal/models"
	"github.com/craftfolio/server/internal/utils"
)

// POST /api/repos/{portfolioId}
func (h *Handler) CreateRepo(w http.ResponseWriter, r *http.Request) {
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
		RepoURL string `json:"repo_url"`
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

	repoName := utils.DeriveRepoName(input.RepoURL)
	if input.RepoURL == "" || repoName == "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "A valid repository URL is required",
		})
		return
	}

	if _, ok := h.loadOwnedPortfolio(w, r, portfolioID, userID); !ok {
		return
	}

	repo := models.Repo{
		PortfolioID: portfolioID,
		RepoURL:     input.RepoURL,
		RepoName:    repoName,
	}

	if err := h.DB.WithContext(r.Context()).Create(&repo).Error; err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database insert failed",
		})
		return
	}

	h.invalidatePublicListing()

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "Repository link added successfully",
		Data:    repo,
	})
}
