package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/craftfolio/server/internal/models"
	"github.com/craftfolio/server/internal/repositories"
	"github.com/craftfolio/server/internal/utils"
)

// Portfolios dispatches /api/portfolios: POST creates, GET lists the
// caller's own portfolios (public and private alike).
func (h *Handler) Portfolios(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createPortfolio(w, r)
	case http.MethodGet:
		h.listPortfolios(w, r)
	default:
		utils.JSONResponse(w, http.StatusMethodNotAllowed, utils.Payload{
			Success: false,
			Message: "Method not allowed",
		})
	}
}

func (h *Handler) createPortfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Unauthorized",
		})
		return
	}

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		IsPublic    bool   `json:"is_public"`
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

	if input.Title == "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Title is required",
		})
		return
	}

	portfolio := models.Portfolio{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		IsPublic:    input.IsPublic,
	}

	if err := h.DB.WithContext(r.Context()).Create(&portfolio).Error; err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database insert failed",
		})
		return
	}

	h.invalidatePublicListing()

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "Portfolio created successfully",
		Data:    portfolio,
	})
}

func (h *Handler) listPortfolios(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Unauthorized",
		})
		return
	}

	portfolios := make([]models.Portfolio, 0)
	err := h.DB.WithContext(r.Context()).
		Preload("Projects.Media").
		Preload("Projects").
		Preload("Skills").
		Preload("Repos").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&portfolios).Error
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database query failed",
		})
		return
	}

	if err := h.resolveMediaURLs(r.Context(), portfolios); err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to resolve media URLs",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Portfolios retrieved successfully",
		Data:    portfolios,
	})
}

// PortfolioByID dispatches /api/portfolios/{id}: PATCH updates the owner's
// portfolio, DELETE removes it along with all of its child records.
func (h *Handler) PortfolioByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Unauthorized",
		})
		return
	}

	portfolioID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid portfolio id",
		})
		return
	}

	portfolio, ok := h.loadOwnedPortfolio(w, r, portfolioID, userID)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPatch:
		h.updatePortfolio(w, r, portfolio)
	case http.MethodDelete:
		h.deletePortfolio(w, r, portfolio)
	default:
		utils.JSONResponse(w, http.StatusMethodNotAllowed, utils.Payload{
			Success: false,
			Message: "Method not allowed",
		})
	}
}

func (h *Handler) updatePortfolio(w http.ResponseWriter, r *http.Request, portfolio models.Portfolio) {
	var input struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		IsPublic    *bool   `json:"is_public"`
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

	if input.Title != nil {
		if *input.Title == "" {
			utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
				Success: false,
				Message: "Title cannot be empty",
			})
			return
		}
		portfolio.Title = *input.Title
	}
	if input.Description != nil {
		portfolio.Description = *input.Description
	}
	if input.IsPublic != nil {
		portfolio.IsPublic = *input.IsPublic
	}

	if err := h.DB.WithContext(r.Context()).Save(&portfolio).Error; err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database update failed",
		})
		return
	}

	h.invalidatePublicListing()

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Portfolio updated successfully",
		Data:    portfolio,
	})
}

func (h *Handler) deletePortfolio(w http.ResponseWriter, r *http.Request, portfolio models.Portfolio) {
	// Select(clause.Associations) is not enough for the grandchild media
	// rows, so delete bottom-up in one transaction.
	err := h.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		var projectIDs []uuid.UUID
		if err := tx.Model(&models.Project{}).
			Where("portfolio_id = ?", portfolio.ID).
			Pluck("id", &projectIDs).Error; err != nil {
			return err
		}
		if len(projectIDs) > 0 {
			if err := tx.Where("project_id IN ?", projectIDs).Delete(&models.Media{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("portfolio_id = ?", portfolio.ID).Delete(&models.Project{}).Error; err != nil {
			return err
		}
		if err := tx.Where("portfolio_id = ?", portfolio.ID).Delete(&models.Skill{}).Error; err != nil {
			return err
		}
		if err := tx.Where("portfolio_id = ?", portfolio.ID).Delete(&models.Repo{}).Error; err != nil {
			return err
		}
		return tx.Delete(&portfolio).Error
	})
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database delete failed",
		})
		return
	}

	h.invalidatePublicListing()

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Portfolio deleted successfully",
	})
}

// GET /api/public-portfolios
// PublicPortfolios godoc
// @Summary List public portfolios
// @Description Returns all portfolios marked public, with owner username and nested projects, media, skills and repository links.
// @Tags Portfolios
// @Produce json
// @Success 200 {object} utils.Payload "Portfolios retrieved successfully"
// @Failure 500 {object} utils.Payload "Database query failed"
// @Router /api/public-portfolios [get]
func (h *Handler) PublicPortfolios(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.JSONResponse(w, http.StatusMethodNotAllowed, utils.Payload{
			Success: false,
			Message: "Method not allowed",
		})
		return
	}

	if cached, found := h.cache.Get(publicPortfoliosKey); found {
		utils.JSONResponse(w, http.StatusOK, utils.Payload{
			Success: true,
			Message: "Portfolios retrieved successfully",
			Data:    cached,
		})
		return
	}

	portfolios := make([]models.Portfolio, 0)
	err := h.DB.WithContext(r.Context()).
		Preload("Projects.Media").
		Preload("Projects").
		Preload("Skills").
		Preload("Repos").
		Where("is_public = ?", true).
		Order("created_at DESC").
		Find(&portfolios).Error
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database query failed",
		})
		return
	}

	if err := h.attachOwnerUsernames(r, portfolios); err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database query failed",
		})
		return
	}

	if err := h.resolveMediaURLs(r.Context(), portfolios); err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to resolve media URLs",
		})
		return
	}

	// Presigned URLs outlive the cache entry (15m vs 5m), so caching the
	// resolved listing is safe.
	h.cache.Set(publicPortfoliosKey, portfolios, cache.DefaultExpiration)

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Portfolios retrieved successfully",
		Data:    portfolios,
	})
}

// resolveMediaURLs converts media rows holding bare object keys into
// presigned URLs. Keys only exist when the bucket has no public base URL,
// so with no media store configured there is nothing to resolve.
func (h *Handler) resolveMediaURLs(ctx context.Context, portfolios []models.Portfolio) error {
	if h.Media == nil {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range portfolios {
		for j := range portfolios[i].Projects {
			for k := range portfolios[i].Projects[j].Media {
				media := &portfolios[i].Projects[j].Media[k]
				if !repositories.IsObjectKey(media.URL) {
					continue
				}
				g.Go(func() error {
					url, err := h.Media.ResolveURL(gctx, media.URL)
					if err != nil {
						return err
					}
					media.URL = url
					return nil
				})
			}
		}
	}
	return g.Wait()
}

// attachOwnerUsernames joins the owner's username onto each listed portfolio.
func (h *Handler) attachOwnerUsernames(r *http.Request, portfolios []models.Portfolio) error {
	if len(portfolios) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(portfolios))
	for _, p := range portfolios {
		ids = append(ids, p.UserID)
	}

	var owners []models.User
	if err := h.DB.WithContext(r.Context()).Where("id IN ?", ids).Find(&owners).Error; err != nil {
		return err
	}

	names := make(map[uuid.UUID]string, len(owners))
	for _, u := range owners {
		names[u.ID] = u.Username
	}
	for i := range portfolios {
		portfolios[i].Username = names[portfolios[i].UserID]
	}
	return nil
}
