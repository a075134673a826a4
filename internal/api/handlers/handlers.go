package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/craftfolio/server/internal/api/middleware"
	"github.com/craftfolio/server/internal/config"
	"github.com/craftfolio/server/internal/models"
	"github.com/craftfolio/server/internal/repositories"
	"github.com/craftfolio/server/internal/utils"
)

const publicPortfoliosKey = "public-portfolios"

// Handler carries the dependencies every route needs: the database handle,
// configuration, the optional media store and a small in-process cache for
// the public listing. Everything is constructed in main and passed in.
type Handler struct {
	DB    *gorm.DB
	Cfg   config.Config
	Media *repositories.MediaStore
	OAuth *oauth2.Config

	cache *cache.Cache
}

func New(db *gorm.DB, cfg config.Config, media *repositories.MediaStore, oauth *oauth2.Config) *Handler {
	return &Handler{
		DB:    db,
		Cfg:   cfg,
		Media: media,
		OAuth: oauth,
		cache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

// invalidatePublicListing drops the cached public listing after any write,
// so newly created portfolios and child records show up immediately.
func (h *Handler) invalidatePublicListing() {
	h.cache.Delete(publicPortfoliosKey)
}

// callerID reads the authenticated user's id from the request context.
func callerID(r *http.Request) (uuid.UUID, bool) {
	raw, ok := middleware.UserID(r.Context())
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// loadOwnedPortfolio fetches a portfolio and enforces that it belongs to the
// caller. An absent portfolio is a 404; someone else's portfolio is a 403.
func (h *Handler) loadOwnedPortfolio(w http.ResponseWriter, r *http.Request, portfolioID, userID uuid.UUID) (models.Portfolio, bool) {
	var portfolio models.Portfolio
	err := h.DB.WithContext(r.Context()).First(&portfolio, "id = ?", portfolioID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Portfolio not found",
		})
		return models.Portfolio{}, false
	case err != nil:
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return models.Portfolio{}, false
	}

	if portfolio.UserID != userID {
		utils.JSONResponse(w, http.StatusForbidden, utils.Payload{
			Success: false,
			Message: "You do not own this portfolio",
		})
		return models.Portfolio{}, false
	}
	return portfolio, true
}
