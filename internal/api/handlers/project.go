package handlers

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/craftfolio/server/internal/models"
	"github.com/craftfolio/server/internal/repositories"
	"github.com/craftfolio/server/internal/utils"
)

const maxMediaUploadSize = 25 << 20 // 25 MB

type projectInput struct {
	PortfolioID   string `json:"portfolio_id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	GithubURL     string `json:"github_url"`
	LiveURL       string `json:"live_url"`
	Documentation string `json:"documentation"`
	MediaURL      string `json:"media_url"`
	MediaType     string `json:"media_type"`
}

// POST /api/projects
// CreateProject godoc
// @Summary Create a project under a portfolio
// @Description Creates a project owned by the caller's portfolio. Accepts JSON, or multipart/form-data with an optional "media" file that is stored in object storage and attached to the project.
// @Tags Projects
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} utils.Payload "Project created successfully"
// @Failure 400 {object} utils.Payload "Invalid input"
// @Failure 403 {object} utils.Payload "Portfolio owned by someone else"
// @Failure 404 {object} utils.Payload "Portfolio not found"
// @Router /api/projects [post]
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
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

	var input projectInput
	var mediaFile *multipart.FileHeader

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxMediaUploadSize); err != nil {
			utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
				Success: false,
				Message: "Invalid form data",
			})
			return
		}
		input = projectInput{
			PortfolioID:   r.FormValue("portfolio_id"),
			Title:         r.FormValue("title"),
			Description:   r.FormValue("description"),
			GithubURL:     r.FormValue("github_url"),
			LiveURL:       r.FormValue("live_url"),
			Documentation: r.FormValue("documentation"),
			MediaURL:      r.FormValue("media_url"),
			MediaType:     r.FormValue("media_type"),
		}
		if files := r.MultipartForm.File["media"]; len(files) > 0 {
			mediaFile = files[0]
		}
	} else {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&input); err != nil {
			utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
				Success: false,
				Message: "Invalid input",
			})
			return
		}
	}

	if input.Title == "" || input.PortfolioID == "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Title and portfolio_id are required",
		})
		return
	}

	portfolioID, err := uuid.Parse(input.PortfolioID)
	if err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid portfolio id",
		})
		return
	}

	if _, ok := h.loadOwnedPortfolio(w, r, portfolioID, userID); !ok {
		return
	}

	if mediaFile != nil && h.Media == nil {
		utils.JSONResponse(w, http.StatusServiceUnavailable, utils.Payload{
			Success: false,
			Message: "Media storage is not configured",
		})
		return
	}

	// A media_url may be an object key from an earlier upload; make sure it
	// actually refers to something in the bucket before recording it.
	if input.MediaURL != "" && h.Media != nil && repositories.IsObjectKey(input.MediaURL) {
		exists, err := h.Media.ObjectExists(r.Context(), input.MediaURL)
		if err != nil {
			utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
				Success: false,
				Message: "Failed to verify media reference",
			})
			return
		}
		if !exists {
			utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
				Success: false,
				Message: "Media reference does not exist",
			})
			return
		}
	}

	project := models.Project{
		PortfolioID:   portfolioID,
		Title:         input.Title,
		Description:   input.Description,
		GithubURL:     input.GithubURL,
		LiveURL:       input.LiveURL,
		Documentation: input.Documentation,
	}

	err = h.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		var media *models.Media
		switch {
		case mediaFile != nil:
			src, err := mediaFile.Open()
			if err != nil {
				return err
			}
			defer src.Close()

			contentType := mediaFile.Header.Get("Content-Type")
			key := fmt.Sprintf("media/%s/%s%s", project.ID, uuid.New(), filepath.Ext(mediaFile.Filename))
			url, err := h.Media.Upload(r.Context(), key, contentType, src)
			if err != nil {
				return err
			}
			media = &models.Media{ProjectID: project.ID, URL: url, Type: contentType}

		case input.MediaURL != "":
			// Already-stored content, keep the reference only.
			media = &models.Media{ProjectID: project.ID, URL: input.MediaURL, Type: input.MediaType}
		}

		if media != nil {
			if err := tx.Create(media).Error; err != nil {
				return err
			}
			project.Media = append(project.Media, *media)
		}
		return nil
	})
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to store project",
		})
		return
	}

	// The stored row keeps the raw key; the response carries a fetchable URL.
	if h.Media != nil {
		for i := range project.Media {
			if !repositories.IsObjectKey(project.Media[i].URL) {
				continue
			}
			if url, err := h.Media.ResolveURL(r.Context(), project.Media[i].URL); err == nil {
				project.Media[i].URL = url
			}
		}
	}

	h.invalidatePublicListing()

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "Project created successfully",
		Data:    project,
	})
}
