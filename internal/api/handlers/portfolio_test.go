package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/craftfolio/server/internal/config"
	"github.com/craftfolio/server/internal/models"
	"github.com/craftfolio/server/internal/repositories"
)

type portfolioDTO struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	IsPublic bool   `json:"is_public"`
	Username string `json:"username"`
	Projects []struct {
		Title string `json:"title"`
		Media []struct {
			URL  string `json:"url"`
			Type string `json:"type"`
		} `json:"media"`
	} `json:"projects"`
	Skills []struct {
		Name  string `json:"name"`
		Level string `json:"level"`
	} `json:"skills"`
	Repos []struct {
		RepoURL  string `json:"repo_url"`
		RepoName string `json:"repo_name"`
	} `json:"repos"`
}

func listPublic(t *testing.T, router http.Handler) []portfolioDTO {
	t.Helper()

	rr := doJSON(t, router, http.MethodGet, "/api/public-portfolios", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var portfolios []portfolioDTO
	require.NoError(t, json.Unmarshal(decodeBody(t, rr).Data, &portfolios))
	return portfolios
}

func TestPortfolioIsolationBetweenUsers(t *testing.T) {
	router := setupRouter(t)

	tokenA := registerUser(t, router, "usera", "a@x.com")
	tokenB := registerUser(t, router, "userb", "b@x.com")

	createPortfolio(t, router, tokenA, "A's work", false)

	rr := doJSON(t, router, http.MethodGet, "/api/portfolios", tokenB, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var portfolios []portfolioDTO
	require.NoError(t, json.Unmarshal(decodeBody(t, rr).Data, &portfolios))
	require.Empty(t, portfolios, "user B must not see user A's portfolios")
}

func TestPublicListingVisibility(t *testing.T) {
	router := setupRouter(t)

	token := registerUser(t, router, "carol", "carol@x.com")
	createPortfolio(t, router, token, "visible", true)
	createPortfolio(t, router, token, "hidden", false)

	portfolios := listPublic(t, router)
	require.Len(t, portfolios, 1)
	require.Equal(t, "visible", portfolios[0].Title)
	require.Equal(t, "carol", portfolios[0].Username, "public listing joins the owner username")
}

func TestPublicListingIncludesNewChildRecords(t *testing.T) {
	router := setupRouter(t)

	token := registerUser(t, router, "dave", "dave@x.com")
	portfolioID := createPortfolio(t, router, token, "showcase", true)

	// Warm the listing cache before adding children, so this also proves
	// the cache is invalidated on writes.
	require.Empty(t, listPublic(t, router)[0].Skills)

	rr := doJSON(t, router, http.MethodPost, "/api/skills/"+portfolioID, token, map[string]string{
		"name":  "Go",
		"level": "expert",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/api/repos/"+portfolioID, token, map[string]string{
		"repo_url": "https://github.com/dave/cool-project",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	portfolios := listPublic(t, router)
	require.Len(t, portfolios, 1)
	require.Len(t, portfolios[0].Skills, 1)
	require.Equal(t, "Go", portfolios[0].Skills[0].Name)
	require.Len(t, portfolios[0].Repos, 1)
	require.Equal(t, "cool-project", portfolios[0].Repos[0].RepoName)
}

func TestPublicListingResolvesStoredObjectKeys(t *testing.T) {
	media := repositories.NewMediaStore(config.StorageConfig{
		AccessKeyID:     "test-access-key",
		SecretAccessKey: "test-secret-key",
		Region:          "auto",
		AccountID:       "acc123",
		BucketName:      "media-test",
	})
	router, db := setupRouterWithStore(t, media)

	token := registerUser(t, router, "gina", "gina@x.com")
	portfolioID := createPortfolio(t, router, token, "gallery", true)

	rr := doJSON(t, router, http.MethodPost, "/api/projects", token, map[string]string{
		"portfolio_id": portfolioID,
		"title":        "shots",
		"media_url":    "https://cdn.example.com/cover.png",
		"media_type":   "image/png",
	})
	require.Equal(t, http.StatusCreated, rr.Code, "body: %s", rr.Body.String())

	var project struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decodeBody(t, rr).Data, &project))
	projectID, err := uuid.Parse(project.ID)
	require.NoError(t, err)

	// Uploads into a bucket without a public base URL are stored under their
	// object key; seed a row the way Upload leaves it.
	storedKey := "media/" + project.ID + "/shot.png"
	require.NoError(t, db.Create(&models.Media{
		ProjectID: projectID,
		URL:       storedKey,
		Type:      "image/png",
	}).Error)

	portfolios := listPublic(t, router)
	require.Len(t, portfolios, 1)
	require.Len(t, portfolios[0].Projects, 1)
	require.Len(t, portfolios[0].Projects[0].Media, 2)

	var presigned, passthrough int
	for _, m := range portfolios[0].Projects[0].Media {
		switch {
		case m.URL == "https://cdn.example.com/cover.png":
			passthrough++
		default:
			require.Contains(t, m.URL, "acc123.r2.cloudflarestorage.com")
			require.Contains(t, m.URL, storedKey)
			require.Contains(t, m.URL, "X-Amz-Signature")
			presigned++
		}
	}
	require.Equal(t, 1, passthrough, "absolute URLs pass through untouched")
	require.Equal(t, 1, presigned, "object keys come back presigned")
}

func TestChildCreationOwnershipChecks(t *testing.T) {
	router := setupRouter(t)

	tokenA := registerUser(t, router, "owner", "owner@x.com")
	tokenB := registerUser(t, router, "intruder", "intruder@x.com")
	portfolioID := createPortfolio(t, router, tokenA, "mine", true)

	t.Run("someone else's portfolio is forbidden", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodPost, "/api/skills/"+portfolioID, tokenB, map[string]string{
			"name": "Sneaking",
		})
		require.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("absent portfolio is 404", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodPost, "/api/skills/00000000-0000-0000-0000-000000000001", tokenA, map[string]string{
			"name": "Go",
		})
		require.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("invalid portfolio id is 400", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodPost, "/api/repos/not-a-uuid", tokenA, map[string]string{
			"repo_url": "https://github.com/x/y",
		})
		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestUpdatePortfolio(t *testing.T) {
	router := setupRouter(t)

	token := registerUser(t, router, "erin", "erin@x.com")
	portfolioID := createPortfolio(t, router, token, "draft", false)

	rr := doJSON(t, router, http.MethodPatch, "/api/portfolios/"+portfolioID, token, map[string]any{
		"is_public": true,
		"title":     "published",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	portfolios := listPublic(t, router)
	require.Len(t, portfolios, 1)
	require.Equal(t, "published", portfolios[0].Title)

	t.Run("cannot update someone else's portfolio", func(t *testing.T) {
		other := registerUser(t, router, "mallory", "mallory@x.com")
		rr := doJSON(t, router, http.MethodPatch, "/api/portfolios/"+portfolioID, other, map[string]any{
			"title": "stolen",
		})
		require.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestDeletePortfolioCascades(t *testing.T) {
	router := setupRouter(t)

	token := registerUser(t, router, "frank", "frank@x.com")
	portfolioID := createPortfolio(t, router, token, "doomed", true)

	rr := doJSON(t, router, http.MethodPost, "/api/skills/"+portfolioID, token, map[string]string{"name": "Go"})
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = doJSON(t, router, http.MethodPost, "/api/repos/"+portfolioID, token, map[string]string{
		"repo_url": "https://github.com/frank/doomed.git",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = doJSON(t, router, http.MethodPost, "/api/projects", token, map[string]string{
		"portfolio_id": portfolioID,
		"title":        "demo",
		"media_url":    "https://cdn.example.com/demo.png",
		"media_type":   "image/png",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, router, http.MethodDelete, "/api/portfolios/"+portfolioID, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	require.Empty(t, listPublic(t, router))

	rr = doJSON(t, router, http.MethodGet, "/api/portfolios", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var mine []portfolioDTO
	require.NoError(t, json.Unmarshal(decodeBody(t, rr).Data, &mine))
	require.Empty(t, mine)

	t.Run("deleting again is 404", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodDelete, "/api/portfolios/"+portfolioID, token, nil)
		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}
