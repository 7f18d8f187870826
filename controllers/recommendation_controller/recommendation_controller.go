package recommendation_controller

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/marketplace/clients"
	"github.com/joy095/marketplace/logger"
	"github.com/joy095/marketplace/models/user_models"
	"github.com/joy095/marketplace/utils/geo"
)

const systemPrompt = "You are a concise assistant for a local services marketplace. " +
	"Given a customer request and a list of nearby vendors, recommend the best match " +
	"and briefly say why. Mention at most three vendors by name."

// RecommendationController asks a language model to pick among nearby vendors.
type RecommendationController struct {
	DB *pgxpool.Pool
	AI clients.RecommendationClient
}

// NewRecommendationController creates a new instance of RecommendationController.
func NewRecommendationController(db *pgxpool.Pool, ai clients.RecommendationClient) *RecommendationController {
	return &RecommendationController{
		DB: db,
		AI: ai,
	}
}

type RecommendRequest struct {
	Query     string   `json:"query" binding:"required,max=500"`
	Services  []string `json:"services" binding:"required,min=1"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
}

// Recommend handles POST /api/recommendations. The model only ever sees
// public vendor profile fields.
func (rc *RecommendationController) Recommend(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()

	vendors, err := user_models.FindVendorsByService(ctx, rc.DB, req.Services)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search vendors"})
		return
	}
	if len(vendors) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"recommendation": "No vendors currently offer the requested services.",
			"vendors":        []user_models.User{},
		})
		return
	}

	hasLocation := req.Latitude != 0 || req.Longitude != 0
	type candidate struct {
		vendor   user_models.User
		distance float64
	}
	candidates := make([]candidate, 0, len(vendors))
	for _, v := range vendors {
		d := 0.0
		if hasLocation {
			d = geo.Distance(req.Latitude, req.Longitude, v.Latitude, v.Longitude)
		}
		candidates = append(candidates, candidate{vendor: v, distance: d})
	}
	if hasLocation {
		sort.Slice(candidates, func(i, j int) bool {
			return candidates[i].distance < candidates[j].distance
		})
	}
	// Cap the prompt to the nearest handful.
	if len(candidates) > 10 {
		candidates = candidates[:10]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Customer request: %s\n\nVendors:\n", req.Query)
	for _, cand := range candidates {
		fmt.Fprintf(&sb, "- %s: services %s, price %.0f",
			cand.vendor.Name, strings.Join(cand.vendor.ServicesOffered, ", "), cand.vendor.Pricing)
		if hasLocation {
			fmt.Fprintf(&sb, ", %.1f km away", cand.distance)
		}
		sb.WriteString("\n")
	}

	answer, err := rc.AI.Complete(ctx, systemPrompt, sb.String())
	if err != nil {
		logger.ErrorLogger.Errorf("Recommendation completion failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "recommendation service unavailable"})
		return
	}

	shortlist := make([]user_models.User, 0, len(candidates))
	for _, cand := range candidates {
		shortlist = append(shortlist, cand.vendor)
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendation": answer,
		"vendors":        shortlist,
	})
}
