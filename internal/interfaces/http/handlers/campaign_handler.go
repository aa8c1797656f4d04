package handlers

import (
	"strconv"

	"github.com/funnelpulse/lead-engine-api/internal/application/usecases"
	"github.com/funnelpulse/lead-engine-api/internal/domain/repositories"
	"github.com/gofiber/fiber/v2"
)

type CampaignHandler struct {
	statsUseCase usecases.StatsUseCase
	mergeUseCase usecases.MergeUseCase
	leadRepo     repositories.LeadRepository
}

func NewCampaignHandler(
	statsUseCase usecases.StatsUseCase,
	mergeUseCase usecases.MergeUseCase,
	leadRepo repositories.LeadRepository,
) *CampaignHandler {
	return &CampaignHandler{
		statsUseCase: statsUseCase,
		mergeUseCase: mergeUseCase,
		leadRepo:     leadRepo,
	}
}

func (h *CampaignHandler) GetCampaignStats(c *fiber.Ctx) error {
	campaignID := c.Params("campaign_id")

	agg, err := h.statsUseCase.GetCampaignStats(c.Context(), campaignID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(agg)
}

func (h *CampaignHandler) GetCampaignLeads(c *fiber.Ctx) error {
	campaignID := c.Params("campaign_id")

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 50
	}

	sortBy := c.Query("sortBy", "created_at")
	sortDirection := c.Query("sortDirection", "desc")
	if sortDirection != "asc" && sortDirection != "desc" {
		sortDirection = "desc"
	}

	// Validate sortBy against real columns so it is safe to interpolate.
	validSortFields := map[string]string{
		"created_at":         "created_at",
		"updated_at":         "updated_at",
		"email":              "email",
		"ip_address":         "ip_address",
		"visit_count":        "visit_count",
		"booking_count":      "booking_count",
		"login_count":        "login_count",
		"verification_count": "verification_count",
	}
	column, ok := validSortFields[sortBy]
	if !ok {
		column = "created_at"
	}
	orderBy := column + " " + sortDirection

	leads, total, err := h.leadRepo.ListPage(c.Context(), campaignID, page, limit, orderBy)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"leads": leads,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (h *CampaignHandler) MergeCampaign(c *fiber.Ctx) error {
	campaignID := c.Params("campaign_id")
	dryRun := c.QueryBool("dry_run", false)

	report, err := h.mergeUseCase.MergeCampaign(c.Context(), campaignID, dryRun)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(report)
}

func (h *CampaignHandler) ResyncCampaign(c *fiber.Ctx) error {
	campaignID := c.Params("campaign_id")

	agg, err := h.mergeUseCase.ResyncCampaign(c.Context(), campaignID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(agg)
}
