package dashboard

import (
	"github.com/gofiber/fiber/v2"
)

type DashboardController struct {
	Service DashboardService
}

func NewDashboardController(service DashboardService) *DashboardController {
	return &DashboardController{
		Service: service,
	}
}

// GetStats returns newsletter counts per status and the last sent timestamp
func (ctrl *DashboardController) GetStats(c *fiber.Ctx) error {
	stats, err := ctrl.Service.GetStats(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data": stats,
	})
}
