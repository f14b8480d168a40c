package dashboard

import (
	"github.com/gofiber/fiber/v2"
)

type DashboardApi struct {
	controller *DashboardController
}

func NewDashboardApi(controller *DashboardController) *DashboardApi {
	return &DashboardApi{
		controller: controller,
	}
}

func (h *DashboardApi) Setup(app *fiber.App) {
	api := app.Group("/api/dashboard")

	api.Get("/stats", h.controller.GetStats)
}
