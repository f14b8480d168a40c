package settings

import (
	"github.com/gofiber/fiber/v2"
)

type SettingsApi struct {
	controller *SettingsController
}

func NewSettingsApi(controller *SettingsController) *SettingsApi {
	return &SettingsApi{
		controller: controller,
	}
}

func (h *SettingsApi) Setup(app *fiber.App) {
	api := app.Group("/api/settings")

	api.Get("/", h.controller.GetConfig)
	api.Put("/", h.controller.UpdateConfig)
}
