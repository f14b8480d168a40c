package newsletter

import (
	"github.com/gofiber/fiber/v2"
)

type NewsletterApi struct {
	controller *NewsletterController
}

func NewNewsletterApi(controller *NewsletterController) *NewsletterApi {
	return &NewsletterApi{
		controller: controller,
	}
}

func (h *NewsletterApi) Setup(app *fiber.App) {
	api := app.Group("/api/newsletters")

	api.Get("/", h.controller.List)
	api.Post("/generate", h.controller.Generate)
	api.Get("/articles", h.controller.ListStagedArticles)
	api.Post("/articles", h.controller.StageArticles)
	api.Get("/:id", h.controller.Get)
	api.Post("/:id/edit", h.controller.Edit)
	api.Post("/:id/send", h.controller.Send)
}
