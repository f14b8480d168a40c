package newsletter

import (
	"errors"

	common_models "go-briefing/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

type NewsletterController struct {
	Service NewsletterService
}

func NewNewsletterController(service NewsletterService) *NewsletterController {
	return &NewsletterController{
		Service: service,
	}
}

type generateRequest struct {
	Articles []common_models.SourceArticle `json:"articles"`
}

type editRequest struct {
	Content common_models.GeneratedContent `json:"content"`
}

// Generate triggers a manual pipeline run with the supplied source articles
func (ctrl *NewsletterController) Generate(c *fiber.Ctx) error {
	var req generateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	n, err := ctrl.Service.RunPipeline(c.UserContext(), req.Articles)
	if err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, ErrRunInProgress) {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Newsletter generated successfully",
		"data":    n,
	})
}

// Edit replaces the content of a generated newsletter
func (ctrl *NewsletterController) Edit(c *fiber.Ctx) error {
	id := c.Params("id")

	var req editRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	n, err := ctrl.Service.EditNewsletter(c.UserContext(), id, &req.Content)
	if err != nil {
		return c.Status(transitionStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Newsletter updated successfully",
		"data":    n,
	})
}

// Send dispatches a newsletter through all configured channels
func (ctrl *NewsletterController) Send(c *fiber.Ctx) error {
	id := c.Params("id")

	n, err := ctrl.Service.SendNewsletter(c.UserContext(), id)
	if err != nil {
		return c.Status(transitionStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Dispatch completed",
		"data":    n,
	})
}

// Get returns a single newsletter by id
func (ctrl *NewsletterController) Get(c *fiber.Ctx) error {
	id := c.Params("id")

	n, err := ctrl.Service.GetNewsletter(c.UserContext(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(n)
}

// List returns all newsletters newest-first
func (ctrl *NewsletterController) List(c *fiber.Ctx) error {
	newsletters, err := ctrl.Service.ListNewsletters(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data": newsletters,
	})
}

// StageArticles stores source articles for the next scheduled run
func (ctrl *NewsletterController) StageArticles(c *fiber.Ctx) error {
	var req generateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.StageArticles(c.UserContext(), req.Articles); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Articles staged successfully",
	})
}

// ListStagedArticles returns the articles queued for the next scheduled run
func (ctrl *NewsletterController) ListStagedArticles(c *fiber.Ctx) error {
	articles, err := ctrl.Service.ListStagedArticles(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data": articles,
	})
}

func transitionStatus(err error) int {
	var invalid *InvalidTransitionError
	if errors.As(err, &invalid) {
		return fiber.StatusConflict
	}
	return fiber.StatusBadRequest
}
