package main

import (
	"errors"
	"log"
	"os"

	"github.com/Aquilabot/KreaPC-Engine/internal/models"
	"github.com/Aquilabot/KreaPC-Engine/internal/storage"
	"github.com/Aquilabot/KreaPC-Engine/pkg/builds"
	"github.com/Aquilabot/KreaPC-Engine/pkg/ingest"
	"github.com/Aquilabot/KreaPC-Engine/pkg/marketplace"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

type SearchRequest struct {
	Query    string `json:"query"`
	Category string `json:"category"`
	Pages    int    `json:"pages"`
}

type CreateBuildRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type MutateBuildRequest struct {
	Action    string            `json:"action"`
	Category  string            `json:"category"`
	Component *models.Component `json:"component"`
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	mem := storage.NewMemory()

	searchAPI := marketplace.NewSearchClient(marketplace.SearchClientOptions{
		BaseURL:  envOr("SEARCH_API_URL", "https://api.partmarket.example"),
		Retailer: envOr("SEARCH_API_RETAILER", "partmarket"),
		APIKey:   os.Getenv("SEARCH_API_KEY"),
	})
	affiliate := marketplace.NewAffiliateClient(envOr("AFFILIATE_API_URL", "https://links.partmarket.example"), 0)

	pipeline := ingest.New(searchAPI, affiliate, mem, ingest.NewQuotaState(), ingest.Options{})
	buildService := builds.NewService(mem, mem)

	// Create a Fiber app
	app := fiber.New()
	app.Use(helmet.New())
	app.Use(logger.New(logger.Config{
		Format: "${pid} | ${time} | ${latency} | [${ip}]:${port} | ${status} - ${method} ${path}\n",
	}))

	// Endpoint for searching the marketplace and folding results into the catalog
	app.Post("/search", func(c *fiber.Ctx) error {
		var req SearchRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid request payload", "code": "invalid_body"})
		}
		if req.Query == "" {
			return c.Status(400).JSON(fiber.Map{"error": "Missing query", "code": "missing_query"})
		}

		var hint models.Category
		if req.Category != "" {
			parsed, ok := models.ParseCategory(req.Category)
			if !ok {
				return c.Status(400).JSON(fiber.Map{"error": "Unknown category", "code": "invalid_category"})
			}
			hint = parsed
		}

		run := pipeline
		if req.Pages > 0 {
			// "load more" mode gets its own bounded pipeline over the same quota
			run = ingest.New(searchAPI, affiliate, mem, pipeline.Quota(), ingest.Options{MaxPages: req.Pages})
		}

		components, err := run.Run(c.Context(), req.Query, hint)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Error searching parts", "code": "search_failed"})
		}
		return c.JSON(components)
	})

	// Endpoint for creating an empty build
	app.Post("/builds", func(c *fiber.Ctx) error {
		var req CreateBuildRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid request payload", "code": "invalid_body"})
		}
		build, err := buildService.Create(c.Context(), req.Name, req.Description)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Error creating build", "code": "create_failed"})
		}
		return c.JSON(build)
	})

	app.Get("/builds/:id", func(c *fiber.Ctx) error {
		build, err := buildService.Get(c.Context(), c.Params("id"))
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Build not found", "code": "not_found"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Error loading build", "code": "load_failed"})
		}
		return c.JSON(build)
	})

	// Endpoint for mutating a build; always answers with the recomputed
	// build, compatibility report included
	app.Post("/builds/:id/components", func(c *fiber.Ctx) error {
		var req MutateBuildRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid request payload", "code": "invalid_body"})
		}

		category, ok := models.ParseCategory(req.Category)
		if !ok {
			return c.Status(400).JSON(fiber.Map{"error": "Unknown category", "code": "invalid_category"})
		}

		build, err := buildService.Mutate(c.Context(), builds.MutationRequest{
			BuildID:   c.Params("id"),
			Action:    builds.Action(req.Action),
			Category:  category,
			Component: req.Component,
		})

		var invalid *builds.ValidationError
		if errors.As(err, &invalid) {
			return c.Status(400).JSON(fiber.Map{"error": invalid.Message, "code": invalid.Code})
		}
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Build not found", "code": "not_found"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Error updating build", "code": "mutate_failed"})
		}
		return c.JSON(build)
	})

	// Start the server
	log.Fatal(app.Listen(envOr("LISTEN_ADDR", ":3000")))
}
