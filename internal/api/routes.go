package api

import "github.com/gofiber/fiber/v2"

// Register wires every route onto the app.
func Register(app *fiber.App, h *Handlers) {
	api := app.Group("/api")

	api.Post("/auth/signup", h.Signup)
	api.Post("/auth/login", h.Login)
	api.Post("/auth/logout", h.Logout)
	api.Get("/auth/me", h.RequireUser, h.Me)

	api.Post("/process-resume", h.ProcessResume)
	api.Post("/analyze/ats-score", h.ATSScore)
	api.Post("/analyze/missing-skills", h.MissingSkills)
	api.Post("/analyze/project-ideas", h.ProjectIdeas)
	api.Post("/analyze/interview-prep", h.InterviewPrep)
	api.Post("/analyze/job-matches", h.JobMatches)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
