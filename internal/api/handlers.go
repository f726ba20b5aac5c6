// Package api exposes the resume analysis features over HTTP.
package api

import (
	"context"
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/jobsphere/jobsphere/internal/analysis"
	"github.com/jobsphere/jobsphere/internal/auth"
	"github.com/jobsphere/jobsphere/internal/database"
	"github.com/jobsphere/jobsphere/internal/events"
	"github.com/jobsphere/jobsphere/internal/extract"
	"github.com/jobsphere/jobsphere/internal/jobs"
	"github.com/jobsphere/jobsphere/internal/resume"
)

const notAResumeMessage = "The file you gave does not seem to be a valid resume. Please upload a proper resume file."

// ResumeAnalyzer is the generative analysis collaborator.
type ResumeAnalyzer interface {
	MissingSkills(ctx context.Context, role, resumeText string) ([]string, error)
	ProjectIdeas(ctx context.Context, role, jobDescription string) []analysis.ProjectIdea
	InterviewQuestions(ctx context.Context, role, resumeText string) ([]string, error)
}

// MatchScorer computes the resume-to-job-description match score.
type MatchScorer interface {
	Score(resumeText, jobDescription string) float64
}

// JobSearcher queries the configured job-search providers.
type JobSearcher interface {
	Search(ctx context.Context, role, location string) ([]jobs.Listing, error)
}

// UserStore persists user credentials.
type UserStore interface {
	CreateUser(ctx context.Context, arg database.CreateUserParams) (database.User, error)
	GetUserByEmail(ctx context.Context, email string) (database.User, error)
}

// Handlers carries every collaborator the routes need. All dependencies
// are injected so tests can swap in fakes.
type Handlers struct {
	Analyzer ResumeAnalyzer
	Scorer   MatchScorer
	Jobs     JobSearcher
	Users    UserStore
	Tokens   *auth.TokenIssuer
	Events   *events.Publisher
	Logger   *zap.Logger
}

type atsScoreRequest struct {
	JobRole        string `json:"job_role"`
	JobDescription string `json:"job_description"`
	ResumeText     string `json:"resume_text"`
}

type missingSkillsRequest struct {
	JobRole    string `json:"job_role"`
	ResumeText string `json:"resume_text"`
}

type projectIdeasRequest struct {
	JobRole        string `json:"job_role"`
	JobDescription string `json:"job_description"`
}

type interviewPrepRequest struct {
	JobRole    string `json:"job_role"`
	ResumeText string `json:"resume_text"`
}

type jobMatchRequest struct {
	JobRole  string `json:"job_role"`
	Location string `json:"location"`
}

// ProcessResume accepts the multipart upload, extracts its text and runs
// the resume heuristic before echoing everything back to the client.
func (h *Handlers) ProcessResume(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No resume file found"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not open uploaded file"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not read uploaded file"})
	}

	resumeText, err := extract.Text(fileHeader.Filename, data)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedFormat) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unsupported file type. Please upload a PDF or DOCX.",
			})
		}
		h.Logger.Error("resume text extraction failed",
			zap.String("filename", fileHeader.Filename),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error processing file"})
	}

	if !resume.LooksLikeResume(resumeText) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": notAResumeMessage})
	}

	return c.JSON(fiber.Map{
		"message":         "Resume processed successfully",
		"resume_text":     resumeText,
		"job_role":        c.FormValue("jobRole"),
		"job_description": c.FormValue("jobDescription"),
		"location":        c.FormValue("location"),
		"experience":      c.FormValue("experience"),
	})
}

// ATSScore scores the resume against the job description. The details list
// is cosmetic and not derived from the score.
func (h *Handlers) ATSScore(c *fiber.Ctx) error {
	var req atsScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	score := h.Scorer.Score(req.ResumeText, req.JobDescription)
	h.Events.Publish("ats-score", "completed")

	return c.JSON(fiber.Map{
		"title": "Job Match Analysis",
		"score": score,
		"details": []string{
			"Strong keyword optimization",
			"Excellent formatting",
			"Clear section headers",
		},
	})
}

// MissingSkills runs the skill-gap pipeline and returns the flattened list.
func (h *Handlers) MissingSkills(c *fiber.Ctx) error {
	var req missingSkillsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	skills, err := h.Analyzer.MissingSkills(c.UserContext(), req.JobRole, req.ResumeText)
	if err != nil {
		h.Logger.Error("missing skills analysis failed", zap.Error(err))
		h.Events.Publish("missing-skills", "failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not analyze missing skills"})
	}
	h.Events.Publish("missing-skills", "completed")

	return c.JSON(fiber.Map{
		"title":  "Missing Skills Analysis",
		"skills": skills,
	})
}

// ProjectIdeas never fails: a broken model reply degrades to an empty list.
func (h *Handlers) ProjectIdeas(c *fiber.Ctx) error {
	var req projectIdeasRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	ideas := h.Analyzer.ProjectIdeas(c.UserContext(), req.JobRole, req.JobDescription)
	h.Events.Publish("project-ideas", "completed")

	return c.JSON(fiber.Map{
		"title":    "Project Ideas for Your Profile",
		"projects": ideas,
	})
}

// InterviewPrep surfaces an unparsable model reply as a 500.
func (h *Handlers) InterviewPrep(c *fiber.Ctx) error {
	var req interviewPrepRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	questions, err := h.Analyzer.InterviewQuestions(c.UserContext(), req.JobRole, req.ResumeText)
	if err != nil {
		h.Logger.Error("interview prep failed", zap.Error(err))
		h.Events.Publish("interview-prep", "failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not parse LLM response"})
	}
	h.Events.Publish("interview-prep", "completed")

	return c.JSON(fiber.Map{
		"title":     "Interview Preparation",
		"questions": questions,
	})
}

// JobMatches aggregates the configured providers. Partial results are
// fine; only a total provider wipeout becomes a 500, and even that
// carries an empty jobs list the client can render.
func (h *Handlers) JobMatches(c *fiber.Ctx) error {
	var req jobMatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	title := "Live Job Matches in " + req.Location

	listings, err := h.Jobs.Search(c.UserContext(), req.JobRole, req.Location)
	if err != nil {
		h.Logger.Error("job match aggregation failed", zap.Error(err))
		h.Events.Publish("job-matches", "failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"title": title,
			"jobs":  []jobs.Listing{},
			"error": "Error finding job matches",
		})
	}
	h.Events.Publish("job-matches", "completed")

	return c.JSON(fiber.Map{
		"title": title,
		"jobs":  listings,
	})
}
