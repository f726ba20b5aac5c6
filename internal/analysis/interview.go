package analysis

import (
	"context"
	"fmt"

	"github.com/jobsphere/jobsphere/internal/llm"
)

// InterviewQuestions structures the resume, extracts its skills and asks
// the model for twenty role-specific interview questions. A reply without
// a parsable "questions" object is surfaced as an error.
func (a *Analyzer) InterviewQuestions(ctx context.Context, role, resumeText string) ([]string, error) {
	structured, err := a.StructureResume(ctx, resumeText)
	if err != nil {
		return nil, err
	}
	skills := a.ExtractSkills(ctx, structured)

	reply, err := a.gen.Generate(ctx, interviewPrompt(role, skills))
	if err != nil {
		return nil, fmt.Errorf("interview question generation: %w", err)
	}

	var parsed struct {
		Questions []string `json:"questions"`
	}
	if err := llm.ExtractJSON(reply, &parsed); err != nil {
		return nil, fmt.Errorf("interview question generation: %w", err)
	}
	if parsed.Questions == nil {
		parsed.Questions = []string{}
	}
	return parsed.Questions, nil
}
