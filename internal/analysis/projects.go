package analysis

import (
	"context"

	"go.uber.org/zap"

	"github.com/jobsphere/jobsphere/internal/llm"
)

// ProjectIdea is one suggested portfolio project for the target role.
type ProjectIdea struct {
	Title     string `json:"title"`
	Objective string `json:"objective"`
	Tools     string `json:"tools"`
	Skills    string `json:"skills"`
}

// ProjectIdeas generates five project suggestions for the role. Any failure
// degrades to an empty list; this feature never fails a request.
func (a *Analyzer) ProjectIdeas(ctx context.Context, role, jobDescription string) []ProjectIdea {
	reply, err := a.gen.Generate(ctx, projectIdeasPrompt(role, jobDescription))
	if err != nil {
		a.logger.Warn("project idea generation failed", zap.Error(err))
		return []ProjectIdea{}
	}

	var ideas []ProjectIdea
	if err := llm.ExtractJSON(reply, &ideas); err != nil {
		a.logger.Warn("project idea reply was not a JSON array", zap.Error(err))
		return []ProjectIdea{}
	}
	return ideas
}
