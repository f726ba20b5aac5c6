// Package analysis orchestrates the generative-text features: the skill-gap
// pipeline, project idea generation and interview question generation.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jobsphere/jobsphere/internal/llm"
)

// Skill gap categories, in the fixed order the flattened result uses.
const (
	CategoryCoreTechnical = "Core Technical Skills"
	CategoryLanguages     = "Programming Languages/Frameworks"
	CategoryTools         = "Tools & Platforms"
)

// SkillGapReport maps the three fixed categories to the skills the
// candidate is missing. Every field is non-nil after a successful parse.
type SkillGapReport struct {
	CoreTechnical []string `json:"Core Technical Skills"`
	Languages     []string `json:"Programming Languages/Frameworks"`
	Tools         []string `json:"Tools & Platforms"`
}

// Flatten concatenates the three categories in their fixed order,
// preserving per-category order.
func (r SkillGapReport) Flatten() []string {
	flat := make([]string, 0, len(r.CoreTechnical)+len(r.Languages)+len(r.Tools))
	flat = append(flat, r.CoreTechnical...)
	flat = append(flat, r.Languages...)
	flat = append(flat, r.Tools...)
	return flat
}

// Analyzer runs the resume analysis pipelines against a text generator.
type Analyzer struct {
	gen    llm.TextGenerator
	logger *zap.Logger
}

func NewAnalyzer(gen llm.TextGenerator, logger *zap.Logger) *Analyzer {
	return &Analyzer{gen: gen, logger: logger}
}

// StructureResume asks the model to reorganize raw resume text into the
// seven fixed sections. The reply is kept as-is: the section contract is
// enforced by prompt instruction only, not validated here.
func (a *Analyzer) StructureResume(ctx context.Context, resumeText string) (string, error) {
	reply, err := a.gen.Generate(ctx, structurePrompt(resumeText))
	if err != nil {
		return "", fmt.Errorf("structure resume: %w", err)
	}
	return strings.TrimSpace(reply), nil
}

// ExtractSkills pulls the flat ordered skill list out of a structured
// resume. A generation or parse failure degrades to an empty list so the
// pipeline can continue; the skill-gap stage then works from zero skills.
func (a *Analyzer) ExtractSkills(ctx context.Context, structuredResume string) []string {
	reply, err := a.gen.Generate(ctx, skillsPrompt(structuredResume))
	if err != nil {
		a.logger.Warn("skill extraction failed, continuing with empty list", zap.Error(err))
		return []string{}
	}

	var skills []string
	if err := llm.ExtractJSON(reply, &skills); err != nil {
		a.logger.Warn("skill extraction reply was not a JSON array, continuing with empty list",
			zap.Error(err))
		return []string{}
	}
	return skills
}

// SkillGap diffs the candidate's skills against the target role. Unlike
// skill extraction, a failure here is fatal for the request.
func (a *Analyzer) SkillGap(ctx context.Context, role string, candidateSkills []string) (SkillGapReport, error) {
	var report SkillGapReport

	reply, err := a.gen.Generate(ctx, skillGapPrompt(role, candidateSkills))
	if err != nil {
		return report, fmt.Errorf("skill gap analysis: %w", err)
	}
	if err := llm.ExtractJSON(reply, &report); err != nil {
		return report, fmt.Errorf("skill gap analysis: %w", err)
	}

	if report.CoreTechnical == nil {
		report.CoreTechnical = []string{}
	}
	if report.Languages == nil {
		report.Languages = []string{}
	}
	if report.Tools == nil {
		report.Tools = []string{}
	}
	return report, nil
}

// MissingSkills runs the full four-stage pipeline:
// structure -> extract skills -> diff against role -> flatten.
func (a *Analyzer) MissingSkills(ctx context.Context, role, resumeText string) ([]string, error) {
	structured, err := a.StructureResume(ctx, resumeText)
	if err != nil {
		return nil, err
	}

	skills := a.ExtractSkills(ctx, structured)

	report, err := a.SkillGap(ctx, role, skills)
	if err != nil {
		return nil, err
	}
	return report.Flatten(), nil
}
