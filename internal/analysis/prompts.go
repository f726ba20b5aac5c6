package analysis

import (
	"fmt"
	"strings"
)

func structurePrompt(resumeText string) string {
	return fmt.Sprintf(`You are an AI that organizes resume text into structured sections.

Task:
- Organize the resume text into these exact sections:
  - Name and Contact Information
  - Introduction/Summary
  - Experience
  - Projects
  - Education
  - Skills
  - Certifications
- If a section uses a different title (e.g., "Profile", "Career Overview"), map it to the most relevant one.
- If any section is missing, still include it with an empty string ("").

Input Resume Text:
%s

Output:
Return ONLY valid JSON in this format:
{
  "Name and Contact Information": "",
  "Introduction/Summary": "",
  "Experience": "",
  "Projects": "",
  "Education": "",
  "Skills": "",
  "Certifications": ""
}`, resumeText)
}

func skillsPrompt(structuredResume string) string {
	return fmt.Sprintf(`You are an AI career assistant.
Task: you are given a structured resume. Extract every skill mentioned in it, keeping the order in which they appear.
Input: %s
Output: Return ONLY a valid JSON array of skill name strings. No explanations, markdown, or text around it.`, structuredResume)
}

func skillGapPrompt(role string, candidateSkills []string) string {
	return fmt.Sprintf(`You are an AI career coach specializing in skill gap analysis. Your task is to analyze the gap between a target job role and a candidate's existing skills.

### Instructions
1. Use a fixed and standard list of essential skills required for the target job role. Do not invent or add irrelevant skills.
2. Compare these required skills with the candidate's provided skills.
3. List only the missing crucial skills that the candidate does not already have.
4. Categorize the missing skills into exactly these three categories (do not add or remove categories):
   - Core Technical Skills
   - Programming Languages/Frameworks
   - Tools & Platforms
5. If no skills are missing in a category, return an empty list [].
6. Output must be only a single valid JSON object. Do not include explanations, markdown, or extra text.
7. Do not generate unnecessary skills — only include those truly required for the role.

## Input Data
- Target Job Role: %q
- Candidate's Existing Skills: [%s]

## Example of a Perfect Output
{
  "Core Technical Skills": ["Data Structures", "System Design"],
  "Programming Languages/Frameworks": ["Go", "React Native"],
  "Tools & Platforms": ["Kubernetes", "Docker", "AWS"]
}`, role, strings.Join(candidateSkills, ", "))
}

func projectIdeasPrompt(role, jobDescription string) string {
	return fmt.Sprintf(`Act as an expert AI career mentor. Based on the job role %q and the following job description:

%s

Generate exactly 5 practical project ideas that align with the role.

Output strictly as a single valid JSON array of 5 objects.
Each object must contain the following keys:
- "title": Short and clear project title
- "objective": One-sentence description of the project's purpose
- "tools": Tools, libraries, or frameworks to be used
- "skills": Skills the user will learn or demonstrate

Example format:
[
  {
    "title": "Project Title",
    "objective": "Project objective here",
    "tools": "List of tools/frameworks",
    "skills": "List of skills gained"
  }
]`, role, jobDescription)
}

func interviewPrompt(role string, skills []string) string {
	return fmt.Sprintf(`You are an expert AI interview question generator. For the job role %q with skills %q, generate 20 relevant interview questions in four categories: DSA & Core CS, Technical Skills, Role-Specific, and HR.

CRITICAL OUTPUT FORMAT:
You MUST return a single JSON object with one key "questions", containing a flat array of all 20 question strings.

Example: { "questions": ["Question 1?", "Question 2?"] }`, role, strings.Join(skills, ", "))
}
