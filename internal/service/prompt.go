package service

import (
	"bytes"
	"fmt"
	"text/template"
)

// promptTemplate lays out the generation prompt: topic, guidelines,
// then whatever context was gathered for this request.
var promptTemplate = template.Must(template.New("post").Parse(
	`You are an expert LinkedIn content creator.

Write a professional, natural LinkedIn post for the following topic:

**Topic:** {{.Idea}}

Guidelines:
- Start with a strong hook.
- Add storytelling or founder journey if available.
- Keep it human-like and engaging.
- Avoid robotic tone and repetition.
- End with a question or reflection.
- Use only relevant hashtags (based on topic or industry).
- Avoid adding names, random people, or irrelevant hashtags.

Database Context: {{.DBContext}}
Web Context: {{.WebContext}}
{{- if .SimilarPosts}}
Similar Past Posts: {{.SimilarPosts}}
{{- end}}
{{- if .Founder}}
Founder: {{.Founder}}
{{- end}}
{{- if .Company}}
Company: {{.Company}}
{{- end}}
`))

// promptData feeds promptTemplate.
type promptData struct {
	Idea         string
	DBContext    string
	WebContext   string
	SimilarPosts string
	Founder      string
	Company      string
}

// buildPrompt renders the generation prompt.
func buildPrompt(data promptData) (string, error) {
	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute prompt template: %w", err)
	}
	return buf.String(), nil
}
