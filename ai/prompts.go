package ai

import (
	"strings"
)

// Prompt templates for the two refinement calls. Templates are compiled in
// rather than loaded from disk: there are exactly two, they change with the
// schema declarations next to them, and shipping them inside the binary keeps
// the adapter deployable as a single artifact.

const questionPromptTemplate = `You are an expert in product management and AI architecture following the "Adept AI" methodology.
Your task is to analyze a vague product idea and generate targeted, critical questions that refine it into a robust specification.

Idea: "{IDEA}"

Generate 3 specific questions in {LANGUAGE} for EACH of the following categories. The questions must be written in {LANGUAGE}:
1. Problem and Vision (clarify the user's core problem and the long-term goal)
2. Value and Risk (business value, potential pitfalls, market risks)
3. Data and AI Readiness (data availability, data quality, ethical bias, technical feasibility)

Return the answer as a JSON object.`

const specPromptTemplate = `You are the "Refiner" module of the Adept AI application.

Original idea: "{IDEA}"

Refinement data (the user's answers):
{ANSWERS}

Based on this data, generate a structured Technical Product Specification entirely in {LANGUAGE}.

Output structure:
- title: a professional, concise project name.
- problem: a clear definition of the problem.
- vision: the long-term goal and impact.
- userStories: a list in the form "As a <role> I want <goal>, so that <benefit>".
- acceptanceCriteria: measurable completion conditions (e.g. model accuracy, latency).
- techStackRecommendation: concrete libraries and models.
- riskAnalysis: a critical analysis including data bias and implementation risks.`

// RenderPrompt replaces {PLACEHOLDER} tokens in a template with values
func RenderPrompt(template string, replacements map[string]string) string {
	result := template
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, "{"+placeholder+"}", value)
	}
	return result
}

// QuestionPrompt renders the question-generation prompt
func QuestionPrompt(rawIdea, language string) string {
	return RenderPrompt(questionPromptTemplate, map[string]string{
		"IDEA":     rawIdea,
		"LANGUAGE": language,
	})
}

// SpecPrompt renders the specification-generation prompt. answersJSON is the
// pretty-printed AnswerSet, empty categories included.
func SpecPrompt(rawIdea, answersJSON, language string) string {
	return RenderPrompt(specPromptTemplate, map[string]string{
		"IDEA":     rawIdea,
		"ANSWERS":  answersJSON,
		"LANGUAGE": language,
	})
}
