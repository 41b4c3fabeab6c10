package prompt

import "strings"

// complexityTemplate fixes the JSON shape the model must reply with.
// The extractor depends on exactly these keys.
const complexityTemplate = `You are an expert algorithm analyst. Analyze the following code and provide time and space complexity analysis.

IMPORTANT: Respond ONLY with valid JSON in this exact format, no other text:
{
  "time_complexity": {
    "best_case": "O(?)",
    "average_case": "O(?)",
    "worst_case": "O(?)"
  },
  "space_complexity": {
    "best_case": "O(?)",
    "average_case": "O(?)",
    "worst_case": "O(?)"
  },
  "explanation": "Brief explanation of why these complexities apply, mentioning key factors like loops, recursion, data structures used, etc."
}

Code language: {{LANGUAGE}}

Code to analyze:
` + "```{{LANGUAGE}}\n{{CODE}}\n```"

// Complexity builds the analysis prompt. Code and language are embedded
// verbatim; rejecting empty or hostile input is the caller's job, not
// this template's.
func Complexity(code, language string) string {
	p := strings.ReplaceAll(complexityTemplate, "{{LANGUAGE}}", language)
	return strings.Replace(p, "{{CODE}}", code, 1)
}
