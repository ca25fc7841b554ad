package openai

import "fmt"

const locateResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "found": {
      "type": "boolean"
    },
    "start_quote": {
      "type": "string"
    },
    "end_quote": {
      "type": "string"
    }
  },
  "required": ["found", "start_quote", "end_quote"],
  "additionalProperties": false
}`

const locatePromptTemplate = `You locate a PASSAGE inside a WINDOW of text and return JSON.

The WINDOW is a cleaned-up version of a document. The PASSAGE was extracted from the original
document, so its wording, whitespace, hyphenation or punctuation may differ slightly from the
WINDOW. Find the region of the WINDOW that carries the same text as the PASSAGE.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble,
explanation, greeting, or acknowledgment. Start your response directly with the opening brace {
and end with the closing brace }. Your output must exactly follow this schema:

%s

Rules:
- "start_quote" is the first 5 to 10 words of the region, copied EXACTLY as they appear in the WINDOW.
- "end_quote" is the last 5 to 10 words of the region, copied EXACTLY as they appear in the WINDOW.
- Copy characters from the WINDOW, not from the PASSAGE. Do not fix spelling or punctuation.
- If the passage does not appear in the WINDOW, return {"found": false, "start_quote": "", "end_quote": ""}.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
PASSAGE: "The quick brown fox jumps over the lazy dog near the river bank."
WINDOW: "... and then, the quick brown fox jumped over the lazy dog near the river-bank. Later ..."
Output:
{"found": true, "start_quote": "the quick brown fox jumped", "end_quote": "the lazy dog near the river-bank."}`

const locateUserTemplate = "PASSAGE:\n%s\n\nWINDOW:\n%s"

// buildSystemPrompt creates the system prompt with the response schema embedded.
func buildSystemPrompt() string {
	return fmt.Sprintf(locatePromptTemplate, locateResponseSchema)
}

// buildUserPrompt frames the passage and window for the model.
func buildUserPrompt(content, window string) string {
	return fmt.Sprintf(locateUserTemplate, content, window)
}
