// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	// answer keys with a missing, single or unbalanced quote
	looseKey = regexp.MustCompile(`([{,]\s*)['"]?(found|start_quote|end_quote)['"]?\s*:`)
	// "found": "true"
	quotedFound = regexp.MustCompile(`("found"\s*:\s*)"(true|false)"`)
	// "found": True
	pythonBool    = regexp.MustCompile(`:\s*(True|False)\b`)
	trailingComma = regexp.MustCompile(`,\s*}`)
)

// parseLocateAnswer decodes the model's answer. The JSON object is cut out of
// any code fence or surrounding prose; if it still does not decode, repairJSON
// is applied and decoding is tried once more. The first decode error is
// returned when both fail.
func parseLocateAnswer(text string) (locateAnswer, error) {
	object := extractObject(stripCodeFences(text))

	var answer locateAnswer
	err := json.Unmarshal([]byte(object), &answer)
	if err == nil {
		return answer, nil
	}
	answer = locateAnswer{}
	if json.Unmarshal([]byte(repairJSON(object)), &answer) != nil {
		return locateAnswer{}, err
	}
	return answer, nil
}

// extractObject returns the text between the first '{' and the last '}'.
func extractObject(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}

// repairJSON fixes the mistakes models make in locate answers: badly quoted
// keys, booleans written as strings or in Python style, and a trailing comma.
func repairJSON(s string) string {
	s = looseKey.ReplaceAllString(s, `$1"$2":`)
	s = quotedFound.ReplaceAllString(s, `$1$2`)
	s = pythonBool.ReplaceAllStringFunc(s, strings.ToLower)
	return trailingComma.ReplaceAllString(s, "}")
}
