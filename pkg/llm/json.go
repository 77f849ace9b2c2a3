package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// DecodeJSON unmarshals a model response into v. Models wrap JSON in
// markdown fences or emit slightly broken syntax often enough that the
// raw payload is first stripped of fences and, when plain unmarshaling
// fails, run through jsonrepair.
func DecodeJSON(payload string, v interface{}) error {
	s := stripFences(payload)
	if err := json.Unmarshal([]byte(s), v); err == nil {
		return nil
	}

	repaired, err := jsonrepair.JSONRepair(s)
	if err != nil {
		return fmt.Errorf("response is not valid JSON and could not be repaired: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("repaired response still failed to parse: %w", err)
	}
	return nil
}

// stripFences removes a surrounding markdown code fence, if present, and
// trims any prose before the first brace or bracket.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexAny(s, "{[")
	if start > 0 {
		s = s[start:]
	}
	return s
}
