package llm

import "strings"

// CleanJSONBlock strips markdown code fences and any chatter before the first
// JSON object or array. Models sometimes add both despite ResponseMIMEType.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Drop a language tag such as "json" on the fence line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := strings.TrimSpace(text[:idx])
			if len(firstLine) < 20 && !strings.ContainsAny(firstLine, " {[") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[") {
		return text
	}

	// Preamble such as "Here is the JSON:" before the payload
	if idx := strings.IndexAny(text, "{["); idx > 0 {
		return strings.TrimSpace(text[idx:])
	}
	return text
}
