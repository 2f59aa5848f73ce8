package attest

import (
	"fmt"
	"strings"
)

const maxIntentText = 50

// FormatIntent builds the human-readable summary attached to a verification
// request so policy authors and auditors see what the agent was doing, not
// just an opaque digest.
func FormatIntent(actor, action string, params map[string]any) string {
	parts := []string{fmt.Sprintf("%s executing %s", actor, action)}

	if url, ok := params["url"].(string); ok && url != "" {
		parts = append(parts, "to "+url)
	} else if text, ok := params["text"].(string); ok && text != "" {
		// Truncate on rune boundaries; splitting a multi-byte rune would put
		// invalid UTF-8 into the audit trail.
		if runes := []rune(text); len(runes) > maxIntentText {
			text = string(runes[:maxIntentText])
		}
		parts = append(parts, fmt.Sprintf("with text %q", text))
	} else if index, ok := params["index"]; ok {
		parts = append(parts, fmt.Sprintf("element %v", index))
	}

	return strings.Join(parts, " ")
}
