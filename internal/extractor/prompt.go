package extractor

import (
	"encoding/json"
	"fmt"
	"strings"

	"jt-go/internal/jt"
)

// BuildPrompt renders the instruction sent to LLM backends for one utterance.
// The reference date is spelled out with its weekday so the model can resolve
// "tomorrow" or "next Friday" against the moment the command was issued.
func BuildPrompt(text string, schema jt.Schema) string {
	var b strings.Builder
	b.WriteString("You extract structured fields from a job seeker's note.\n")
	fmt.Fprintf(&b, "The note was written on %s (%s).\n",
		schema.Reference.Format("Monday, 2006-01-02 15:04"), schema.Reference.Location())
	b.WriteString("Resolve every relative date against that moment and write dates as YYYY-MM-DD.\n")
	b.WriteString("Write times like 2:00 PM. Use null for anything the note does not say; never guess.\n\n")

	fmt.Fprintf(&b, "Task: %s\n", schema.Intent)
	b.WriteString("Fields:\n")
	for _, f := range schema.Fields {
		req := "optional"
		if f.Required {
			req = "required"
		}
		fmt.Fprintf(&b, "- %s (%s): %s\n", f.Name, req, f.Description)
	}

	b.WriteString("\nRespond with one JSON object whose keys are exactly the field names above.\n\n")
	fmt.Fprintf(&b, "Note: %q\n", text)
	return b.String()
}

// ParsePayload decodes the first JSON object in raw. Models often wrap JSON in
// prose or code fences, so anything before the first '{' and after the object
// is ignored.
func ParsePayload(raw string) (jt.Payload, error) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return nil, fmt.Errorf("no JSON object in model output")
	}

	var payload jt.Payload
	dec := json.NewDecoder(strings.NewReader(raw[start:]))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding model output: %w", err)
	}
	return payload, nil
}
