package analysis

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/planweave/internal/project"
)

// responseContract is the exact schema the interpreter decodes: plan
// fields at the top level, score and flags beside them. No envelope.
const responseContract = `Respond with a single JSON object and nothing else:
{
  "description": "one-paragraph summary of the project",
  "milestones": [
    {
      "title": "...",
      "deliverables": [
        {
          "title": "...",
          "tasks": [
            {
              "title": "...",
              "dueDate": "",
              "deferDate": "",
              "estimate": "2h",
              "context": "laptop",
              "category": "",
              "flagged": false,
              "notes": "",
              "nextActions": [
                {"title": "...", "context": "", "estimate": "", "notes": ""}
              ]
            }
          ]
        }
      ]
    }
  ],
  "clarityScore": 0.0,
  "uncertaintyFlags": ["..."]
}
Unknown fields may be left as empty strings. List every assumption you
had to make in uncertaintyFlags.`

// AssetSource provides the content of inputs that have already been
// persisted to disk.
type AssetSource interface {
	ReadAsset(project, id string) ([]byte, error)
}

// buildPrompt assembles the user prompt for one analysis run from the
// project goal and all input contents. Staged blobs take priority;
// anything else is fetched from the asset source.
func buildPrompt(bundle *project.Bundle, assets AssetSource) (string, error) {
	meta := bundle.Metadata()
	staged := bundle.StagedAssets()

	var b strings.Builder
	b.WriteString("Produce a hierarchical project plan for the following project.\n\n")
	fmt.Fprintf(&b, "Project: %s\n", meta.Name)
	if meta.GoalText != "" {
		fmt.Fprintf(&b, "Goal: %s\n", meta.GoalText)
	}

	for _, input := range meta.Inputs {
		content, ok := staged[input.ID]
		if !ok && assets != nil {
			loaded, err := assets.ReadAsset(meta.Name, input.ID)
			if err != nil {
				return "", err
			}
			content = loaded
		}
		fmt.Fprintf(&b, "\n--- Input: %s (%s) ---\n", input.Name, input.Kind)
		b.Write(content)
		if len(content) > 0 && content[len(content)-1] != '\n' {
			b.WriteByte('\n')
		}
	}

	b.WriteString("\n")
	b.WriteString(responseContract)
	return b.String(), nil
}
