package interpret

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/planweave/internal/errors"
	"github.com/felixgeelhaar/planweave/internal/plan"
)

// fullResponse is the complete schema the AI is asked to emit.
// ClarityScore is a pointer so an absent score distinguishes the full
// schema from the plan-only fallback.
type fullResponse struct {
	Description      string           `json:"description"`
	Milestones       []plan.Milestone `json:"milestones"`
	UncertaintyFlags []string         `json:"uncertaintyFlags"`
	ClarityScore     *float64         `json:"clarityScore"`
}

// planResponse is the reduced schema accepted when the AI drops the
// scoring fields.
type planResponse struct {
	Description string           `json:"description"`
	Milestones  []plan.Milestone `json:"milestones"`
}

// Parse turns raw AI output text into an AnalysisResult.
//
// Extraction is lenient: a fenced code block's interior wins, then the
// first-{ to last-} span, then the trimmed text itself. Decoding is
// two-tier: the full schema first; if that fails, the plan-only schema
// with a locally computed clarity score and no uncertainty flags.
// Either way the decoded tree must hold actual plan content with no
// empty-titled nodes. If nothing decodes, a PARSE error is returned —
// parse failures are never retried, since resubmitting an identical
// malformed response is pointless.
func Parse(text string, versionNumber int) (*plan.AnalysisResult, error) {
	payload := extractPayload(text)
	if payload == "" {
		return nil, errors.New(errors.ErrCodeParseNoPayload, "AI response contained no payload")
	}

	var full fullResponse
	if err := json.Unmarshal([]byte(payload), &full); err == nil && full.ClarityScore != nil {
		tree := plan.Tree{Description: full.Description, Milestones: full.Milestones}
		if err := checkTree(tree); err != nil {
			return nil, err
		}
		flags := full.UncertaintyFlags
		if flags == nil {
			flags = []string{}
		}
		return &plan.AnalysisResult{
			Plan:             tree,
			ClarityScore:     plan.Clamp(*full.ClarityScore),
			UncertaintyFlags: flags,
			VersionNumber:    versionNumber,
		}, nil
	}

	var reduced planResponse
	if err := json.Unmarshal([]byte(payload), &reduced); err != nil {
		return nil, errors.NewParseError(
			"response matches neither the full nor the plan-only schema",
			fmt.Errorf("%w\n\nraw payload:\n%s", err, excerpt(payload)),
		)
	}

	tree := plan.Tree{Description: reduced.Description, Milestones: reduced.Milestones}
	if err := checkTree(tree); err != nil {
		return nil, err
	}
	return &plan.AnalysisResult{
		Plan:             tree,
		ClarityScore:     plan.ClarityScore(tree, 0),
		UncertaintyFlags: []string{},
		VersionNumber:    versionNumber,
	}, nil
}

// checkTree rejects decoded trees that carry no plan content at all —
// valid JSON whose recognized fields are simply absent, such as a
// response that wrapped the plan under some extra envelope key — and
// trees with structurally empty titles.
func checkTree(tree plan.Tree) error {
	if tree.Description == "" && len(tree.Milestones) == 0 {
		return errors.NewParseError("response decoded to an empty plan", nil)
	}
	if err := plan.Validate(tree); err != nil {
		return errors.NewParseError("decoded plan is structurally invalid", err)
	}
	return nil
}

// extractPayload isolates the decodable portion of the response
func extractPayload(text string) string {
	if inner, ok := fencedBlock(text); ok {
		return strings.TrimSpace(inner)
	}
	if start := strings.IndexByte(text, '{'); start >= 0 {
		if end := strings.LastIndexByte(text, '}'); end > start {
			return text[start : end+1]
		}
	}
	return strings.TrimSpace(text)
}

// fencedBlock returns the interior of the first ``` fence, skipping an
// optional language tag on the opening line.
func fencedBlock(text string) (string, bool) {
	open := strings.Index(text, "```")
	if open < 0 {
		return "", false
	}
	rest := text[open+3:]
	nl := strings.IndexByte(rest, '\n')
	if nl < 0 {
		return "", false
	}
	rest = rest[nl+1:]
	closing := strings.Index(rest, "```")
	if closing < 0 {
		return "", false
	}
	return rest[:closing], true
}

// excerpt truncates a payload for error messages
func excerpt(payload string) string {
	const max = 512
	if len(payload) <= max {
		return payload
	}
	return payload[:max] + "…"
}
