package assistant

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/medhub/ambulatorio-api/internal/model"
)

var (
	fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	inlineJSONRe = regexp.MustCompile(`\{[^{}]*"action"[^{}]*"params"\s*:\s*\{[^{}]*\}[^{}]*\}`)
)

// parseAction extracts a structured command from the model's reply. Replies
// without a recognizable command are plain conversation.
//
// The reply may wrap the JSON in a fenced code block, embed it mid-sentence,
// or be nothing but the JSON object; the three forms are tried in that order.
func parseAction(body string) (*model.AIAction, bool) {
	if m := fencedJSONRe.FindStringSubmatch(body); m != nil {
		if act := decodeAction(m[1]); act != nil {
			return act, true
		}
	}
	if m := inlineJSONRe.FindString(body); m != "" {
		if act := decodeAction(m); act != nil {
			return act, true
		}
	}
	if act := decodeAction(strings.TrimSpace(body)); act != nil {
		return act, true
	}
	return nil, false
}

func decodeAction(candidate string) *model.AIAction {
	var act model.AIAction
	if err := json.Unmarshal([]byte(candidate), &act); err != nil {
		return nil
	}
	if act.Action == "" {
		return nil
	}
	return &act
}
