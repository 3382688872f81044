package workflow

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/hupe1980/greenmesh/agent"
	"github.com/tidwall/gjson"
)

// Placeholder grammar: {{previous_result.PATH}} where PATH is a gjson path
// into the prior step's result payload (dot notation, array indexes allowed).
// A parameter value consisting of exactly one placeholder resolves to the
// referenced value with its type preserved; placeholders embedded in longer
// strings resolve to their string form. A path that does not exist fails the
// step with UNRESOLVED_REFERENCE rather than substituting a silent null.
var placeholderRe = regexp.MustCompile(`\{\{\s*previous_result\.([^{}]+?)\s*\}\}`)

// resolveParameters walks the parameter map and substitutes placeholders
// against the previous step's response. Non-string values pass through
// unchanged; nested maps and slices are resolved recursively.
func resolveParameters(params map[string]any, previous *agent.Response) (map[string]any, error) {
	if params == nil {
		return map[string]any{}, nil
	}

	resolved := make(map[string]any, len(params))
	for key, value := range params {
		v, err := resolveValue(value, previous)
		if err != nil {
			return nil, fmt.Errorf("parameter '%s': %w", key, err)
		}
		resolved[key] = v
	}
	return resolved, nil
}

func resolveValue(value any, previous *agent.Response) (any, error) {
	switch v := value.(type) {
	case string:
		return resolveString(v, previous)
	case map[string]any:
		return resolveParameters(v, previous)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			r, err := resolveValue(item, previous)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	default:
		return value, nil
	}
}

func resolveString(s string, previous *agent.Response) (any, error) {
	matches := placeholderRe.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, nil
	}

	if previous == nil {
		return nil, fmt.Errorf("reference to previous_result but no previous step completed")
	}

	payload, err := json.Marshal(previous.Result)
	if err != nil {
		return nil, fmt.Errorf("previous result not addressable: %w", err)
	}

	// A lone placeholder keeps the referenced value's type.
	if len(matches) == 1 && matches[0][0] == 0 && matches[0][1] == len(s) {
		path := strings.TrimSpace(s[matches[0][2]:matches[0][3]])
		res := gjson.GetBytes(payload, path)
		if !res.Exists() {
			return nil, fmt.Errorf("previous_result.%s does not exist", path)
		}
		return res.Value(), nil
	}

	// Embedded placeholders substitute their string form.
	var unresolved error
	out := placeholderRe.ReplaceAllStringFunc(s, func(match string) string {
		sub := placeholderRe.FindStringSubmatch(match)
		path := strings.TrimSpace(sub[1])
		res := gjson.GetBytes(payload, path)
		if !res.Exists() {
			unresolved = fmt.Errorf("previous_result.%s does not exist", path)
			return match
		}
		return res.String()
	})
	if unresolved != nil {
		return nil, unresolved
	}
	return out, nil
}
