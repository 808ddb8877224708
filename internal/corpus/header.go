package corpus

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
)

const headerDelimiter = "---"

// Metadata is the typed form of a document's metadata header. Recognized
// keys are decoded into fields; everything else is kept in Extra.
type Metadata struct {
	Title    string
	Category string
	Tags     []string
	Extra    map[string]any
}

// splitHeader separates a leading metadata block from the body.
//
// It returns the raw header text (without delimiters), the body, whether a
// header was present, and an error when the header is malformed. A malformed
// header still yields a usable body.
func splitHeader(content string) (header, body string, found bool, err error) {
	first, rest, ok := strings.Cut(content, "\n")
	if strings.TrimSpace(first) != headerDelimiter {
		return "", content, false, nil
	}
	if !ok {
		return "", "", true, fmt.Errorf("metadata header is not closed")
	}

	lines := strings.Split(rest, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == headerDelimiter {
			return strings.Join(lines[:i], "\n"), strings.Join(lines[i+1:], "\n"), true, nil
		}
	}
	return "", rest, true, fmt.Errorf("metadata header is not closed")
}

// parseMetadata decodes a header block. Recognized keys with the wrong type
// are reported as errors; the remaining keys are still returned.
func parseMetadata(header string) (Metadata, error) {
	meta := Metadata{}
	if strings.TrimSpace(header) == "" {
		return meta, nil
	}

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(header), &raw); err != nil {
		return meta, fmt.Errorf("invalid metadata header: %w", err)
	}

	var problems []string
	for key, value := range raw {
		switch strings.ToLower(key) {
		case "title":
			s, ok := scalarString(value)
			if !ok {
				problems = append(problems, "title must be a string")
				continue
			}
			meta.Title = strings.TrimSpace(s)
		case "category":
			s, ok := scalarString(value)
			if !ok {
				problems = append(problems, "category must be a string")
				continue
			}
			meta.Category = strings.TrimSpace(s)
		case "tags":
			tags, ok := tagList(value)
			if !ok {
				problems = append(problems, "tags must be a list or a comma separated string")
				continue
			}
			meta.Tags = tags
		default:
			if meta.Extra == nil {
				meta.Extra = make(map[string]any)
			}
			meta.Extra[key] = value
		}
	}

	meta.Tags = normalizeTags(meta.Tags)
	if len(problems) > 0 {
		sort.Strings(problems)
		return meta, fmt.Errorf("invalid metadata header: %s", strings.Join(problems, "; "))
	}
	return meta, nil
}

// ExtraStrings stringifies unrecognized keys for storage in the index.
func (m Metadata) ExtraStrings() map[string]string {
	if len(m.Extra) == 0 {
		return nil
	}
	out := make(map[string]string, len(m.Extra))
	for k, v := range m.Extra {
		out[k] = fmt.Sprint(v)
	}
	return out
}

func scalarString(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case nil:
		return "", true
	case int, int64, uint64, float64, bool:
		return fmt.Sprint(v), true
	default:
		return "", false
	}
}

func tagList(v any) ([]string, bool) {
	switch v := v.(type) {
	case nil:
		return nil, true
	case string:
		return strings.Split(v, ","), true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := scalarString(item)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
