package review

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"
	"strings"
)

const (
	FallbackTitle  = "Project Application"
	excerptRunes   = 100
	attachmentData = "data"
)

var titleLine = regexp.MustCompile(`(?i)title:[ \t]*([^\r\n]+)`)

// ProjectLookup resolves a project id to its title.
type ProjectLookup interface {
	ProjectTitle(ctx context.Context, projectID string) (string, bool)
}

// Attachment is one entry of a proposal's attachment list.
type Attachment struct {
	Type string         `json:"type,omitempty"`
	Name string         `json:"name,omitempty"`
	URL  string         `json:"url,omitempty"`
	Data map[string]any `json:"data,omitempty"`
}

// ResolveTitle picks a display title for r. Sources are tried in order:
// explicit title, first attachment's data, linked project, a "Title:" line in
// the free text, the start of the free text, then FallbackTitle.
func ResolveTitle(ctx context.Context, r *Record, lookup ProjectLookup) string {
	if r.Title != nil {
		if t := strings.TrimSpace(*r.Title); t != "" {
			return t
		}
	}

	if atts := DecodeAttachments(r.Attachments()); len(atts) > 0 {
		if t, ok := atts[0].Data["title"].(string); ok && strings.TrimSpace(t) != "" {
			return strings.TrimSpace(t)
		}
	}

	if r.ProjectTitle != nil && strings.TrimSpace(*r.ProjectTitle) != "" {
		return strings.TrimSpace(*r.ProjectTitle)
	}
	if r.ProjectID != nil && *r.ProjectID != "" && lookup != nil {
		if t, ok := lookup.ProjectTitle(ctx, *r.ProjectID); ok && strings.TrimSpace(t) != "" {
			return strings.TrimSpace(t)
		}
	}

	text := r.Text()
	if m := titleLine.FindStringSubmatch(text); m != nil {
		if t := strings.TrimSpace(m[1]); t != "" {
			return t
		}
	}

	if t := strings.TrimSpace(text); t != "" {
		runes := []rune(t)
		if len(runes) > excerptRunes {
			runes = runes[:excerptRunes]
		}
		return strings.TrimSpace(string(runes))
	}

	return FallbackTitle
}

// DecodeAttachments parses an attachment payload that may be a JSON array or
// a JSON string holding a serialized array. Entry data may likewise be an
// object or a serialized object. Anything unparseable yields nil.
func DecodeAttachments(raw json.RawMessage) []Attachment {
	raw = unwrapString(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil
	}

	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}

	out := make([]Attachment, 0, len(entries))
	for _, entry := range entries {
		var att Attachment
		decodeString(entry["type"], &att.Type)
		decodeString(entry["name"], &att.Name)
		decodeString(entry["url"], &att.URL)
		if data := unwrapString(entry[attachmentData]); len(data) > 0 && data[0] == '{' {
			var m map[string]any
			if err := json.Unmarshal(data, &m); err == nil {
				att.Data = m
			}
		}
		out = append(out, att)
	}
	return out
}

// AppendAttachment returns raw with att added as the last entry. Existing
// entries are kept as stored; a payload that is not a list starts a new one.
func AppendAttachment(raw json.RawMessage, att Attachment) (json.RawMessage, error) {
	var entries []json.RawMessage
	if inner := unwrapString(raw); len(inner) > 0 && inner[0] == '[' {
		if err := json.Unmarshal(inner, &entries); err != nil {
			entries = nil
		}
	}
	entry, err := json.Marshal(att)
	if err != nil {
		return nil, err
	}
	return json.Marshal(append(entries, entry))
}

// unwrapString returns the inner document when raw is a JSON string.
func unwrapString(raw json.RawMessage) json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return raw
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return bytes.TrimSpace([]byte(s))
}

func decodeString(raw json.RawMessage, dst *string) {
	if len(raw) == 0 {
		return
	}
	_ = json.Unmarshal(raw, dst)
}
