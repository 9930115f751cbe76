package review

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticProjects map[string]string

func (s staticProjects) ProjectTitle(_ context.Context, id string) (string, bool) {
	t, ok := s[id]
	return t, ok
}

func TestResolveTitlePriority(t *testing.T) {
	ctx := context.Background()
	projects := staticProjects{"proj-1": "Beta"}

	rec := &Record{
		Origin:    OriginNewProposal,
		ProjectID: strPtr("proj-1"),
		Proposal: &ProposalDetails{
			Proposal:    "Title: Gamma\nmore text",
			Attachments: json.RawMessage(`[{"type":"project_details","data":{"title":"Alpha"}}]`),
		},
	}
	assert.Equal(t, "Alpha", ResolveTitle(ctx, rec, projects))

	rec.Proposal.Attachments = nil
	assert.Equal(t, "Beta", ResolveTitle(ctx, rec, projects))

	rec.Title = strPtr("Explicit")
	assert.Equal(t, "Explicit", ResolveTitle(ctx, rec, projects))
}

func TestResolveTitleJoinedProjectBeatsLookup(t *testing.T) {
	rec := &Record{
		Origin:       OriginProjectRequest,
		ProjectID:    strPtr("proj-1"),
		ProjectTitle: strPtr("Joined"),
		Request:      &RequestDetails{Purpose: "x"},
	}
	assert.Equal(t, "Joined", ResolveTitle(context.Background(), rec, staticProjects{"proj-1": "Looked up"}))
}

func TestResolveTitleFreeText(t *testing.T) {
	ctx := context.Background()

	rec := &Record{Origin: OriginProjectRequest, Request: &RequestDetails{Purpose: "Intro\nTITLE:   Soil sensors  \nbody"}}
	assert.Equal(t, "Soil sensors", ResolveTitle(ctx, rec, nil))

	long := strings.Repeat("é", 150)
	rec.Request.Purpose = "  " + long
	assert.Equal(t, strings.Repeat("é", 100), ResolveTitle(ctx, rec, nil))

	rec.Request.Purpose = "   "
	assert.Equal(t, FallbackTitle, ResolveTitle(ctx, rec, nil))
}

func TestResolveTitleUnknownProjectFallsThrough(t *testing.T) {
	rec := &Record{
		Origin:    OriginProjectRequest,
		ProjectID: strPtr("missing"),
		Request:   &RequestDetails{Purpose: "Need GPU time"},
	}
	assert.Equal(t, "Need GPU time", ResolveTitle(context.Background(), rec, staticProjects{}))
}

func TestDecodeAttachments(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		title string
		count int
	}{
		{"native array", `[{"data":{"title":"A"}}]`, "A", 1},
		{"serialized array", `"[{\"data\":{\"title\":\"B\"}}]"`, "B", 1},
		{"serialized data", `[{"data":"{\"title\":\"C\"}"},{"name":"x.pdf"}]`, "C", 2},
		{"broken serialized", `"[{not json"`, "", 0},
		{"object instead of array", `{"title":"D"}`, "", 0},
		{"null", `null`, "", 0},
		{"empty", ``, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			atts := DecodeAttachments(json.RawMessage(tt.raw))
			assert.Len(t, atts, tt.count)
			if tt.title != "" {
				assert.Equal(t, tt.title, atts[0].Data["title"])
			}
		})
	}
}

func TestResolveTitleIgnoresBrokenAttachment(t *testing.T) {
	rec := &Record{
		Origin: OriginNewProposal,
		Proposal: &ProposalDetails{
			Proposal:    "Title: From text",
			Attachments: json.RawMessage(`"{{{"`),
		},
	}
	assert.Equal(t, "From text", ResolveTitle(context.Background(), rec, nil))
}

func TestAppendAttachment(t *testing.T) {
	file := Attachment{Type: "file", Name: "plan.pdf", Data: map[string]any{"object": "applications/p-1/plan.pdf"}}

	t.Run("keeps existing entries", func(t *testing.T) {
		raw := json.RawMessage(`[{"type":"form","data":{"title":"Alpha"},"extra":true}]`)
		out, err := AppendAttachment(raw, file)
		require.NoError(t, err)

		atts := DecodeAttachments(out)
		require.Len(t, atts, 2)
		assert.Equal(t, "Alpha", atts[0].Data["title"])
		assert.Equal(t, "plan.pdf", atts[1].Name)
		assert.Contains(t, string(out), `"extra":true`)
		assert.Equal(t, "Alpha", ResolveTitle(context.Background(), &Record{
			Origin:   OriginNewProposal,
			Proposal: &ProposalDetails{Attachments: out},
		}, nil))
	})

	t.Run("serialized list is unwrapped", func(t *testing.T) {
		out, err := AppendAttachment(json.RawMessage(`"[{\"type\":\"form\"}]"`), file)
		require.NoError(t, err)
		assert.Len(t, DecodeAttachments(out), 2)
	})

	t.Run("absent or broken payload starts a list", func(t *testing.T) {
		for _, raw := range []json.RawMessage{nil, json.RawMessage(`{broken`), json.RawMessage(`{"a":1}`)} {
			out, err := AppendAttachment(raw, file)
			require.NoError(t, err)
			atts := DecodeAttachments(out)
			require.Len(t, atts, 1, string(raw))
			assert.Equal(t, "applications/p-1/plan.pdf", atts[0].Data["object"])
		}
	})

	t.Run("patch apply copies the list", func(t *testing.T) {
		rec := Record{Origin: OriginNewProposal, Version: 3, Proposal: &ProposalDetails{Proposal: "x"}}
		out, err := AppendAttachment(nil, file)
		require.NoError(t, err)
		next := Patch{Attachments: out}.Apply(rec)
		assert.Len(t, DecodeAttachments(next.Attachments()), 1)
		assert.Nil(t, rec.Proposal.Attachments)
		assert.Equal(t, int64(4), next.Version)
	})
}
