package chat

import "testing"

func TestBuildUserMessage_PlainText(t *testing.T) {
	got := BuildUserMessage("hello there", nil)

	if got.Role != RoleUser {
		t.Errorf("Role = %q, want %q", got.Role, RoleUser)
	}
	if got.Text != "hello there" {
		t.Errorf("Text = %q, want plain text content", got.Text)
	}
	if len(got.Parts) != 0 {
		t.Errorf("Parts = %v, want none for plain text", got.Parts)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not stamped")
	}
	if got.Persisted() {
		t.Error("builder must not assign a persisted identity")
	}
}

func TestBuildUserMessage_WithAttachments(t *testing.T) {
	attachments := []Attachment{
		{URL: "blob://one.png", Name: "one.png"},
		{URL: "blob://two.png", Name: "two.png"},
	}
	got := BuildUserMessage("look at these", attachments)

	if got.Text != "" {
		t.Errorf("Text = %q, want empty when parts are used", got.Text)
	}
	if len(got.Parts) != 3 {
		t.Fatalf("len(Parts) = %d, want 3", len(got.Parts))
	}
	if got.Parts[0].Type != PartText || got.Parts[0].Text != "look at these" {
		t.Errorf("Parts[0] = %+v, want leading text part", got.Parts[0])
	}
	for i, att := range attachments {
		part := got.Parts[i+1]
		if part.Type != PartImage || part.ImageURL != att.URL {
			t.Errorf("Parts[%d] = %+v, want image part for %q", i+1, part, att.URL)
		}
	}
}

func TestMessage_ContentText(t *testing.T) {
	plain := &Message{Text: "plain"}
	if got := plain.ContentText(); got != "plain" {
		t.Errorf("ContentText() = %q, want %q", got, "plain")
	}

	structured := &Message{Parts: []ContentPart{
		{Type: PartText, Text: "first "},
		{Type: PartImage, ImageURL: "blob://x.png"},
		{Type: PartText, Text: "second"},
	}}
	if got := structured.ContentText(); got != "first second" {
		t.Errorf("ContentText() = %q, want %q", got, "first second")
	}
}

func TestNewPlaceholder(t *testing.T) {
	p := NewPlaceholder()
	if p.Role != RoleAssistant {
		t.Errorf("Role = %q, want assistant", p.Role)
	}
	if p.Text != "" || p.Persisted() {
		t.Errorf("placeholder must start empty and in-flight: %+v", p)
	}
}
