package domain

import (
	"errors"
	"testing"
)

func TestNewOutboundContent(t *testing.T) {
	file := &Attachment{Filename: "a.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}

	tests := []struct {
		name        string
		text        string
		att         *Attachment
		expected    ContentKind
		expectedErr error
	}{
		{name: "text only", text: "hi", expected: ContentText},
		{name: "file only", att: file, expected: ContentFile},
		{name: "text and file", text: "hi", att: file, expected: ContentTextAndFile},
		{name: "neither", expectedErr: ErrEmptyContent},
		{name: "empty attachment counts as absent", att: &Attachment{Filename: "x"}, expectedErr: ErrEmptyContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewOutboundContent(tt.text, tt.att)
			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("expected %v, got %v", tt.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.Kind() != tt.expected {
				t.Errorf("expected kind %s, got %s", tt.expected, c.Kind())
			}
			if c.Text() != tt.text {
				t.Errorf("expected text %q, got %q", tt.text, c.Text())
			}
		})
	}
}

func TestTextContent_HasNoAttachment(t *testing.T) {
	c, err := TextContent("hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Attachment() != nil {
		t.Error("text content should not carry an attachment")
	}
}

func TestFileContent(t *testing.T) {
	c, err := FileContent(Attachment{Filename: "a.png", Data: []byte{1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Kind() != ContentFile || c.Attachment().Filename != "a.png" {
		t.Errorf("unexpected content %+v", c)
	}
}
