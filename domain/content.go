package domain

// ContentKind tags which payload shape an OutboundContent carries
type ContentKind int

const (
	contentNone ContentKind = iota
	ContentText
	ContentFile
	ContentTextAndFile
)

func (k ContentKind) String() string {
	switch k {
	case ContentText:
		return "text"
	case ContentFile:
		return "file"
	case ContentTextAndFile:
		return "text+file"
	default:
		return "none"
	}
}

// Attachment is a single binary file sent alongside or instead of text
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// OutboundContent is what one dispatch sends to every recipient. It is
// Text, File or TextAndFile; the zero value is not a valid content and is
// only reachable by bypassing the constructors.
type OutboundContent struct {
	kind ContentKind
	text string
	file *Attachment
}

// TextContent builds a text-only content
func TextContent(body string) (OutboundContent, error) {
	return NewOutboundContent(body, nil)
}

// FileContent builds a file-only content
func FileContent(att Attachment) (OutboundContent, error) {
	return NewOutboundContent("", &att)
}

// NewOutboundContent picks the variant from which parts are present. An
// attachment counts as present when it has data.
func NewOutboundContent(text string, att *Attachment) (OutboundContent, error) {
	hasText := text != ""
	hasFile := att != nil && len(att.Data) > 0
	switch {
	case hasText && hasFile:
		return OutboundContent{kind: ContentTextAndFile, text: text, file: att}, nil
	case hasText:
		return OutboundContent{kind: ContentText, text: text}, nil
	case hasFile:
		return OutboundContent{kind: ContentFile, file: att}, nil
	default:
		return OutboundContent{}, ErrEmptyContent
	}
}

func (c OutboundContent) Kind() ContentKind { return c.kind }

func (c OutboundContent) Text() string { return c.text }

// Attachment returns the file part, nil for Text
func (c OutboundContent) Attachment() *Attachment { return c.file }
