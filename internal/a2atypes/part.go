package a2atypes

import "fmt"

// PartKind tags the variant held by a Part, the same shape as the teacher's
// converters.Part{Type, Data} pair, generalized to the three kinds the A2A
// wire format defines (text, data, file).
type PartKind string

const (
	PartKindText PartKind = "text"
	PartKindData PartKind = "data"
	PartKindFile PartKind = "file"
)

// Part is a tagged sum: exactly one of Text, Data, File is meaningful,
// selected by Kind.
type Part struct {
	Kind PartKind `json:"kind"`

	Text string `json:"text,omitempty"`

	Data     interface{} `json:"data,omitempty"`
	MimeType string      `json:"mimeType,omitempty"`

	File *FilePart `json:"file,omitempty"`
}

// FilePart holds a file name, MIME type, and exactly one of URI or Bytes.
type FilePart struct {
	Name     string `json:"name,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	URI      string `json:"uri,omitempty"`
	Bytes    []byte `json:"bytes,omitempty"`
}

// NewTextPart builds a text part.
func NewTextPart(text string) Part {
	return Part{Kind: PartKindText, Text: text}
}

// NewDataPart builds a data part, optionally with a MIME type.
func NewDataPart(data interface{}, mimeType string) Part {
	return Part{Kind: PartKindData, Data: data, MimeType: mimeType}
}

// NewFilePartURI builds a file part referencing remote bytes by URI.
func NewFilePartURI(name, mimeType, uri string) Part {
	return Part{Kind: PartKindFile, File: &FilePart{Name: name, MimeType: mimeType, URI: uri}}
}

// NewFilePartBytes builds a file part carrying inline bytes.
func NewFilePartBytes(name, mimeType string, data []byte) Part {
	return Part{Kind: PartKindFile, File: &FilePart{Name: name, MimeType: mimeType, Bytes: data}}
}

// Validate enforces the "exactly one of URI or bytes" file-part invariant
// and that Kind matches a populated field.
func (p Part) Validate() error {
	switch p.Kind {
	case PartKindText:
		return nil
	case PartKindData:
		if p.Data == nil {
			return fmt.Errorf("data part has no data")
		}
		return nil
	case PartKindFile:
		if p.File == nil {
			return fmt.Errorf("file part missing file payload")
		}
		hasURI := p.File.URI != ""
		hasBytes := len(p.File.Bytes) > 0
		if hasURI == hasBytes {
			return fmt.Errorf("file part must set exactly one of uri or bytes")
		}
		return nil
	default:
		return fmt.Errorf("unknown part kind %q", p.Kind)
	}
}

// Role identifies who produced a Message.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Message is an ordered sequence of parts exchanged during a task, plus
// free-form metadata.
type Message struct {
	Role     Role                   `json:"role"`
	Parts    []Part                 `json:"parts"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// NewUserMessage is a convenience constructor for a single-text-part user
// message, the common case for task creation.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Parts: []Part{NewTextPart(text)}}
}

// NewAgentMessage is the agent-role analogue of NewUserMessage.
func NewAgentMessage(parts ...Part) Message {
	return Message{Role: RoleAgent, Parts: parts}
}
