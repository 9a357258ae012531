package schema

import "strings"

// File is the opaque handle carried in form values for file-typed fields.
// The engine never inspects Data; it only checks Name and Size against the
// field's constraints and forwards the handle to the submit collaborator.
type File struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType,omitempty"`
	Data        []byte `json:"-"`
}

// Empty reports whether the handle carries no file.
func (f File) Empty() bool {
	return f.Name == "" && f.Size == 0 && len(f.Data) == 0
}

// Ext returns the lowercase extension without the dot, or "" when the name
// has none.
func (f File) Ext() string {
	idx := strings.LastIndexByte(f.Name, '.')
	if idx < 0 || idx == len(f.Name)-1 {
		return ""
	}
	return strings.ToLower(f.Name[idx+1:])
}
