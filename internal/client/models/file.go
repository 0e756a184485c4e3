// Package models defines the client-side data types: files queued for
// upload and the wire shapes of server responses.
package models

// PendingFile is one selected file waiting to be uploaded. A client-side
// validation failure attaches Error; the file stays in its batch but is
// excluded from the outgoing request payload.
type PendingFile struct {
	Name  string
	Path  string
	Size  int64
	Type  string
	Error string
}

// Sendable reports whether the file may go into a request payload.
func (f PendingFile) Sendable() bool { return f.Error == "" }

// VersionResult describes one derivative in a server response.
type VersionResult struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Size   int64  `json:"size"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// UploadResult mirrors the server's per-file response object, for uploads as
// well as listing and crop responses.
type UploadResult struct {
	Name      string                   `json:"name"`
	URL       string                   `json:"url,omitempty"`
	Size      int64                    `json:"size,omitempty"`
	Time      int64                    `json:"time,omitempty"`
	Type      string                   `json:"type,omitempty"`
	Extension string                   `json:"extension,omitempty"`
	Error     string                   `json:"error,omitempty"`
	Width     int                      `json:"width,omitempty"`
	Height    int                      `json:"height,omitempty"`
	Versions  map[string]VersionResult `json:"versions,omitempty"`
}

// ListResult is the server's listing response.
type ListResult struct {
	Files []UploadResult `json:"files"`
	Total int            `json:"total"`
}
