package models

// VersionInfo describes one existing derivative of a stored image.
type VersionInfo struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Size   int64  `json:"size"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// FileInfo is the wire representation of a file. Uploaded files that failed
// carry Name/Size/Type/Extension/Error from the client's view; stored files
// carry full filesystem metadata plus image dimensions and derivative URLs
// when applicable.
type FileInfo struct {
	Name      string                 `json:"name"`
	URL       string                 `json:"url,omitempty"`
	Size      int64                  `json:"size,omitempty"`
	Time      int64                  `json:"time,omitempty"`
	Type      string                 `json:"type,omitempty"`
	Extension string                 `json:"extension,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Width     int                    `json:"width,omitempty"`
	Height    int                    `json:"height,omitempty"`
	Versions  map[string]VersionInfo `json:"versions,omitempty"`
	Data      any                    `json:"data,omitempty"`
}
