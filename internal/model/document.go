package model

import "time"

// Document describes one uploaded PDF. The server keeps no registry of
// documents; the only durable trace of a document is the set of chunk
// vectors stored in the index under its ID. This struct is built once at
// upload time and returned to the client, which owns it from then on.
type Document struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploadedAt"`
	Summary    string    `json:"summary"`
	PageCount  int       `json:"pageCount"`
	FileSize   int64     `json:"fileSize"`
}
