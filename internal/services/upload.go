package services

import "io"

// Upload is a file received from a multipart form, decoupled from the
// HTTP layer so services stay testable.
type Upload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}
