package model

// File is the binary artifact selected in the wizard's first step and
// uploaded to the extraction backend.
type File struct {
	// Name is the original filename, used as the multipart filename.
	Name string

	// Data is the raw file content.
	Data []byte

	// ContentType is the MIME type sent with the upload.
	ContentType string
}
