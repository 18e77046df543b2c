package models

// UploadKind selects the upload endpoint
type UploadKind string

const (
	UploadKindGuidelines UploadKind = "guidelines"
	UploadKindThesis     UploadKind = "thesis"
)

// ParseUploadKind accepts "guidelines" and "thesis"
func ParseUploadKind(value string) (UploadKind, bool) {
	switch UploadKind(value) {
	case UploadKindGuidelines:
		return UploadKindGuidelines, true
	case UploadKindThesis:
		return UploadKindThesis, true
	}
	return "", false
}

// UploadFile is a file selected for upload, fully read into memory
type UploadFile struct {
	Name        string
	ContentType string // as declared by the browser, may be empty
	Data        []byte
}

func (f UploadFile) Size() int64 {
	return int64(len(f.Data))
}
