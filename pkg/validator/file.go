package validator

// FileStatus is the transfer outcome of an uploaded file.
type FileStatus int

const (
	// FileOK means the file was received completely.
	FileOK FileStatus = iota
	// FileNone means the form field carried no file.
	FileNone
	// FileTooLarge means the upload exceeded the request size limit.
	FileTooLarge
	// FilePartial means the upload was interrupted.
	FilePartial
	// FileFailed covers any other transfer failure.
	FileFailed
)

// File describes an uploaded file as seen by the file rules.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Status      FileStatus
}

// Received reports whether the file arrived intact.
func (f *File) Received() bool {
	return f != nil && f.Status == FileOK
}

// Input is the data a validation pass runs against.
type Input struct {
	Values map[string]string
	Files  map[string]*File
}

// Values wraps a plain value map into an Input without files.
func Values(m map[string]string) Input {
	return Input{Values: m}
}

// Value returns the field value or "" when the field is absent.
func (in Input) Value(field string) string {
	return in.Values[field]
}

// File returns the uploaded file of the field, or nil.
func (in Input) File(field string) *File {
	return in.Files[field]
}
