package domain

// FileStatusCode is the single-letter status hg reports for a file
type FileStatusCode byte

const (
	StatusAdded    FileStatusCode = 'A'
	StatusMissing  FileStatusCode = '!'
	StatusModified FileStatusCode = 'M'
	StatusRemoved  FileStatusCode = 'R'
)

// FileStatus is one line of `hg status`
type FileStatus struct {
	Code FileStatusCode
	Path string
}

// IsDeletion reports whether the file no longer exists in the working copy
func (s FileStatus) IsDeletion() bool {
	return s.Code == StatusRemoved || s.Code == StatusMissing
}
