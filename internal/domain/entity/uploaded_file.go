package entity

// UploadedFile archivo seleccionado por el usuario; transitorio, se descarta tras la respuesta del backend.
type UploadedFile struct {
	Name     string
	Size     int64
	MimeType string
	Data     []byte
}
