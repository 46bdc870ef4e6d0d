// Package csvfile prepara los CSV de órdenes y liquidaciones antes de subirlos:
// valida extensión y tamaño y normaliza la codificación a UTF-8 sin BOM.
package csvfile

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/dayhom/profit-dashboard/internal/domain"
	"github.com/dayhom/profit-dashboard/internal/domain/entity"
)

// MimeType con el que se suben los archivos.
const MimeType = "text/csv"

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// FromPath lee y prepara un CSV del disco (CLI).
func FromPath(path string, maxBytes int64) (*entity.UploadedFile, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("no se pudo leer %s: %v", path, err))
	}
	if st.IsDir() {
		return nil, domain.NewValidationError(fmt.Sprintf("%s es un directorio", path))
	}
	if maxBytes > 0 && st.Size() > maxBytes {
		return nil, tooLarge(filepath.Base(path), maxBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("csvfile: leer %s: %w", path, err)
	}
	return Prepare(filepath.Base(path), data, maxBytes)
}

// FromMultipart prepara el archivo recibido en un formulario (web).
func FromMultipart(fh *multipart.FileHeader, maxBytes int64) (*entity.UploadedFile, error) {
	if fh == nil {
		return nil, domain.NewValidationError("selecciona un archivo CSV")
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return nil, tooLarge(fh.Filename, maxBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("csvfile: abrir %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limitFor(maxBytes)))
	if err != nil {
		return nil, fmt.Errorf("csvfile: leer %s: %w", fh.Filename, err)
	}
	return Prepare(filepath.Base(fh.Filename), data, maxBytes)
}

// Prepare valida y normaliza el contenido. Errores de validación → domain.KindValidation.
func Prepare(name string, data []byte, maxBytes int64) (*entity.UploadedFile, error) {
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		return nil, domain.NewValidationError(fmt.Sprintf("%s no es un archivo .csv", name))
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, tooLarge(name, maxBytes)
	}

	normalized, err := ToUTF8(data)
	if err != nil {
		return nil, fmt.Errorf("csvfile: normalizar %s: %w", name, err)
	}
	if len(bytes.TrimSpace(normalized)) == 0 {
		return nil, domain.NewValidationError(fmt.Sprintf("%s está vacío", name))
	}
	if !hasHeader(normalized) {
		return nil, domain.NewValidationError(fmt.Sprintf("%s no tiene fila de encabezados", name))
	}

	return &entity.UploadedFile{
		Name:     name,
		Size:     int64(len(normalized)),
		MimeType: MimeType,
		Data:     normalized,
	}, nil
}

// ToUTF8 quita el BOM (UTF-8/UTF-16) y transcodifica desde Windows-1252 lo que no sea
// UTF-8 válido (exportaciones "CSV" de Excel).
func ToUTF8(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return data[len(bomUTF8):], nil
	case bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
		dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
		out, _, err := transform.Bytes(dec, data)
		return out, err
	case utf8.Valid(data):
		return data, nil
	default:
		out, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
		return out, err
	}
}

// hasHeader la primera línea no vacía debe tener al menos una columna con nombre.
func hasHeader(data []byte) bool {
	for _, line := range bytes.Split(data, []byte("\n")) {
		l := strings.TrimSpace(string(line))
		if l == "" {
			continue
		}
		return strings.Trim(l, ",;\t\" ") != ""
	}
	return false
}

func limitFor(maxBytes int64) int64 {
	if maxBytes <= 0 {
		return 1 << 30
	}
	return maxBytes + 1
}

func tooLarge(name string, maxBytes int64) error {
	return domain.NewValidationError(fmt.Sprintf("%s supera el máximo de %d MB", name, maxBytes>>20))
}
