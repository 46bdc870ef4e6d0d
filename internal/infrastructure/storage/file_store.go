// Package storage implementa el almacenamiento local durable del cliente: un documento
// JSON clave/valor en disco que sobrevive a reinicios del proceso.
package storage

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// FileStore almacén clave/valor persistido en un único archivo.
// Cada Set/Delete reescribe el archivo completo (temporal + rename).
type FileStore struct {
	mu   sync.RWMutex
	path string
	key  *[32]byte // nil = sin cifrado
	data map[string]string
}

// NewFileStore abre (o crea) el almacén en path. Si secret no está vacío los valores
// se sellan con NaCl secretbox usando SHA-256(secret) como clave.
func NewFileStore(path, secret string) (*FileStore, error) {
	s := &FileStore{path: path, data: map[string]string{}}
	if secret != "" {
		k := sha256.Sum256([]byte(secret))
		s.key = &k
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("storage: crear directorio: %w", err)
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("storage: leer %s: %w", s.path, err)
	}
	if len(raw) == 0 {
		return nil
	}
	var stored map[string]string
	if err := json.Unmarshal(raw, &stored); err != nil {
		return fmt.Errorf("storage: archivo corrupto %s: %w", s.path, err)
	}
	for k, v := range stored {
		plain, err := s.open(v)
		if err != nil {
			return fmt.Errorf("storage: valor %q: %w", k, err)
		}
		s.data[k] = plain
	}
	return nil
}

// Get devuelve el valor de key.
func (s *FileStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// Set guarda key=value y persiste.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.data[key]
	s.data[key] = value
	if err := s.flush(); err != nil {
		if had {
			s.data[key] = prev
		} else {
			delete(s.data, key)
		}
		return err
	}
	return nil
}

// Delete elimina las claves indicadas y persiste.
func (s *FileStore) Delete(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := s.data[k]; ok {
			removed[k] = v
			delete(s.data, k)
		}
	}
	if len(removed) == 0 {
		return nil
	}
	if err := s.flush(); err != nil {
		// Memoria y disco deben coincidir: si no se pudo escribir, las claves siguen.
		for k, v := range removed {
			s.data[k] = v
		}
		return err
	}
	return nil
}

// flush escribe el documento completo. Requiere s.mu tomado.
func (s *FileStore) flush() error {
	out := make(map[string]string, len(s.data))
	for k, v := range s.data {
		sealed, err := s.seal(v)
		if err != nil {
			return err
		}
		out[k] = sealed
	}
	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: serializar: %w", err)
	}

	tmp := filepath.Join(filepath.Dir(s.path), "."+uuid.New().String()+".tmp")
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("storage: escribir temporal: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("storage: reemplazar %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) seal(plain string) (string, error) {
	if s.key == nil {
		return plain, nil
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("storage: generar nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(plain), &nonce, s.key)
	return base64.StdEncoding.EncodeToString(box), nil
}

func (s *FileStore) open(stored string) (string, error) {
	if s.key == nil {
		return stored, nil
	}
	box, err := base64.StdEncoding.DecodeString(stored)
	if err != nil || len(box) < nonceSize+secretbox.Overhead {
		return "", errors.New("valor cifrado inválido")
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plain, ok := secretbox.Open(nil, box[nonceSize:], &nonce, s.key)
	if !ok {
		return "", errors.New("no se pudo descifrar (¿STORE_SECRET distinto?)")
	}
	return string(plain), nil
}
