// Package client реализует типизированный клиент сервиса и локальную сессию
// с восстановлением токена из хранилища между запусками.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// StorageKeyToken — ключ, под которым токен лежит в локальном хранилище.
const StorageKeyToken = "authToken"

// TokenStore абстрагирует локальное хранилище токена.
type TokenStore interface {
	// Get возвращает сохранённый токен. Пустая строка означает отсутствие токена.
	Get() (string, error)
	// Set сохраняет токен.
	Set(token string) error
	// Remove удаляет токен из хранилища.
	Remove() error
}

// MemoryStore хранит токен в памяти процесса. Используется в тестах
// и в сценариях без сохранения сессии между запусками.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStore создает пустой MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get возвращает сохранённый токен.
func (s *MemoryStore) Get() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

// Set сохраняет токен.
func (s *MemoryStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Remove удаляет токен.
func (s *MemoryStore) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// FileStore хранит значения в JSON-файле на диске.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore создает FileStore поверх файла по указанному пути.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		// Повреждённый файл хранилища приравнивается к пустому.
		return map[string]string{}, nil
	}
	return values, nil
}

func (s *FileStore) write(values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Get возвращает сохранённый токен.
func (s *FileStore) Get() (string, error) {
	const op = "client.FileStore.Get"

	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.read()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return values[StorageKeyToken], nil
}

// Set сохраняет токен.
func (s *FileStore) Set(token string) error {
	const op = "client.FileStore.Set"

	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.read()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	values[StorageKeyToken] = token
	if err := s.write(values); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Remove удаляет токен.
func (s *FileStore) Remove() error {
	const op = "client.FileStore.Remove"

	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.read()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	delete(values, StorageKeyToken)
	if err := s.write(values); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
