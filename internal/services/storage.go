package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// StorageService manages the resume corpus directory. Filenames are the
// corpus identity: the same PDF re-uploaded under the same name is the
// same resume.
type StorageService interface {
	EnsureResumeDir() error
	SaveResume(file *multipart.FileHeader) (string, error)
	ListResumes() ([]string, error)
	ResumePath(filename string) string
}

type storageService struct {
	resumeFolder string
}

func NewStorageService(resumeFolder string) StorageService {
	return &storageService{
		resumeFolder: resumeFolder,
	}
}

func (s *storageService) EnsureResumeDir() error {
	if err := os.MkdirAll(s.resumeFolder, 0755); err != nil {
		return fmt.Errorf("failed to create resume directory: %w", err)
	}

	return nil
}

func (s *storageService) SaveResume(file *multipart.FileHeader) (string, error) {
	// Validate file extensions
	name := filepath.Base(file.Filename)
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".pdf" {
		return "", fmt.Errorf("invalid file extension: %s", ext)
	}

	filePath := filepath.Join(s.resumeFolder, name)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return name, nil
}

// ListResumes returns the PDF filenames in the corpus directory in
// lexicographic order. The deterministic order matters downstream: the
// embedding pre-pass and tie-breaking in the shortlist both rely on it.
func (s *storageService) ListResumes() ([]string, error) {
	entries, err := os.ReadDir(s.resumeFolder)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), ".pdf") {
			files = append(files, entry.Name())
		}
	}

	sort.Strings(files)
	return files, nil
}

func (s *storageService) ResumePath(filename string) string {
	return filepath.Join(s.resumeFolder, filename)
}
