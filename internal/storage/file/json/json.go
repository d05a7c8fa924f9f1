package json

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/salesintel/dealrisk/internal/storage"
)

// Blob is a json file persistence for run artifacts.
type Blob struct {
	dir string
}

// NewJsonBlob creates a persistence rooted at the given directory.
func NewJsonBlob(dir string) *Blob {
	return &Blob{dir: dir}
}

func (b Blob) Store(k storage.Key, value interface{}) error {
	return Save(b.dir, fmt.Sprintf("%s.json", k.Path()), value)
}

func (b Blob) Load(k storage.Key, value interface{}) error {
	return Load(b.dir, fmt.Sprintf("%s.json", k.Path()), value)
}

// Save saves the given json struct into the given path with the provided filename.
func Save(filePath string, fileName string, value interface{}) error {
	info, err := os.Stat(filePath)
	if err != nil {
		if err := os.MkdirAll(filePath, os.ModePerm); err != nil {
			return fmt.Errorf("could not make dir: %s: %w", filePath, err)
		}
	} else if !info.IsDir() {
		return fmt.Errorf("path given is not a directory: %s", filePath)
	}

	p := filepath.Join(filePath, fileName)
	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("could not create file '%s': %w", p, err)
	}
	defer f.Close()

	b, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal '%+v': %w", p, err)
	}

	if _, err = f.Write(b); err != nil {
		return fmt.Errorf("could not write bytes to file '%v': %w", p, err)
	}

	return nil
}

// Load loads the payload from the given filePath and fileName.
func Load(filePath string, fileName string, value interface{}) error {
	p := filepath.Join(filePath, fileName)

	data, err := ioutil.ReadFile(p)
	if err != nil {
		return fmt.Errorf("could not read file '%s' %s: %w", p, err.Error(), storage.NotFoundErr)
	}

	if err := json.Unmarshal(data, value); err != nil {
		return fmt.Errorf("could not unmarshal '%s': %w", p, storage.CouldNotLoadErr)
	}

	return nil
}
