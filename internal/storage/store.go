package storage

import (
	"errors"
	"fmt"
)

// ArtifactsDir is the default directory for run artifacts.
var ArtifactsDir = "outputs"

var (
	NotFoundErr     = errors.New("not found")
	CouldNotLoadErr = errors.New("could not load")
)

// Key is the storage key of one run artifact.
type Key struct {
	Run   string `json:"run"`
	Label string `json:"label"`
}

func (k Key) Path() string {
	return fmt.Sprintf("%s_%s", k.Run, k.Label)
}

// Persistence stores and retrieves run artifacts.
type Persistence interface {
	Store(k Key, value interface{}) error
	Load(k Key, value interface{}) error
}

// VoidStorage ignores all writes, for runs that keep no artifacts.
type VoidStorage struct {
}

func NewVoidStorage() *VoidStorage {
	return &VoidStorage{}
}

func (d VoidStorage) Store(k Key, value interface{}) error {
	return nil
}

func (d VoidStorage) Load(k Key, value interface{}) error {
	return fmt.Errorf("not found '%v': %w", k, NotFoundErr)
}
