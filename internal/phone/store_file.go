package phone

import (
	"context"
	"errors"
	"os"

	"PhoneStore/internal/phonecsv"
)

// FileBackend stores the set as a CSV file. A missing file is an empty set.
type FileBackend struct {
	Path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{Path: path}
}

func (b *FileBackend) Ping(ctx context.Context) error {
	info, err := os.Stat(b.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return errors.New(b.Path + " is a directory")
	}
	return nil
}

func (b *FileBackend) Load(ctx context.Context) ([]Record, error) {
	rows, err := phonecsv.ReadFile(b.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return FromRows(rows), err
}

func (b *FileBackend) Save(ctx context.Context, recs []Record) error {
	return phonecsv.WriteFile(b.Path, ToRows(recs))
}
