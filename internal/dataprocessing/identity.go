package dataprocessing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"basketpulse/internal/config"
	apierrors "basketpulse/internal/errors"
)

// FileIdentity identifies one version of a dataset file
type FileIdentity struct {
	Table   string    `json:"table"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
	SHA256  string    `json:"sha256,omitempty"`
}

// DatasetIdentity is the identity of all five files, in load order
type DatasetIdentity []FileIdentity

// Key returns a string that changes whenever any file identity changes
func (d DatasetIdentity) Key() string {
	var b strings.Builder
	for _, f := range d {
		fmt.Fprintf(&b, "%s|%s|%d|%d|%s\n", f.Table, f.Path, f.Size, f.ModTime.UnixNano(), f.SHA256)
	}
	return b.String()
}

// Equal reports whether both identities name the same file versions
func (d DatasetIdentity) Equal(other DatasetIdentity) bool {
	return d.Key() == other.Key()
}

// StatDataset computes the identity of every dataset file. With hash set the
// contents are read and hashed as well.
func StatDataset(files config.DatasetFiles, hash bool) (DatasetIdentity, error) {
	entries := []struct {
		table string
		path  string
	}{
		{TableProducts, files.Products},
		{TableAisles, files.Aisles},
		{TableDepartments, files.Departments},
		{TableOrders, files.Orders},
		{TableOrderLines, files.OrderLines},
	}

	identity := make(DatasetIdentity, 0, len(entries))
	for _, e := range entries {
		info, err := os.Stat(e.path)
		if err != nil {
			return nil, &apierrors.MissingFileError{Table: e.table, Path: e.path, Err: err}
		}
		if info.IsDir() {
			return nil, &apierrors.MissingFileError{Table: e.table, Path: e.path, Err: fmt.Errorf("is a directory")}
		}

		id := FileIdentity{
			Table:   e.table,
			Path:    e.path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}
		if hash {
			sum, err := hashFile(e.path)
			if err != nil {
				return nil, &apierrors.MissingFileError{Table: e.table, Path: e.path, Err: err}
			}
			id.SHA256 = sum
		}
		identity = append(identity, id)
	}

	return identity, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
