// Package export writes canonical leads to the run artifact and to
// spreadsheet formats.
package export

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/rendetalje/lead-cli/internal/model"
)

// WriteArtifact writes the artifact as indented JSON. The file is written to
// a temp file in the same directory and renamed into place.
func WriteArtifact(path string, a *model.Artifact) error {
	if a.Leads == nil {
		a.Leads = []model.CanonicalLead{}
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return eris.Wrap(err, "export: marshal artifact")
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".leads-*.json")
	if err != nil {
		return eris.Wrap(err, "export: create temp artifact")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return eris.Wrap(err, "export: write artifact")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "export: close artifact")
	}
	return eris.Wrap(os.Rename(tmp.Name(), path), "export: rename artifact")
}

// ReadArtifact loads an artifact written by WriteArtifact.
func ReadArtifact(path string) (*model.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "export: read artifact %s", path)
	}
	var a model.Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, eris.Wrapf(err, "export: decode artifact %s", path)
	}
	return &a, nil
}
