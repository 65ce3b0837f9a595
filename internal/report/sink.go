package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"dead_link_checker/internal/domain/models"
	"dead_link_checker/internal/pkg/errors"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	FormatJSON = `json`
	FormatYAML = `yaml`
)

// Sink persists reports to a fixed location, replacing any previous report.
type Sink struct {
	path   string
	format string
	log    *log.Logger
}

func NewSink(path, format string, log *log.Logger) *Sink {
	return &Sink{path: path, format: format, log: log}
}

func (s *Sink) Path() string {
	return s.path
}

// Write serializes the report and swaps it into place so readers never see a half-written file.
func (s *Sink) Write(report *models.Report) error {
	data, err := Encode(report, s.format)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, `.`+filepath.Base(s.path)+`.*`)
	if err != nil {
		return errors.Wrap(err, `failed to create report file`)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, `failed to write report`)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return errors.Wrap(err, `failed to set report permissions`)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, `failed to close report`)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrap(err, `failed to replace report`)
	}

	s.log.WithFields(log.Fields{`path`: s.path, `format`: s.format}).Info(`report written`)
	return nil
}

// Encode renders a report in the given format.
func Encode(report *models.Report, format string) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return nil, errors.Wrap(err, `failed to encode report`)
		}
		return buf.Bytes(), nil
	case FormatYAML:
		data, err := yaml.Marshal(report)
		if err != nil {
			return nil, errors.Wrap(err, `failed to encode report`)
		}
		return data, nil
	default:
		return nil, errors.Errorf(`unknown report format %q`, format)
	}
}
