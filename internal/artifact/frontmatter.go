package artifact

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingFrontMatter indicates the document did not start with a YAML fence.
	ErrMissingFrontMatter = errors.New("artifact: missing frontmatter")
	// ErrMalformedFrontMatter indicates the YAML block could not be parsed.
	ErrMalformedFrontMatter = errors.New("artifact: malformed frontmatter")
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// ParseFrontMatter extracts the metadata block and body from a document
// that starts with `---` YAML fences.
func ParseFrontMatter(content []byte) (Metadata, []byte, error) {
	if len(content) == 0 {
		return Metadata{}, nil, ErrMissingFrontMatter
	}
	normalized := bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return Metadata{}, nil, ErrMissingFrontMatter
	}
	parts := bytes.SplitN(normalized[4:], []byte("\n---\n"), 2)
	if len(parts) < 2 {
		return Metadata{}, nil, ErrMalformedFrontMatter
	}
	var envelope metadataEnvelope
	if err := yaml.Unmarshal(parts[0], &envelope); err != nil {
		return Metadata{}, nil, fmt.Errorf("artifact: parse frontmatter: %w", err)
	}
	meta, err := envelope.toMetadata()
	if err != nil {
		return Metadata{}, nil, err
	}
	return meta, parts[1], nil
}

// WriteFrontMatter renders metadata + body with YAML fences.
func WriteFrontMatter(meta Metadata, body []byte) ([]byte, error) {
	if meta.ArtifactID == "" {
		return nil, fmt.Errorf("artifact: metadata missing artifact id")
	}
	envelope := metadataEnvelope{}
	envelope.fromMetadata(meta)
	data, err := yaml.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("artifact: encode frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(bytes.TrimRight(data, "\n"))
	buf.WriteString("\n---\n\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

type metadataEnvelope struct {
	Slidesmith envelopeFields `yaml:"slidesmith" json:"slidesmith"`
}

type envelopeFields struct {
	Artifact string            `yaml:"artifact" json:"artifact"`
	Producer string            `yaml:"producer" json:"producer"`
	Run      string            `yaml:"run,omitempty" json:"run,omitempty"`
	Inputs   []string          `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	Created  string            `yaml:"created" json:"created"`
	Notes    map[string]string `yaml:"notes,omitempty" json:"notes,omitempty"`
}

func (e metadataEnvelope) toMetadata() (Metadata, error) {
	if e.Slidesmith.Artifact == "" || e.Slidesmith.Producer == "" {
		return Metadata{}, ErrMalformedFrontMatter
	}
	created, err := parseTime(e.Slidesmith.Created)
	if err != nil {
		return Metadata{}, fmt.Errorf("artifact: parse created timestamp: %w", err)
	}
	return Metadata{
		ArtifactID: e.Slidesmith.Artifact,
		Producer:   e.Slidesmith.Producer,
		RunID:      e.Slidesmith.Run,
		Inputs:     append([]string{}, e.Slidesmith.Inputs...),
		CreatedAt:  created,
		Notes:      cloneNotes(e.Slidesmith.Notes),
	}, nil
}

func (e *metadataEnvelope) fromMetadata(meta Metadata) {
	e.Slidesmith.Artifact = meta.ArtifactID
	e.Slidesmith.Producer = meta.Producer
	e.Slidesmith.Run = meta.RunID
	e.Slidesmith.Inputs = append([]string{}, meta.Inputs...)
	e.Slidesmith.Created = meta.CreatedAt.UTC().Format(timeLayout)
	e.Slidesmith.Notes = cloneNotes(meta.Notes)
}

func cloneNotes(notes map[string]string) map[string]string {
	if len(notes) == 0 {
		return nil
	}
	cloned := make(map[string]string, len(notes))
	for k, v := range notes {
		cloned[k] = v
	}
	return cloned
}

func parseTime(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, fmt.Errorf("artifact: empty created timestamp")
	}
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
