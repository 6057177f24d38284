package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// State describes an artifact's on-disk condition.
type State string

const (
	StateMissing State = "missing"
	StateReady   State = "ready"
	StateInvalid State = "invalid"
)

// CheckResult reports an artifact inspection.
type CheckResult struct {
	Ref      Ref
	Path     string
	State    State
	Metadata *Metadata
	Err      error
}

// Store manages artifact IO rooted at a run's output directory.
type Store struct {
	run *Run
	now func() time.Time
}

// StoreOption customizes a Store during construction.
type StoreOption func(*Store)

// WithClock overrides the clock used for metadata timestamps.
func WithClock(clock func() time.Time) StoreOption {
	return func(s *Store) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewStore builds a store for a run.
func NewStore(run *Run, opts ...StoreOption) *Store {
	store := &Store{run: run, now: time.Now}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Write persists the artifact contents and metadata based on its kind.
func (s *Store) Write(ref Ref, body []byte, meta Metadata) error {
	path := ref.Path(s.run)
	if path == "" {
		return fmt.Errorf("artifact: %s path could not be resolved", ref.ID)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("artifact: ensure dir for %s: %w", ref.ID, err)
	}
	switch ref.Kind {
	case KindRaw:
		return writeFile(path, body)
	case KindJSON:
		return s.writeJSON(path, ref, body, meta)
	default:
		return s.writeDocument(path, ref, body, meta)
	}
}

// Check inspects the artifact on disk and returns its status and metadata.
func (s *Store) Check(ref Ref) (CheckResult, error) {
	path := ref.Path(s.run)
	if path == "" {
		err := fmt.Errorf("artifact: %s path could not be resolved", ref.ID)
		return CheckResult{Ref: ref, State: StateInvalid, Err: err}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return CheckResult{Ref: ref, Path: path, State: StateMissing}, nil
		}
		return CheckResult{Ref: ref, Path: path, State: StateInvalid, Err: err}, err
	}
	switch ref.Kind {
	case KindRaw:
		return CheckResult{Ref: ref, Path: path, State: StateReady}, nil
	case KindJSON:
		meta, metaErr := parseJSONMetadata(data)
		if metaErr != nil {
			return CheckResult{Ref: ref, Path: path, State: StateInvalid, Err: metaErr}, nil
		}
		if meta.ArtifactID != ref.ID {
			err := fmt.Errorf("artifact: metadata id %s does not match %s", meta.ArtifactID, ref.ID)
			return CheckResult{Ref: ref, Path: path, State: StateInvalid, Err: err}, nil
		}
		return CheckResult{Ref: ref, Path: path, State: StateReady, Metadata: &meta}, nil
	default:
		meta, _, metaErr := ParseFrontMatter(data)
		if metaErr != nil {
			return CheckResult{Ref: ref, Path: path, State: StateInvalid, Err: metaErr}, nil
		}
		if meta.ArtifactID != ref.ID {
			err := fmt.Errorf("artifact: metadata id %s does not match %s", meta.ArtifactID, ref.ID)
			return CheckResult{Ref: ref, Path: path, State: StateInvalid, Err: err}, nil
		}
		return CheckResult{Ref: ref, Path: path, State: StateReady, Metadata: &meta}, nil
	}
}

func (s *Store) writeDocument(path string, ref Ref, body []byte, meta Metadata) error {
	prepared := meta.WithDefaults(ref, s.now())
	data, err := WriteFrontMatter(prepared, body)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// writeJSON embeds the metadata envelope as a _slidesmith top-level key so
// consumers see a single self-describing document.
func (s *Store) writeJSON(path string, ref Ref, body []byte, meta Metadata) error {
	var doc map[string]any
	if len(body) == 0 {
		doc = map[string]any{}
	} else if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("artifact: %s body is not a JSON object: %w", ref.ID, err)
	}
	prepared := meta.WithDefaults(ref, s.now())
	doc["_slidesmith"] = envelopeFields{
		Artifact: prepared.ArtifactID,
		Producer: prepared.Producer,
		Run:      prepared.RunID,
		Inputs:   prepared.Inputs,
		Created:  prepared.CreatedAt.UTC().Format(timeLayout),
		Notes:    prepared.Notes,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("artifact: encode %s: %w", ref.ID, err)
	}
	return writeFile(path, append(data, '\n'))
}

func parseJSONMetadata(data []byte) (Metadata, error) {
	var doc struct {
		Slidesmith *envelopeFields `json:"_slidesmith"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return Metadata{}, fmt.Errorf("artifact: parse json document: %w", err)
	}
	if doc.Slidesmith == nil {
		return Metadata{}, fmt.Errorf("artifact: json document missing _slidesmith block")
	}
	envelope := metadataEnvelope{Slidesmith: *doc.Slidesmith}
	return envelope.toMetadata()
}

func writeFile(path string, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	return os.WriteFile(path, data, 0o644)
}
