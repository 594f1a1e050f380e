package facts

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/privdiag/internal/logger"
	"github.com/ppiankov/privdiag/internal/model"
	"github.com/ppiankov/privdiag/internal/validate"
)

// Snapshot is a fact dump exported by the companion app
type Snapshot struct {
	Device             string         `yaml:"device" json:"device,omitempty"`
	Facts              map[string]any `yaml:"facts" json:"facts"`
	MissingPermissions []string       `yaml:"missing_permissions" json:"missing_permissions,omitempty"`
}

// UnmarshalYAML keeps fact scalars as written. Identifiers such as
// 0012345 or +15551234567 would otherwise be resolved as numbers and
// lose leading zeros, signs or precision.
func (s *Snapshot) UnmarshalYAML(value *yaml.Node) error {
	var doc struct {
		Device             string    `yaml:"device"`
		Facts              yaml.Node `yaml:"facts"`
		MissingPermissions []string  `yaml:"missing_permissions"`
	}
	if err := value.Decode(&doc); err != nil {
		return err
	}
	s.Device = doc.Device
	s.MissingPermissions = doc.MissingPermissions
	s.Facts = nil

	node := resolveAlias(&doc.Facts)
	switch {
	case node.Kind == 0, node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null":
		return nil
	case node.Kind != yaml.MappingNode:
		return fmt.Errorf("line %d: facts must be a mapping", node.Line)
	}

	s.Facts = make(map[string]any, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		v, err := factValue(node.Content[i+1])
		if err != nil {
			return fmt.Errorf("fact %s: %w", name, err)
		}
		s.Facts[name] = v
	}
	return nil
}

// factValue converts a fact node: booleans become Yes/No, nulls nil,
// every other scalar its source text
func factValue(n *yaml.Node) (any, error) {
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return nil, nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return nil, err
			}
			return model.YesNo(b), nil
		default:
			return n.Value, nil
		}
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := factValue(item)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	default:
		return nil, fmt.Errorf("line %d: expected a scalar or list", n.Line)
	}
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// ParseSnapshot decodes a YAML or JSON snapshot
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if snap.Facts == nil {
		return nil, fmt.Errorf("parse snapshot: no facts section")
	}
	return &snap, nil
}

// LoadSnapshot reads a snapshot file
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return ParseSnapshot(data)
}

// RawFacts returns every fact as a string: booleans become Yes/No,
// numbers keep their source text, lists are comma-joined. Null values
// are omitted.
func (s *Snapshot) RawFacts() map[string]string {
	raw := make(map[string]string, len(s.Facts))
	for name, value := range s.Facts {
		if str, ok := normalize(value); ok {
			raw[name] = str
		}
	}
	return raw
}

func normalize(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case bool:
		return model.YesNo(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := normalize(item); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", "), true
	default:
		return fmt.Sprint(v), true
	}
}

// FactSet builds the snapshot's fact set. Unknown fact names are
// dropped and shape problems logged as warnings.
func (s *Snapshot) FactSet(log *logger.Logger) model.FactSet {
	raw := s.RawFacts()
	for _, issue := range validate.ValidateFacts(raw) {
		log.Warn().Str("fact", issue.Field).Msg(issue.Message)
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	builder := model.NewFactSetBuilder()
	for _, name := range names {
		fact := model.FactName(name)
		if model.IsKnownFact(fact) {
			builder.Set(fact, raw[name])
		}
	}

	// A device label without manufacturer/model facts still names the report
	if s.Device != "" {
		if _, ok := raw[string(model.FactModel)]; !ok {
			builder.Set(model.FactModel, s.Device)
		}
	}

	return builder.Build()
}

// SnapshotProvider serves facts from an in-memory snapshot (API requests)
type SnapshotProvider struct {
	name string
	snap *Snapshot
	log  *logger.Logger
}

// NewSnapshotProvider wraps snap under name
func NewSnapshotProvider(name string, snap *Snapshot, log *logger.Logger) *SnapshotProvider {
	if log == nil {
		log = logger.Global()
	}
	return &SnapshotProvider{
		name: name,
		snap: snap,
		log:  log.WithComponent("facts.snapshot").WithSource(name),
	}
}

// Name returns the label given at construction
func (p *SnapshotProvider) Name() string {
	return p.name
}

// Collect builds the fact set; it fails only on a cancelled context
// or a snapshot without a facts section
func (p *SnapshotProvider) Collect(ctx context.Context) (model.FactSet, error) {
	if err := ctx.Err(); err != nil {
		return model.FactSet{}, err
	}
	if p.snap == nil || p.snap.Facts == nil {
		return model.FactSet{}, fmt.Errorf("snapshot %s: no facts section", p.name)
	}
	return p.snap.FactSet(p.log), nil
}

// MissingPermissions returns the permissions the snapshot lists as not granted
func (p *SnapshotProvider) MissingPermissions() []string {
	if p.snap == nil {
		return nil
	}
	return p.snap.MissingPermissions
}

// FileProvider reads facts from a snapshot file
type FileProvider struct {
	path    string
	missing []string
	log     *logger.Logger
}

// NewFileProvider creates a provider for a snapshot path
func NewFileProvider(path string, log *logger.Logger) *FileProvider {
	if log == nil {
		log = logger.Global()
	}
	return &FileProvider{
		path: path,
		log:  log.WithComponent("facts.file").WithSource(path),
	}
}

// Name returns the snapshot path
func (p *FileProvider) Name() string {
	return p.path
}

// Collect loads the snapshot file
func (p *FileProvider) Collect(ctx context.Context) (model.FactSet, error) {
	if err := ctx.Err(); err != nil {
		return model.FactSet{}, err
	}

	snap, err := LoadSnapshot(p.path)
	if err != nil {
		return model.FactSet{}, err
	}

	facts := snap.FactSet(p.log)
	p.missing = append([]string(nil), snap.MissingPermissions...)
	p.log.Debug().Int("facts", facts.Len()).Msg("snapshot loaded")

	return facts, nil
}

// MissingPermissions returns the permissions the snapshot says were not granted
func (p *FileProvider) MissingPermissions() []string {
	return p.missing
}
