package policy

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/quality-cli/internal/dataset"
)

// FieldType is the declared type of a governed field.
type FieldType string

const (
	TypeInteger  FieldType = "integer"
	TypeFloat    FieldType = "float"
	TypeString   FieldType = "string"
	TypeBoolean  FieldType = "boolean"
	TypeDatetime FieldType = "datetime"
)

// Security is the declared protection requirement of a field.
type Security string

const (
	SecurityNone      Security = "none"
	SecurityMasked    Security = "masked"
	SecurityEncrypted Security = "encrypted"
)

// Field describes the governance expectations for one dataset column.
type Field struct {
	FieldName      string    `yaml:"field_name"`
	Type           FieldType `yaml:"type"`
	Rules          []string  `yaml:"rules"`
	Security       Security  `yaml:"security"`
	Privacy        string    `yaml:"privacy"`
	ComplianceTags []string  `yaml:"compliance_tags"`
}

// HasRule reports whether the field declares the named rule.
func (f Field) HasRule(name string) bool {
	for _, r := range f.Rules {
		if r == name {
			return true
		}
	}
	return false
}

// Policy is a governance policy document. It is read-only to the engine
// during a run.
type Policy struct {
	Name   string  `yaml:"name"`
	Fields []Field `yaml:"fields"`
}

// Field returns the declared field with the given name.
func (p *Policy) Field(name string) (Field, bool) {
	for _, f := range p.Fields {
		if f.FieldName == name {
			return f, true
		}
	}
	return Field{}, false
}

// Load reads and validates a YAML policy document.
func Load(path string) (*Policy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "policy: read file")
	}

	var p Policy
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, eris.Wrap(err, "policy: unmarshal")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the document for contract violations: missing names,
// unknown types, unknown security levels.
func (p *Policy) Validate() error {
	if len(p.Fields) == 0 {
		return eris.New("policy: no fields declared")
	}
	seen := make(map[string]bool, len(p.Fields))
	for i := range p.Fields {
		f := &p.Fields[i]
		if f.FieldName == "" {
			return eris.Errorf("policy: field %d has no field_name", i)
		}
		if seen[f.FieldName] {
			return eris.Errorf("policy: duplicate field %q", f.FieldName)
		}
		seen[f.FieldName] = true

		switch f.Type {
		case TypeInteger, TypeFloat, TypeString, TypeBoolean, TypeDatetime:
		default:
			return eris.Errorf("policy: field %q has unknown type %q", f.FieldName, f.Type)
		}

		if f.Security == "" {
			f.Security = SecurityNone
		}
		switch f.Security {
		case SecurityNone, SecurityMasked, SecurityEncrypted:
		default:
			return eris.Errorf("policy: field %q has unknown security %q", f.FieldName, f.Security)
		}
	}
	return nil
}

// Matches reports whether an inferred column kind satisfies the declared
// type. Integer values satisfy a float declaration; the reverse does not
// hold.
func (t FieldType) Matches(kind dataset.Kind) bool {
	switch t {
	case TypeInteger:
		return kind == dataset.KindInteger
	case TypeFloat:
		return kind == dataset.KindFloat || kind == dataset.KindInteger
	case TypeBoolean:
		return kind == dataset.KindBoolean
	case TypeDatetime:
		return kind == dataset.KindDatetime
	case TypeString:
		return kind == dataset.KindString
	default:
		return false
	}
}
