package accounts

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/quillsafe/quill/internal/derive"
	qerrors "github.com/quillsafe/quill/internal/errors"
)

// GenerateSpec declares a field whose value is derived from the master
// seed instead of being stored.
type GenerateSpec struct {
	Length  int
	Charset string
}

// Account is one named credential record.
type Account struct {
	Name string

	// Fields holds plain (non-secret) values: strings, arrays, or tables.
	Fields map[string]interface{}

	// Secrets holds revealed secret values.
	Secrets map[string]string

	// Generated holds derivation specs for seed-generated secret fields.
	Generated map[string]GenerateSpec

	// Credentials is the explicit identifier/secret field list for the
	// credentials command, empty when the account declares none.
	Credentials []string

	// Default names the field disclosed when none is requested.
	Default string

	seed string
	eval Evaluator
}

// RecordSet is the parsed content of one accounts file.
type RecordSet struct {
	Recipients []string
	MasterSeed string
	Accounts   map[string]*Account
}

type fileSchema struct {
	Recipients []string                          `toml:"recipients"`
	MasterSeed string                            `toml:"master_seed"`
	Accounts   map[string]map[string]interface{} `toml:"accounts"`
}

// Parse decodes and validates accounts file text. All validation happens
// here, so a successful Parse means every field of every account can be
// resolved.
func Parse(text string) (*RecordSet, error) {
	return ParseWith(text, FieldTemplate{})
}

// ParseWith is Parse with an explicit expression evaluator, used to swap
// in a restricted or instrumented evaluator.
func ParseWith(text string, eval Evaluator) (*RecordSet, error) {
	var schema fileSchema
	if _, err := toml.Decode(text, &schema); err != nil {
		return nil, err
	}

	seed, err := Reveal(schema.MasterSeed)
	if err != nil {
		return nil, fmt.Errorf("master_seed: %w", err)
	}

	rs := &RecordSet{
		Recipients: schema.Recipients,
		MasterSeed: seed,
		Accounts:   make(map[string]*Account, len(schema.Accounts)),
	}

	for name, raw := range schema.Accounts {
		account, err := buildAccount(name, raw, seed, eval)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", name, err)
		}
		rs.Accounts[name] = account
	}

	for _, account := range rs.Accounts {
		if err := account.validate(); err != nil {
			return nil, fmt.Errorf("account %s: %w", account.Name, err)
		}
	}

	return rs, nil
}

func buildAccount(name string, raw map[string]interface{}, seed string, eval Evaluator) (*Account, error) {
	account := &Account{
		Name:      name,
		Fields:    make(map[string]interface{}),
		Secrets:   make(map[string]string),
		Generated: make(map[string]GenerateSpec),
		seed:      seed,
		eval:      eval,
	}

	for key, value := range raw {
		switch key {
		case "secrets":
			table, ok := value.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("secrets must be a table")
			}
			for fieldName, v := range table {
				s, ok := v.(string)
				if !ok {
					return nil, fmt.Errorf("secret field %s must be a string", fieldName)
				}
				revealed, err := Reveal(s)
				if err != nil {
					return nil, fmt.Errorf("secret field %s: %w", fieldName, err)
				}
				account.Secrets[fieldName] = revealed
			}
		case "generated":
			table, ok := value.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("generated must be a table")
			}
			for fieldName, v := range table {
				spec, err := decodeGenerateSpec(v)
				if err != nil {
					return nil, fmt.Errorf("generated field %s: %w", fieldName, err)
				}
				account.Generated[fieldName] = spec
			}
		case "credentials":
			s, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("credentials must be a string")
			}
			account.Credentials = strings.Fields(s)
		case "default":
			s, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("default must be a string")
			}
			account.Default = s
		default:
			account.Fields[key] = value
		}
	}

	return account, nil
}

func decodeGenerateSpec(v interface{}) (GenerateSpec, error) {
	table, ok := v.(map[string]interface{})
	if !ok {
		return GenerateSpec{}, fmt.Errorf("must be a table with length and charset")
	}
	spec := GenerateSpec{Length: 16, Charset: "printable"}
	if l, ok := table["length"]; ok {
		n, ok := l.(int64)
		if !ok || n <= 0 {
			return GenerateSpec{}, fmt.Errorf("length must be a positive integer")
		}
		spec.Length = int(n)
	}
	if cs, ok := table["charset"]; ok {
		s, ok := cs.(string)
		if !ok {
			return GenerateSpec{}, fmt.Errorf("charset must be a string")
		}
		spec.Charset = s
	}
	if _, err := derive.Charset(spec.Charset); err != nil {
		return GenerateSpec{}, err
	}
	return spec, nil
}

// validate resolves every field once so that syntactically valid files
// with broken references are rejected at load time, not at disclosure.
func (a *Account) validate() error {
	if len(a.Generated) > 0 && a.seed == "" {
		return fmt.Errorf("generated fields require a master_seed")
	}
	for name, raw := range a.Fields {
		for _, label := range memberLabels(name, raw) {
			if _, err := a.GetField(label); err != nil {
				return err
			}
		}
	}
	for name := range a.Secrets {
		if _, err := a.GetField(name); err != nil {
			return err
		}
	}
	for name := range a.Generated {
		if _, err := a.GetField(name); err != nil {
			return err
		}
	}
	return nil
}

// memberLabels expands a field into the labels of its resolvable members:
// the field itself for scalars, one label per element for composites.
func memberLabels(name string, raw interface{}) []string {
	switch v := raw.(type) {
	case []interface{}:
		labels := make([]string, len(v))
		for i := range v {
			labels[i] = CombineName(name, strconv.Itoa(i))
		}
		return labels
	case map[string]interface{}:
		labels := make([]string, 0, len(v))
		for key := range v {
			labels = append(labels, CombineName(name, key))
		}
		return labels
	default:
		return []string{name}
	}
}

// SplitName splits a field reference of the form "name" or "name.key".
// A bare number designates an index into the default vector field.
func SplitName(field string) (name, key string) {
	if field == "" {
		return "", ""
	}
	if _, err := strconv.Atoi(field); err == nil {
		return "questions", field
	}
	name, key, found := strings.Cut(field, ".")
	if !found {
		return field, ""
	}
	return name, key
}

// CombineName is the inverse of SplitName, producing the display label.
func CombineName(name, key string) string {
	if key == "" {
		return name
	}
	return name + "." + key
}

// HasField reports whether the account defines the named field in any of
// its sections.
func (a *Account) HasField(name string) bool {
	if _, ok := a.Secrets[name]; ok {
		return true
	}
	if _, ok := a.Generated[name]; ok {
		return true
	}
	_, ok := a.Fields[name]
	return ok
}

// IsSecret reports whether the named field holds secret material.
func (a *Account) IsSecret(name string) bool {
	if _, ok := a.Secrets[name]; ok {
		return true
	}
	_, ok := a.Generated[name]
	return ok
}

// DefaultField returns the field disclosed when the user names none: the
// account's declared default, else the first configured candidate the
// account defines, else fallback.
func (a *Account) DefaultField(candidates []string, fallback string) string {
	if a.Default != "" {
		return a.Default
	}
	for _, c := range candidates {
		if a.HasField(c) {
			return c
		}
	}
	return fallback
}

// GetField resolves a field reference into a Secret. Plain string values
// containing {field} references are evaluated through the account's
// expression evaluator.
func (a *Account) GetField(field string) (Secret, error) {
	name, key := SplitName(field)
	label := CombineName(name, key)

	if value, ok := a.Secrets[name]; ok {
		resolved, err := a.evaluate(value, 0)
		if err != nil {
			return Secret{}, err
		}
		return Secret{Value: resolved, IsSecret: true, Label: label}, nil
	}

	if spec, ok := a.Generated[name]; ok {
		value, err := derive.Secret(a.seed, a.Name, name, spec.Charset, spec.Length)
		if err != nil {
			return Secret{}, err
		}
		return Secret{Value: value, IsSecret: true, Label: label}, nil
	}

	raw, ok := a.Fields[name]
	if !ok {
		return Secret{}, fmt.Errorf("%s: %w", label, qerrors.ErrFieldNotFound)
	}

	value, err := a.index(raw, key, label)
	if err != nil {
		return Secret{}, err
	}
	resolved, err := a.evaluate(value, 0)
	if err != nil {
		return Secret{}, err
	}
	return Secret{Value: resolved, IsSecret: false, Label: label}, nil
}

// index drills into composite values: arrays by numeric key, tables by
// member name. Scalar values require an empty key.
func (a *Account) index(raw interface{}, key, label string) (string, error) {
	switch v := raw.(type) {
	case string:
		if key != "" {
			return "", fmt.Errorf("%s: field is not composite", label)
		}
		return v, nil
	case []interface{}:
		if key == "" {
			return "", fmt.Errorf("%s: composite field needs an index", label)
		}
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(v) {
			return "", fmt.Errorf("%s: no member %q", label, key)
		}
		s, ok := v[i].(string)
		if !ok {
			return "", fmt.Errorf("%s: member %q is not a string", label, key)
		}
		return s, nil
	case map[string]interface{}:
		if key == "" {
			return "", fmt.Errorf("%s: composite field needs a key", label)
		}
		member, ok := v[key]
		if !ok {
			return "", fmt.Errorf("%s: no member %q", label, key)
		}
		s, ok := member.(string)
		if !ok {
			return "", fmt.Errorf("%s: member %q is not a string", label, key)
		}
		return s, nil
	default:
		return "", fmt.Errorf("%s: unsupported field type %T", label, raw)
	}
}

func (a *Account) evaluate(value string, depth int) (string, error) {
	if !strings.Contains(value, "{") {
		return value, nil
	}
	eval := a.eval
	if eval == nil {
		eval = FieldTemplate{}
	}
	return eval.Evaluate(a, value, depth)
}

// Summary renders every field with secrets replaced by <name>
// placeholders, for the values command and for logging.
func (a *Account) Summary() []string {
	var lines []string
	for name, raw := range a.Fields {
		switch v := raw.(type) {
		case []interface{}:
			for i := range v {
				label := CombineName(name, strconv.Itoa(i))
				if s, err := a.GetField(label); err == nil {
					lines = append(lines, fmt.Sprintf("%s: %s", label, s.Value))
				}
			}
		case map[string]interface{}:
			for key := range v {
				label := CombineName(name, key)
				if s, err := a.GetField(label); err == nil {
					lines = append(lines, fmt.Sprintf("%s: %s", label, s.Value))
				}
			}
		default:
			if s, err := a.GetField(name); err == nil {
				lines = append(lines, fmt.Sprintf("%s: %s", name, s.Value))
			}
		}
	}
	for name := range a.Secrets {
		lines = append(lines, fmt.Sprintf("%s: <%s>", name, name))
	}
	for name := range a.Generated {
		lines = append(lines, fmt.Sprintf("%s: <%s>", name, name))
	}
	sort.Strings(lines)
	return lines
}
