package uischema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFS walks the provided filesystem and parses JSON/YAML overlay files.
// When fsys is nil or no overlay files are present, the returned store is
// empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{forms: make(map[string]Form)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		if !isSchemaFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("uischema: read %s: %w", path, err)
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		presets, err := normalisePresets(doc.OrderPresets, path)
		if err != nil {
			return err
		}

		for formID, raw := range doc.Forms {
			id := strings.TrimSpace(formID)
			if id == "" {
				return fmt.Errorf("uischema: file %s defines an empty form id", path)
			}
			if _, exists := store.forms[id]; exists {
				return fmt.Errorf("uischema: duplicate form %q (file %s)", id, path)
			}

			form, err := normaliseForm(raw, id, path, presets)
			if err != nil {
				return err
			}
			store.forms[id] = form
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

// Form returns the overlay for the supplied form id.
func (s *Store) Form(id string) (Form, bool) {
	if s == nil {
		return Form{}, false
	}
	form, ok := s.forms[id]
	return form, ok
}

// IDs lists the form ids with an overlay, sorted.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any forms.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}

type documentFile struct {
	OrderPresets map[string][]string `json:"orderPresets" yaml:"orderPresets"`
	Forms        map[string]Form     `json:"forms" yaml:"forms"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("uischema: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("uischema: parse %s: invalid JSON or YAML", source)
}

func normaliseForm(raw Form, id, source string, presets map[string][]string) (Form, error) {
	form := raw
	form.ID = id
	form.Source = source
	form.Metadata = cloneStrings(raw.Metadata)
	form.Fields = make(map[string]FieldConfig, len(raw.Fields))

	for key, cfg := range raw.Fields {
		name := NormalizeFieldName(key)
		if name == "" {
			return Form{}, fmt.Errorf("uischema: form %q (file %s) field key %q normalises to empty name", id, source, key)
		}
		if _, exists := form.Fields[name]; exists {
			return Form{}, fmt.Errorf("uischema: form %q (file %s) defines duplicate field %q", id, source, name)
		}
		cloned := cfg
		cloned.Metadata = cloneStrings(cfg.Metadata)
		if len(cfg.Options) > 0 {
			cloned.Options = append([]any(nil), cfg.Options...)
		}
		form.Fields[name] = cloned
	}

	if preset := strings.TrimSpace(raw.OrderPreset); preset != "" {
		if len(raw.Order) > 0 {
			return Form{}, fmt.Errorf("uischema: form %q (file %s) sets both order and orderPreset", id, source)
		}
		order, ok := presets[preset]
		if !ok {
			return Form{}, fmt.Errorf("uischema: form %q (file %s) references unknown order preset %q", id, source, preset)
		}
		form.Order = append([]string(nil), order...)
	} else {
		form.Order = make([]string, 0, len(raw.Order))
		for _, name := range raw.Order {
			if name = NormalizeFieldName(name); name != "" {
				form.Order = append(form.Order, name)
			}
		}
	}

	return form, nil
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func normalisePresets(raw map[string][]string, source string) (map[string][]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string][]string, len(raw))
	for name, pattern := range raw {
		trimmedName := strings.TrimSpace(name)
		if trimmedName == "" {
			return nil, fmt.Errorf("uischema: file %s defines an orderPresets entry with an empty name", source)
		}
		if len(pattern) == 0 {
			return nil, fmt.Errorf("uischema: file %s preset %q is empty", source, trimmedName)
		}
		cloned := make([]string, len(pattern))
		for idx, entry := range pattern {
			value := NormalizeFieldName(entry)
			if value == "" {
				return nil, fmt.Errorf("uischema: file %s preset %q contains an empty entry at index %d", source, trimmedName, idx)
			}
			cloned[idx] = value
		}
		out[trimmedName] = cloned
	}
	return out, nil
}

func cloneStrings(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
