// Package yamlowners implements a YAML declaration grammar (OWNERS.yaml).
//
// Example:
//
//	owners:
//	  - alice@example.com
//	  - email: bob@example.com
//	    annotations: [NEVER_SUGGEST]
//	ignore_parent: true
//	imports:
//	  - path: /build/OWNERS.yaml
//	    mode: all
//	per_file:
//	  - paths: ["*.md", "docs/**"]
//	    owners: [carol@example.com]
//	    ignore_parent: true
package yamlowners

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"whoowns/internal/backend"
	"whoowns/internal/model"
)

type yamlOwners struct{}

func (yamlOwners) Name() string {
	return "yaml-owners"
}

func (yamlOwners) FileName() string {
	return "OWNERS.yaml"
}

type fileDoc struct {
	Owners       []ownerEntry `yaml:"owners"`
	IgnoreParent bool         `yaml:"ignore_parent"`
	IgnoreGlobal bool         `yaml:"ignore_global"`
	Imports      []importDoc  `yaml:"imports"`
	PerFile      []perFileDoc `yaml:"per_file"`
}

type perFileDoc struct {
	Paths        []string     `yaml:"paths"`
	Owners       []ownerEntry `yaml:"owners"`
	IgnoreParent bool         `yaml:"ignore_parent"`
	IgnoreGlobal bool         `yaml:"ignore_global"`
	Imports      []importDoc  `yaml:"imports"`
}

type importDoc struct {
	Project string `yaml:"project"`
	Branch  string `yaml:"branch"`
	Path    string `yaml:"path"`
	Mode    string `yaml:"mode"`
}

// ownerEntry accepts either a bare email string or a mapping with
// email/annotations keys.
type ownerEntry struct {
	Email       string
	Annotations []string
}

func (o *ownerEntry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&o.Email)
	case yaml.MappingNode:
		var m struct {
			Email       string   `yaml:"email"`
			Annotations []string `yaml:"annotations"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		o.Email = m.Email
		o.Annotations = m.Annotations
		return nil
	default:
		return fmt.Errorf("line %d: owner entry must be a string or a mapping", node.Line)
	}
}

func (yamlOwners) Parse(path string, content []byte) (*model.Declaration, error) {
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	var doc fileDoc
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}

	decl := &model.Declaration{}

	global := model.OwnerSet{
		IgnoreParent: doc.IgnoreParent,
		IgnoreGlobal: doc.IgnoreGlobal,
	}
	for _, o := range doc.Owners {
		ref, err := ownerRef(o)
		if err != nil {
			return nil, err
		}
		global.Owners = append(global.Owners, ref)
	}
	if len(global.Owners) > 0 || global.IgnoreParent || global.IgnoreGlobal {
		decl.Sets = append(decl.Sets, global)
	}

	for _, imp := range doc.Imports {
		ref, err := importRef(imp)
		if err != nil {
			return nil, err
		}
		decl.Imports = append(decl.Imports, ref)
	}

	for i, pf := range doc.PerFile {
		if len(pf.Paths) == 0 {
			return nil, fmt.Errorf("per_file entry %d has no paths", i)
		}
		set := model.OwnerSet{
			PathExprs:    pf.Paths,
			IgnoreParent: pf.IgnoreParent,
			IgnoreGlobal: pf.IgnoreGlobal,
		}
		for _, o := range pf.Owners {
			ref, err := ownerRef(o)
			if err != nil {
				return nil, err
			}
			set.Owners = append(set.Owners, ref)
		}
		for _, imp := range pf.Imports {
			ref, err := importRef(imp)
			if err != nil {
				return nil, err
			}
			// Imports nested in a per-file set always borrow global sets only.
			ref.Mode = model.ImportGlobalSetsOnly
			set.Imports = append(set.Imports, ref)
		}
		decl.Sets = append(decl.Sets, set)
	}

	return decl, nil
}

func ownerRef(o ownerEntry) (model.AnnotatedRef, error) {
	email := strings.TrimSpace(o.Email)
	if email == "" {
		return model.AnnotatedRef{}, fmt.Errorf("owner entry has empty email")
	}
	if email != model.AllUsers && !strings.Contains(email, "@") {
		return model.AnnotatedRef{}, fmt.Errorf("invalid owner reference %q (expected an email or %q)", email, model.AllUsers)
	}
	return model.AnnotatedRef{Ref: model.OwnerRef(email), Annotations: o.Annotations}, nil
}

func importRef(d importDoc) (model.ImportRef, error) {
	if strings.TrimSpace(d.Path) == "" {
		return model.ImportRef{}, fmt.Errorf("import entry has empty path")
	}
	ref := model.ImportRef{
		Project: d.Project,
		Branch:  d.Branch,
		Path:    model.NormalizeFilePath(d.Path),
	}
	switch strings.ToLower(strings.TrimSpace(d.Mode)) {
	case "", "all":
		ref.Mode = model.ImportAll
	case "global-sets-only", "globals-only":
		ref.Mode = model.ImportGlobalSetsOnly
	default:
		return model.ImportRef{}, fmt.Errorf("invalid import mode %q (must be all or global-sets-only)", d.Mode)
	}
	return ref, nil
}

func init() {
	backend.Register(yamlOwners{})
}
