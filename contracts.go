package reqparse

import (
	"encoding/json"
	"io"
	"net/http"

	"gopkg.in/yaml.v3"
)

// ContractsDoc is the serializable description of every contract an App has
// registered.
type ContractsDoc struct {
	Title     string        `json:"title,omitempty" yaml:"title,omitempty"`
	Version   string        `json:"version,omitempty" yaml:"version,omitempty"`
	Contracts []ContractDoc `json:"contracts" yaml:"contracts"`
}

// ContractDoc describes one registered handler's contract.
type ContractDoc struct {
	Pattern string     `json:"pattern" yaml:"pattern"`
	Query   []QueryDoc `json:"query,omitempty" yaml:"query,omitempty"`
	Body    *BodyDoc   `json:"body,omitempty" yaml:"body,omitempty"`
}

// QueryDoc describes one scalar query binding.
type QueryDoc struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	Required bool   `json:"required" yaml:"required"`
	Default  any    `json:"default,omitempty" yaml:"default,omitempty"`
}

// BodyDoc describes the body binding and its schema.
type BodyDoc struct {
	Param  string    `json:"param" yaml:"param"`
	Schema SchemaDoc `json:"schema" yaml:"schema"`
}

// SchemaDoc is the serializable form of a schema.
type SchemaDoc struct {
	Type       string               `json:"type" yaml:"type"`
	Properties map[string]SchemaDoc `json:"properties,omitempty" yaml:"properties,omitempty"`
	Items      *SchemaDoc           `json:"items,omitempty" yaml:"items,omitempty"`
	Required   []string             `json:"required,omitempty" yaml:"required,omitempty"`
	Enum       []string             `json:"enum,omitempty" yaml:"enum,omitempty"`
}

// contractDoc renders an analyzed contract as its document form.
func contractDoc(pattern string, c *Contract) ContractDoc {
	doc := ContractDoc{Pattern: pattern}

	for _, b := range c.Query {
		doc.Query = append(doc.Query, QueryDoc{
			Name:     b.Name,
			Type:     string(b.Tag),
			Required: !b.HasDefault && !b.Optional,
			Default:  b.Default,
		})
	}

	if c.Body != nil {
		doc.Body = &BodyDoc{
			Param:  c.Body.Name,
			Schema: schemaDoc(c.Body.Schema),
		}
	}

	return doc
}

func schemaDoc(s *Schema) SchemaDoc {
	doc := SchemaDoc{Type: string(TagObject)}

	for _, f := range s.Fields {
		if doc.Properties == nil {
			doc.Properties = make(map[string]SchemaDoc)
		}
		doc.Properties[f.Name] = fieldDoc(f)
		if f.Required {
			doc.Required = append(doc.Required, f.Name)
		}
	}

	return doc
}

func fieldDoc(f Field) SchemaDoc {
	switch {
	case f.Tag == TagObject && f.Object != nil:
		return schemaDoc(f.Object)
	case f.Tag == TagArray && f.Elem != nil:
		items := fieldDoc(*f.Elem)
		return SchemaDoc{Type: string(TagArray), Items: &items}
	default:
		return SchemaDoc{Type: string(f.Tag), Enum: f.enum}
	}
}

// Contracts returns the document describing every registered contract.
func (a *App) Contracts() ContractsDoc {
	a.mu.Lock()
	defer a.mu.Unlock()

	return ContractsDoc{
		Title:     a.title,
		Version:   a.version,
		Contracts: a.contracts,
	}
}

// ServeContracts registers a GET handler at the given path that serves the
// contract document as JSON.
func (a *App) ServeContracts(pattern string) {
	a.mux.HandleFunc("GET "+pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,errchkjson,gosec // best-effort after WriteHeader
		json.NewEncoder(w).Encode(a.Contracts())
	})
}

// ServeContractsYAML registers a GET handler at the given path that serves
// the contract document as YAML.
func (a *App) ServeContractsYAML(pattern string) {
	a.mux.HandleFunc("GET "+pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		//nolint:errcheck,gosec // best-effort after WriteHeader
		yaml.NewEncoder(w).Encode(a.Contracts())
	})
}

// WriteContracts writes the contract document as indented JSON to w.
func (a *App) WriteContracts(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(a.Contracts())
}

// WriteContractsYAML writes the contract document as YAML to w.
func (a *App) WriteContractsYAML(w io.Writer) error {
	return yaml.NewEncoder(w).Encode(a.Contracts())
}
