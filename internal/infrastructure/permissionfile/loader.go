package permissionfile

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rafabene/pharmacy-authz/internal/domain/entities"
	"github.com/rafabene/pharmacy-authz/internal/domain/permissions"
	"github.com/rafabene/pharmacy-authz/internal/domain/ports"
)

//go:embed default_permissions.yaml
var defaultTable []byte

// DefaultTable retorna o YAML da tabela embutida
func DefaultTable() []byte {
	out := make([]byte, len(defaultTable))
	copy(out, defaultTable)
	return out
}

// Loader lê tabelas de permissões em YAML.
// O documento tem até quatro mapas de topo (routes, groups, items, features),
// cada um de chave -> lista de papéis. A ordem do arquivo é preservada.
type Loader struct {
	logger   ports.Logger
	validate *validator.Validate
}

// NewLoader cria um loader; avisos de validação vão para o logger
func NewLoader(logger ports.Logger) *Loader {
	if logger == nil {
		logger = ports.NopLogger{}
	}

	v := validator.New()
	if err := v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return entities.Role(fl.Field().String()).IsValid()
	}); err != nil {
		panic(fmt.Sprintf("permissionfile: register role validation: %v", err))
	}

	return &Loader{logger: logger, validate: v}
}

// Load carrega o arquivo indicado ou, com caminho vazio, a tabela embutida
func (l *Loader) Load(path string) (*permissions.Table, error) {
	if path == "" {
		return l.LoadDefault()
	}
	return l.LoadFile(path)
}

// LoadDefault carrega a tabela embutida no binário
func (l *Loader) LoadDefault() (*permissions.Table, error) {
	return l.Parse(defaultTable)
}

// LoadFile carrega a tabela de um arquivo YAML
func (l *Loader) LoadFile(path string) (*permissions.Table, error) {
	data, err := os.ReadFile(path) //nolint:gosec // caminho vem da configuração do operador
	if err != nil {
		return nil, fmt.Errorf("failed to read permission file %s: %w", path, err)
	}

	table, err := l.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("permission file %s: %w", path, err)
	}
	return table, nil
}

// Parse valida o documento e constrói a tabela.
// Todos os problemas encontrados são retornados juntos em *permissions.ValidationError.
func (l *Loader) Parse(data []byte) (*permissions.Table, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse permission table: %w", err)
	}

	def, issues := l.definition(&doc)
	if len(issues) > 0 {
		return nil, &permissions.ValidationError{Issues: issues}
	}

	return permissions.NewTable(def)
}

func (l *Loader) definition(doc *yaml.Node) (permissions.Definition, []permissions.Issue) {
	var def permissions.Definition

	// documento vazio é uma tabela vazia: tudo negado exceto o bypass
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return def, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return def, nil
	}
	if root.Kind != yaml.MappingNode {
		return def, []permissions.Issue{{Message: fmt.Sprintf("line %d: top level must be a mapping", root.Line)}}
	}

	var issues []permissions.Issue
	seen := make(map[permissions.Namespace]bool, 4)

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]
		ns := permissions.Namespace(keyNode.Value)

		if !ns.IsValid() {
			issues = append(issues, permissions.Issue{
				Key:     keyNode.Value,
				Message: fmt.Sprintf("line %d: unknown section (expected routes, groups, items or features)", keyNode.Line),
			})
			continue
		}
		if seen[ns] {
			issues = append(issues, permissions.Issue{
				Namespace: ns,
				Message:   fmt.Sprintf("line %d: section defined more than once", keyNode.Line),
			})
			continue
		}
		seen[ns] = true

		entries, nsIssues := l.section(ns, valueNode)
		issues = append(issues, nsIssues...)

		switch ns {
		case permissions.NamespaceRoutes:
			def.Routes = entries
		case permissions.NamespaceGroups:
			def.Groups = entries
		case permissions.NamespaceItems:
			def.Items = entries
		case permissions.NamespaceFeatures:
			def.Features = entries
		}
	}

	return def, issues
}

func (l *Loader) section(ns permissions.Namespace, node *yaml.Node) ([]permissions.EntryDefinition, []permissions.Issue) {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, []permissions.Issue{{
			Namespace: ns,
			Message:   fmt.Sprintf("line %d: section must be a mapping of key to roles", node.Line),
		}}
	}

	var issues []permissions.Issue
	entries := make([]permissions.EntryDefinition, 0, len(node.Content)/2)
	lines := make(map[string]int, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, rolesNode := node.Content[i], node.Content[i+1]
		key := keyNode.Value

		if first, dup := lines[key]; dup {
			issues = append(issues, permissions.Issue{
				Namespace: ns,
				Key:       key,
				Message:   fmt.Sprintf("line %d: duplicate key (first defined at line %d)", keyNode.Line, first),
			})
			continue
		}
		lines[key] = keyNode.Line

		if msg := l.checkKey(ns, key); msg != "" {
			issues = append(issues, permissions.Issue{
				Namespace: ns,
				Key:       key,
				Message:   fmt.Sprintf("line %d: %s", keyNode.Line, msg),
			})
			continue
		}

		roles, roleIssues := l.roles(ns, key, rolesNode)
		issues = append(issues, roleIssues...)
		entries = append(entries, permissions.EntryDefinition{Key: key, Roles: roles})
	}

	return entries, issues
}

func (l *Loader) checkKey(ns permissions.Namespace, key string) string {
	if strings.TrimSpace(key) == "" {
		return "empty key"
	}
	if strings.ContainsFunc(key, unicode.IsSpace) {
		return "key must not contain whitespace"
	}

	if ns.PathShaped() {
		if err := l.validate.Var(key, "startswith=/"); err != nil {
			return "path key must start with '/'"
		}
		// caminhos consultados são normalizados; uma chave fora dessa forma nunca casaria
		if permissions.NormalizePath(key) != key {
			return "path key must be normalized (no trailing '/', '?' or '#')"
		}
		return ""
	}

	if err := l.validate.Var(key, "excludesall=/:"); err != nil {
		return "key must not contain '/' or ':'"
	}
	return ""
}

func (l *Loader) roles(ns permissions.Namespace, key string, node *yaml.Node) ([]entities.Role, []permissions.Issue) {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, []permissions.Issue{{
			Namespace: ns,
			Key:       key,
			Message:   fmt.Sprintf("line %d: roles must be a list", node.Line),
		}}
	}

	var issues []permissions.Issue
	roles := make([]entities.Role, 0, len(node.Content))

	for _, item := range node.Content {
		name := strings.TrimSpace(item.Value)

		if item.Kind != yaml.ScalarNode || l.validate.Var(name, "required,role") != nil {
			issues = append(issues, permissions.Issue{
				Namespace: ns,
				Key:       key,
				Message:   fmt.Sprintf("line %d: unknown role %q", item.Line, item.Value),
			})
			continue
		}

		role := entities.Role(name)
		if role.IsBypass() {
			l.logger.Warn("bypass role listed in permission entry; ignoring",
				"namespace", string(ns),
				"key", key,
				"role", string(role),
				"line", item.Line,
			)
			continue
		}
		roles = append(roles, role)
	}

	return roles, issues
}
