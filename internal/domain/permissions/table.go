package permissions

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/rafabene/pharmacy-authz/internal/domain/entities"
	domainerrors "github.com/rafabene/pharmacy-authz/internal/domain/errors"
)

// Namespace identifica um dos quatro espaços de chaves da tabela
type Namespace string

const (
	NamespaceRoutes   Namespace = "routes"
	NamespaceGroups   Namespace = "groups"
	NamespaceItems    Namespace = "items"
	NamespaceFeatures Namespace = "features"
)

// Namespaces retorna os namespaces na ordem canônica
func Namespaces() []Namespace {
	return []Namespace{NamespaceRoutes, NamespaceGroups, NamespaceItems, NamespaceFeatures}
}

// PathShaped indica se as chaves do namespace são caminhos (com casamento por padrão)
func (n Namespace) PathShaped() bool {
	return n == NamespaceRoutes || n == NamespaceItems
}

// IsValid verifica se o namespace é conhecido
func (n Namespace) IsValid() bool {
	switch n {
	case NamespaceRoutes, NamespaceGroups, NamespaceItems, NamespaceFeatures:
		return true
	}
	return false
}

// EntryDefinition é uma entrada ainda não validada
type EntryDefinition struct {
	Key   string
	Roles []entities.Role
}

// Definition descreve a tabela completa; a ordem das entradas é preservada
type Definition struct {
	Routes   []EntryDefinition
	Groups   []EntryDefinition
	Items    []EntryDefinition
	Features []EntryDefinition
}

func (d Definition) entries(ns Namespace) []EntryDefinition {
	switch ns {
	case NamespaceRoutes:
		return d.Routes
	case NamespaceGroups:
		return d.Groups
	case NamespaceItems:
		return d.Items
	case NamespaceFeatures:
		return d.Features
	}
	return nil
}

// Entry é uma entrada validada: chave -> conjunto de papéis permitidos
type Entry struct {
	key     string
	roles   map[entities.Role]struct{}
	pattern *Pattern // nil para chaves exatas
}

// Key retorna a chave do recurso
func (e Entry) Key() string {
	return e.key
}

// IsPattern indica se a chave contém segmentos ":param"
func (e Entry) IsPattern() bool {
	return e.pattern != nil
}

// Allows verifica se o papel pertence ao conjunto da entrada
func (e Entry) Allows(role entities.Role) bool {
	_, ok := e.roles[role]
	return ok
}

// Roles retorna os papéis permitidos em ordem alfabética
func (e Entry) Roles() []entities.Role {
	roles := make([]entities.Role, 0, len(e.roles))
	for role := range e.roles {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

func (e Entry) sameRoles(other Entry) bool {
	if len(e.roles) != len(other.roles) {
		return false
	}
	for role := range e.roles {
		if !other.Allows(role) {
			return false
		}
	}
	return true
}

type namespaceTable struct {
	entries  []Entry
	index    map[string]int
	patterns []int // índices das entradas com padrão, em ordem de inserção
}

// Table é a tabela de permissões imutável.
// É construída uma vez na inicialização e pode ser lida concorrentemente sem locks.
type Table struct {
	namespaces map[Namespace]*namespaceTable
}

// Issue descreve um problema encontrado na validação da tabela
type Issue struct {
	Namespace Namespace
	Key       string
	Message   string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s[%q]: %s", i.Namespace, i.Key, i.Message)
}

// ValidationError agrega todos os problemas de uma definição inválida
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	lines := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		lines[i] = issue.String()
	}
	return fmt.Sprintf("invalid permission table (%d issues): %s", len(e.Issues), strings.Join(lines, "; "))
}

func (e *ValidationError) Unwrap() error {
	return domainerrors.ErrInvalidPermissionTable
}

// NewTable valida a definição e constrói a tabela.
// Regras: chaves únicas por namespace, papéis conhecidos, papel de bypass
// ausente dos conjuntos, padrões compiláveis e nenhum par de padrões do mesmo
// namespace que case o mesmo caminho com conjuntos de papéis diferentes.
func NewTable(def Definition) (*Table, error) {
	t := &Table{namespaces: make(map[Namespace]*namespaceTable, 4)}
	var issues []Issue

	for _, ns := range Namespaces() {
		nt, nsIssues := buildNamespace(ns, def.entries(ns))
		t.namespaces[ns] = nt
		issues = append(issues, nsIssues...)
	}

	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	return t, nil
}

// MustNewTable é como NewTable mas entra em pânico em caso de erro.
// Uso restrito a tabelas literais conhecidas (ex.: testes).
func MustNewTable(def Definition) *Table {
	t, err := NewTable(def)
	if err != nil {
		panic(err)
	}
	return t
}

func buildNamespace(ns Namespace, defs []EntryDefinition) (*namespaceTable, []Issue) {
	nt := &namespaceTable{
		entries: make([]Entry, 0, len(defs)),
		index:   make(map[string]int, len(defs)),
	}
	var issues []Issue

	for _, def := range defs {
		if def.Key == "" {
			issues = append(issues, Issue{Namespace: ns, Key: def.Key, Message: "empty key"})
			continue
		}
		if _, dup := nt.index[def.Key]; dup {
			issues = append(issues, Issue{Namespace: ns, Key: def.Key, Message: "duplicate key"})
			continue
		}

		entry := Entry{key: def.Key, roles: make(map[entities.Role]struct{}, len(def.Roles))}
		for _, role := range def.Roles {
			switch {
			case role.IsBypass():
				issues = append(issues, Issue{Namespace: ns, Key: def.Key, Message: fmt.Sprintf("bypass role %q must not be listed", role)})
			case !role.IsValid():
				issues = append(issues, Issue{Namespace: ns, Key: def.Key, Message: fmt.Sprintf("unknown role %q", role)})
			default:
				entry.roles[role] = struct{}{}
			}
		}

		if ns.PathShaped() && IsPatternKey(def.Key) {
			pattern, err := CompilePattern(def.Key)
			if err != nil {
				issues = append(issues, Issue{Namespace: ns, Key: def.Key, Message: err.Error()})
				continue
			}
			entry.pattern = pattern
		}

		nt.index[def.Key] = len(nt.entries)
		if entry.pattern != nil {
			nt.patterns = append(nt.patterns, len(nt.entries))
		}
		nt.entries = append(nt.entries, entry)
	}

	issues = append(issues, overlappingPatterns(ns, nt)...)
	return nt, issues
}

// overlappingPatterns rejeita padrões ambíguos: com eles o resultado dependeria
// da ordem de iteração da tabela.
func overlappingPatterns(ns Namespace, nt *namespaceTable) []Issue {
	var issues []Issue
	for i, a := range nt.patterns {
		for _, b := range nt.patterns[i+1:] {
			first, second := nt.entries[a], nt.entries[b]
			if first.pattern.Overlaps(second.pattern) && !first.sameRoles(second) {
				issues = append(issues, Issue{
					Namespace: ns,
					Key:       second.key,
					Message:   fmt.Sprintf("pattern overlaps %q with a different role set", first.key),
				})
			}
		}
	}
	return issues
}

// Lookup busca uma chave por igualdade exata
func (t *Table) Lookup(ns Namespace, key string) (Entry, bool) {
	nt := t.namespace(ns)
	if nt == nil {
		return Entry{}, false
	}
	i, ok := nt.index[key]
	if !ok {
		return Entry{}, false
	}
	return nt.entries[i], true
}

// MatchPattern retorna a primeira entrada com padrão que casa com o caminho
func (t *Table) MatchPattern(ns Namespace, path string) (Entry, bool) {
	nt := t.namespace(ns)
	if nt == nil || !ns.PathShaped() {
		return Entry{}, false
	}
	for _, i := range nt.patterns {
		if nt.entries[i].pattern.Match(path) {
			return nt.entries[i], true
		}
	}
	return Entry{}, false
}

// Entries retorna as entradas do namespace em ordem de inserção
func (t *Table) Entries(ns Namespace) []Entry {
	nt := t.namespace(ns)
	if nt == nil {
		return nil
	}
	entries := make([]Entry, len(nt.entries))
	copy(entries, nt.entries)
	return entries
}

// Len retorna a quantidade de entradas do namespace
func (t *Table) Len(ns Namespace) int {
	nt := t.namespace(ns)
	if nt == nil {
		return 0
	}
	return len(nt.entries)
}

// Fingerprint retorna um hash BLAKE2b-256 da forma canônica da tabela.
// Duas implantações com a mesma tabela produzem o mesmo fingerprint.
func (t *Table) Fingerprint() string {
	var b strings.Builder
	for _, ns := range Namespaces() {
		for _, entry := range t.Entries(ns) {
			roles := entry.Roles()
			names := make([]string, len(roles))
			for i, role := range roles {
				names[i] = string(role)
			}
			b.WriteString(string(ns))
			b.WriteByte(0)
			b.WriteString(entry.key)
			b.WriteByte(0)
			b.WriteString(strings.Join(names, ","))
			b.WriteByte('\n')
		}
	}
	sum := blake2b.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func (t *Table) namespace(ns Namespace) *namespaceTable {
	if t == nil {
		return nil
	}
	return t.namespaces[ns]
}
