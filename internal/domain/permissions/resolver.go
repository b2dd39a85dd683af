package permissions

import (
	"strings"

	"github.com/rafabene/pharmacy-authz/internal/domain/entities"
)

// Reason explica como uma decisão foi tomada
type Reason string

const (
	ReasonNoRole         Reason = "no_role"
	ReasonBypass         Reason = "bypass_role"
	ReasonExactMatch     Reason = "exact_match"
	ReasonPatternMatch   Reason = "pattern_match"
	ReasonRoleNotAllowed Reason = "role_not_allowed"
	ReasonNoEntry        Reason = "no_entry"
)

// Evaluation é o resultado detalhado de uma decisão
type Evaluation struct {
	Namespace  Namespace
	Key        string // chave consultada, já normalizada
	Allowed    bool
	Reason     Reason
	MatchedKey string // chave da tabela que decidiu; vazia sem entrada
}

// Resolver decide acessos consultando uma tabela imutável.
// Não guarda estado mutável, então pode ser usado concorrentemente.
type Resolver struct {
	table *Table
}

// NewResolver cria um resolver sobre a tabela informada.
// Uma tabela nil nega tudo exceto o papel de bypass.
func NewResolver(table *Table) *Resolver {
	return &Resolver{table: table}
}

// CanAccessRoute decide o acesso a uma rota (caminho concreto ou chave)
func (r *Resolver) CanAccessRoute(role entities.Role, path string) bool {
	return r.Evaluate(NamespaceRoutes, role, path).Allowed
}

// CanAccessGroup decide o acesso a um grupo de navegação
func (r *Resolver) CanAccessGroup(role entities.Role, key string) bool {
	return r.Evaluate(NamespaceGroups, role, key).Allowed
}

// CanAccessItem decide o acesso a um item de navegação
func (r *Resolver) CanAccessItem(role entities.Role, path string) bool {
	return r.Evaluate(NamespaceItems, role, path).Allowed
}

// CanAccessFeature decide o acesso a uma funcionalidade de página
func (r *Resolver) CanAccessFeature(role entities.Role, key string) bool {
	return r.Evaluate(NamespaceFeatures, role, key).Allowed
}

// Evaluate aplica o algoritmo de decisão:
// sem papel nega; bypass permite antes de qualquer consulta; chaves de caminho
// são normalizadas; busca exata; busca por padrão (apenas caminhos); nega por padrão.
func (r *Resolver) Evaluate(ns Namespace, role entities.Role, key string) Evaluation {
	eval := Evaluation{Namespace: ns, Key: key}

	if role == "" {
		eval.Reason = ReasonNoRole
		return eval
	}

	if role.IsBypass() {
		eval.Allowed = true
		eval.Reason = ReasonBypass
		return eval
	}

	if ns.PathShaped() {
		key = NormalizePath(key)
		eval.Key = key
	}

	if entry, ok := r.table.Lookup(ns, key); ok {
		return decided(eval, entry, role, ReasonExactMatch)
	}

	if ns.PathShaped() {
		if entry, ok := r.table.MatchPattern(ns, key); ok {
			return decided(eval, entry, role, ReasonPatternMatch)
		}
	}

	eval.Reason = ReasonNoEntry
	return eval
}

func decided(eval Evaluation, entry Entry, role entities.Role, reason Reason) Evaluation {
	eval.MatchedKey = entry.Key()
	eval.Allowed = entry.Allows(role)
	eval.Reason = reason
	if !eval.Allowed {
		eval.Reason = ReasonRoleNotAllowed
	}
	return eval
}

// NormalizePath remove query string, fragmento e barras finais.
// A raiz continua "/".
func NormalizePath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return ""
	}

	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		return "/"
	}
	return trimmed
}
