package permissions

import (
	"fmt"
	"regexp"
	"strings"

	domainerrors "github.com/rafabene/pharmacy-authz/internal/domain/errors"
)

const paramPrefix = ":"

// segmentWildcard casa exatamente um segmento de caminho
const segmentWildcard = `[^/]+`

// Pattern é uma chave de rota compilada.
// Cada parâmetro ":nome" consome exatamente um segmento e os demais caracteres
// casam literalmente, portanto o casamento é linear no tamanho do caminho.
type Pattern struct {
	key      string
	segments []string
	expr     *regexp.Regexp
}

// IsPatternKey verifica se a chave possui algum segmento ":param"
func IsPatternKey(key string) bool {
	for _, segment := range strings.Split(key, "/") {
		if strings.HasPrefix(segment, paramPrefix) {
			return true
		}
	}
	return false
}

// CompilePattern compila uma chave com segmentos ":param".
// Um parâmetro sem nome (":") ou com ":" no nome é inválido.
func CompilePattern(key string) (*Pattern, error) {
	segments := strings.Split(key, "/")
	parts := make([]string, len(segments))

	for i, segment := range segments {
		if !strings.HasPrefix(segment, paramPrefix) {
			parts[i] = regexp.QuoteMeta(segment)
			continue
		}

		name := segment[len(paramPrefix):]
		if name == "" || strings.Contains(name, paramPrefix) {
			return nil, fmt.Errorf("%w: %q segment %d", domainerrors.ErrMalformedPattern, key, i)
		}
		parts[i] = segmentWildcard
	}

	expr, err := regexp.Compile("^" + strings.Join(parts, "/") + "$")
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", domainerrors.ErrMalformedPattern, key, err)
	}

	return &Pattern{key: key, segments: segments, expr: expr}, nil
}

// Key retorna a chave original
func (p *Pattern) Key() string {
	return p.key
}

// Match verifica se o caminho concreto casa com o padrão.
// Caminhos concretos nunca contêm ":"; se contiverem, não casam.
func (p *Pattern) Match(path string) bool {
	if p == nil || strings.Contains(path, paramPrefix) {
		return false
	}
	return p.expr.MatchString(path)
}

// Overlaps verifica se existe algum caminho concreto que casa com ambos os padrões
func (p *Pattern) Overlaps(other *Pattern) bool {
	if p == nil || other == nil || len(p.segments) != len(other.segments) {
		return false
	}

	for i, segment := range p.segments {
		otherSegment := other.segments[i]
		switch {
		case isParam(segment) && isParam(otherSegment):
		case isParam(segment):
			// um parâmetro nunca casa segmento vazio
			if otherSegment == "" {
				return false
			}
		case isParam(otherSegment):
			if segment == "" {
				return false
			}
		case segment != otherSegment:
			return false
		}
	}
	return true
}

// Match verifica se patternKey casa com concretePath.
// Igualdade exata vence imediatamente. Barras finais são significativas aqui:
// "/patients" e "/patients/" são distintos; a normalização fica a cargo do chamador.
func Match(patternKey, concretePath string) bool {
	if patternKey == concretePath {
		return true
	}

	pattern, err := CompilePattern(patternKey)
	if err != nil {
		return false
	}
	return pattern.Match(concretePath)
}

func isParam(segment string) bool {
	return strings.HasPrefix(segment, paramPrefix)
}
