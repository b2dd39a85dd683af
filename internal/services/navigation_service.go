package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rafabene/pharmacy-authz/internal/domain/entities"
	"github.com/rafabene/pharmacy-authz/internal/domain/permissions"
	"github.com/rafabene/pharmacy-authz/internal/domain/ports"
)

// PlatformPrefix é a área restrita ao tier plataforma
const PlatformPrefix = "/platform"

const (
	defaultAuditBacklog = 128
	defaultAuditTimeout = 5 * time.Second
)

type prefixedGuard struct {
	prefix string
	guard  Guard
}

// NavigationService executa a cadeia de guards de cada navegação.
// O principal é lido uma única vez por decisão e repassado a todos os guards.
type NavigationService struct {
	principals ports.PrincipalProvider
	recorder   ports.DenialRecorder
	metrics    ports.Metrics
	logger     ports.Logger

	chains   []prefixedGuard // ordenadas do prefixo mais longo para o mais curto
	fallback Guard
	public   map[string]struct{}

	// gravações de auditoria rodam fora da decisão, limitadas por auditSlots
	auditSlots   chan struct{}
	auditTimeout time.Duration
	pending      sync.WaitGroup
}

// NavigationOption customiza o NavigationService
type NavigationOption func(*NavigationService)

// WithChain protege caminhos sob prefix com a cadeia informada
func WithChain(prefix string, guard Guard) NavigationOption {
	prefix = permissions.NormalizePath(prefix)
	return func(s *NavigationService) {
		for i := range s.chains {
			if s.chains[i].prefix == prefix {
				s.chains[i].guard = guard
				return
			}
		}
		s.chains = append(s.chains, prefixedGuard{prefix: prefix, guard: guard})
	}
}

// WithDefaultChain troca a cadeia usada quando nenhum prefixo casa
func WithDefaultChain(guard Guard) NavigationOption {
	return func(s *NavigationService) {
		s.fallback = guard
	}
}

// WithPublicPaths libera caminhos sem passar por guards (ex.: login, acesso negado)
func WithPublicPaths(paths ...string) NavigationOption {
	return func(s *NavigationService) {
		for _, p := range paths {
			if p = permissions.NormalizePath(p); p != "" {
				s.public[p] = struct{}{}
			}
		}
	}
}

// WithAuditBacklog limita as gravações de auditoria em andamento; excedentes são descartadas
func WithAuditBacklog(n int) NavigationOption {
	return func(s *NavigationService) {
		if n > 0 {
			s.auditSlots = make(chan struct{}, n)
		}
	}
}

// WithAuditTimeout define o prazo de cada gravação de auditoria
func WithAuditTimeout(d time.Duration) NavigationOption {
	return func(s *NavigationService) {
		if d > 0 {
			s.auditTimeout = d
		}
	}
}

// NewNavigationService cria o serviço com as cadeias padrão:
// área da plataforma: PlatformGuard, RouteGuard;
// demais caminhos: TenantGuard, RouteGuard.
// Os destinos de redirecionamento são públicos.
func NewNavigationService(
	resolver *permissions.Resolver,
	principals ports.PrincipalProvider,
	paths RedirectPaths,
	recorder ports.DenialRecorder,
	metrics ports.Metrics,
	logger ports.Logger,
	opts ...NavigationOption,
) *NavigationService {
	route := NewRouteGuard(resolver, paths)

	s := &NavigationService{
		principals: principals,
		recorder:   recorder,
		metrics:    metrics,
		logger:     logger,
		fallback:   Chain(NewTenantGuard(paths), route),
		public:     make(map[string]struct{}),

		auditSlots:   make(chan struct{}, defaultAuditBacklog),
		auditTimeout: defaultAuditTimeout,
	}

	defaults := []NavigationOption{
		WithChain(PlatformPrefix, Chain(NewPlatformGuard(paths), route)),
		WithPublicPaths(paths.Login, paths.AccessDenied, paths.TenantSelect),
	}
	for _, opt := range append(defaults, opts...) {
		opt(s)
	}

	sort.SliceStable(s.chains, func(i, j int) bool {
		return len(s.chains[i].prefix) > len(s.chains[j].prefix)
	})

	return s
}

// Check decide a navegação para path com um único snapshot do principal
func (s *NavigationService) Check(ctx context.Context, path string) Decision {
	nav := Navigation{Path: path, Principal: s.principals.Snapshot(ctx)}
	route := nav.AttemptedRoute()

	if _, ok := s.public[route]; ok {
		return Allow()
	}

	decision := s.guardFor(route).Check(nav)
	s.metrics.ObserveDecision("navigation", decision.Allowed)

	if !decision.Allowed {
		s.onDeny(ctx, nav, decision)
	}
	return decision
}

// Navigate decide e, na negação, aplica o redirecionamento no host.
// Retorna true quando a navegação pode prosseguir.
func (s *NavigationService) Navigate(ctx context.Context, path string, navigator ports.Navigator) bool {
	decision := s.Check(ctx, path)
	decision.Apply(navigator)
	return decision.Allowed
}

func (s *NavigationService) guardFor(route string) Guard {
	for _, c := range s.chains {
		if hasPathPrefix(route, c.prefix) {
			return c.guard
		}
	}
	return s.fallback
}

func hasPathPrefix(path, prefix string) bool {
	if prefix == "/" {
		return strings.HasPrefix(path, "/")
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func (s *NavigationService) onDeny(ctx context.Context, nav Navigation, decision Decision) {
	args := []any{
		"principal_id", nav.Principal.ID,
		"role", string(nav.Principal.Role),
		"route", nav.AttemptedRoute(),
		"guard", decision.Guard,
		"reason", string(decision.Reason),
	}
	if !nav.Principal.Email.IsZero() {
		args = append(args, "email", nav.Principal.Email.String())
	}
	s.logger.Info("navigation denied", args...)
	s.metrics.ObserveGuardDenial(decision.Guard, string(decision.Reason))

	s.record(ctx, entities.Denial{
		PrincipalID:    nav.Principal.ID,
		PrincipalEmail: nav.Principal.Email.String(),
		Role:           nav.Principal.Role,
		PharmacyID:     nav.Principal.PharmacyID,
		AttemptedRoute: nav.AttemptedRoute(),
		Guard:          decision.Guard,
		Reason:         decision.Reason,
		OccurredAt:     time.Now().UTC(),
	})
}

// record grava a negação em background; a decisão nunca espera pela auditoria
func (s *NavigationService) record(ctx context.Context, denial entities.Denial) {
	select {
	case s.auditSlots <- struct{}{}:
	default:
		s.logger.Warn("audit backlog full; dropping access denial",
			"principal_id", denial.PrincipalID,
			"route", denial.AttemptedRoute,
		)
		return
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer func() { <-s.auditSlots }()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.auditTimeout)
		defer cancel()
		s.recorder.RecordDenial(ctx, denial)
	}()
}

// Wait bloqueia até que as gravações de auditoria pendentes terminem
func (s *NavigationService) Wait() {
	s.pending.Wait()
}
