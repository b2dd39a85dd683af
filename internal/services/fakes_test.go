package services_test

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/rafabene/pharmacy-authz/internal/domain/entities"
	"github.com/rafabene/pharmacy-authz/internal/domain/permissions"
	"github.com/rafabene/pharmacy-authz/internal/domain/ports"
	"github.com/rafabene/pharmacy-authz/internal/domain/repositories"
	"github.com/rafabene/pharmacy-authz/internal/services"
)

var testPaths = services.RedirectPaths{
	Login:        "/login",
	AccessDenied: "/access-denied",
	TenantSelect: "/select-pharmacy",
}

func testTable() *permissions.Table {
	entry := func(key string, roles ...entities.Role) permissions.EntryDefinition {
		return permissions.EntryDefinition{Key: key, Roles: roles}
	}
	return permissions.MustNewTable(permissions.Definition{
		Routes: []permissions.EntryDefinition{
			entry("/dashboard", entities.RolePharmacyManager, entities.RolePharmacyStaff, entities.RolePharmacyInventoryManager),
			entry("/purchases", entities.RolePharmacyInventoryManager),
			entry("/patients", entities.RolePharmacyManager),
			entry("/patients/:id", entities.RolePharmacyManager, entities.RolePharmacyStaff),
			entry("/payroll"),
			entry("/platform", entities.RoleSuperAdmin, entities.RoleSupportAdmin, entities.RoleSalesAdmin, entities.RoleFinanceAdmin),
			entry("/platform/finance", entities.RoleSuperAdmin, entities.RoleFinanceAdmin),
		},
		Groups: []permissions.EntryDefinition{
			entry("sales", entities.RolePharmacyManager, entities.RolePharmacyStaff),
		},
		Items: []permissions.EntryDefinition{
			entry("/staff/:id", entities.RolePharmacyManager),
		},
		Features: []permissions.EntryDefinition{
			entry("staff.tabs.risk", entities.RolePharmacyManager),
		},
	})
}

func principal(id string, role entities.Role, pharmacyID string) entities.Principal {
	return entities.Principal{ID: id, Role: role, PharmacyID: pharmacyID}
}

// spyGuard conta as invocações e devolve uma decisão fixa
type spyGuard struct {
	calls    int
	decision services.Decision
}

func (g *spyGuard) Check(services.Navigation) services.Decision {
	g.calls++
	return g.decision
}

type navigatorCall struct {
	method         string
	path           string
	query          url.Values
	returnURL      string
	attemptedRoute string
}

type fakeNavigator struct {
	calls []navigatorCall
}

func (n *fakeNavigator) NavigateTo(path string, query url.Values) {
	n.calls = append(n.calls, navigatorCall{method: "NavigateTo", path: path, query: query})
}

func (n *fakeNavigator) RedirectToLogin(returnURL string) {
	n.calls = append(n.calls, navigatorCall{method: "RedirectToLogin", returnURL: returnURL})
}

func (n *fakeNavigator) RedirectToAccessDenied(attemptedRoute, returnURL string) {
	n.calls = append(n.calls, navigatorCall{method: "RedirectToAccessDenied", attemptedRoute: attemptedRoute, returnURL: returnURL})
}

type fakeRecorder struct {
	mu      sync.Mutex
	denials []entities.Denial
}

func (r *fakeRecorder) RecordDenial(_ context.Context, d entities.Denial) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.denials = append(r.denials, d)
}

func (r *fakeRecorder) Denials() []entities.Denial {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entities.Denial(nil), r.denials...)
}

// blockingRecorder segura cada gravação até Release
type blockingRecorder struct {
	fakeRecorder
	Started chan struct{}
	release chan struct{}
	once    sync.Once
	ctxErrs []error
}

func newBlockingRecorder() *blockingRecorder {
	return &blockingRecorder{
		Started: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
}

func (r *blockingRecorder) RecordDenial(ctx context.Context, d entities.Denial) {
	r.Started <- struct{}{}
	<-r.release

	r.mu.Lock()
	r.ctxErrs = append(r.ctxErrs, ctx.Err())
	r.mu.Unlock()
	r.fakeRecorder.RecordDenial(ctx, d)
}

func (r *blockingRecorder) Release() {
	r.once.Do(func() { close(r.release) })
}

func (r *blockingRecorder) ContextErrors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.ctxErrs...)
}

type fakeMetrics struct {
	mu        sync.Mutex
	decisions map[string]int
	denials   map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{decisions: map[string]int{}, denials: map[string]int{}}
}

func (m *fakeMetrics) ObserveDecision(namespace string, allowed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	outcome := "deny"
	if allowed {
		outcome = "allow"
	}
	m.decisions[namespace+"/"+outcome]++
}

func (m *fakeMetrics) ObserveGuardDenial(guard, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.denials[guard+"/"+reason]++
}

type fakeDenialRepo struct {
	created   []*entities.Denial
	createErr error
	listed    repositories.DenialFilters
	cutoff    time.Time
	deleted   int64
}

func (r *fakeDenialRepo) Create(_ context.Context, d *entities.Denial) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, d)
	return nil
}

func (r *fakeDenialRepo) List(_ context.Context, filters repositories.DenialFilters) ([]*entities.Denial, error) {
	r.listed = filters
	return r.created, nil
}

func (r *fakeDenialRepo) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.cutoff = cutoff
	if r.deleted < 0 {
		return 0, errors.New("db down")
	}
	return r.deleted, nil
}

type errorLogger struct {
	ports.NopLogger
	errors []string
}

func (l *errorLogger) Error(msg string, _ ...any) {
	l.errors = append(l.errors, msg)
}
