package services_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/pharmacy-authz/internal/domain/entities"
	domainerrors "github.com/rafabene/pharmacy-authz/internal/domain/errors"
	"github.com/rafabene/pharmacy-authz/internal/domain/permissions"
	"github.com/rafabene/pharmacy-authz/internal/infrastructure/session/sessiontest"
	"github.com/rafabene/pharmacy-authz/internal/services"
)

var _ = Describe("AuthorizationService", func() {
	var (
		ctx      context.Context
		provider *sessiontest.SwitchableProvider
		metrics  *fakeMetrics
		service  *services.AuthorizationService
	)

	BeforeEach(func() {
		ctx = context.Background()
		provider = sessiontest.NewSwitchableProvider(principal("u1", entities.RolePharmacyManager, "ph-1"))
		metrics = newFakeMetrics()
		service = services.NewAuthorizationService(permissions.NewResolver(testTable()), provider, metrics, "/login")
	})

	It("responde pelo principal corrente em cada namespace", func() {
		Expect(service.CanAccessRoute(ctx, "/patients")).To(BeTrue())
		Expect(service.CanAccessRoute(ctx, "/purchases")).To(BeFalse())
		Expect(service.CanAccessGroup(ctx, "sales")).To(BeTrue())
		Expect(service.CanAccessItem(ctx, "/staff/12")).To(BeTrue())
		Expect(service.CanAccessFeature(ctx, "staff.tabs.risk")).To(BeTrue())

		Expect(metrics.decisions["routes/allow"]).To(Equal(1))
		Expect(metrics.decisions["routes/deny"]).To(Equal(1))
	})

	It("segue a troca de papel entre decisões", func() {
		Expect(service.CanAccessFeature(ctx, "staff.tabs.risk")).To(BeTrue())

		provider.Set(principal("u1", entities.RolePharmacyStaff, "ph-1"))
		Expect(service.CanAccessFeature(ctx, "staff.tabs.risk")).To(BeFalse())
	})

	It("nega tudo para anônimo, mesmo com papel de bypass sem identidade", func() {
		provider.Set(entities.Principal{Role: entities.RoleAccountOwner})

		Expect(service.CanAccessRoute(ctx, "/patients")).To(BeFalse())
		Expect(service.Evaluate(ctx, permissions.NamespaceRoutes, "/patients").Reason).To(Equal(permissions.ReasonNoRole))
	})

	It("avalia lote com um único snapshot", func() {
		result := service.EvaluateBatch(ctx, services.BatchRequest{
			Routes:   []string{"/patients", "/purchases", "/patients/3/"},
			Groups:   []string{"sales", "finance"},
			Items:    []string{"/staff/1"},
			Features: []string{"staff.tabs.risk", "payroll.run"},
		})

		Expect(provider.Snapshots()).To(Equal(1))
		Expect(result.Role).To(Equal(entities.RolePharmacyManager))
		Expect(result.Routes).To(Equal(map[string]bool{"/patients": true, "/purchases": false, "/patients/3/": true}))
		Expect(result.Groups).To(Equal(map[string]bool{"sales": true, "finance": false}))
		Expect(result.Items).To(Equal(map[string]bool{"/staff/1": true}))
		Expect(result.Features).To(Equal(map[string]bool{"staff.tabs.risk": true, "payroll.run": false}))
	})

	Describe("Authorize", func() {
		It("libera quem tem a permissão", func() {
			Expect(service.Authorize(ctx, permissions.NamespaceFeatures, "staff.tabs.risk")).To(Succeed())
		})

		It("classifica cada negação pelo erro de domínio", func() {
			provider.Set(entities.Anonymous())
			err := service.Authorize(ctx, permissions.NamespaceFeatures, "staff.tabs.risk")
			Expect(errors.Is(err, domainerrors.ErrUnauthenticated)).To(BeTrue())

			provider.Set(principal("u1", entities.RolePharmacyManager, ""))
			err = service.Authorize(ctx, permissions.NamespaceFeatures, "staff.tabs.risk")
			Expect(errors.Is(err, domainerrors.ErrNoPharmacy)).To(BeTrue())

			provider.Set(principal("u1", entities.RolePharmacyStaff, "ph-1"))
			err = service.Authorize(ctx, permissions.NamespaceFeatures, "staff.tabs.risk")
			Expect(errors.Is(err, domainerrors.ErrForbidden)).To(BeTrue())

			var domainErr *domainerrors.DomainError
			Expect(errors.As(err, &domainErr)).To(BeTrue())
			Expect(domainErr.Type).To(Equal(domainerrors.ProblemTypeForbidden))
		})

		It("não exige farmácia do tier plataforma", func() {
			provider.Set(principal("u9", entities.RoleSuperAdmin, ""))
			Expect(service.Authorize(ctx, permissions.NamespaceRoutes, "/platform/finance")).To(Succeed())
		})
	})

	DescribeTable("rota inicial",
		func(p entities.Principal, role entities.Role, path string) {
			provider.Set(p)
			gotRole, gotPath := service.HomeRoute(ctx)
			Expect(gotRole).To(Equal(role))
			Expect(gotPath).To(Equal(path))
		},
		Entry("atendente", principal("u1", entities.RolePharmacyStaff, "ph-1"), entities.RolePharmacyStaff, "/invoices"),
		Entry("estoque", principal("u1", entities.RolePharmacyInventoryManager, "ph-1"), entities.RolePharmacyInventoryManager, "/inventory"),
		Entry("suporte", principal("u1", entities.RoleSupportAdmin, ""), entities.RoleSupportAdmin, "/platform/support"),
		Entry("anônimo", entities.Anonymous(), entities.Role(""), "/login"),
	)
})
