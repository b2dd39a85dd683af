package services_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/pharmacy-authz/internal/domain/entities"
	"github.com/rafabene/pharmacy-authz/internal/domain/permissions"
	"github.com/rafabene/pharmacy-authz/internal/services"
)

var _ = Describe("Guards", func() {
	var resolver *permissions.Resolver

	BeforeEach(func() {
		resolver = permissions.NewResolver(testTable())
	})

	Describe("RouteGuard", func() {
		var guard *services.RouteGuard

		BeforeEach(func() {
			guard = services.NewRouteGuard(resolver, testPaths)
		})

		It("redireciona anônimo para o login preservando o caminho", func() {
			d := guard.Check(services.Navigation{Path: "/dashboard", Principal: entities.Anonymous()})

			Expect(d.Allowed).To(BeFalse())
			Expect(d.Reason).To(Equal(entities.DenialUnauthenticated))
			Expect(d.Redirect.Kind).To(Equal(services.RedirectLogin))
			Expect(d.Redirect.URL()).To(Equal("/login?returnUrl=%2Fdashboard"))
			Expect(d.Redirect.Query.Get(services.QueryReturnURL)).To(Equal("/dashboard"))
		})

		It("nega papel sem permissão com a rota tentada", func() {
			nav := services.Navigation{
				Path:      "/purchases/?tab=open",
				Principal: principal("u1", entities.RolePharmacyManager, "ph-1"),
			}
			d := guard.Check(nav)

			Expect(d.Allowed).To(BeFalse())
			Expect(d.Guard).To(Equal(services.GuardRoute))
			Expect(d.Reason).To(Equal(entities.DenialUnauthorized))
			Expect(d.Redirect.Path).To(Equal("/access-denied"))
			Expect(d.Redirect.Query.Get(services.QueryAttemptedRoute)).To(Equal("/purchases"))
			Expect(d.Redirect.Query.Get(services.QueryReturnURL)).To(Equal("/purchases/?tab=open"))
		})

		It("permite papel presente na entrada", func() {
			d := guard.Check(services.Navigation{Path: "/patients/7", Principal: principal("u1", entities.RolePharmacyStaff, "ph-1")})
			Expect(d.Allowed).To(BeTrue())
			Expect(d.Redirect).To(BeNil())
		})

		It("permite o papel de bypass em qualquer caminho", func() {
			d := guard.Check(services.Navigation{Path: "/sem/entrada", Principal: principal("owner", entities.RoleAccountOwner, "")})
			Expect(d.Allowed).To(BeTrue())
		})

		It("nega autenticado sem papel como não autorizado", func() {
			d := guard.Check(services.Navigation{Path: "/dashboard", Principal: principal("u1", "", "ph-1")})
			Expect(d.Allowed).To(BeFalse())
			Expect(d.Redirect.Kind).To(Equal(services.RedirectAccessDenied))
		})

		It("nega caminho vazio", func() {
			d := guard.Check(services.Navigation{Path: "", Principal: principal("u1", entities.RolePharmacyManager, "ph-1")})
			Expect(d.Allowed).To(BeFalse())
		})
	})

	Describe("PlatformGuard", func() {
		guard := services.NewPlatformGuard(testPaths)

		DescribeTable("decide por tier",
			func(role entities.Role, allowed bool) {
				d := guard.Check(services.Navigation{Path: "/platform", Principal: principal("u1", role, "")})
				Expect(d.Allowed).To(Equal(allowed))
			},
			Entry("super admin", entities.RoleSuperAdmin, true),
			Entry("finance admin", entities.RoleFinanceAdmin, true),
			Entry("dono da conta", entities.RoleAccountOwner, false),
			Entry("gerente", entities.RolePharmacyManager, false),
			Entry("papel desconhecido", entities.Role("ghost"), false),
		)

		It("redireciona anônimo para o login", func() {
			d := guard.Check(services.Navigation{Path: "/platform", Principal: entities.Anonymous()})
			Expect(d.Redirect.Kind).To(Equal(services.RedirectLogin))
			Expect(d.Guard).To(Equal(services.GuardPlatform))
		})
	})

	Describe("TenantGuard", func() {
		guard := services.NewTenantGuard(testPaths)

		It("exige farmácia ativa para o tier farmácia, inclusive o dono", func() {
			for _, role := range []entities.Role{entities.RoleAccountOwner, entities.RolePharmacyStaff} {
				d := guard.Check(services.Navigation{Path: "/dashboard", Principal: principal("u1", role, "")})
				Expect(d.Allowed).To(BeFalse())
				Expect(d.Reason).To(Equal(entities.DenialNoPharmacy))
				Expect(d.Redirect.URL()).To(Equal("/select-pharmacy?returnUrl=%2Fdashboard"))
			}
		})

		It("deixa passar tier plataforma e papéis desconhecidos", func() {
			Expect(guard.Check(services.Navigation{Path: "/x", Principal: principal("u1", entities.RoleSuperAdmin, "")}).Allowed).To(BeTrue())
			Expect(guard.Check(services.Navigation{Path: "/x", Principal: principal("u1", "", "")}).Allowed).To(BeTrue())
		})

		It("deixa passar com farmácia ativa", func() {
			d := guard.Check(services.Navigation{Path: "/x", Principal: principal("u1", entities.RolePharmacyStaff, "ph-1")})
			Expect(d.Allowed).To(BeTrue())
		})
	})

	Describe("Chain", func() {
		It("interrompe na primeira negação", func() {
			deny := services.Decision{Guard: "g1", Reason: entities.DenialUnauthorized}
			g1 := &spyGuard{decision: deny}
			g2 := &spyGuard{decision: services.Allow()}

			d := services.Chain(g1, g2).Check(services.Navigation{Path: "/x"})

			Expect(d).To(Equal(deny))
			Expect(g1.calls).To(Equal(1))
			Expect(g2.calls).To(BeZero())
		})

		It("executa todos os guards da esquerda para a direita quando permitem", func() {
			var order []string
			first := services.GuardFunc(func(services.Navigation) services.Decision {
				order = append(order, "first")
				return services.Allow()
			})
			second := services.GuardFunc(func(services.Navigation) services.Decision {
				order = append(order, "second")
				return services.Allow()
			})

			Expect(services.Chain(first, second).Check(services.Navigation{}).Allowed).To(BeTrue())
			Expect(order).To(Equal([]string{"first", "second"}))
		})

		It("cadeia vazia permite", func() {
			Expect(services.Chain().Check(services.Navigation{}).Allowed).To(BeTrue())
		})

		It("tenant antes da rota: sem farmácia nem chega ao guard de rota", func() {
			route := &spyGuard{decision: services.Allow()}
			d := services.Chain(services.NewTenantGuard(testPaths), route).Check(services.Navigation{
				Path:      "/dashboard",
				Principal: principal("u1", entities.RolePharmacyManager, ""),
			})

			Expect(d.Reason).To(Equal(entities.DenialNoPharmacy))
			Expect(route.calls).To(BeZero())
		})
	})

	Describe("Decision.Apply", func() {
		var nav *fakeNavigator

		BeforeEach(func() {
			nav = &fakeNavigator{}
		})

		It("não navega quando permitido", func() {
			services.Allow().Apply(nav)
			Expect(nav.calls).To(BeEmpty())
		})

		It("usa RedirectToLogin para anônimos", func() {
			guard := services.NewRouteGuard(resolver, testPaths)
			guard.Check(services.Navigation{Path: "/dashboard", Principal: entities.Anonymous()}).Apply(nav)

			Expect(nav.calls).To(HaveLen(1))
			Expect(nav.calls[0].method).To(Equal("RedirectToLogin"))
			Expect(nav.calls[0].returnURL).To(Equal("/dashboard"))
		})

		It("usa RedirectToAccessDenied com a rota tentada", func() {
			guard := services.NewRouteGuard(resolver, testPaths)
			guard.Check(services.Navigation{Path: "/payroll/", Principal: principal("u1", entities.RolePharmacyManager, "ph-1")}).Apply(nav)

			Expect(nav.calls).To(HaveLen(1))
			Expect(nav.calls[0].method).To(Equal("RedirectToAccessDenied"))
			Expect(nav.calls[0].attemptedRoute).To(Equal("/payroll"))
			Expect(nav.calls[0].returnURL).To(Equal("/payroll/"))
		})

		It("usa NavigateTo para a seleção de farmácia", func() {
			services.NewTenantGuard(testPaths).Check(services.Navigation{
				Path:      "/dashboard",
				Principal: principal("u1", entities.RolePharmacyStaff, ""),
			}).Apply(nav)

			Expect(nav.calls).To(HaveLen(1))
			Expect(nav.calls[0].method).To(Equal("NavigateTo"))
			Expect(nav.calls[0].path).To(Equal("/select-pharmacy"))
			Expect(nav.calls[0].query.Get(services.QueryReturnURL)).To(Equal("/dashboard"))
		})
	})
})
