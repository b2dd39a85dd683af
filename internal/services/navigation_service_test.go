package services_test

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/pharmacy-authz/internal/domain/entities"
	"github.com/rafabene/pharmacy-authz/internal/domain/permissions"
	"github.com/rafabene/pharmacy-authz/internal/domain/ports"
	"github.com/rafabene/pharmacy-authz/internal/domain/valueobjects"
	"github.com/rafabene/pharmacy-authz/internal/infrastructure/session/sessiontest"
	"github.com/rafabene/pharmacy-authz/internal/services"
)

var _ = Describe("NavigationService", func() {
	var (
		ctx      context.Context
		provider *sessiontest.SwitchableProvider
		recorder *fakeRecorder
		metrics  *fakeMetrics
		service  *services.NavigationService
	)

	newService := func(opts ...services.NavigationOption) *services.NavigationService {
		return services.NewNavigationService(
			permissions.NewResolver(testTable()),
			provider,
			testPaths,
			recorder,
			metrics,
			ports.NopLogger{},
			opts...,
		)
	}

	BeforeEach(func() {
		ctx = context.Background()
		provider = sessiontest.NewSwitchableProvider(entities.Anonymous())
		recorder = &fakeRecorder{}
		metrics = newFakeMetrics()
		service = newService()
	})

	It("redireciona anônimo em /dashboard para o login, não para acesso negado", func() {
		d := service.Check(ctx, "/dashboard")

		Expect(d.Allowed).To(BeFalse())
		Expect(d.Redirect.Kind).To(Equal(services.RedirectLogin))
		Expect(d.Redirect.Path).To(Equal("/login"))
		Expect(d.Redirect.Query.Get("returnUrl")).To(Equal("/dashboard"))
	})

	It("lê a sessão uma única vez por decisão", func() {
		provider.Set(principal("u1", entities.RolePharmacyManager, "ph-1"))
		provider.OnSnapshot(func() { provider.Set(entities.Anonymous()) })

		d := service.Check(ctx, "/patients")

		Expect(d.Allowed).To(BeTrue())
		Expect(provider.Snapshots()).To(Equal(1))
	})

	It("registra a negação na auditoria e nas métricas", func() {
		manager := principal("u1", entities.RolePharmacyManager, "ph-1")
		email, err := valueobjects.NewEmail("gerente@farmacia.com")
		Expect(err).NotTo(HaveOccurred())
		manager.Email = email
		provider.Set(manager)

		d := service.Check(ctx, "/purchases?x=1")
		Expect(d.Allowed).To(BeFalse())

		service.Wait()
		denials := recorder.Denials()
		Expect(denials).To(HaveLen(1))
		Expect(denials[0].PrincipalID).To(Equal("u1"))
		Expect(denials[0].PrincipalEmail).To(Equal("gerente@farmacia.com"))
		Expect(denials[0].Role).To(Equal(entities.RolePharmacyManager))
		Expect(denials[0].PharmacyID).To(Equal("ph-1"))
		Expect(denials[0].AttemptedRoute).To(Equal("/purchases"))
		Expect(denials[0].Guard).To(Equal(services.GuardRoute))
		Expect(denials[0].Reason).To(Equal(entities.DenialUnauthorized))
		Expect(denials[0].OccurredAt).NotTo(BeZero())

		Expect(metrics.decisions["navigation/deny"]).To(Equal(1))
		Expect(metrics.denials["route/unauthorized"]).To(Equal(1))
	})

	Context("auditoria lenta", func() {
		var slow *blockingRecorder

		BeforeEach(func() {
			slow = newBlockingRecorder()
			service = services.NewNavigationService(
				permissions.NewResolver(testTable()),
				provider,
				testPaths,
				slow,
				metrics,
				ports.NopLogger{},
				services.WithAuditBacklog(1),
				services.WithAuditTimeout(time.Minute),
			)
		})

		AfterEach(func() {
			slow.Release()
			service.Wait()
		})

		It("decide sem esperar pela gravação", func() {
			start := time.Now()
			d := service.Check(ctx, "/dashboard")

			Expect(d.Allowed).To(BeFalse())
			Expect(time.Since(start)).To(BeNumerically("<", 500*time.Millisecond))
			Eventually(slow.Started).Should(Receive())

			slow.Release()
			service.Wait()
			Expect(slow.Denials()).To(HaveLen(1))
		})

		It("descarta negações quando o limite de gravações está cheio", func() {
			Expect(service.Check(ctx, "/dashboard").Allowed).To(BeFalse())
			Eventually(slow.Started).Should(Receive())

			Expect(service.Check(ctx, "/patients").Allowed).To(BeFalse())
			Expect(metrics.denials["tenant/unauthenticated"]).To(Equal(2))

			slow.Release()
			service.Wait()
			Expect(slow.Denials()).To(HaveLen(1))
		})

		It("não herda o cancelamento da requisição", func() {
			reqCtx, cancel := context.WithCancel(ctx)
			Expect(service.Check(reqCtx, "/dashboard").Allowed).To(BeFalse())
			cancel()

			Eventually(slow.Started).Should(Receive())
			slow.Release()
			service.Wait()
			Expect(slow.ContextErrors()).To(ConsistOf(BeNil()))
		})
	})

	It("não audita navegações permitidas", func() {
		provider.Set(principal("u1", entities.RolePharmacyManager, "ph-1"))

		Expect(service.Check(ctx, "/dashboard").Allowed).To(BeTrue())
		Expect(recorder.Denials()).To(BeEmpty())
		Expect(metrics.decisions["navigation/allow"]).To(Equal(1))
	})

	Context("área da plataforma", func() {
		It("permite admin da plataforma sem farmácia", func() {
			provider.Set(principal("a1", entities.RoleFinanceAdmin, ""))
			Expect(service.Check(ctx, "/platform/finance").Allowed).To(BeTrue())
		})

		It("nega admin fora da própria área pela tabela de rotas", func() {
			provider.Set(principal("a1", entities.RoleSupportAdmin, ""))
			d := service.Check(ctx, "/platform/finance")
			Expect(d.Allowed).To(BeFalse())
			Expect(d.Guard).To(Equal(services.GuardRoute))
		})

		It("nega o dono da conta no guard da plataforma", func() {
			provider.Set(principal("o1", entities.RoleAccountOwner, "ph-1"))
			d := service.Check(ctx, "/platform")
			Expect(d.Allowed).To(BeFalse())
			Expect(d.Guard).To(Equal(services.GuardPlatform))
		})

		It("não confunde prefixos parecidos", func() {
			provider.Set(principal("a1", entities.RoleSuperAdmin, ""))
			d := service.Check(ctx, "/platformer")
			Expect(d.Allowed).To(BeFalse())
			Expect(d.Guard).To(Equal(services.GuardRoute))
		})
	})

	Context("área da farmácia", func() {
		It("exige farmácia ativa antes da tabela", func() {
			provider.Set(principal("u1", entities.RolePharmacyManager, ""))
			d := service.Check(ctx, "/dashboard")
			Expect(d.Guard).To(Equal(services.GuardTenant))
			Expect(d.Redirect.Path).To(Equal("/select-pharmacy"))
		})

		It("permite o dono com farmácia ativa em qualquer rota", func() {
			provider.Set(principal("o1", entities.RoleAccountOwner, "ph-1"))
			Expect(service.Check(ctx, "/payroll").Allowed).To(BeTrue())
			Expect(service.Check(ctx, "/nao/existe").Allowed).To(BeTrue())
		})
	})

	It("libera os destinos de redirecionamento", func() {
		for _, path := range []string{"/login", "/access-denied/", "/select-pharmacy?returnUrl=%2Fdashboard"} {
			Expect(service.Check(ctx, path).Allowed).To(BeTrue(), path)
		}
		Expect(recorder.Denials()).To(BeEmpty())
	})

	It("aceita cadeias customizadas por prefixo", func() {
		spy := &spyGuard{decision: services.Allow()}
		service = newService(services.WithChain("/reports/", spy), services.WithPublicPaths("/help"))
		provider.Set(principal("u1", entities.RolePharmacyStaff, "ph-1"))

		Expect(service.Check(ctx, "/reports/monthly").Allowed).To(BeTrue())
		Expect(spy.calls).To(Equal(1))
		Expect(service.Check(ctx, "/help").Allowed).To(BeTrue())
	})

	It("aceita cadeia padrão customizada", func() {
		spy := &spyGuard{decision: services.Allow()}
		service = newService(services.WithDefaultChain(spy))

		Expect(service.Check(ctx, "/qualquer").Allowed).To(BeTrue())
		Expect(spy.calls).To(Equal(1))
	})

	It("Navigate aplica o redirecionamento no host", func() {
		nav := &fakeNavigator{}

		Expect(service.Navigate(ctx, "/dashboard", nav)).To(BeFalse())
		Expect(nav.calls).To(HaveLen(1))
		Expect(nav.calls[0].method).To(Equal("RedirectToLogin"))
		Expect(nav.calls[0].returnURL).To(Equal("/dashboard"))
	})

	It("decide concorrentemente sem interferência", func() {
		provider.Set(principal("u1", entities.RolePharmacyStaff, "ph-1"))

		var wg sync.WaitGroup
		results := make([]bool, 64)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer GinkgoRecover()
				defer wg.Done()
				results[i] = service.Check(ctx, "/patients/1").Allowed
			}(i)
		}
		wg.Wait()

		Expect(results).To(HaveEach(BeTrue()))
	})
})
