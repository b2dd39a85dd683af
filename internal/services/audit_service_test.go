package services_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/pharmacy-authz/internal/domain/entities"
	"github.com/rafabene/pharmacy-authz/internal/domain/repositories"
	"github.com/rafabene/pharmacy-authz/internal/services"
)

var _ = Describe("AuditService", func() {
	var (
		ctx     context.Context
		repo    *fakeDenialRepo
		logger  *errorLogger
		service *services.AuditService
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = &fakeDenialRepo{}
		logger = &errorLogger{}
		service = services.NewAuditService(repo, logger)
	})

	It("grava a negação preenchendo o horário", func() {
		service.RecordDenial(ctx, entities.Denial{PrincipalID: "u1", AttemptedRoute: "/payroll"})

		Expect(repo.created).To(HaveLen(1))
		Expect(repo.created[0].OccurredAt).NotTo(BeZero())
		Expect(logger.errors).To(BeEmpty())
	})

	It("loga e engole falhas de gravação", func() {
		repo.createErr = errors.New("db down")

		Expect(func() {
			service.RecordDenial(ctx, entities.Denial{PrincipalID: "u1"})
		}).NotTo(Panic())
		Expect(logger.errors).To(ConsistOf("failed to record access denial"))
	})

	It("repassa os filtros da listagem", func() {
		role := entities.RolePharmacyStaff
		filters := repositories.DenialFilters{Role: &role, Page: 2, PageSize: 10}

		_, err := service.ListDenials(ctx, filters)

		Expect(err).NotTo(HaveOccurred())
		Expect(repo.listed).To(Equal(filters))
	})

	It("remove registros anteriores à retenção", func() {
		repo.deleted = 3

		deleted, err := service.Purge(ctx, 24*time.Hour)

		Expect(err).NotTo(HaveOccurred())
		Expect(deleted).To(Equal(int64(3)))
		Expect(repo.cutoff).To(BeTemporally("~", time.Now().Add(-24*time.Hour), time.Minute))
	})

	It("propaga erro da remoção", func() {
		repo.deleted = -1

		_, err := service.Purge(ctx, time.Hour)
		Expect(err).To(HaveOccurred())
	})

	It("NopRecorder não faz nada", func() {
		Expect(func() {
			services.NopRecorder{}.RecordDenial(ctx, entities.Denial{})
		}).NotTo(Panic())
	})
})
