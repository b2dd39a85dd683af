package entities

import "time"

// DenialReason classifica por que um guard negou a navegação
type DenialReason string

const (
	DenialUnauthenticated DenialReason = "unauthenticated"
	DenialUnauthorized    DenialReason = "unauthorized"
	DenialNoPharmacy      DenialReason = "no_pharmacy"
)

// Denial registra uma navegação negada para auditoria
type Denial struct {
	ID             string
	PrincipalID    string // vazio para principais anônimos
	PrincipalEmail string // vazio quando o token não traz email
	Role           Role
	PharmacyID     string
	AttemptedRoute string
	Guard          string
	Reason         DenialReason
	OccurredAt     time.Time
}
