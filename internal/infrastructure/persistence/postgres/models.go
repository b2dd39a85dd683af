package postgres

// DenialModel é o model GORM para a trilha de negações
type DenialModel struct {
	ID             string `gorm:"type:uuid;primary_key"`
	PrincipalID    string `gorm:"type:varchar(255);index"`
	PrincipalEmail string `gorm:"type:varchar(255)"`
	Role           string `gorm:"type:varchar(50);index"`
	PharmacyID     string `gorm:"type:varchar(255)"`
	AttemptedRoute string `gorm:"type:varchar(2048);not null"`
	Guard          string `gorm:"type:varchar(100);not null"`
	Reason         string `gorm:"type:varchar(50);not null"`
	OccurredAt     int64  `gorm:"not null;index"`
}

func (DenialModel) TableName() string {
	return "access_denials"
}
