package entity

import (
	"time"

	"github.com/lib/pq"
)

// Capability names an action a user may perform on a case.
type Capability string

const (
	CapabilityVer    Capability = "ver"
	CapabilityEditar Capability = "editar"
)

// Allows reports whether holding c satisfies the required capability.
// editar subsumes ver.
func (c Capability) Allows(required Capability) bool {
	if c == required {
		return true
	}
	return c == CapabilityEditar && required == CapabilityVer
}

// LegalCase is the case a drafting session or conversation may reference.
// The session core only reads it for ownership and permission checks.
type LegalCase struct {
	ID         string         `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID    string         `json:"owner_id" gorm:"type:uuid;index;not null"`
	Caratula   string         `json:"caratula" gorm:"type:text;not null"`
	Expediente string         `json:"expediente" gorm:"type:varchar(64)"`
	Etiquetas  pq.StringArray `json:"etiquetas,omitempty" gorm:"type:text[]"`
	CreatedAt  time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

func (LegalCase) TableName() string {
	return "legal_cases"
}

// CasePermission grants one user one capability on one case.
type CasePermission struct {
	ID         string     `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CaseID     string     `json:"case_id" gorm:"type:uuid;uniqueIndex:idx_case_perm,priority:1;not null"`
	UserID     string     `json:"user_id" gorm:"type:uuid;uniqueIndex:idx_case_perm,priority:2;not null"`
	Capability Capability `json:"capability" gorm:"type:varchar(16);not null"`
	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

func (CasePermission) TableName() string {
	return "case_permissions"
}
