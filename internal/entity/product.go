package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID   int64
	Name string
}

// Product is a marketplace listing. Livestock carry the tag/vaccination
// fields; produce listings leave them empty.
type Product struct {
	ID                   int64
	Name                 string
	Description          string
	Price                decimal.Decimal
	Stock                int
	CategoryID           int64
	ImageURL             string
	TagNumber            string
	IsVaccinated         bool
	LastVaccinationDate  *time.Time
	HealthCertificateURL string
	VetVerifiedBy        string
}

// VetVerified reports whether a veterinary officer has signed off on the
// listing's health record.
func (p Product) VetVerified() bool { return p.VetVerifiedBy != "" }
