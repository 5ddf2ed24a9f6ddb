package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the tenant boundary. Every CRM row carries the id of the user who
// created it (its owner key), and every query is scoped to that owner.
// Company A's rows are invisible to company B at the query level, not by a
// post-hoc check.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Company is an account the owner is selling into.
type Company struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Industry    string    `json:"industry"`
	Website     string    `json:"website"`
	Linkedin    string    `json:"linkedin"`
	Size        string    `json:"size"`
	Stage       string    `json:"stage"`
	Revenue     string    `json:"revenue"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Country     string    `json:"country"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Contact is a person the owner talks to. Contacts are referenced from Deals
// by id (see Deal.Contacts), never embedded.
type Contact struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Linkedin    string    `json:"linkedin"`
	Role        string    `json:"role"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Lead is an unqualified prospect. Company here is free text, not a Company
// reference — leads are captured before the account exists. Owner is a
// display label (e.g. the rep's name), distinct from OwnerID.
type Lead struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Linkedin    string    `json:"linkedin"`
	Role        string    `json:"role"`
	Company     string    `json:"company"`
	Owner       string    `json:"owner"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Deal is the one entity with a denormalized relation: Contacts is a raw
// array of Contact ids stored on the row itself (uuid[] in Postgres). Every
// other relation is a single nullable id. The model stores ids only — the
// resolver attaches summaries at read time, the store never persists them.
type Deal struct {
	ID          uuid.UUID   `json:"id"`
	OwnerID     uuid.UUID   `json:"owner_id"`
	Title       string      `json:"title"`
	CompanyID   *uuid.UUID  `json:"company_id"`
	LeadID      *uuid.UUID  `json:"lead_id"`
	Contacts    []uuid.UUID `json:"contacts"`
	Amount      float64     `json:"amount"`
	CloseDate   *time.Time  `json:"close_date"`
	DealType    string      `json:"deal_type"`
	Priority    string      `json:"priority"`
	Owner       string      `json:"owner"`
	Pipeline    string      `json:"pipeline"`
	Stage       string      `json:"stage"`
	Description string      `json:"description"`
	CreatedAt   time.Time   `json:"created_at"`
}

// List type values. Lowercase is canonical; input is normalized
// case-insensitively at the boundary.
const (
	ListTypeCompany = "company"
	ListTypeContact = "contact"
	ListTypeLead    = "lead"
)

// List access values.
const (
	ListAccessPublic  = "public"
	ListAccessPrivate = "private"
)

// List is a named collection of ids of a single declared entity type.
// Membership is an unordered uuid[] on the row (at most one occurrence of
// each id), toggled in place rather than kept in a join table. Version is
// bumped on every array write so concurrent toggles can't silently drop
// each other's updates.
type List struct {
	ID        uuid.UUID   `json:"id"`
	OwnerID   uuid.UUID   `json:"owner_id"`
	Name      string      `json:"name"`
	Type      string      `json:"type"`
	Access    string      `json:"access"`
	Array     []uuid.UUID `json:"array"`
	Version   int64       `json:"-"`
	CreatedAt time.Time   `json:"created_at"`
}
