package models

import "sheetstack/internal/sheetdb"

type Membership string

const (
	MembershipFree    Membership = "free"
	MembershipPremium Membership = "premium"
)

func (m Membership) Valid() bool {
	return m == MembershipFree || m == MembershipPremium
}

// Users sheet columns.
const (
	ColUserID       = "userId"
	ColEmail        = "email"
	ColPasswordHash = "passwordHash"
	ColMembership   = "membership"
	ColCreatedAt    = "createdAt"
	ColUpdatedAt    = "updatedAt"
)

// UsersSchema is the canonical header of the Users sheet. Appends are always
// projected through it.
var UsersSchema = sheetdb.Schema{ColUserID, ColEmail, ColPasswordHash, ColMembership, ColCreatedAt, ColUpdatedAt}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Membership   Membership
	CreatedAt    string
	UpdatedAt    string
}

func UserFromRecord(rec sheetdb.Record) User {
	return User{
		ID:           rec[ColUserID],
		Email:        rec[ColEmail],
		PasswordHash: rec[ColPasswordHash],
		Membership:   Membership(rec[ColMembership]),
		CreatedAt:    rec[ColCreatedAt],
		UpdatedAt:    rec[ColUpdatedAt],
	}
}

func (u User) Record() map[string]string {
	return map[string]string{
		ColUserID:       u.ID,
		ColEmail:        u.Email,
		ColPasswordHash: u.PasswordHash,
		ColMembership:   string(u.Membership),
		ColCreatedAt:    u.CreatedAt,
		ColUpdatedAt:    u.UpdatedAt,
	}
}

// ContentKind names one of the read-only content sheets.
type ContentKind string

const (
	ContentEbooks  ContentKind = "ebooks"
	ContentClasses ContentKind = "classes"
	ContentPlans   ContentKind = "plans"
)

// Content sheet columns the service interprets; any other column passes through.
const (
	ColPremiumAccess = "premiumAccess"
	ColFileURL       = "fileURL"
	ColVideoURL      = "videoURL"
)

// SensitiveColumns are withheld from premium items for non-premium members.
var SensitiveColumns = []string{ColFileURL, ColVideoURL}
