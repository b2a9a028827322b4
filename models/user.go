package models

import "time"

// User mirrors the remote identity record for the signed-in account.
type User struct {
	// ID is the remote unique identifier of the user.
	ID string `json:"id"`

	// Email is the login identifier used during authentication.
	Email string `json:"email"`

	// CreatedAt is the timestamp when the account was created remotely.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the local table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// UserProfile carries the display attributes attached to a User. It lives in
// its own remote table and is cached separately from the auth record.
type UserProfile struct {
	// ID is the profile's remote identifier.
	ID string `json:"id"`

	// UserID links the profile to its User.
	UserID string `json:"user_id"`

	// FullName is the display name shown in client surfaces.
	FullName string `json:"full_name"`

	// Role is the coarse permission level within the organization
	// (e.g. "admin", "analyst", "viewer").
	Role string `json:"role"`

	// OrganizationID scopes the profile to an Organization.
	OrganizationID string `json:"organization_id"`

	// UpdatedAt is the remote last-modification timestamp.
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the local table
// associated with the UserProfile model.
func (p UserProfile) TableName() string {
	return "user_profiles"
}

// Organization is the tenant that owns samples, uploads and classification
// results. All remote table pulls are scoped to one organization.
type Organization struct {
	// ID is the organization's remote identifier.
	ID string `json:"id"`

	// Name is the human-readable organization name.
	Name string `json:"name"`

	// LicenseKey gates access to the hosted service. Validation happens
	// remotely; a rejected key is a permanent error, never queued.
	LicenseKey string `json:"license_key"`

	// CreatedAt is the timestamp when the organization was registered.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the local table
// associated with the Organization model.
func (o Organization) TableName() string {
	return "organizations"
}
