// SPDX-License-Identifier: GPL-3.0-only

package handlers

// swagger:model SignupWithKeyRequest
type SignupWithKeyRequest struct {
	// User's email address
	// required: true
	Email string `json:"email" example:"user@example.com"`
	// User's password
	// required: true
	Password string `json:"password" example:"MySecretPassword@123"`
	// Access key code granting the account activation
	// required: true
	KeyCode string `json:"key_code" example:"XY-1D-A2B3C4D5"`
	// Optional nickname shown to the partner
	Nickname *string `json:"nickname" example:"Sunny"`
}

// swagger:model LoginRequest
type LoginRequest struct {
	// User's email address
	Email string `json:"email" example:"user@example.com"`
	// User's password
	Password string `json:"password" example:"MySecretPassword@123"`
}

// swagger:model AuthResponse
type AuthResponse struct {
	// Authentication session token
	// This token is used for subsequent authenticated requests.
	// Should be used in the Authorization header as a Bearer token.
	SessionToken string `json:"session_token" example:"sample_session_token"`
	// Message indicating successful operation
	Message string `json:"message" example:"Operation successful"`
}

// swagger:model GenericResponse
type GenericResponse struct {
	// Message indicating the result of the operation
	Message string `json:"message"`
}

// swagger:model PaginationDetails
type PaginationDetails struct {
	// Current page number
	Page int `json:"page"`
	// Page size
	PageSize int `json:"page_size"`
	// Total number of items
	Total int64 `json:"total"`
	// Total number of pages
	TotalPages int `json:"total_pages"`
}

// swagger:model HeartbeatResponse
type HeartbeatResponse struct {
	// Account status: PREMIUM, EXPIRED or FREE
	AccountStatus string `json:"account_status" example:"PREMIUM"`
	// Account expiry timestamp (null when no key was ever redeemed)
	AccountExpiresAt *string `json:"account_expires_at" example:"2025-07-01T12:00:00Z"`
	// Whole days remaining until account expiry (null when not premium)
	DaysRemaining *int `json:"days_remaining" example:"22"`
	// Message indicating successful operation
	Message string `json:"message" example:"Heartbeat acknowledged"`
}

// swagger:model GenerateKeysRequest
type GenerateKeysRequest struct {
	// Key code prefix, 2-6 uppercase letters
	// required: true
	Prefix string `json:"prefix" example:"XY"`
	// Validity window in fractional days, minimum 1/24 (one hour)
	// required: true
	DurationDays float64 `json:"duration_days" example:"7"`
	// Maximum number of redemptions (null for unlimited)
	UsageCap *uint `json:"usage_cap" example:"1"`
	// Number of keys to generate, 1-100 (defaults to 1)
	Count int `json:"count" example:"10"`
	// Free-text description
	Description *string `json:"description" example:"Valentine campaign batch"`
	// Absolute expiry window in days from now (null for no expiry)
	ExpiryDays *uint `json:"expiry_days" example:"90"`
}

// swagger:model KeyDetails
type KeyDetails struct {
	// Key record identifier
	ID uint `json:"id" example:"1"`
	// Full key code
	Code string `json:"code" example:"XY-7D-A2B3C4D5"`
	// Key code prefix
	Prefix string `json:"prefix" example:"XY"`
	// Derived lifecycle status: UNUSED, USED, EXPIRED or DISABLED
	Status string `json:"status" example:"UNUSED"`
	// Active flag; a disabled key is never redeemable
	IsActive bool `json:"is_active" example:"true"`
	// Number of successful redemptions so far
	UsageCount uint `json:"usage_count" example:"0"`
	// Usage cap (null for unlimited)
	UsageCap *uint `json:"usage_cap" example:"1"`
	// Absolute expiry timestamp (null for no expiry)
	ExpiresAt *string `json:"expires_at" example:"2025-09-01T00:00:00Z"`
	// Validity window granted on redemption, in fractional days
	ValidityDays float64 `json:"validity_days" example:"7"`
	// Validity window in whole hours for sub-day keys
	ValidityHours *uint `json:"validity_hours" example:"12"`
	// Free-text description
	Description *string `json:"description" example:"Valentine campaign batch"`
	// User who first redeemed the key
	OwnerID *uint `json:"owner_id" example:"42"`
	// First redemption timestamp
	RedeemedAt *string `json:"redeemed_at" example:"2025-06-01T12:00:00Z"`
	// Timestamp of when the key was created
	CreatedAt string `json:"created_at" example:"2025-06-01T12:00:00Z"`
	// Timestamp of when the key was last updated
	UpdatedAt string `json:"updated_at" example:"2025-06-01T12:00:00Z"`
}

// swagger:model KeyListResponse
type KeyListResponse struct {
	// List of keys
	Data []KeyDetails `json:"data"`
	// Pagination details
	Pagination PaginationDetails `json:"pagination"`
	// Message indicating successful retrieval
	Message string `json:"message" example:"Keys retrieved successfully"`
}

// swagger:model GenerateKeysResponse
type GenerateKeysResponse struct {
	// Generated keys
	Data []KeyDetails `json:"data"`
	// Number of keys generated
	Count int `json:"count" example:"10"`
	// Message indicating successful generation
	Message string `json:"message" example:"Keys generated successfully"`
}

// swagger:model BatchKeysRequest
type BatchKeysRequest struct {
	// Batch action: enable, disable or delete
	// required: true
	Action string `json:"action" example:"disable"`
	// Key record identifiers to act on
	// required: true
	KeyIDs []uint `json:"key_ids" example:"[1,2,3]"`
	// Optional audit note recorded per affected key
	Note *string `json:"note" example:"Campaign ended"`
}

// swagger:model BatchKeysResponse
type BatchKeysResponse struct {
	// Affected keys after the mutation (empty for delete)
	Data []KeyDetails `json:"data"`
	// Number of keys affected
	Affected int `json:"affected" example:"3"`
	// Message indicating successful completion
	Message string `json:"message" example:"Batch action completed successfully"`
}

// swagger:model KeyHistoryDetails
type KeyHistoryDetails struct {
	// Audit event ID
	EID string `json:"eid" example:"550e8400-e29b-41d4-a716-446655440000"`
	// Action recorded: GENERATED, REDEEMED, ENABLED, DISABLED or DELETED
	Action string `json:"action" example:"REDEEMED"`
	// Acting user (null for admin-only actions)
	UserID *uint `json:"user_id" example:"42"`
	// Admin operator (null for user-driven actions)
	AdminID *uint `json:"admin_id" example:"1"`
	// Free-text note
	Note *string `json:"note" example:"Campaign ended"`
	// Previous key in a rotation chain
	PrevKeyID *uint `json:"prev_key_id"`
	// Next key in a rotation chain
	NextKeyID *uint `json:"next_key_id"`
	// Timestamp of when the event was recorded
	CreatedAt string `json:"created_at" example:"2025-06-01T12:00:00Z"`
}

// swagger:model KeyHistoryListResponse
type KeyHistoryListResponse struct {
	// Audit trail entries, newest first
	Data []KeyHistoryDetails `json:"data"`
	// Pagination details
	Pagination PaginationDetails `json:"pagination"`
	// Message indicating successful retrieval
	Message string `json:"message" example:"Key history retrieved successfully"`
}

// swagger:model UserDetails
type UserDetails struct {
	// User record identifier
	ID uint `json:"id" example:"42"`
	// Email address
	Email string `json:"email" example:"user@example.com"`
	// Nickname shown to the partner
	Nickname *string `json:"nickname" example:"Sunny"`
	// Whether the user has back-office access
	IsAdmin bool `json:"is_admin" example:"false"`
	// Account status: PREMIUM, EXPIRED or FREE
	AccountStatus string `json:"account_status" example:"PREMIUM"`
	// Account expiry timestamp
	AccountExpiresAt *string `json:"account_expires_at" example:"2025-07-01T12:00:00Z"`
	// Last login timestamp
	LastLoginAt *string `json:"last_login_at" example:"2025-06-01T12:00:00Z"`
	// Access key redeemed at signup
	AccessKeyID *uint `json:"access_key_id" example:"1"`
	// Timestamp of when the account was created
	CreatedAt string `json:"created_at" example:"2025-06-01T12:00:00Z"`
}

// swagger:model UserListResponse
type UserListResponse struct {
	// List of users
	Data []UserDetails `json:"data"`
	// Pagination details
	Pagination PaginationDetails `json:"pagination"`
	// Message indicating successful retrieval
	Message string `json:"message" example:"Users retrieved successfully"`
}

// swagger:model BatchUsersRequest
type BatchUsersRequest struct {
	// Batch action: enable, disable or delete
	// required: true
	Action string `json:"action" example:"disable"`
	// User record identifiers to act on
	// required: true
	UserIDs []uint `json:"user_ids" example:"[4,5]"`
}

// swagger:model BatchUsersResponse
type BatchUsersResponse struct {
	// Number of users affected
	Affected int `json:"affected" example:"2"`
	// Message indicating successful completion
	Message string `json:"message" example:"Batch action completed successfully"`
}

// swagger:model UserTotals
type UserTotals struct {
	Total   int64 `json:"total" example:"120"`
	Premium int64 `json:"premium" example:"80"`
	Expired int64 `json:"expired" example:"40"`
}

// swagger:model KeyTotals
type KeyTotals struct {
	Total    int64 `json:"total" example:"300"`
	Unused   int64 `json:"unused" example:"150"`
	Used     int64 `json:"used" example:"100"`
	Expired  int64 `json:"expired" example:"30"`
	Disabled int64 `json:"disabled" example:"20"`
}

// swagger:model ActivityTotals
type ActivityTotals struct {
	PeriodDays  int   `json:"period_days" example:"30"`
	Signups     int64 `json:"signups" example:"45"`
	Redemptions int64 `json:"redemptions" example:"45"`
	Logins      int64 `json:"logins" example:"900"`
	Heartbeats  int64 `json:"heartbeats" example:"12000"`
}

// swagger:model AdminDataResponse
type AdminDataResponse struct {
	// User totals
	Users UserTotals `json:"users"`
	// Key totals by derived status
	Keys KeyTotals `json:"keys"`
	// Activity counters over the requested period
	Activity ActivityTotals `json:"activity"`
	// Message indicating successful retrieval
	Message string `json:"message" example:"Usage data retrieved successfully"`
}
