package constant

import (
	"time"
)

const (
	ContextGuest = "guest"
)

// Context key types to avoid collisions
type contextKey string

const (
	ContextKeyUserID       contextKey = "user_id"
	ContextKeyUserEmail    contextKey = "user_email"
	ContextKeyUserName     contextKey = "user_name"
	ContextKeyCurrencyCode contextKey = "currency_code"
	ContextKeyUserRole     contextKey = "user_role"
	ContextKeyTokenID      contextKey = "token_id"
	ContextKeyUserAgent    contextKey = "user_agent"
)

const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RoleUser       = "user"
)

const (
	RequestParamPage    = "page"
	RequestParamLimit   = "limit"
	RequestParamSortBy  = "sort_by"
	RequestParamSortDir = "sort_dir"
)

const (
	RequestParamID        = "id"
	RequestParamListingID = "listingId"
	RequestParamMonth     = "month"
	RequestParamFrom      = "from"
	RequestParamTo        = "to"
	RequestParamRole      = "role"
	RequestParamStatus    = "status"
	RequestMaxMemory      = 10 << 20 // 10 MB
)

const (
	DefaultValuePage    = 1
	DefaultValueLimit   = 10
	DefaultValueSortBy  = "created_at"
	DefaultValueSortDir = "DESC"
)

const (
	FieldCreatedAt  = "created_at"
	FieldCreatedBy  = "created_by"
	FieldModifiedAt = "modified_at"
	FieldModifiedBy = "modified_by"
)

const (
	DateFormat     = time.RFC3339
	DateOnlyFormat = time.DateOnly
	MonthFormat    = "2006-01"
)

const (
	HoursPerDay = 24
)

const (
	MinutesToSeconds = 60
)

const (
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelHandlerScopeName    = "handler"
	OtelEventScopeName      = "event"
	OtelExternalScopeName   = "external"

	OtelQueryAttributeKey = "query"
	OtelS3ScopeName       = "s3"
	OtelStripeScopeName   = "stripe"
	OtelKafkaScopeName    = "kafka"
	OtelPushScopeName     = "push"
	OtelCacheScopeName    = "cache"
)

const (
	RequestHeaderAuthorization      = "Authorization"
	RequestHeaderUserAgent          = "User-Agent"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"
	RequestHeaderAPIKey             = "X-API-Key"
)

const (
	ContentTypeJSON              = "application/json"
	ContentTypeFormURLEncoded    = "application/x-www-form-urlencoded"
	ContentTypeMultipartFormData = "multipart/form-data"
	FormFile                     = "file"
)

const (
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy            = "SERVER UNHEALTHY"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
)

const (
	ServerEnvDevelopment = "development"
	ServerEnvProduction  = "production"
)

const (
	Asterix = "*"
	Empty   = ""
)

const (
	DefaultCurrencyCode = "USD"
)

// CurrencySymbols covers the currencies owners can pick for their listings.
var CurrencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"IDR": "Rp",
	"SGD": "S$",
	"AUD": "A$",
	"CAD": "C$",
	"INR": "₹",
	"PKR": "Rs",
}
