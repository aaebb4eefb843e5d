package domain

// Code is a documented upstream error code carried in status.error_code.
type Code int

const (
	CodeAPIKeyInvalid                     Code = 1001
	CodeAPIKeyMissing                     Code = 1002
	CodeAPIKeyPlanRequiresPayment         Code = 1003
	CodeAPIKeyPlanPaymentExpired          Code = 1004
	CodeAPIKeyRequired                    Code = 1005
	CodeAPIKeyPlanNotAuthorized           Code = 1006
	CodeAPIKeyDisabled                    Code = 1007
	CodeAPIKeyPlanMinuteRateLimitReached  Code = 1008
	CodeAPIKeyPlanDailyRateLimitReached   Code = 1009
	CodeAPIKeyPlanMonthlyRateLimitReached Code = 1010
	CodeIPRateLimitReached                Code = 1011
)

const genericInternalMessage = "An internal server error occurred"

type codeInfo struct {
	name    string
	kind    Kind
	message string
}

var codeTable = map[Code]codeInfo{
	CodeAPIKeyInvalid:                     {"API_KEY_INVALID", KindUnauthorized, "This API Key is invalid."},
	CodeAPIKeyMissing:                     {"API_KEY_MISSING", KindUnauthorized, "API key missing."},
	CodeAPIKeyPlanRequiresPayment:         {"API_KEY_PLAN_REQUIRES_PAYMENT", KindPaymentRequired, "Your API Key must be activated."},
	CodeAPIKeyPlanPaymentExpired:          {"API_KEY_PLAN_PAYMENT_EXPIRED", KindPaymentRequired, "Your API Key's subscription plan has expired."},
	CodeAPIKeyRequired:                    {"API_KEY_REQUIRED", KindUnauthorized, "An API Key is required for this call."},
	CodeAPIKeyPlanNotAuthorized:           {"API_KEY_PLAN_NOT_AUTHORIZED", KindForbidden, "Your API Key subscription plan doesn't support this endpoint."},
	CodeAPIKeyDisabled:                    {"API_KEY_DISABLED", KindForbidden, "This API Key has been disabled."},
	CodeAPIKeyPlanMinuteRateLimitReached:  {"API_KEY_PLAN_MINUTE_RATE_LIMIT_REACHED", KindRateLimited, "You've exceeded your API Key's HTTP request rate limit. Rate limits reset every minute."},
	CodeAPIKeyPlanDailyRateLimitReached:   {"API_KEY_PLAN_DAILY_RATE_LIMIT_REACHED", KindRateLimited, "You've exceeded your API Key's daily rate limit."},
	CodeAPIKeyPlanMonthlyRateLimitReached: {"API_KEY_PLAN_MONTHLY_RATE_LIMIT_REACHED", KindRateLimited, "You've exceeded your API Key's monthly rate limit."},
	CodeIPRateLimitReached:                {"IP_RATE_LIMIT_REACHED", KindRateLimited, "You've hit an IP rate limit."},
}

var defaultMessages = map[Kind]string{
	KindInvalidArgument: "The request could not be processed, likely due to an invalid argument.",
	KindUnauthorized:    "The request lacks valid authentication credentials.",
	KindPaymentRequired: "The request was rejected because the subscription plan has an overdue balance.",
	KindForbidden:       "The request was rejected due to a permission issue.",
	KindRateLimited:     "The rate limit was exceeded.",
	KindInternal:        genericInternalMessage,
}

// Name returns the symbolic name of a documented code, or "" if unknown.
func (c Code) Name() string {
	return codeTable[c].name
}
