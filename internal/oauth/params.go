package oauth

const (
	ParamCode             = "code"
	ParamError            = "error"
	ParamErrorDescription = "error_description"
	ParamUserType         = "user_type"
)

// UserTypeLocation asks for a location-scoped token rather than a
// company-wide one.
const UserTypeLocation = "Location"

// Token response fields beyond the standard OAuth set.
const (
	ExtraLocationID = "locationId"
	ExtraCompanyID  = "companyId"
	ExtraUserType   = "userType"
)
