package constants

const (
	// HTTP Headers
	HeaderXRequestID = "X-Request-ID"
	HeaderUserAgent  = "User-Agent"

	// Content Types
	ContentTypeXML = "application/xml"

	// Database drivers
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"

	// Database table names
	TableProviders = "providers"
	TableBasePlans = "base_plans"
	TablePlans     = "plans"
	TableZones     = "zones"
)
