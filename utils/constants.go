package utils

// Application constants
const (
	// Application name
	AppName = "ShipSphere"

	// API version
	APIVersion = "v1"

	// Default port
	DefaultPort = "8080"

	// Default database host
	DefaultDBHost = "localhost"

	// Default database port
	DefaultDBPort = "5432"

	// Default database name
	DefaultDBName = "shipsphere"

	// Default database user
	DefaultDBUser = "postgres"

	// Default pagination limit
	DefaultPaginationLimit = 10

	// Maximum pagination limit
	MaxPaginationLimit = 100

	// Maximum length of a pincode or pincode prefix
	MaxPincodeLength = 10

	// Maximum name length
	MaxNameLength = 100

	// Maximum notes length
	MaxNotesLength = 500

	// Maximum zone length
	MaxZoneLength = 50
)

// Error messages
const (
	ErrInvalidCredentials = "Invalid email or password"
	ErrInvalidToken       = "Invalid or expired token"
	ErrUnauthorized       = "Please login for access"
	ErrForbidden          = "Access forbidden"

	ErrShippingUnavailable = "Shipping not available for this pincode"
	ErrRateNotFound        = "Shipping rate not found"
	ErrInvalidSubtotal     = "Subtotal must be a non-negative amount"
	ErrInvalidRateID       = "Invalid shipping rate ID"

	ErrInternalServer = "Internal server error"
)

// Success messages
const (
	MsgLoginSuccess  = "Login successful"
	MsgLogoutSuccess = "Logged out successfully"

	MsgCreateSuccess = "Created successfully"
	MsgUpdateSuccess = "Updated successfully"
	MsgDeleteSuccess = "Deleted successfully"
)
