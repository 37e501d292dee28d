package config

type SecurityLevel int

const (
	SecurityPublic  SecurityLevel = iota // No authentication
	SecurityRefresh                      // Refresh token required
	SecurityAccess                       // Access token required
	SecurityStaff                        // Access token of a staff user required
)

// EndpointSecurityConfig maps route names to their required security level.
// Routes not listed require an access token.
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Accounts - Public
	"auth.signup":                 SecurityPublic,
	"auth.login":                  SecurityPublic,
	"auth.password_reset.request": SecurityPublic,
	"auth.password_reset.confirm": SecurityPublic,
	"auth.email.confirm":          SecurityPublic,

	// Accounts - Refresh Protected
	"auth.refresh": SecurityRefresh,

	// Public listings
	"tribes.list":    SecurityPublic,
	"tribes.get":     SecurityPublic,
	"tribes.members": SecurityPublic,
	"tags.cloud":     SecurityPublic,
	"tags.get":       SecurityPublic,
	"tags.objects":   SecurityPublic,
	"votes.score":    SecurityPublic,
	"votes.scores":   SecurityPublic,
	"votes.top":      SecurityPublic,
	"media.get":      SecurityPublic,

	// Plugin administration - Staff only
	"plugins.points.status": SecurityStaff,
	"plugins.status":        SecurityStaff,
	"plugins.sync":          SecurityStaff,
}

// GetSecurityLevel returns the security level for a route name
func GetSecurityLevel(name string) SecurityLevel {
	if level, ok := EndpointSecurityConfig[name]; ok {
		return level
	}
	// Default to highest security if not explicitly configured
	return SecurityAccess
}
