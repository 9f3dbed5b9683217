package identity

import "strings"

// Candidate metadata keys, checked in priority order.
// First present, non-empty string wins.
var (
	roleKeys     = []string{"access_role", "accessRole", "role"}
	buildingKeys = []string{"building", "building_code", "location"}
	nameKeys     = []string{"name", "full_name", "display_name"}
)

// Hints are the usable fragments of identity metadata.
type Hints struct {
	Role     string
	Building string
	Name     string
}

func ExtractHints(md map[string]any) Hints {
	return Hints{
		Role:     stringField(md, roleKeys),
		Building: stringField(md, buildingKeys),
		Name:     stringField(md, nameKeys),
	}
}

func stringField(md map[string]any, keys []string) string {
	for _, k := range keys {
		v, ok := md[k]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// LocalPart returns the part of an email before '@', the last-resort
// display name.
func LocalPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
