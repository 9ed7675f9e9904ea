package auth

import "strings"

// legacyCapabilities maps flat capability names used by older route
// declarations and roles to their granular section.area.action form. Legacy
// names with no entry here fall back to a flat membership test against the
// grant.
var legacyCapabilities = map[string]string{
	"patients.read":  "pages.patients.access",
	"patients.write": "pages.patients.create",
	"patients.edit":  "pages.patients.edit",
	"clinical.read":  "pages.clinical.access",
	"clinical.write": "pages.clinical.create_records",
	"billing.read":   "pages.billing.access",
	"billing.write":  "pages.billing.create",
	"groups.read":    "pages.groups.access",
	"groups.write":   "pages.groups.create",
	"audit.read":     "pages.audit.access",
	"users.read":     "pages.users.access",
	"users.write":    "pages.users.create",
}

// TranslateLegacy returns the granular form of a legacy flat capability
// name, if one is registered.
func TranslateLegacy(capability string) (string, bool) {
	granular, ok := legacyCapabilities[capability]
	return granular, ok
}

// Evaluate reports whether the identity's permission grant satisfies the
// requested capability. It is pure, performs no I/O, and fails closed:
// absent identities, absent grants, and malformed capability paths all deny.
//
// The capability may be written in either grammar. A legacy name is
// translated to its granular form for the tree check while the original
// string is still used for the flat-set check, since older roles may grant
// the legacy name literally.
func Evaluate(id *Identity, capability string) bool {
	if id == nil {
		return false
	}
	grant := id.Role.Permissions
	if grant.IsZero() {
		return false
	}

	granular := capability
	if translated, ok := legacyCapabilities[capability]; ok {
		granular = translated
	}

	if grant.all {
		return true
	}

	switch grant.kind {
	case grantFlat:
		if grant.hasLiteral("*") {
			return true
		}
		return grant.hasLiteral(capability)
	case grantTree:
		section, area, action, ok := splitCapabilityPath(granular)
		if !ok {
			return false
		}
		allowed, ok := grant.lookup(section, area, action)
		return ok && allowed
	}

	return false
}

// splitCapabilityPath decomposes a granular capability into its three
// segments. Anything other than exactly three non-empty dot-separated
// segments is malformed and denies.
func splitCapabilityPath(capability string) (section, area, action string, ok bool) {
	parts := strings.Split(capability, ".")
	if len(parts) != 3 {
		return "", "", "", false
	}
	for _, p := range parts {
		if p == "" {
			return "", "", "", false
		}
	}
	return parts[0], parts[1], parts[2], true
}
