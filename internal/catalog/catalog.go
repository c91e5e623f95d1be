// Package catalog holds the preset tracker definitions for each role.
package catalog

import "github.com/julianstephens/habitlog/internal/models"

var tables = map[models.Role][]models.Tracker{
	models.RoleStudent: studentTrackers,
	models.RoleAdult:   adultTrackers,
	models.RoleSenior:  seniorTrackers,
}

// Roles returns the roles that have a preset catalog, in display order.
func Roles() []models.Role {
	return []models.Role{models.RoleStudent, models.RoleAdult, models.RoleSenior}
}

// ForRole returns a copy of the ordered tracker list for role.
// Unknown roles yield an empty list.
func ForRole(role models.Role) []models.Tracker {
	src := tables[role]
	out := make([]models.Tracker, len(src))
	copy(out, src)
	return out
}

// Lookup finds a tracker by exact name within role's catalog.
func Lookup(role models.Role, name string) (models.Tracker, bool) {
	for _, t := range tables[role] {
		if t.Name == name {
			return t, true
		}
	}
	return models.Tracker{}, false
}
