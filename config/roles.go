package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Govind-619/ShipSphere/models"

	"gopkg.in/yaml.v3"
)

type roleEntry struct {
	Email string        `yaml:"email"`
	Roles []models.Role `yaml:"roles"`
}

// roleFile is the on-disk layout of ROLES_FILE:
//
//	admins:
//	  - email: ops@example.com
//	    roles: [shipping_manager]
type roleFile struct {
	Admins []roleEntry `yaml:"admins"`
}

// ParseRoleTable decodes a role assignment document. The seeded admin, when
// configured, is granted super_admin on top of any roles listed for it.
func ParseRoleTable(data []byte, seed AdminSeed) (*models.RoleTable, error) {
	var doc roleFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse role table: %w", err)
	}
	if seed.Email != "" {
		doc.Admins = append(doc.Admins, roleEntry{Email: seed.Email, Roles: []models.Role{models.RoleSuperAdmin}})
	}
	return buildRoleTable(doc.Admins)
}

// LoadRoleTable reads the role assignment file at path. A missing file yields
// a table holding only the seeded admin.
func LoadRoleTable(path string, seed AdminSeed) (*models.RoleTable, error) {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read role table %s: %w", path, err)
	}
	return ParseRoleTable(data, seed)
}

func buildRoleTable(entries []roleEntry) (*models.RoleTable, error) {
	assignments := make(map[string][]models.Role, len(entries))
	for i, entry := range entries {
		email := models.NormalizeEmail(entry.Email)
		if email == "" {
			return nil, fmt.Errorf("role table entry %d has no email", i)
		}
		for _, role := range entry.Roles {
			if !role.Valid() {
				return nil, fmt.Errorf("role table entry %s: unknown role %q", entry.Email, role)
			}
		}
		assignments[email] = append(assignments[email], entry.Roles...)
	}
	return models.NewRoleTable(assignments), nil
}
