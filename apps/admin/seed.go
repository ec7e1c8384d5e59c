package main

import (
	"github.com/kmande/chuo/core/user"
)

// demo accounts; all share the same throwaway password
var seedUsers = []struct {
	name  string
	email string
	role  user.Role
}{
	{"John Student", "student@example.com", user.RoleStudent},
	{"Dr. Smith", "faculty@example.com", user.RoleFaculty},
	{"Admin User", "admin@example.com", user.RoleAdmin},
}

const seedPassword = "password123"

// seed loads the demo accounts; safe to run repeatedly.
func (cli *commandLine) seed() error {
	for _, su := range seedUsers {
		if err := cli.addUser(su.name, su.email, seedPassword, su.role); err != nil {
			return err
		}
		logger.Printf("seeded %s (%s)", su.email, su.role)
	}
	return nil
}
