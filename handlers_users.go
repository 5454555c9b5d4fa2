package main

import (
	"fmt"

	"biblioteca/library"
)

func (s *session) usersMenu() {
	for {
		choice := menu(s.sc, "USER MANAGEMENT", []string{
			"List users", "Register user", "Update user", "Deactivate user",
			"Reactivate user", "Reset a password", "Back",
		})
		switch choice {
		case 1:
			s.listUsers()
		case 2:
			s.registerUser()
		case 3:
			s.updateUser()
		case 4:
			s.setUserActive(false)
		case 5:
			s.setUserActive(true)
		case 6:
			s.resetUserPassword()
		case 7:
			return
		}
	}
}

func userRows(users []*library.User) ([]string, [][]string) {
	headers := []string{"Login", "Name", "Role", "DNI", "Email", "Phone", "Active"}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		active := "yes"
		if !u.Active {
			active = "no"
		}
		rows = append(rows, []string{
			u.Login, truncate(u.Name, 30), u.Role, u.DNI, truncate(u.Email, 30), u.Phone, active,
		})
	}
	return headers, rows
}

func (s *session) listUsers() {
	users, err := s.mgr.DB().GetUsers()
	if err != nil {
		failf("Could not list users: %v", err)
		waitEnter(s.sc)
		return
	}
	if len(users) == 0 {
		warnf("No users registered")
		waitEnter(s.sc)
		return
	}
	headers, rows := userRows(users)
	renderTable(headers, rows)
	waitEnter(s.sc)
}

func (s *session) registerUser() {
	title("REGISTER USER")
	login, ok := prompt(s.sc, "Login: ")
	if !ok || login == "" {
		failf("Login cannot be empty")
		waitEnter(s.sc)
		return
	}
	name, ok := prompt(s.sc, "Full name: ")
	if !ok {
		return
	}
	password, err := readPassword(fmt.Sprintf("Password for %s: ", login))
	if err != nil {
		failf("Could not read password: %v", err)
		return
	}

	role := library.RoleUser
	switch menu(s.sc, "ROLE", []string{"Standard user", "Staff", "Admin"}) {
	case 2:
		role = library.RoleStaff
	case 3:
		role = library.RoleAdmin
	}

	dni, _ := prompt(s.sc, "DNI (8 digits, optional): ")
	if dni != "" && !library.ValidDNI(dni) {
		failf("Invalid DNI: need exactly 8 digits")
		waitEnter(s.sc)
		return
	}
	email, _ := prompt(s.sc, "Email: ")
	phone, _ := prompt(s.sc, "Phone: ")
	address, _ := prompt(s.sc, "Address: ")

	user := &library.User{
		Login:   login,
		Name:    name,
		Role:    role,
		DNI:     dni,
		Email:   email,
		Phone:   phone,
		Address: address,
	}
	if _, err := s.mgr.RegisterUser(user, password); err != nil {
		failf("Could not register user: %v", err)
	} else {
		successf("User '%s' registered with ID %d", login, user.ID)
	}
	waitEnter(s.sc)
}

// findUser resolves a login typed at the console into an account.
func (s *session) findUser(label string) *library.User {
	login, ok := prompt(s.sc, label)
	if !ok || login == "" {
		return nil
	}
	user, err := s.mgr.DB().GetUserByLogin(login)
	if err != nil {
		failf("User '%s' not found", login)
		return nil
	}
	return user
}

func (s *session) updateUser() {
	title("UPDATE USER")
	user := s.findUser("Login of the user to update: ")
	if user == nil {
		waitEnter(s.sc)
		return
	}
	s.editUserFields(user)
}

// myProfile lets the signed-in user edit their own contact details.
func (s *session) myProfile() {
	title("MY PROFILE")
	s.editUserFields(s.user)
}

func (s *session) editUserFields(user *library.User) {
	// Empty input keeps the current value.
	if v, ok := prompt(s.sc, fmt.Sprintf("Name [%s]: ", user.Name)); ok && v != "" {
		user.Name = v
	}
	if v, ok := prompt(s.sc, fmt.Sprintf("DNI [%s]: ", user.DNI)); ok && v != "" {
		if !library.ValidDNI(v) {
			failf("Invalid DNI: need exactly 8 digits")
			waitEnter(s.sc)
			return
		}
		user.DNI = v
	}
	if v, ok := prompt(s.sc, fmt.Sprintf("Email [%s]: ", user.Email)); ok && v != "" {
		user.Email = v
	}
	if v, ok := prompt(s.sc, fmt.Sprintf("Phone [%s]: ", user.Phone)); ok && v != "" {
		user.Phone = v
	}
	if v, ok := prompt(s.sc, fmt.Sprintf("Address [%s]: ", user.Address)); ok && v != "" {
		user.Address = v
	}

	if err := s.mgr.DB().UpdateUser(user); err != nil {
		failf("Could not update user: %v", err)
	} else {
		successf("User '%s' updated", user.Login)
	}
	waitEnter(s.sc)
}

func (s *session) setUserActive(active bool) {
	verb := "deactivate"
	if active {
		verb = "reactivate"
	}
	title("USER STATUS")
	user := s.findUser(fmt.Sprintf("Login of the user to %s: ", verb))
	if user == nil {
		waitEnter(s.sc)
		return
	}
	if !confirm(s.sc, fmt.Sprintf("Really %s '%s'?", verb, user.Login)) {
		return
	}

	var err error
	if active {
		err = s.mgr.ReactivateUser(user.ID)
	} else {
		err = s.mgr.DeactivateUser(user.ID)
	}
	if err != nil {
		failf("Could not %s user: %v", verb, err)
	} else {
		successf("User '%s' %sd", user.Login, verb)
	}
	waitEnter(s.sc)
}

func (s *session) resetUserPassword() {
	title("RESET PASSWORD")
	user := s.findUser("Login: ")
	if user == nil {
		waitEnter(s.sc)
		return
	}
	password, err := readPassword(fmt.Sprintf("New password for %s: ", user.Login))
	if err != nil {
		failf("Could not read password: %v", err)
		return
	}
	if err := s.mgr.ResetPassword(user.ID, password); err != nil {
		failf("Could not reset password: %v", err)
	} else {
		successf("Password reset for '%s'", user.Login)
	}
	waitEnter(s.sc)
}
