package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// getSimpleText and getPassword are swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errPasswordMismatch = errors.New("passwords do not match")

// prompt returns value when set and asks for it otherwise.
func (a *App) prompt(value *string, label string) error {
	if *value != "" {
		return nil
	}
	v, err := getSimpleText(a.reader, label, a.out)
	if err != nil {
		return err
	}
	*value = v
	return nil
}

func (a *App) signup(ctx context.Context, args []string) error {
	var req models.SignupRequest

	fs := a.flagSet("signup")
	fs.StringVar(&req.FirstName, "first", "", "first name")
	fs.StringVar(&req.MiddleName, "middle", "", "middle name (optional)")
	fs.StringVar(&req.LastName, "last", "", "last name")
	fs.StringVar(&req.UserName, "username", "", "username")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.prompt(&req.FirstName, "First name"); err != nil {
		return err
	}
	if err := a.prompt(&req.LastName, "Last name"); err != nil {
		return err
	}
	if err := a.prompt(&req.UserName, "Username"); err != nil {
		return err
	}

	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	repeat, err := getPassword("Repeat password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(repeat)

	if string(password) != string(repeat) {
		return errPasswordMismatch
	}
	req.Password = string(password)

	if err := a.api.Signup(ctx, req); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Account %s created. Run 'taskkeeper-cli login' to start.\n", req.UserName)
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	var userName string

	fs := a.flagSet("login")
	fs.StringVar(&userName, "username", "", "username")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.prompt(&userName, "Username"); err != nil {
		return err
	}

	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.api.Login(ctx, userName, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", user.FirstName)
	return nil
}

func (a *App) logout(ctx context.Context, args []string) error {
	if err := a.flagSet("logout").Parse(args); err != nil {
		return err
	}
	if err := a.api.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}
