package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/kmande/chuo/core/event"
	"github.com/kmande/chuo/core/material"
	"github.com/kmande/chuo/core/notice"
	"github.com/kmande/chuo/core/session"
	"github.com/kmande/chuo/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	manager     *session.Manager
	materialSvc material.ServiceInterface
	eventSvc    event.ServiceInterface
	noticeSvc   notice.ServiceInterface
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  login -email EMAIL -role ROLE    - log in; password prompted next")
	fmt.Println("  register -email EMAIL -name NAME -role ROLE")
	fmt.Println("  logout                           - log out; safe to repeat")
	fmt.Println("  whoami                           - show the current session")
	fmt.Println("  dashboard                        - open your role's dashboard")
	fmt.Println("  materials [-department D] [-search S]")
	fmt.Println("  events")
	fmt.Println("  notices [-category C]")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginEmail := loginCmd.String("email", "", "Your email address.")
	loginRole := loginCmd.String("role", "", "One of: student, faculty, admin.")

	registerCmd := flag.NewFlagSet("register", flag.ExitOnError)
	registerEmail := registerCmd.String("email", "", "Your email address.")
	registerName := registerCmd.String("name", "", "Your full name.")
	registerRole := registerCmd.String("role", "", "One of: student, faculty, admin.")

	materialsCmd := flag.NewFlagSet("materials", flag.ExitOnError)
	materialsDept := materialsCmd.String("department", "", "Filter by department.")
	materialsSearch := materialsCmd.String("search", "", "Search title, description and subject.")

	noticesCmd := flag.NewFlagSet("notices", flag.ExitOnError)
	noticesCategory := noticesCmd.String("category", "", "Filter by category.")

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginEmail == "" || !user.Role(*loginRole).Valid() {
			loginCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		return cli.login(ctx, *loginEmail, pwd, user.Role(*loginRole))
	case "register":
		if err := registerCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *registerEmail == "" || *registerName == "" || !user.Role(*registerRole).Valid() {
			registerCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		return cli.register(ctx, *registerName, *registerEmail, pwd, user.Role(*registerRole))
	case "logout":
		cli.manager.Logout(ctx)
		return nil
	case "whoami":
		return cli.whoami()
	case "dashboard":
		return cli.dashboard()
	case "materials":
		if err := materialsCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.materials(ctx, *materialsDept, *materialsSearch)
	case "events":
		return cli.events(ctx)
	case "notices":
		if err := noticesCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.notices(ctx, *noticesCategory)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func (cli *commandLine) login(ctx context.Context, email, pwd string, role user.Role) error {
	sess, err := cli.manager.Login(ctx, email, pwd, role)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound), errors.Is(err, user.ErrInvalidCredential):
			return errors.New("invalid credentials")
		case errors.Is(err, user.ErrAccountDeactivated):
			return errors.New("account deactivated")
		}
		return err
	}
	logger.Printf("logged in as %s <%s> (%s)", sess.Name, sess.Email, sess.Role)
	return nil
}

func (cli *commandLine) register(ctx context.Context, name, email, pwd string, role user.Role) error {
	sess, err := cli.manager.Register(ctx, user.NewUser{
		Name:            name,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
		Role:            role,
	})
	if err != nil {
		for field, msg := range session.ValidationFields(err) {
			logger.Printf("  %s: %s", field, msg)
		}
		return errors.New("registration failed")
	}
	logger.Printf("welcome, %s (%s)", sess.Name, sess.Role)
	return nil
}

func (cli *commandLine) whoami() error {
	sess, ok := cli.manager.Current()
	if !ok {
		logger.Println("not logged in")
		return nil
	}
	logger.Printf("%s <%s> (%s)", sess.Name, sess.Email, sess.Role)
	return nil
}

// dashboard is gated like any guarded view: anonymous visitors land on the
// auth entry, authenticated ones on their own role's dashboard.
func (cli *commandLine) dashboard() error {
	decision := cli.manager.Decide()
	if !decision.Authorized() {
		printRoute(decision.Redirect)
		return nil
	}
	sess, _ := cli.manager.Current()
	printRoute(sess.Role.HomeRoute())
	return nil
}

func (cli *commandLine) materials(ctx context.Context, department, search string) error {
	filter := &material.QueryFilter{Department: department, Search: search}
	filter.Clean()
	mats, err := cli.materialSvc.Query(ctx, filter)
	if err != nil {
		return err
	}
	for _, mat := range mats {
		logger.Printf("%s  %-30s  %s / %s  (%d downloads)", mat.ID, mat.Title, mat.Department, mat.Subject, mat.Downloads)
	}
	logger.Printf("%d material(s)", len(mats))
	return nil
}

func (cli *commandLine) events(ctx context.Context) error {
	events, err := cli.eventSvc.QueryAll(ctx)
	if err != nil {
		return err
	}
	for _, evt := range events {
		logger.Printf("%s  %-30s  %s @ %s  (%d going/interested)",
			evt.ID, evt.Title, evt.StartDate.Format("2006-01-02 15:04"), evt.Venue, evt.RSVPCount)
	}
	logger.Printf("%d event(s)", len(events))
	return nil
}

func (cli *commandLine) notices(ctx context.Context, category string) error {
	notices, err := cli.noticeSvc.Query(ctx, category)
	if err != nil {
		return err
	}
	for _, ntc := range notices {
		marker := " "
		if ntc.Important {
			marker = "!"
		}
		logger.Printf("%s %s  %-30s  [%s]", marker, ntc.ID, ntc.Title, ntc.Category)
	}
	logger.Printf("%d notice(s)", len(notices))
	return nil
}
