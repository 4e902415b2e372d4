package cmd

import (
	"errors"

	"github.com/Shkitskiy94/hw05-final/models"

	"github.com/go-extras/cobraflags"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openDatabase(); err != nil {
				return err
			}
			log.Info("Database is up to date")
			return nil
		},
	}
}

const (
	usernameFlag    = "username"
	emailFlag       = "email"
	passwordFlag    = "password"
	titleFlag       = "title"
	slugFlag        = "slug"
	descriptionFlag = "description"
)

var userFlags = map[string]cobraflags.Flag{
	usernameFlag: &cobraflags.StringFlag{Name: usernameFlag, Usage: "login name (required)"},
	emailFlag:    &cobraflags.StringFlag{Name: emailFlag, Usage: "email address"},
	passwordFlag: &cobraflags.StringFlag{Name: passwordFlag, Usage: "password (required)"},
}

func newCreateUserCommand() *cobra.Command {
	var staff bool
	cmd := &cobra.Command{
		Use:   "createuser",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return createUser(
				userFlags[usernameFlag].GetString(),
				userFlags[emailFlag].GetString(),
				userFlags[passwordFlag].GetString(),
				staff,
			)
		},
	}
	cobraflags.RegisterMap(cmd, userFlags)
	cmd.Flags().BoolVar(&staff, "staff", false, "mark the user as staff")
	return cmd
}

func createUser(username, email, password string, staff bool) error {
	if username == "" || password == "" {
		return errors.New("--username and --password are required")
	}
	if err := openDatabase(); err != nil {
		return err
	}
	user, err := models.UserCreate(username, email, password)
	if err != nil {
		return err
	}
	if staff {
		if err = user.SetStaff(true); err != nil {
			return err
		}
	}
	log.WithFields(log.Fields{"id": user.ID, "username": user.Username, "staff": staff}).Info("User created")
	return nil
}

var groupFlags = map[string]cobraflags.Flag{
	titleFlag:       &cobraflags.StringFlag{Name: titleFlag, Usage: "group title (required)"},
	slugFlag:        &cobraflags.StringFlag{Name: slugFlag, Usage: "unique address part (required)"},
	descriptionFlag: &cobraflags.StringFlag{Name: descriptionFlag, Usage: "group description"},
}

func newCreateGroupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "creategroup",
		Short: "Create a post group",
		RunE: func(cmd *cobra.Command, args []string) error {
			return createGroup(
				groupFlags[titleFlag].GetString(),
				groupFlags[slugFlag].GetString(),
				groupFlags[descriptionFlag].GetString(),
			)
		},
	}
	cobraflags.RegisterMap(cmd, groupFlags)
	return cmd
}

func createGroup(title, slug, description string) error {
	if title == "" || slug == "" {
		return errors.New("--title and --slug are required")
	}
	if err := openDatabase(); err != nil {
		return err
	}
	group := models.Group{Title: title, Slug: slug, Description: description}
	if err := group.Create(); err != nil {
		return err
	}
	log.WithFields(log.Fields{"id": group.ID, "slug": group.Slug}).Info("Group created")
	return nil
}
