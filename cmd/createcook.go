package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	webmodels "github.com/kitchen-service/kitchen/backend/models"
	webservices "github.com/kitchen-service/kitchen/backend/services"
	"github.com/kitchen-service/kitchen/backend/utils"
	"github.com/kitchen-service/kitchen/kitchen/config"
	"github.com/kitchen-service/kitchen/kitchen/database/repositories"
	"github.com/kitchen-service/kitchen/kitchen/logger"
)

var (
	newCook  webmodels.CookCreateForm
	newYears int
	newStaff bool
)

var createCookCMD = &cobra.Command{
	Use:   "createcook",
	Short: "create a cook who can log in",
	RunE: func(cmd *cobra.Command, args []string) error {
		form := newCook
		form.Password2 = form.Password1
		form.YearsOfExperience = strconv.Itoa(newYears)
		form.Normalize()

		if errs := utils.ValidateForm(&form); errs.Any() {
			return fmt.Errorf("invalid cook: %s", describeErrors(errs))
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), config.DefaultQueryTimeout)
		defer cancel()

		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		cook := form.Cook()
		cook.IsStaff = newStaff

		auth := webservices.NewAuthService(repositories.NewCookRepository(db.BunDB()))
		if err := auth.CreateCook(ctx, cook, form.Password1); err != nil {
			if repositories.IsConflict(err) {
				return fmt.Errorf("a cook named %q already exists", form.Username)
			}
			return err
		}

		logger.LogSystem("Cook created",
			slog.Int64("cook_id", cook.ID),
			slog.String("username", cook.Username),
			slog.Bool("staff", cook.IsStaff))
		return nil
	},
}

// describeErrors flattens form errors into one line, ordered by field.
func describeErrors(errs webmodels.FormErrors) string {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(errs[field], " "))
	}
	return strings.Join(parts, "; ")
}

func init() {
	flags := createCookCMD.Flags()
	flags.StringVar(&newCook.Username, "username", "", "login name")
	flags.StringVar(&newCook.Password1, "password", "", "password, at least 8 characters")
	flags.StringVar(&newCook.FirstName, "first-name", "", "first name")
	flags.StringVar(&newCook.LastName, "last-name", "", "last name")
	flags.IntVar(&newYears, "years", 0, "years of experience (0-50)")
	flags.BoolVar(&newStaff, "staff", false, "mark the cook as staff")
	_ = createCookCMD.MarkFlagRequired("username")
	_ = createCookCMD.MarkFlagRequired("password")
	rootCmd.AddCommand(createCookCMD)
}
