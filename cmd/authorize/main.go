// Command authorize runs the OAuth consent flow once and saves the token the
// booking service uses to reach Google Calendar.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"bookingagent/services/calendar"
)

var (
	credentialsPath string
	tokenPath       string
	listCalendars   bool
)

var rootCmd = &cobra.Command{
	Use:   "authorize",
	Short: "Authorize the booking service to use a Google Calendar",
	Long: `Opens the Google consent page, exchanges the pasted code for a token and
stores it at --token. The booking service refreshes the token from then on.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer logger.Sync()
		return authorize(cmd.Context(), logger)
	},
}

func init() {
	rootCmd.Flags().StringVar(&credentialsPath, "credentials", "credentials.json", "OAuth client secrets downloaded from the Google console")
	rootCmd.Flags().StringVar(&tokenPath, "token", "token.json", "where to write the user token")
	rootCmd.Flags().BoolVar(&listCalendars, "list", true, "list the calendars the token can reach")
}

func authorize(ctx context.Context, logger *zap.Logger) error {
	cfg, err := calendar.OAuthConfig(credentialsPath)
	if err != nil {
		return err
	}

	url := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Printf("Open this link in your browser and paste the authorization code:\n\n%s\n\ncode: ", url)

	code, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return fmt.Errorf("read authorization code: %w", err)
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	tok, err := cfg.Exchange(exchangeCtx, strings.TrimSpace(code))
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}
	if err := calendar.SaveToken(tokenPath, tok); err != nil {
		return err
	}
	logger.Info("Token saved", zap.String("path", tokenPath))

	if !listCalendars {
		return nil
	}
	svc, err := gcal.NewService(ctx, option.WithTokenSource(cfg.TokenSource(ctx, tok)))
	if err != nil {
		return fmt.Errorf("create calendar client: %w", err)
	}
	list, err := svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("list calendars: %w", err)
	}
	for _, item := range list.Items {
		fmt.Printf("%-50s %s\n", item.Id, item.Summary)
	}
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
