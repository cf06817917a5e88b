package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ledgerview/ledgerview/internal/common"
	"github.com/ledgerview/ledgerview/internal/filter"
	"github.com/ledgerview/ledgerview/internal/gateway"
	"github.com/ledgerview/ledgerview/internal/model"
	"github.com/ledgerview/ledgerview/internal/session"
	"github.com/ledgerview/ledgerview/internal/viewmodel"
)

// initSession builds the session from config. The token is issued by the
// backend's login flow; ledgerview itself never handles passwords.
func initSession() (*session.Session, error) {
	token := viper.GetString("api.token")
	if token == "" {
		return nil, common.NewUserError(
			"no API token configured; set api.token in the config file or LEDGERVIEW_API_TOKEN",
			common.ErrMissingConfig)
	}

	sess := session.New(token)
	sess.OnExpired(func() {
		slog.Warn("Session expired; sign in again to obtain a fresh token")
	})
	return sess, nil
}

// initGateway builds the backend client from config.
func initGateway(sess *session.Session) (*gateway.Client, error) {
	cfg := gateway.Config{
		BaseURL: viper.GetString("api.base_url"),
		Timeout: viper.GetDuration("api.timeout"),
	}
	if cfg.BaseURL == "" {
		return nil, common.NewUserError(
			"no backend URL configured; set api.base_url or pass --api-url",
			common.ErrMissingConfig)
	}

	return gateway.NewClient(cfg, sess)
}

// initOrchestrator wires session, gateway, and filter engine together.
func initOrchestrator() (*viewmodel.Orchestrator, error) {
	sess, err := initSession()
	if err != nil {
		return nil, err
	}

	gw, err := initGateway(sess)
	if err != nil {
		return nil, err
	}

	cfg := viewmodel.DefaultConfig()
	if period := viper.GetString("summary.period"); period != "" {
		cfg.SummaryPeriod = gateway.SummaryPeriod(period)
		if err := cfg.SummaryPeriod.Validate(); err != nil {
			return nil, err
		}
	}

	return viewmodel.NewWithConfig(gw, filter.New(), cfg), nil
}

// addFilterFlags registers the shared transaction filter flags.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("preset", "", "relative date range: 7d, 30d, 90d")
	cmd.Flags().String("start", "", "custom start date (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "custom end date (YYYY-MM-DD)")
	cmd.Flags().Int("account", 0, "restrict to one account ID")
	cmd.Flags().String("category", "", "restrict to one category")
	cmd.Flags().String("search", "", "free-text search over name and merchant")
	cmd.Flags().Int("limit", 0, "maximum transactions to fetch")
	cmd.Flags().Int("skip", 0, "transactions to skip (pagination)")
}

// criteriaFromFlags assembles filter criteria from the shared flags.
// Explicit dates demote the preset to custom.
func criteriaFromFlags(cmd *cobra.Command) (filter.Criteria, error) {
	criteria := filter.Criteria{}

	if preset, _ := cmd.Flags().GetString("preset"); preset != "" {
		criteria = criteria.WithPreset(filter.Preset(preset))
	}
	if start, _ := cmd.Flags().GetString("start"); start != "" {
		date, err := model.ParseDate(start)
		if err != nil {
			return filter.Criteria{}, fmt.Errorf("invalid --start: %w", err)
		}
		criteria = criteria.WithStartDate(date)
	}
	if end, _ := cmd.Flags().GetString("end"); end != "" {
		date, err := model.ParseDate(end)
		if err != nil {
			return filter.Criteria{}, fmt.Errorf("invalid --end: %w", err)
		}
		criteria = criteria.WithEndDate(date)
	}

	criteria.AccountID, _ = cmd.Flags().GetInt("account")
	criteria.Category, _ = cmd.Flags().GetString("category")
	criteria.Search, _ = cmd.Flags().GetString("search")
	criteria.Limit, _ = cmd.Flags().GetInt("limit")
	criteria.Skip, _ = cmd.Flags().GetInt("skip")

	return criteria, nil
}
