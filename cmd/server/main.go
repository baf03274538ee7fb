// @title           Keepsake Backend API
// @version         1.0.0
// @description     Backend API for group celebration pages: collecting messages, reactions, recipient replies and the printable keepsake export.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a Supabase access token.

package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"keepsake-backend/internal/config"
)

var cfgFile string

func main() {
	config.LoadDotEnv()

	rootCmd := &cobra.Command{
		Use:           "keepsake",
		Short:         "Keepsake celebration pages backend",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	config.ApplyDefaults(viper.GetViper())
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().String("log-level", viper.GetString("log.level"), "Log level (debug, info, warn, error)")
	bindFlag(rootCmd, "log.level", "log-level")

	rootCmd.AddCommand(newServeCmd(), newMigrateCmd(), newExportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("keepsake")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &configNotFound) {
			return err
		}
	}
	return nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
	cmd.PersistentFlags().String("port", viper.GetString("server.port"), "HTTP listen port")
	bindFlag(cmd, "server.port", "port")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context())
		},
	}
}

func newExportCmd() *cobra.Command {
	var (
		slug  string
		out   string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a page's keepsake PDF to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), slug, out, force)
		},
	}
	cmd.Flags().StringVar(&slug, "slug", "", "Page slug")
	cmd.Flags().StringVar(&out, "out", "", "Output file (defaults to the keepsake filename)")
	cmd.Flags().BoolVar(&force, "force", false, "Export even if the page has not been thanked yet")
	_ = cmd.MarkFlagRequired("slug")
	return cmd
}
