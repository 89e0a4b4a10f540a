package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mirrorbox/mirrorbox/internal/blob"
	"github.com/mirrorbox/mirrorbox/internal/config"
	"github.com/mirrorbox/mirrorbox/internal/sync"
	"github.com/mirrorbox/mirrorbox/internal/utils"
	"github.com/mirrorbox/mirrorbox/internal/version"
)

var (
	red  = color.New(color.FgHiRed, color.Bold).SprintFunc()
	cyan = color.New(color.FgHiCyan, color.Bold).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:     "mirrorbox",
	Short:   "Mirror a local directory into an S3-compatible bucket",
	Version: version.Detailed(),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// create & validate config
		cfg := &config.Config{
			RootDir:     viper.GetString("root_dir"),
			Extension:   viper.GetString("extension"),
			Bucket:      viper.GetString("bucket"),
			Region:      viper.GetString("region"),
			AccessKey:   viper.GetString("access_key"),
			SecretKey:   viper.GetString("secret_key"),
			Endpoint:    viper.GetString("endpoint"),
			Concurrency: viper.GetInt("concurrency"),
			RetryLimit:  viper.GetInt("retry_limit"),
			Debounce:    viper.GetDuration("debounce"),
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		// all good now, config errors are no longer a usage problem
		cmd.SilenceUsage = true
		fmt.Println(cyan(version.ShortWithApp()))

		slog.Info("mirrorbox start",
			"bucket", cfg.Bucket,
			"root", cfg.RootDir,
			"ext", cfg.Extension,
			"concurrency", cfg.Concurrency,
			"access_key", utils.MaskSecret(cfg.AccessKey),
		)

		client, err := blob.NewS3ClientWithConfig(cmd.Context(), &blob.S3Config{
			BucketName: cfg.Bucket,
			Region:     cfg.Region,
			AccessKey:  cfg.AccessKey,
			SecretKey:  cfg.SecretKey,
			Endpoint:   cfg.Endpoint,
		})
		if err != nil {
			return fmt.Errorf("blob client: %w", err)
		}

		defer slog.Info("Bye!")
		return sync.NewEngine(cfg, client).Start(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().SortFlags = false
	rootCmd.Flags().StringP("root", "r", "", "Local directory to mirror")
	rootCmd.Flags().StringP("bucket", "b", "", "Destination bucket name")
	rootCmd.Flags().String("region", config.DefaultRegion, "Bucket region")
	rootCmd.Flags().String("endpoint", "", "S3-compatible endpoint URL (MinIO etc.)")
	rootCmd.Flags().String("extension", config.DefaultExtension, "File extension to mirror")
	rootCmd.Flags().Int("concurrency", config.DefaultConcurrency, "Max in-flight remote operations")
	rootCmd.Flags().Int("retry-limit", config.DefaultRetryLimit, "Attempts per operation before abandoning")
	rootCmd.Flags().Duration("debounce", config.DefaultDebounce, "Debounce window for filesystem events")
}

func main() {
	handler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.RFC3339,
		NoColor:    !isatty.IsTerminal(os.Stdout.Fd()),
	})
	slog.SetDefault(slog.New(handler))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, red("fatal:"), err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) error {
	// local .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	viper.BindPFlag("root_dir", cmd.Flags().Lookup("root"))
	viper.BindPFlag("bucket", cmd.Flags().Lookup("bucket"))
	viper.BindPFlag("region", cmd.Flags().Lookup("region"))
	viper.BindPFlag("endpoint", cmd.Flags().Lookup("endpoint"))
	viper.BindPFlag("extension", cmd.Flags().Lookup("extension"))
	viper.BindPFlag("concurrency", cmd.Flags().Lookup("concurrency"))
	viper.BindPFlag("retry_limit", cmd.Flags().Lookup("retry-limit"))
	viper.BindPFlag("debounce", cmd.Flags().Lookup("debounce"))

	viper.SetEnvPrefix("MIRRORBOX")
	viper.AutomaticEnv()

	return nil
}
