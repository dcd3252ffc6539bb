package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"taxbot/config"
	"taxbot/domain"
	httpLayer "taxbot/http"
	"taxbot/report"
	"taxbot/repository"
	"taxbot/service"
)

var log = logrus.WithField("module", "main")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "taxbot",
		Short:        "Compare old and new regime income tax and produce a PDF report",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	load := func() (config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, err
		}
		if err := cfg.Log.SetupLogging(); err != nil {
			return config.Config{}, err
		}
		return cfg, nil
	}

	root.AddCommand(newServeCmd(load), newCalcCmd(load), newReportCmd(load))
	return root
}

type loadFunc func() (config.Config, error)

func newServeCmd(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculation and report endpoints over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
}

func serve(cfg config.Config) error {
	taxService, closeCache, err := buildService(cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Window)
	defer rateLimiter.Stop()

	mux := http.NewServeMux()
	httpLayer.Routes(
		mux,
		rateLimiter,
		httpLayer.NewTaxHandler(taxService),
		httpLayer.NewReportHandler(taxService, report.NewRenderer()),
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("starting server: %w", err)
	case <-quit:
		log.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("server exited")
	return nil
}

// buildService wires the cache selected in cfg. The returned func releases it.
func buildService(cfg config.Config) (*service.TaxService, func(), error) {
	var cache repository.CacheRepository
	closeCache := func() {}

	switch cfg.Cache.Driver {
	case config.CacheMemory:
		memoryCache := repository.NewMemoryCache(cfg.Cache.TTL)
		cache = memoryCache
		closeCache = memoryCache.Stop
	case config.CacheRedis:
		redisCache := repository.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.TTL)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := redisCache.Ping(ctx); err != nil {
			log.Warnf("redis at %s unreachable, results will not be cached until it is: %v", cfg.Cache.RedisAddr, err)
		}
		cancel()
		cache = redisCache
		closeCache = func() {
			if err := redisCache.Close(); err != nil {
				log.Warnf("closing redis: %v", err)
			}
		}
	}

	svc, err := service.NewTaxService(cache, service.WithSlabs(cfg.Slabs.OldRegime, cfg.Slabs.NewRegime))
	if err != nil {
		closeCache()
		return nil, nil, err
	}
	return svc, closeCache, nil
}

// inputFlags binds one string flag per TaxInput field so amounts keep full precision.
type inputFlags struct {
	income, investments, healthInsurance, homeLoan, eduLoan, hra string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.income, "income", "0", "gross annual income")
	fs.StringVar(&f.investments, "investments", "0", "Section 80C investments (advisory cap 150000)")
	fs.StringVar(&f.healthInsurance, "health-insurance", "0", "Section 80D health insurance premium (advisory cap 25000)")
	fs.StringVar(&f.homeLoan, "home-loan", "0", "Section 24(b) home loan interest (advisory cap 200000)")
	fs.StringVar(&f.eduLoan, "edu-loan", "0", "Section 80E education loan interest")
	fs.StringVar(&f.hra, "hra", "0", "house rent allowance exemption")
}

func (f *inputFlags) input() (domain.TaxInput, error) {
	var in domain.TaxInput
	fields := []struct {
		flag string
		raw  string
		dst  *decimal.Decimal
	}{
		{"income", f.income, &in.Income},
		{"investments", f.investments, &in.Investments},
		{"health-insurance", f.healthInsurance, &in.HealthInsurance},
		{"home-loan", f.homeLoan, &in.HomeLoan},
		{"edu-loan", f.eduLoan, &in.EduLoan},
		{"hra", f.hra, &in.HRA},
	}
	for _, field := range fields {
		v, err := decimal.NewFromString(field.raw)
		if err != nil {
			return domain.TaxInput{}, fmt.Errorf("--%s: %w", field.flag, err)
		}
		*field.dst = v
	}
	return in, nil
}

func newCalcCmd(load loadFunc) *cobra.Command {
	var flags inputFlags
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Print the regime comparison as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			in, err := flags.input()
			if err != nil {
				return err
			}
			svc, closeCache, err := buildService(cfg)
			if err != nil {
				return err
			}
			defer closeCache()

			result, err := svc.Compare(cmd.Context(), in)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	flags.register(cmd)
	return cmd
}

func newReportCmd(load loadFunc) *cobra.Command {
	var (
		flags  inputFlags
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the PDF tax report to a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			in, err := flags.input()
			if err != nil {
				return err
			}
			svc, closeCache, err := buildService(cfg)
			if err != nil {
				return err
			}
			defer closeCache()

			result, err := svc.Compare(cmd.Context(), in)
			if err != nil {
				return err
			}

			now := time.Now()
			pdf, err := report.NewRenderer().Render(report.Build(result, report.NewMeta(now)))
			if err != nil {
				return err
			}
			path := filepath.Join(outDir, report.Filename(now))
			if err := os.WriteFile(path, pdf, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is better for you, saving %s. Report written to %s\n",
				result.Recommendation.Regime, domain.FormatRupees(result.Recommendation.Savings), path)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory to write the report into")
	return cmd
}
