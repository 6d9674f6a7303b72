package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/garage-works/garage-orders-api/config"
	"github.com/garage-works/garage-orders-api/repository"
	"github.com/garage-works/garage-orders-api/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// session is what every command needs from the environment
type session struct {
	db      *gorm.DB
	log     *zap.Logger
	events  services.EventPublisher
	photos  *services.PhotoService
	closers []func() error
}

// close releases resources in reverse order of acquisition
func (r *session) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			r.log.Warn("Failed to release resource", zap.Error(err))
		}
	}
	r.log.Sync()
}

func (r *session) orderService() *services.OrderService {
	repos := repository.NewRepositories(r.db)
	return services.NewOrderService(repos.Orders, repos.Catalog, r.events, nil, r.photos, r.log)
}

type connectFunc func(ctx context.Context) (*session, error)

// connectFromEnv loads configuration the same way the API server does
func connectFromEnv(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	db, err := config.ConnectDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	rt := &session{db: db, log: logger, closers: []func() error{sqlDB.Close}}
	if cfg.EventsEnabled() {
		publisher, err := services.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			rt.close()
			return nil, err
		}
		rt.events = publisher
		rt.closers = append(rt.closers, publisher.Close)
	}
	if cfg.PhotosEnabled() {
		s3Service, err := services.NewS3Service(ctx, cfg, logger)
		if err != nil {
			rt.close()
			return nil, err
		}
		repos := repository.NewRepositories(db)
		rt.photos = services.NewPhotoService(repos.Orders, repos.Photos, s3Service, logger)
	}
	return rt, nil
}

func newRootCmd(connect connectFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "garagectl",
		Short:         "Operate the garage order store",
		Long:          "garagectl migrates the garage database and inspects or removes repair orders.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newMigrateCmd(connect))
	cmd.AddCommand(newOrderCmd(connect))
	return cmd
}

func newMigrateCmd(connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update every table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			if err := repository.AutoMigrate(rt.db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database migrated")
			return nil
		},
	}
}

func newOrderCmd(connect connectFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Inspect and remove orders",
	}
	cmd.AddCommand(newOrderShowCmd(connect))
	cmd.AddCommand(newOrderDeleteCmd(connect))
	cmd.AddCommand(newOrderExportCmd(connect))
	return cmd
}

func newOrderShowCmd(connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "show <token>",
		Short: "Print an order as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			view, err := rt.orderService().GetOrderByToken(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("order %s: %w", args[0], err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(view)
		},
	}
}

func newOrderDeleteCmd(connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an order with its status, info, service lines and photos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid order id %q", args[0])
			}

			rt, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			rows, err := rt.orderService().DeleteOrder(cmd.Context(), uint(id))
			if err != nil {
				return fmt.Errorf("order %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted order %d (%d rows)\n", id, rows)
			return nil
		},
	}
}

func newOrderExportCmd(connect connectFunc) *cobra.Command {
	var (
		search string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write matching orders to an xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			f, filename, err := rt.orderService().ExportOrders(cmd.Context(), search)
			if err != nil {
				return err
			}
			defer f.Close()

			if output == "" {
				output = filename
			}
			if err := f.SaveAs(output); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by customer name, email or vehicle model")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default orders_<timestamp>.xlsx)")
	return cmd
}
