// hostelctl is the operational CLI: it applies the database schema and
// seeds demo data for local development.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hostelpad/hostel-booking/internal/config"
	"github.com/hostelpad/hostel-booking/internal/database"
	"github.com/hostelpad/hostel-booking/internal/model"
	"github.com/hostelpad/hostel-booking/internal/repository"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "hostelctl",
		Short:        "Operational tooling for the hostel booking service",
		SilenceUsage: true,
	}
	root.AddCommand(migrateCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func openDB() (*sql.DB, error) {
	cfg := config.Load()
	return database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			if err := database.Migrate(ctx, db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Println("schema up to date")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var adminEmail, adminPass string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed a demo admin account, hostels and rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			return seed(ctx, db, adminEmail, adminPass)
		},
	}
	cmd.Flags().StringVar(&adminEmail, "admin-email", "admin@hostelpad.local", "email for the seeded admin account")
	cmd.Flags().StringVar(&adminPass, "admin-password", "changeme123", "password for the seeded admin account")
	return cmd
}

func seed(ctx context.Context, db *sql.DB, adminEmail, adminPass string) error {
	users := repository.NewUserRepo(db)
	hostels := repository.NewHostelRepo(db)
	rooms := repository.NewRoomRepo(db)

	if _, err := users.Create(ctx, adminEmail, adminPass, "Administrator", "", model.RoleAdmin, 10); err != nil {
		if err != repository.ErrEmailExists {
			return fmt.Errorf("seed admin: %w", err)
		}
		log.Printf("admin %s already exists, skipping", adminEmail)
	} else {
		log.Printf("seeded admin %s", adminEmail)
	}

	demo := []struct {
		hostel model.Hostel
		rooms  []model.Room
	}{
		{
			hostel: model.Hostel{Name: "North Wing", Gender: model.GenderMale, Description: "Male hostel near the main gate", RoomCount: 4},
			rooms: []model.Room{
				{Name: "N-101", Floor: 1, RoomType: "Double", PriceCents: 250000, Capacity: 2},
				{Name: "N-102", Floor: 1, RoomType: "Double", PriceCents: 250000, Capacity: 2},
				{Name: "N-201", Floor: 2, RoomType: "Quad", PriceCents: 180000, Capacity: 4},
				{Name: "N-202", Floor: 2, RoomType: "Quad", PriceCents: 180000, Capacity: 4},
			},
		},
		{
			hostel: model.Hostel{Name: "South Wing", Gender: model.GenderFemale, Description: "Female hostel beside the library", RoomCount: 3},
			rooms: []model.Room{
				{Name: "S-101", Floor: 1, RoomType: "Single", PriceCents: 320000, Capacity: 1},
				{Name: "S-102", Floor: 1, RoomType: "Double", PriceCents: 250000, Capacity: 2},
				{Name: "S-201", Floor: 2, RoomType: "Triple", PriceCents: 210000, Capacity: 3},
			},
		},
	}

	for _, d := range demo {
		existing, err := hostels.List(ctx, d.hostel.Name)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			log.Printf("hostel %q already exists, skipping", d.hostel.Name)
			continue
		}
		h := d.hostel
		if err := hostels.Create(ctx, &h); err != nil {
			return fmt.Errorf("seed hostel %q: %w", h.Name, err)
		}
		for _, r := range d.rooms {
			r.HostelID = h.ID
			if err := rooms.Create(ctx, &r); err != nil {
				return fmt.Errorf("seed room %q: %w", r.Name, err)
			}
		}
		log.Printf("seeded hostel %q with %d rooms", h.Name, len(d.rooms))
	}
	return nil
}
