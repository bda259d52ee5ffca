// Command seed loads a small demo catalogue: two movies and three
// screenings starting a few hours from now.  Movies already present by
// title are left alone together with their screenings, so running the
// command twice does not duplicate the catalogue.
package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-ticket-booking/internal/config"
	"github.com/iliyamo/movie-ticket-booking/internal/database"
	"github.com/iliyamo/movie-ticket-booking/internal/logger"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

type seedScreening struct {
	screen string
	seats  uint32
	in     time.Duration
}

type seedMovie struct {
	movie      model.Movie
	screenings []seedScreening
}

var catalogue = []seedMovie{
	{
		movie: model.Movie{Title: "Inception", DurationMinutes: 148},
		screenings: []seedScreening{
			{screen: "Screen 1", seats: 50, in: 2 * time.Hour},
			{screen: "Screen 2", seats: 40, in: 5 * time.Hour},
		},
	},
	{
		movie: model.Movie{Title: "Interstellar", DurationMinutes: 169},
		screenings: []seedScreening{
			{screen: "Screen 3", seats: 60, in: 3 * time.Hour},
		},
	},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("database open failed")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Minute)
	created, err := seed(ctx, repository.NewMovieRepo(db), repository.NewScreeningRepo(db), log, catalogue, now)
	if err != nil {
		log.WithError(err).Fatal("seed failed")
	}
	log.WithField("movies_created", created).Info("seed data created")
}

// seed creates every catalogue movie missing by title, with its
// screenings, and returns how many movies it created.
func seed(ctx context.Context, movies *repository.MovieRepo, screenings *repository.ScreeningRepo,
	log logrus.FieldLogger, entries []seedMovie, now time.Time) (int, error) {
	created := 0
	for _, entry := range entries {
		existing, err := movies.GetByTitle(ctx, entry.movie.Title)
		if err == nil {
			log.WithFields(logrus.Fields{"movie": existing.Title, "movie_id": existing.ID}).Info("already seeded, skipping")
			continue
		}
		if !errors.Is(err, repository.ErrMovieNotFound) {
			return created, fmt.Errorf("look up %q: %w", entry.movie.Title, err)
		}

		m := entry.movie
		if err := movies.Create(ctx, &m); err != nil {
			return created, fmt.Errorf("create movie %q: %w", m.Title, err)
		}
		for _, s := range entry.screenings {
			scr := &model.Screening{MovieID: m.ID, ScreenName: s.screen, StartsAt: now.Add(s.in), TotalSeats: s.seats}
			if err := screenings.Create(ctx, scr); err != nil {
				return created, fmt.Errorf("create screening %q: %w", s.screen, err)
			}
			log.WithFields(logrus.Fields{"movie": m.Title, "screening_id": scr.ID, "screen": s.screen}).Info("seeded")
		}
		created++
	}
	return created, nil
}
