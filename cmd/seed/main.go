package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"locallibrary/internal/book"
	"locallibrary/internal/bookinstance"
	"locallibrary/internal/config"
	"locallibrary/internal/logging"
	"locallibrary/internal/store"
)

type bookWriter interface {
	Insert(ctx context.Context, b *book.Book) error
}

type instanceWriter interface {
	Create(ctx context.Context, bi *bookinstance.BookInstance) error
}

type seedOptions struct {
	books  int
	copies int
	seed   int64
	driver string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := seedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the catalog with sample books and copies",
		Long:  `Inserts generated books and, for each book, up to --copies physical copies into the configured store.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), opts)
		},
	}
	cmd.Flags().IntVar(&opts.books, "books", 20, "number of books to insert")
	cmd.Flags().IntVar(&opts.copies, "copies", 3, "maximum copies per book")
	cmd.Flags().Int64Var(&opts.seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&opts.driver, "driver", "", "store driver override (mongo or postgres)")
	return cmd
}

func runSeed(ctx context.Context, opts seedOptions) error {
	if opts.books < 0 || opts.copies < 0 {
		return fmt.Errorf("--books and --copies must not be negative")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.driver != "" {
		cfg.StoreDriver = opts.driver
	}
	logger, err := logging.New(cfg.LogLevel, "console")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var (
		books     bookWriter
		instances instanceWriter
	)
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := store.OpenPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		books = book.NewPostgresRepo(pool, cfg.DBTimeout)
		instances = bookinstance.NewPostgresRepo(pool, cfg.DBTimeout)
	case config.DriverMongo:
		client, db, err := store.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		books = book.NewMongoRepo(db, cfg.DBTimeout)
		instances = bookinstance.NewMongoRepo(db, cfg.DBTimeout)
	default:
		return fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	logger.Info("seeding catalog",
		zap.String("driver", cfg.StoreDriver),
		zap.Int("books", opts.books),
		zap.Int("max_copies", opts.copies),
		zap.Int64("seed", opts.seed),
	)

	nBooks, nCopies, err := seed(ctx, books, instances, generate(rand.New(rand.NewSource(opts.seed)), opts.books, opts.copies))
	if err != nil {
		return err
	}
	logger.Info("seed complete", zap.Int("books", nBooks), zap.Int("copies", nCopies))
	return nil
}

type sampleBook struct {
	book   book.Book
	copies []bookinstance.BookInstance
}

var (
	titleWords = []string{"Silent", "River", "Empire", "Garden", "Winter", "Stone", "Harbor", "Lantern", "Orchard", "Machine"}
	authors    = []string{"Ann Lee", "Ben Ortiz", "Chidi Okafor", "Dana Kim", "Eli Novak", "Farah Aziz"}
	imprints   = []string{"Penguin", "HarperCollins", "Oxford", "Cambridge", "MIT Press", "Vintage"}
)

// generate builds n books with between zero and maxCopies copies each.
func generate(r *rand.Rand, n, maxCopies int) []sampleBook {
	out := make([]sampleBook, 0, n)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	statuses := bookinstance.Statuses()

	for i := 0; i < n; i++ {
		title := fmt.Sprintf("The %s %s", titleWords[r.Intn(len(titleWords))], titleWords[r.Intn(len(titleWords))])
		sb := sampleBook{book: book.Book{
			Title:   fmt.Sprintf("%s %d", title, i+1),
			Author:  authors[r.Intn(len(authors))],
			Summary: fmt.Sprintf("A story about %s.", titleWords[r.Intn(len(titleWords))]),
			ISBN:    fmt.Sprintf("978-%09d", i+1),
		}}

		copies := 0
		if maxCopies > 0 {
			copies = r.Intn(maxCopies + 1)
		}
		for j := 0; j < copies; j++ {
			bi := bookinstance.BookInstance{
				Imprint: fmt.Sprintf("%s, %d", imprints[r.Intn(len(imprints))], 1950+r.Intn(75)),
				Status:  statuses[r.Intn(len(statuses))],
			}
			if bi.Status == bookinstance.StatusLoaned || bi.Status == bookinstance.StatusReserved {
				due := today.AddDate(0, 0, 1+r.Intn(30))
				bi.DueBack = &due
			}
			sb.copies = append(sb.copies, bi)
		}
		out = append(out, sb)
	}
	return out
}

func seed(ctx context.Context, books bookWriter, instances instanceWriter, samples []sampleBook) (int, int, error) {
	nBooks, nCopies := 0, 0
	for _, s := range samples {
		b := s.book
		if err := books.Insert(ctx, &b); err != nil {
			return nBooks, nCopies, fmt.Errorf("insert book %q: %w", b.Title, err)
		}
		nBooks++
		for _, bi := range s.copies {
			bi.BookID = b.ID
			if err := instances.Create(ctx, &bi); err != nil {
				return nBooks, nCopies, fmt.Errorf("insert copy of %q: %w", b.Title, err)
			}
			nCopies++
		}
	}
	return nBooks, nCopies, nil
}
