// Bookloader paginates plain-text books and loads them into the catalog.
//
//	bookloader [-width N] [-height N] book1.txt book2.txt ...
//
// Each file starts with a four-line header (author, title, blank line,
// description), the rest is the book text. Files that fail to load are
// reported and skipped, the rest are still processed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"book_divination_tgbot/config"
	"book_divination_tgbot/data/db/postgres"
	"book_divination_tgbot/internal/bookparse"
	"book_divination_tgbot/internal/repository"
)

func main() {
	cfg := config.MustLoad()

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	lineWidth := flag.Int("width", cfg.Pagination.LineWidth, "max line width in characters")
	pageHeight := flag.Int("height", cfg.Pagination.PageHeight, "lines per page")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: bookloader [flags] <book.txt> ...")
		os.Exit(2)
	}

	postgresDb := postgres.NewPostgresClient(cfg)
	defer postgresDb.Close()

	var repo repository.IRepository = repository.NewPostgresRepo(postgresDb)

	ctx := context.Background()
	failed := 0

	for _, path := range flag.Args() {
		book, err := bookparse.ReadBook(path, *lineWidth, *pageHeight)
		if err != nil {
			failed++
			if errors.Is(err, bookparse.ErrBadEncoding) {
				slog.Error("file is not valid utf-8", slog.String("path", path))
			} else {
				slog.Error("failed to read book", slog.String("path", path), slog.String("err", err.Error()))
			}
			continue
		}

		bookID, err := repo.InsertBook(ctx, book)
		if err != nil {
			failed++
			slog.Error("failed to insert book", slog.String("path", path), slog.String("err", err.Error()))
			continue
		}

		slog.Info(
			"book loaded",
			slog.String("path", path),
			slog.Int64("bookID", bookID),
			slog.String("title", book.Title),
			slog.Int("pages", len(book.Pages)),
		)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
