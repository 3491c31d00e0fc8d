package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/nats-io/nats.go"
	"github.com/urfave/cli/v3"

	"github.com/quillio/docsearch"

	natsT "github.com/quillio/docsearch/transport/nats"
)

func main() {
	cmd := &cli.Command{
		Name:  "docsearchctl",
		Usage: "Remote client for the document search service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "nats-url",
				Usage:   "NATS server URL",
				Value:   nats.DefaultURL,
				Sources: cli.EnvVars("NATS_URL"),
			},
			&cli.StringFlag{
				Name:  "prefix",
				Usage: "NATS subject prefix",
				Value: "docsearch.documents",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a document",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "id", Usage: "Explicit document id"},
					&cli.StringFlag{Name: "title", Usage: "Document title", Required: true},
					&cli.StringFlag{Name: "content", Usage: "Document content", Required: true},
					&cli.StringFlag{Name: "category", Usage: "Document category"},
				},
				Action: create,
			},
			{
				Name:      "search",
				Usage:     "Search for similar documents",
				ArgsUsage: "<text>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Usage: "Maximum number of results", Value: docsearch.DefaultSearchLimit},
				},
				Action: search,
			},
			{
				Name:      "update",
				Usage:     "Update a document",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "New title"},
					&cli.StringFlag{Name: "content", Usage: "New content"},
					&cli.StringFlag{Name: "category", Usage: "New category"},
					&cli.BoolFlag{Name: "clear-category", Usage: "Clear the category"},
				},
				Action: update,
			},
			{
				Name:      "delete",
				Usage:     "Delete a document",
				ArgsUsage: "<id>",
				Action:    remove,
			},
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		log.Fatal(err.Error())
	}
}

func connect(cmd *cli.Command) (docsearch.Service, *nats.Conn, error) {
	nc, err := nats.Connect(cmd.String("nats-url"),
		nats.Name("Document Search Client"),
	)
	if err != nil {
		return nil, nil, err
	}

	endpoints := natsT.MakeEndpoints(nc, cmd.String("prefix"))

	var svc docsearch.Service
	svc = docsearch.ProxyMiddleware(endpoints)(svc)

	return svc, nc, nil
}

func create(ctx context.Context, cmd *cli.Command) error {
	svc, nc, err := connect(cmd)
	if err != nil {
		return err
	}
	defer nc.Close()

	doc := docsearch.Document{
		ID:      uint64(cmd.Uint("id")),
		Title:   cmd.String("title"),
		Content: cmd.String("content"),
	}

	if category := cmd.String("category"); category != "" {
		doc.Category = &category
	}

	created, err := svc.CreateDocument(ctx, doc)
	if err != nil {
		return err
	}

	return printJSON(created)
}

func search(ctx context.Context, cmd *cli.Command) error {
	text := cmd.Args().First()
	if text == "" {
		return errors.New("search text is required")
	}

	svc, nc, err := connect(cmd)
	if err != nil {
		return err
	}
	defer nc.Close()

	results, err := svc.SearchDocuments(ctx, text, int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	return printJSON(results)
}

func update(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd)
	if err != nil {
		return err
	}

	var patch docsearch.DocumentPatch

	if cmd.IsSet("title") {
		title := cmd.String("title")
		patch.Title = &title
	}

	if cmd.IsSet("content") {
		content := cmd.String("content")
		patch.Content = &content
	}

	switch {
	case cmd.Bool("clear-category"):
		patch.Category = docsearch.OptionalString{Present: true}
	case cmd.IsSet("category"):
		patch.Category = docsearch.OptionalString{
			Present: true,
			Valid:   true,
			Value:   cmd.String("category"),
		}
	}

	svc, nc, err := connect(cmd)
	if err != nil {
		return err
	}
	defer nc.Close()

	found, err := svc.UpdateDocument(ctx, id, patch)
	if err != nil {
		return err
	}

	if !found {
		return docsearch.ErrNotFound
	}

	fmt.Println("document updated successfully")
	return nil
}

func remove(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd)
	if err != nil {
		return err
	}

	svc, nc, err := connect(cmd)
	if err != nil {
		return err
	}
	defer nc.Close()

	found, err := svc.DeleteDocument(ctx, id)
	if err != nil {
		return err
	}

	if !found {
		return docsearch.ErrNotFound
	}

	fmt.Println("document deleted successfully")
	return nil
}

func parseID(cmd *cli.Command) (uint64, error) {
	arg := cmd.Args().First()
	if arg == "" {
		return 0, errors.New("document id is required")
	}

	return strconv.ParseUint(arg, 10, 64)
}

func printJSON(v any) error {
	bs, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(bs))
	return nil
}
