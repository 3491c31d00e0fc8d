package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/micro"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/quillio/docsearch"
	"github.com/quillio/docsearch/embedding"
	"github.com/quillio/docsearch/persistence/chromem"
	"github.com/quillio/docsearch/persistence/qdrant"
	"github.com/quillio/docsearch/vector"

	httpT "github.com/quillio/docsearch/transport/http"
	natsT "github.com/quillio/docsearch/transport/nats"
)

func main() {
	cmd := &cli.Command{
		Name:  "docsearch",
		Usage: "Semantic document search service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Usage: "Path to the docsearch working directory",
			},
			&cli.StringFlag{
				Name:  "http-addr",
				Usage: "HTTP server address",
				Value: ":8080",
			},
			&cli.StringFlag{
				Name:    "qdrant-host",
				Usage:   "Qdrant host, overrides the config file",
				Sources: cli.EnvVars("QDRANT_HOST"),
			},
			&cli.IntFlag{
				Name:    "qdrant-port",
				Usage:   "Qdrant gRPC port, overrides the config file",
				Sources: cli.EnvVars("QDRANT_PORT"),
			},
			&cli.StringFlag{
				Name:    "collection",
				Usage:   "Collection name, overrides the config file",
				Sources: cli.EnvVars("COLLECTION_NAME"),
			},
			&cli.BoolFlag{
				Name:  "nats",
				Usage: "Enable NATS transport",
				Value: false,
			},
			&cli.StringFlag{
				Name:    "nats-url",
				Usage:   "NATS server URL",
				Value:   nats.DefaultURL,
				Sources: cli.EnvVars("NATS_URL"),
			},
			&cli.StringFlag{
				Name:  "nats-prefix",
				Usage: "NATS subject prefix",
				Value: "docsearch.documents",
			},
		},
		Action: run,
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		log.Fatal(err.Error())
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		path = filepath.Join(homeDir, ".docsearch")
	}

	log, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer log.Sync()

	zap.ReplaceGlobals(log)

	f, err := os.Open(filepath.Join(path, "config.yaml"))
	if err != nil {
		return err
	}
	defer f.Close()

	var cfg docsearch.Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return err
	}

	if host := cmd.String("qdrant-host"); host != "" {
		cfg.Vector.Host = host
	}

	if port := cmd.Int("qdrant-port"); port != 0 {
		cfg.Vector.Port = int(port)
	}

	if collection := cmd.String("collection"); collection != "" {
		cfg.Vector.Collection = collection
	}

	if cfg.Vector.Path == "" {
		cfg.Vector.Path = filepath.Join(path, "vectors")
	}

	store, err := newStore(cfg.Vector)
	if err != nil {
		return err
	}

	embedder := embedding.NewOpenAIEmbedder(cfg.Embedding)

	svc, err := docsearch.NewService(ctx, embedder, store)
	if err != nil {
		return err
	}
	defer svc.Close()

	svc = docsearch.LoggingMiddleware(log)(svc)

	endpoints := docsearch.EndpointSet{
		CreateDocument:  docsearch.CreateDocumentEndpoint(svc),
		SearchDocuments: docsearch.SearchDocumentsEndpoint(svc),
		UpdateDocument:  docsearch.UpdateDocumentEndpoint(svc),
		DeleteDocument:  docsearch.DeleteDocumentEndpoint(svc),
	}

	r := gin.Default()
	httpT.AddRouters(r, endpoints)

	go r.Run(cmd.String("http-addr"))

	if cmd.Bool("nats") {
		nc, err := nats.Connect(cmd.String("nats-url"),
			nats.Name("Document Search Service"),
		)
		if err != nil {
			return err
		}
		defer nc.Drain()

		srv, err := micro.AddService(nc, micro.Config{
			Name:    "docsearch",
			Version: "1.0.0",
		})
		if err != nil {
			return err
		}
		defer srv.Stop()

		root := srv.AddGroup(cmd.String("nats-prefix"))
		natsT.AddEndpoints(root, endpoints)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sign := <-quit

	log.Info("graceful shutdown", zap.String("signal", sign.String()))
	return nil
}

func newStore(cfg vector.Config) (vector.Store, error) {
	if cfg.Dimension <= 0 {
		cfg.Dimension = embedding.DefaultDimension
	}

	switch cfg.Backend {
	case vector.BackendQdrant, "":
		return qdrant.NewQdrantStore(cfg)
	case vector.BackendChromem:
		return chromem.NewChromemStore(cfg)
	default:
		return nil, errors.New("unsupported vector backend")
	}
}
