package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/raywall/feed-emulator/pkg/config"
	"github.com/raywall/feed-emulator/pkg/engine"
	"github.com/raywall/feed-emulator/pkg/transport"
)

var (
	configPath string
	// Variáveis injetáveis para mocking
	serverStarter = transport.StartHTTPServer
	lambdaStarter = lambda.Start
)

func init() {
	configPath = os.Getenv("CONFIG_FILE_PATH")
}

func main() {
	if err := run(context.Background(), configPath); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

// run contém a lógica principal testável. Sem arquivo de configuração o
// emulador sobe com os defaults (dataset embutido, scheme mock, porta 8080).
func run(ctx context.Context, cfgPath string) error {
	loader := config.NewLoader()

	var (
		cfg *config.Config
		err error
	)
	if cfgPath == "" {
		cfg, err = loader.Parse(ctx, nil)
	} else {
		cfg, err = loader.Load(ctx, cfgPath)
	}
	if err != nil {
		return err
	}

	svcEngine, err := engine.NewServiceEngine(ctx, cfg)
	if err != nil {
		return err
	}

	switch cfg.Service.Runtime {
	case "local":
		return serverStarter(svcEngine)
	case "lambda":
		handler := transport.NewLambdaHandler(svcEngine)
		lambdaStarter(handler.Handle)
		return nil
	default:
		return fmt.Errorf("runtime desconhecido: %s", cfg.Service.Runtime)
	}
}
