package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/raywall/feed-emulator/pkg/config"
	"github.com/raywall/feed-emulator/pkg/engine"
	"github.com/raywall/feed-emulator/pkg/fixtures"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Comandos esperados: validate, generate")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "validate":
		os.Exit(runValidate(context.Background(), os.Args[2:], os.Stdout))
	case "generate":
		if err := runGenerate(os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Println("Comando desconhecido")
		os.Exit(1)
	}
}

// runValidate devolve o exit code: 0 válido, 1 com erros.
func runValidate(ctx context.Context, args []string, out io.Writer) int {
	validateCmd := flag.NewFlagSet("validate", flag.ContinueOnError)
	validateCmd.SetOutput(out)
	filePtr := validateCmd.String("file", "", "Caminho do arquivo YAML ou S3/DynamoDB URI")
	if err := validateCmd.Parse(args); err != nil {
		return 1
	}
	if *filePtr == "" {
		fmt.Fprintln(out, "Erro: flag -file é obrigatória")
		return 1
	}

	jsonOutput := os.Getenv("OUTPUT_FORMAT") == "json"
	if !jsonOutput {
		fmt.Fprintf(out, "🔍 Analisando configuração: %s ...\n", *filePtr)
	}

	// 1. Load (Validação Estrutural)
	cfg, err := config.Load(ctx, *filePtr)
	if err != nil {
		fmt.Fprintf(out, "❌ Erro de Carregamento/Estrutura:\n%v\n", err)
		return 1
	}

	// 2. Analyze (fixtures, assets e heurísticas)
	report, err := engine.Analyze(ctx, cfg)
	if err != nil {
		fmt.Fprintf(out, "❌ Erro interno do analisador: %v\n", err)
		return 1
	}

	// Output JSON para integração com pipelines
	if jsonOutput {
		jsonReport, _ := json.Marshal(report)
		fmt.Fprintln(out, string(jsonReport))
		if !report.Valid {
			return 1
		}
		return 0
	}

	for _, w := range report.Warnings {
		fmt.Fprintf(out, "⚠️  %s\n", w)
	}
	if !report.Valid {
		fmt.Fprintln(out, "❌ A configuração contém erros:")
		for _, e := range report.Errors {
			fmt.Fprintf(out, " - %s\n", e)
		}
		return 1 // Falha no CI
	}

	fmt.Fprintln(out, "✅ Configuração Válida e Pronta para Deploy!")
	return 0
}

// runGenerate escreve um dataset aleatório e consistente em YAML.
func runGenerate(args []string, stdout io.Writer) error {
	generateCmd := flag.NewFlagSet("generate", flag.ContinueOnError)
	generateCmd.SetOutput(stdout)
	users := generateCmd.Int("users", 10, "Quantidade de usuários")
	posts := generateCmd.Int("posts", 20, "Quantidade de posts")
	seed := generateCmd.Int64("seed", 0, "Semente (0 gera um dataset diferente a cada execução)")
	host := generateCmd.String("host", "mock://sc.com", "Prefixo das URLs de imagens e avatares")
	outPath := generateCmd.String("out", "", "Arquivo de saída (default: stdout)")
	if err := generateCmd.Parse(args); err != nil {
		return err
	}

	ds, err := fixtures.Generate(fixtures.GenerateOptions{
		Users: *users,
		Posts: *posts,
		Seed:  *seed,
		Host:  *host,
	})
	if err != nil {
		return err
	}

	data, err := fixtures.Encode(ds)
	if err != nil {
		return err
	}

	if *outPath == "" {
		_, err = stdout.Write(data)
		return err
	}
	return os.WriteFile(*outPath, data, 0o644)
}
