package engine

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/raywall/feed-emulator/pkg/assets"
	"github.com/raywall/feed-emulator/pkg/config"
	"github.com/raywall/feed-emulator/pkg/fixtures"
	"github.com/raywall/feed-emulator/pkg/source"
)

// ValidationReport contém o resultado detalhado da análise.
type ValidationReport struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Analyzer agrupa as dependências usadas na inspeção.
type Analyzer struct {
	Fetcher *source.Fetcher
	Assets  *assets.Builder
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{Fetcher: source.NewFetcher(), Assets: assets.NewBuilder()}
}

// Analyze é o atalho de pacote para NewAnalyzer().Analyze.
func Analyze(ctx context.Context, cfg *config.Config) (*ValidationReport, error) {
	return NewAnalyzer().Analyze(ctx, cfg)
}

// Analyze realiza uma inspeção profunda na configuração: regras estruturais,
// carga e consistência do dataset, montagem da origem de assets e coerência
// entre as URLs das fixtures e o que o emulador consegue servir.
func (a *Analyzer) Analyze(ctx context.Context, cfg *config.Config) (*ValidationReport, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuração nula")
	}

	report := &ValidationReport{
		Valid:    true,
		Errors:   []string{},
		Warnings: []string{},
	}

	// 1. Validação estrutural e semântica
	if err := config.NewValidator().Validate(cfg); err != nil {
		report.Errors = append(report.Errors, err.Error())
	}

	// 2. Dataset
	store, err := fixtures.LoadWith(ctx, a.Fetcher, cfg.Fixtures.Source)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("Fixtures: %v", err))
	} else {
		report.Warnings = append(report.Warnings, a.checkURLs(cfg, store)...)
	}

	// 3. Origem de assets
	if _, err := a.Assets.Build(ctx, cfg.Assets); err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("Assets: %v", err))
	} else if dir, ok := localDir(cfg.Assets.Source); ok {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			report.Warnings = append(report.Warnings, fmt.Sprintf("Assets: diretório '%s' não encontrado, todas as imagens responderão 404", dir))
		}
	}

	// 4. Heurísticas de comportamento
	if cfg.Service.UnknownRoute == config.UnknownRouteEmpty || cfg.Service.UnknownRoute == "" {
		report.Warnings = append(report.Warnings,
			"Service.UnknownRoute: 'empty' responde 200 com [] para qualquer rota desconhecida e pode mascarar erros de roteamento")
	}
	if len(cfg.Assets.Extensions) == 0 {
		report.Warnings = append(report.Warnings, "Assets.Extensions: vazio, nenhuma imagem será servida")
	}

	if len(report.Errors) > 0 {
		report.Valid = false
	}
	return report, nil
}

// checkURLs aponta imagens e avatares que o próprio emulador não conseguiria servir.
func (a *Analyzer) checkURLs(cfg *config.Config, store *fixtures.Store) []string {
	var warnings []string
	check := func(owner, raw string) {
		u, err := url.Parse(raw)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: URL inválida '%s'", owner, raw))
			return
		}
		if !strings.EqualFold(u.Scheme, cfg.Service.Scheme) {
			return // URL externa, não passa pelo emulador
		}
		if !slices.Contains(cfg.Assets.Extensions, path.Ext(u.Path)) {
			warnings = append(warnings, fmt.Sprintf("%s: '%s' não tem extensão de asset configurada", owner, raw))
		}
	}

	seenUsers := map[fixtures.UserID]bool{}
	for postID, userID := range store.Ownerships() {
		post, err := store.Post(postID)
		if err != nil {
			continue
		}
		for _, img := range post.Images {
			check(fmt.Sprintf("Post[%d]", postID), img.URL)
		}

		if seenUsers[userID] {
			continue
		}
		seenUsers[userID] = true
		if user, err := store.User(userID); err == nil && user.Avatar.URL != "" {
			check(fmt.Sprintf("User[%d]", userID), user.Avatar.URL)
		}
	}
	return warnings
}

func localDir(uri string) (string, bool) {
	if strings.Contains(uri, "://") && !strings.HasPrefix(uri, "dir://") {
		return "", false
	}
	dir := strings.TrimPrefix(uri, "dir://")
	if dir == "" {
		dir = "."
	}
	return dir, true
}
