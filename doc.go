// Package feedemulator é um servidor de fixtures para desenvolvimento de
// clientes de feed sem dependência de rede. Ele intercepta requisições de um
// scheme próprio (default "mock") e responde com JSON e imagens enlatados,
// simulando a latência de uma API real em duas fases: cabeçalhos e corpo.
//
// Visão Geral:
// O módulo é dividido em camadas pequenas e testáveis:
// 1. Dados (pkg/fixtures): tabelas imutáveis de posts, usuários e donos.
// 2. Roteamento (pkg/route): padrões como /users/:user_id/posts com parâmetros inteiros.
// 3. Consultas (pkg/query): join de posts com usuários, do mais novo ao mais antigo.
// 4. Entrega (pkg/emulator): resolução e entrega cancelável em duas fases.
//
// Sub-Pacotes de Suporte:
//
// 1. config:
//   - YAML com injeção de ${env.X}, ${ssm./path} e ${secret.id}.
//   - Validação estrutural (validator/v10) e semântica.
//
// 2. source e assets:
//   - Datasets e configs lidos de arquivo, S3 ou DynamoDB.
//   - Imagens servidas de diretório local, S3 ou MinIO, com cache opcional em Redis.
//
// 3. transport:
//   - Servidor HTTP (gorilla/mux), handler para AWS Lambda e um http.RoundTripper
//     que atende o scheme do emulador dentro do próprio processo.
//
// Exemplo de Início Rápido:
//
// Interceptando o scheme "mock" em um *http.Client de testes.
//
//	package main
//
//	import (
//		"context"
//		"io"
//		"log"
//
//		"github.com/raywall/feed-emulator/pkg/config"
//		"github.com/raywall/feed-emulator/pkg/engine"
//		"github.com/raywall/feed-emulator/pkg/transport"
//	)
//
//	func main() {
//		ctx := context.Background()
//
//		// 1. Engine com a configuração padrão (fixtures embutidas)
//		svc, err := engine.NewServiceEngine(ctx, config.Default())
//		if err != nil {
//			log.Fatalf("Erro ao iniciar emulador: %v", err)
//		}
//
//		// 2. Cliente que resolve mock:// em memória
//		client := transport.NewClient(svc.Server)
//		resp, err := client.Get("mock://sc.com/users/2/posts")
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer resp.Body.Close()
//
//		// 3. O corpo fica disponível após a segunda fase de latência
//		body, _ := io.ReadAll(resp.Body)
//		log.Printf("%d %s", resp.StatusCode, body)
//	}
package feedemulator
