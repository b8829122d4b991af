// Package injector resolve referências a valores externos dentro da configuração
// já decodificada: tags `env:"VAR"` e interpolação ${env.X}, ${ssm./caminho}
// e ${secret.id} em qualquer campo string.
package injector

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/raywall/feed-emulator/pkg/source"
)

// Regex para capturar padrões ${tipo.chave}
// Ex: ${env.API_KEY}, ${ssm./app/config}, ${secret.db_pass}
var pattern = regexp.MustCompile(`\$\{(env|ssm|secret)\.([^}]+)\}`)

// Interfaces para abstrair o SDK da AWS (Permite Mocking)
type SSMClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

type SecretsClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Resolver devolve o valor de uma chave para um tipo de origem (env, ssm, secret).
type Resolver func(ctx context.Context, key string) (string, error)

type Injector struct {
	resolvers map[string]Resolver
}

// New cria um Injector com env e clientes AWS reais, criados só no primeiro uso.
func New() *Injector {
	return NewWith(map[string]Resolver{
		"env": EnvResolver,
		"ssm": func(ctx context.Context, key string) (string, error) {
			cfg, err := source.AWSConfig(ctx, os.Getenv("AWS_REGION"))
			if err != nil {
				return "", err
			}
			return SSMResolver(ssm.NewFromConfig(cfg))(ctx, key)
		},
		"secret": func(ctx context.Context, key string) (string, error) {
			cfg, err := source.AWSConfig(ctx, os.Getenv("AWS_REGION"))
			if err != nil {
				return "", err
			}
			return SecretResolver(secretsmanager.NewFromConfig(cfg))(ctx, key)
		},
	})
}

// NewWith permite substituir as origens (útil em testes).
func NewWith(resolvers map[string]Resolver) *Injector {
	return &Injector{resolvers: resolvers}
}

// EnvResolver lê variáveis de ambiente. Variável ausente vira string vazia.
func EnvResolver(_ context.Context, key string) (string, error) {
	return os.Getenv(key), nil
}

// SSMResolver busca parâmetros no Parameter Store, com decriptação.
func SSMResolver(client SSMClient) Resolver {
	return func(ctx context.Context, path string) (string, error) {
		decrypt := true
		out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           &path,
			WithDecryption: &decrypt,
		})
		if err != nil {
			return "", fmt.Errorf("erro no SSM GetParameter: %w", err)
		}
		if out.Parameter == nil || out.Parameter.Value == nil {
			return "", fmt.Errorf("parâmetro SSM '%s' sem valor", path)
		}
		return *out.Parameter.Value, nil
	}
}

// SecretResolver busca segredos no Secrets Manager. A chave aceita
// "id#campo" para extrair um campo de um segredo JSON.
func SecretResolver(client SecretsClient) Resolver {
	return func(ctx context.Context, key string) (string, error) {
		secretID, field, hasField := strings.Cut(key, "#")

		out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
			SecretId: &secretID,
		})
		if err != nil {
			return "", fmt.Errorf("erro no SecretsManager: %w", err)
		}
		if out.SecretString == nil {
			return "", fmt.Errorf("segredo '%s' sem SecretString", secretID)
		}
		val := *out.SecretString
		if !hasField {
			return val, nil
		}

		var data map[string]interface{}
		if err := json.Unmarshal([]byte(val), &data); err != nil {
			return "", fmt.Errorf("segredo '%s' não é JSON: %w", secretID, err)
		}
		v, ok := data[field]
		if !ok {
			return "", fmt.Errorf("campo '%s' ausente no segredo '%s'", field, secretID)
		}
		return fmt.Sprintf("%v", v), nil
	}
}

func (i *Injector) Inject(ctx context.Context, target interface{}) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("target deve ser um ponteiro para struct não nulo")
	}
	return i.injectRecursive(ctx, v.Elem())
}

func (i *Injector) injectRecursive(ctx context.Context, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for k := 0; k < t.NumField(); k++ {
			field := t.Field(k)
			value := v.Field(k)
			if !field.IsExported() {
				continue
			}

			// 1. Processa Tags (env:"...")
			if err := processStructTag(field, value); err != nil {
				return err
			}

			// 2. Processa Strings com Interpolação "${...}"
			if value.Kind() == reflect.String {
				newValue, err := i.interpolateString(ctx, value.String())
				if err != nil {
					return fmt.Errorf("campo %s: %w", field.Name, err)
				}
				value.SetString(newValue)
				continue
			}

			// 3. Recursão
			if err := i.injectRecursive(ctx, value); err != nil {
				return err
			}
		}

	case reflect.Ptr:
		if !v.IsNil() {
			return i.injectRecursive(ctx, v.Elem())
		}

	case reflect.Slice:
		for j := 0; j < v.Len(); j++ {
			elem := v.Index(j)
			if elem.Kind() == reflect.String {
				newValue, err := i.interpolateString(ctx, elem.String())
				if err != nil {
					return err
				}
				elem.SetString(newValue)
				continue
			}
			if err := i.injectRecursive(ctx, elem); err != nil {
				return err
			}
		}
	}
	return nil
}

// processStructTag aplica o valor da variável de ambiente quando ela existe.
func processStructTag(field reflect.StructField, value reflect.Value) error {
	tag := field.Tag.Get("env")
	if tag == "" {
		return nil
	}
	if val, exists := os.LookupEnv(tag); exists {
		if err := setField(value, val); err != nil {
			return fmt.Errorf("variável %s inválida para o campo %s: %w", tag, field.Name, err)
		}
	}
	return nil
}

// interpolateString realiza a substituição baseada em Regex
func (i *Injector) interpolateString(ctx context.Context, input string) (string, error) {
	if !strings.Contains(input, "${") {
		return input, nil
	}

	var err error
	result := pattern.ReplaceAllStringFunc(input, func(match string) string {
		if err != nil {
			return match
		}
		groups := pattern.FindStringSubmatch(match)
		resolve, ok := i.resolvers[groups[1]]
		if !ok {
			err = fmt.Errorf("origem '%s' não configurada", groups[1])
			return match
		}

		val, resolveErr := resolve(ctx, groups[2])
		if resolveErr != nil {
			err = resolveErr
			return match
		}
		return val
	})

	return result, err
}

func setField(field reflect.Value, val string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(val)
	case reflect.Int, reflect.Int64, reflect.Int32:
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(val)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("tipo %s não suportado", field.Kind())
	}
	return nil
}
